package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/mgoncalves/payables/internal/bq"
	"github.com/mgoncalves/payables/internal/dataset"
)

// Loader supplies the two input datasets. The pipeline does not care how
// they were produced: screen-scraped, file-read or otherwise.
type Loader interface {
	LoadOpen(ctx context.Context) (*dataset.Dataset, error)
	LoadPaid(ctx context.Context) (*dataset.Dataset, error)
}

// ReportWriter consumes the pipeline outputs: the due-for-payment set and
// the updated ledger.
type ReportWriter interface {
	WriteDue(ctx context.Context, ds *dataset.Dataset) error
	WriteLedger(ctx context.Context, ds *dataset.Dataset) error
}

// RunLog records pipeline executions for auditing.
type RunLog interface {
	StartRun(ctx context.Context, cutoffDate, accountCode string) (string, error)
	MarkRunFailed(ctx context.Context, runID string, runErr error)
	MarkRunSucceeded(ctx context.Context, runID string, openRows, paidRows, dueRows int) error
}

// BigQueryRunLog records runs in payables.recon_runs.
type BigQueryRunLog struct{}

func (BigQueryRunLog) StartRun(ctx context.Context, cutoffDate, accountCode string) (string, error) {
	return bq.StartRun(ctx, cutoffDate, accountCode)
}

func (BigQueryRunLog) MarkRunFailed(ctx context.Context, runID string, runErr error) {
	bq.MarkRunFailed(ctx, runID, runErr)
}

func (BigQueryRunLog) MarkRunSucceeded(ctx context.Context, runID string, openRows, paidRows, dueRows int) error {
	return bq.MarkRunSucceeded(ctx, runID, openRows, paidRows, dueRows)
}

// NopRunLog generates run IDs without persisting anything. Used when the
// warehouse is not configured.
type NopRunLog struct{}

func (NopRunLog) StartRun(ctx context.Context, cutoffDate, accountCode string) (string, error) {
	return uuid.NewString(), nil
}

func (NopRunLog) MarkRunFailed(ctx context.Context, runID string, runErr error) {}

func (NopRunLog) MarkRunSucceeded(ctx context.Context, runID string, openRows, paidRows, dueRows int) error {
	return nil
}
