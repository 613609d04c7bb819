package pipeline

import (
	"context"

	"github.com/mgoncalves/payables/internal/csvio"
	"github.com/mgoncalves/payables/internal/dataset"
)

// FileLoader loads the open and paid datasets from CSV/TSV files. Paths may
// be local or gs:// URIs.
type FileLoader struct {
	OpenPath string
	PaidPath string
}

func (l *FileLoader) LoadOpen(ctx context.Context) (*dataset.Dataset, error) {
	return csvio.ReadFile(ctx, l.OpenPath)
}

func (l *FileLoader) LoadPaid(ctx context.Context) (*dataset.Dataset, error) {
	return csvio.ReadFile(ctx, l.PaidPath)
}

// FileReportWriter writes the due set and the updated ledger to local CSV
// files. An empty path skips that output.
type FileReportWriter struct {
	DuePath    string
	LedgerPath string
}

func (w *FileReportWriter) WriteDue(ctx context.Context, ds *dataset.Dataset) error {
	if w.DuePath == "" {
		return nil
	}
	return csvio.WriteFile(w.DuePath, ds)
}

func (w *FileReportWriter) WriteLedger(ctx context.Context, ds *dataset.Dataset) error {
	if w.LedgerPath == "" {
		return nil
	}
	return csvio.WriteFile(w.LedgerPath, ds)
}
