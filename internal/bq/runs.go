package bq

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"github.com/mgoncalves/payables/internal/logger"
	"google.golang.org/api/iterator"
)

// StartRun inserts a new row into payables.recon_runs with status=RUNNING
// and returns the generated run_id.
func StartRun(ctx context.Context, cutoffDate, accountCode string) (string, error) {
	client, err := bigquery.NewClient(ctx, projectID())
	if err != nil {
		return "", fmt.Errorf("StartRun: bigquery client: %w", err)
	}
	defer client.Close()

	return StartRunWithClient(ctx, client, cutoffDate, accountCode)
}

// StartRunWithClient inserts a new row into payables.recon_runs with
// status=RUNNING using the provided BigQuery client.
func StartRunWithClient(ctx context.Context, client *bigquery.Client, cutoffDate, accountCode string) (string, error) {
	runID := uuid.NewString()
	started := time.Now()

	q := client.Query(fmt.Sprintf(`
		INSERT %s.%s (
			run_id,
			started_ts,
			status,
			cutoff_date,
			account_code
		)
		VALUES (
			@run_id,
			@started_ts,
			@status,
			@cutoff_date,
			@account_code
		)
	`, datasetID(), reconRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
		{Name: "started_ts", Value: started},
		{Name: "status", Value: "RUNNING"},
		{Name: "cutoff_date", Value: cutoffDate},
		{Name: "account_code", Value: accountCode},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("StartRun: running insert query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("StartRun: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return "", fmt.Errorf("StartRun: job error: %w", err)
	}

	return runID, nil
}

// MarkRunFailed sets status=FAILED, finished_ts and error_message. Failures
// to record the failure are logged, not returned; the pipeline error that
// caused them matters more.
func MarkRunFailed(ctx context.Context, runID string, runErr error) {
	log := logger.FromContext(ctx)

	client, err := bigquery.NewClient(ctx, projectID())
	if err != nil {
		log.Error().
			Err(err).
			Str("run_id", runID).
			Msg("MarkRunFailed: bigquery client error")
		return
	}
	defer client.Close()

	MarkRunFailedWithClient(ctx, client, runID, runErr)
}

// MarkRunFailedWithClient sets status=FAILED, finished_ts and error_message
// using the provided BigQuery client.
func MarkRunFailedWithClient(ctx context.Context, client *bigquery.Client, runID string, runErr error) {
	log := logger.FromContext(ctx)

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
		const maxLen = 2000
		if len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen]
		}
	}

	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE run_id = @run_id
	`, datasetID(), reconRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "FAILED"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "error_message", Value: errMsg},
		{Name: "run_id", Value: runID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("run_id", runID).
			Msg("MarkRunFailed: running update query")
		return
	}

	status, err := job.Wait(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("run_id", runID).
			Msg("MarkRunFailed: waiting for job")
		return
	}
	if err := status.Err(); err != nil {
		log.Error().
			Err(err).
			Str("run_id", runID).
			Msg("MarkRunFailed: job completed with error")
	}
}

// MarkRunSucceeded sets status=SUCCESS, finished_ts and the row counts,
// clearing error_message.
func MarkRunSucceeded(ctx context.Context, runID string, openRows, paidRows, dueRows int) error {
	client, err := bigquery.NewClient(ctx, projectID())
	if err != nil {
		return fmt.Errorf("MarkRunSucceeded: bigquery client: %w", err)
	}
	defer client.Close()

	return MarkRunSucceededWithClient(ctx, client, runID, openRows, paidRows, dueRows)
}

// MarkRunSucceededWithClient sets status=SUCCESS, finished_ts and the row
// counts using the provided BigQuery client.
func MarkRunSucceededWithClient(ctx context.Context, client *bigquery.Client, runID string, openRows, paidRows, dueRows int) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = "",
		    open_rows = @open_rows,
		    paid_rows = @paid_rows,
		    due_rows = @due_rows
		WHERE run_id = @run_id
	`, datasetID(), reconRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "SUCCESS"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "open_rows", Value: openRows},
		{Name: "paid_rows", Value: paidRows},
		{Name: "due_rows", Value: dueRows},
		{Name: "run_id", Value: runID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkRunSucceeded: running update query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkRunSucceeded: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("MarkRunSucceeded: job error: %w", err)
	}

	return nil
}

// ListRuns returns the most recent reconciliation runs, newest first.
func ListRuns(ctx context.Context, limit int) ([]*ReconRunRow, error) {
	client, err := bigquery.NewClient(ctx, projectID())
	if err != nil {
		return nil, fmt.Errorf("ListRuns: bigquery client: %w", err)
	}
	defer client.Close()

	return ListRunsWithClient(ctx, client, limit)
}

// ListRunsWithClient returns the most recent reconciliation runs using the
// provided BigQuery client.
func ListRunsWithClient(ctx context.Context, client *bigquery.Client, limit int) ([]*ReconRunRow, error) {
	if limit <= 0 {
		limit = 20
	}

	q := client.Query(fmt.Sprintf(`
		SELECT
			run_id,
			started_ts,
			finished_ts,
			status,
			error_message,
			cutoff_date,
			account_code,
			open_rows,
			paid_rows,
			due_rows
		FROM %s.%s
		ORDER BY started_ts DESC
		LIMIT @limit
	`, datasetID(), reconRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "limit", Value: limit},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRuns: query read: %w", err)
	}

	var rows []*ReconRunRow
	for {
		var r ReconRunRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListRuns: iter next: %w", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}
