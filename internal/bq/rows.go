// Package bq persists reconciliation results and run records in BigQuery:
// the approved "due for payment" invoices land in payables.invoices and
// every pipeline execution is tracked in payables.recon_runs.
package bq

import (
	"fmt"
	"math/big"
	"os"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/mgoncalves/payables/internal/dataset"
)

const (
	defaultProjectID = "payables-prod"
	defaultDatasetID = "payables"
	invoicesTable    = "invoices"
	reconRunsTable   = "recon_runs"
)

// projectID and datasetID may be overridden per environment.
func projectID() string {
	if v := os.Getenv("PAYABLES_BQ_PROJECT"); v != "" {
		return v
	}
	return defaultProjectID
}

func datasetID() string {
	if v := os.Getenv("PAYABLES_BQ_DATASET"); v != "" {
		return v
	}
	return defaultDatasetID
}

// InvoiceRow is one due-for-payment invoice in payables.invoices.
type InvoiceRow struct {
	RunID string `bigquery:"run_id"` // REQUIRED

	DocumentType   string `bigquery:"document_type"`   // NULLABLE
	DocumentNumber string `bigquery:"document_number"` // REQUIRED
	AccountCode    string `bigquery:"account_code"`    // NULLABLE

	DueDate     bigquery.NullDate `bigquery:"due_date"`     // NULLABLE
	PostingDate bigquery.NullDate `bigquery:"posting_date"` // NULLABLE

	Balance *big.Rat `bigquery:"balance"` // NULLABLE NUMERIC

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// ReconRunRow is one pipeline execution in payables.recon_runs.
type ReconRunRow struct {
	RunID string `bigquery:"run_id"`

	StartedAt  time.Time              `bigquery:"started_ts"`
	FinishedAt bigquery.NullTimestamp `bigquery:"finished_ts"`

	Status       string `bigquery:"status"`
	ErrorMessage string `bigquery:"error_message"`

	CutoffDate  string `bigquery:"cutoff_date"`
	AccountCode string `bigquery:"account_code"`

	OpenRows bigquery.NullInt64 `bigquery:"open_rows"`
	PaidRows bigquery.NullInt64 `bigquery:"paid_rows"`
	DueRows  bigquery.NullInt64 `bigquery:"due_rows"`
}

// InvoiceColumns names the dataset columns RowsFromDataset reads.
type InvoiceColumns struct {
	DocumentType   string
	DocumentNumber string
	AccountCode    string
	DueDate        string
	PostingDate    string
	Balance        string
}

// RowsFromDataset maps a normalized dataset into insertable invoice rows.
// The document number column is required; the rest are optional and missing
// cells map to NULL.
func RowsFromDataset(ds *dataset.Dataset, cols InvoiceColumns, runID string) ([]*InvoiceRow, error) {
	docIdx, err := ds.ColumnIndex(cols.DocumentNumber)
	if err != nil {
		return nil, fmt.Errorf("RowsFromDataset: %w", err)
	}

	now := time.Now()
	rows := make([]*InvoiceRow, 0, ds.NumRows())
	for i := 0; i < ds.NumRows(); i++ {
		row := &InvoiceRow{
			RunID:          runID,
			DocumentNumber: ds.At(i, docIdx).Str(),
			CreatedTS:      now,
		}
		row.DocumentType = optionalString(ds, i, cols.DocumentType)
		row.AccountCode = optionalString(ds, i, cols.AccountCode)
		row.DueDate = optionalDate(ds, i, cols.DueDate)
		row.PostingDate = optionalDate(ds, i, cols.PostingDate)
		row.Balance = optionalNumeric(ds, i, cols.Balance)
		rows = append(rows, row)
	}
	return rows, nil
}

func optionalString(ds *dataset.Dataset, row int, column string) string {
	if column == "" || !ds.HasColumn(column) {
		return ""
	}
	v, _ := ds.Value(row, column)
	if v.IsMissing() {
		return ""
	}
	return v.Str()
}

func optionalDate(ds *dataset.Dataset, row int, column string) bigquery.NullDate {
	if column == "" || !ds.HasColumn(column) {
		return bigquery.NullDate{}
	}
	v, _ := ds.Value(row, column)
	d, ok := v.Date()
	if !ok {
		return bigquery.NullDate{}
	}
	return bigquery.NullDate{Date: d, Valid: true}
}

func optionalNumeric(ds *dataset.Dataset, row int, column string) *big.Rat {
	if column == "" || !ds.HasColumn(column) {
		return nil
	}
	v, _ := ds.Value(row, column)
	n, ok := v.Number()
	if !ok {
		return nil
	}
	return n.Rat()
}
