package bq

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// InsertInvoices inserts a batch of InvoiceRow into payables.invoices.
func InsertInvoices(ctx context.Context, rows []*InvoiceRow) error {
	client, err := bigquery.NewClient(ctx, projectID())
	if err != nil {
		return fmt.Errorf("InsertInvoices: bigquery client: %w", err)
	}
	defer client.Close()

	return InsertInvoicesWithClient(ctx, client, rows)
}

// InsertInvoicesWithClient inserts a batch of InvoiceRow into
// payables.invoices using the provided BigQuery client.
func InsertInvoicesWithClient(ctx context.Context, client *bigquery.Client, rows []*InvoiceRow) error {
	if len(rows) == 0 {
		return nil
	}

	table := client.DatasetInProject(projectID(), datasetID()).Table(invoicesTable)
	inserter := table.Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertInvoices: inserting rows: %w", err)
	}

	return nil
}
