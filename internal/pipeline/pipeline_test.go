package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mgoncalves/payables/internal/dataset"
	"github.com/mgoncalves/payables/internal/diag"
	"github.com/mgoncalves/payables/internal/pipeline"
)

// MockLoader is a mock implementation of Loader for testing.
type MockLoader struct {
	LoadOpenFunc func(ctx context.Context) (*dataset.Dataset, error)
	LoadPaidFunc func(ctx context.Context) (*dataset.Dataset, error)
}

func (m *MockLoader) LoadOpen(ctx context.Context) (*dataset.Dataset, error) {
	return m.LoadOpenFunc(ctx)
}

func (m *MockLoader) LoadPaid(ctx context.Context) (*dataset.Dataset, error) {
	return m.LoadPaidFunc(ctx)
}

// MockReportWriter is a mock implementation of ReportWriter for testing.
type MockReportWriter struct {
	Due    *dataset.Dataset
	Ledger *dataset.Dataset
}

func (m *MockReportWriter) WriteDue(ctx context.Context, ds *dataset.Dataset) error {
	m.Due = ds
	return nil
}

func (m *MockReportWriter) WriteLedger(ctx context.Context, ds *dataset.Dataset) error {
	m.Ledger = ds
	return nil
}

// MockRunLog captures run-log calls.
type MockRunLog struct {
	Started   int
	Failed    []error
	Succeeded int
}

func (m *MockRunLog) StartRun(ctx context.Context, cutoffDate, accountCode string) (string, error) {
	m.Started++
	return "test-run-id", nil
}

func (m *MockRunLog) MarkRunFailed(ctx context.Context, runID string, runErr error) {
	m.Failed = append(m.Failed, runErr)
}

func (m *MockRunLog) MarkRunSucceeded(ctx context.Context, runID string, openRows, paidRows, dueRows int) error {
	m.Succeeded++
	return nil
}

func openDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New([]string{"Tipo Doc", "No Doc SAP", "Conta", "Dt Vencimento", "Dt Lançamento", "Dt Documento", "Saldo"})
	if err != nil {
		t.Fatalf("dataset.New failed: %v", err)
	}
	rows := [][]string{
		{"Invoice", "DOC001", "2.1.01.01.001", "10/07/2025", "01/07/2025", "01/07/2025", "1.000,50"},
		{"Contas a Pagar", "DOC002", "2.1.01.01.001", "11/07/2025", "01/07/2025", "01/07/2025", "2.500,00"},
		{"Invoice", "DOC003", "9.9.99.99.999", "12/07/2025", "01/07/2025", "01/07/2025", "10,00"},
		{"Invoice", "DOC004", "2.1.01.01.001", "05/07/2025", "01/07/2025", "01/07/2025", "300,00"},
		{"Invoice", "DOC005", "2.1.01.01.001", "01/09/2025", "01/07/2025", "01/07/2025", "99,99"},
	}
	for _, r := range rows {
		vals := make([]dataset.Value, len(r))
		for i, c := range r {
			vals[i] = dataset.String(c)
		}
		ds.AppendRow(vals...)
	}
	return ds
}

func paidDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New([]string{"No Doc SAP", "Saldo"})
	if err != nil {
		t.Fatalf("dataset.New failed: %v", err)
	}
	ds.AppendRow(dataset.String("DOC004"), dataset.String("300,00"))
	return ds
}

func TestRun_EndToEnd(t *testing.T) {
	loader := &MockLoader{
		LoadOpenFunc: func(ctx context.Context) (*dataset.Dataset, error) { return openDataset(t), nil },
		LoadPaidFunc: func(ctx context.Context) (*dataset.Dataset, error) { return paidDataset(t), nil },
	}
	writer := &MockReportWriter{}
	runlog := &MockRunLog{}

	params := pipeline.Params{CutoffDate: "30/07/2025"}
	state, err := pipeline.Run(context.Background(), loader, writer, runlog, params, diag.Nop())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if state.RunID != "test-run-id" {
		t.Errorf("RunID = %q, want test-run-id", state.RunID)
	}

	// DOC002 excluded by type, DOC003 by account, DOC004 already paid,
	// DOC005 due after the cutoff. Only DOC001 survives.
	if writer.Due == nil || writer.Due.NumRows() != 1 {
		t.Fatalf("due rows = %v, want 1", writer.Due)
	}
	doc, _ := writer.Due.Value(0, "No Doc SAP")
	if doc.Str() != "DOC001" {
		t.Errorf("due doc = %q, want DOC001", doc.Str())
	}

	balance, _ := writer.Due.Value(0, "Saldo")
	n, ok := balance.Number()
	if !ok || n.String() != "1000.5" {
		t.Errorf("due balance = %v, want 1000.5", balance)
	}

	// Ledger = paid rows followed by newly due rows.
	if writer.Ledger == nil || writer.Ledger.NumRows() != 2 {
		t.Fatalf("ledger rows = %v, want 2", writer.Ledger)
	}
	first, _ := writer.Ledger.Value(0, "No Doc SAP")
	second, _ := writer.Ledger.Value(1, "No Doc SAP")
	if first.Str() != "DOC004" || second.Str() != "DOC001" {
		t.Errorf("ledger order = [%q, %q], want [DOC004, DOC001]", first.Str(), second.Str())
	}

	if runlog.Started != 1 || runlog.Succeeded != 1 || len(runlog.Failed) != 0 {
		t.Errorf("runlog = started %d, succeeded %d, failed %d; want 1/1/0",
			runlog.Started, runlog.Succeeded, len(runlog.Failed))
	}
}

func TestRun_StageFailurePropagatesAndMarksRun(t *testing.T) {
	loader := &MockLoader{
		LoadOpenFunc: func(ctx context.Context) (*dataset.Dataset, error) { return openDataset(t), nil },
		LoadPaidFunc: func(ctx context.Context) (*dataset.Dataset, error) {
			// Paid set without the document column: reconciliation must fail.
			ds, _ := dataset.New([]string{"Documento"})
			ds.AppendRow(dataset.String("DOC004"))
			return ds, nil
		},
	}
	writer := &MockReportWriter{}
	runlog := &MockRunLog{}

	params := pipeline.Params{CutoffDate: "30/07/2025"}
	_, err := pipeline.Run(context.Background(), loader, writer, runlog, params, diag.Nop())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var schemaErr *dataset.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Errorf("error = %v, want wrapped *SchemaError", err)
	}
	if schemaErr != nil && schemaErr.Column != "No Doc SAP" {
		t.Errorf("SchemaError.Column = %q, want No Doc SAP", schemaErr.Column)
	}

	if len(runlog.Failed) != 1 {
		t.Errorf("failed marks = %d, want 1", len(runlog.Failed))
	}
	if runlog.Succeeded != 0 {
		t.Errorf("succeeded marks = %d, want 0", runlog.Succeeded)
	}
	if writer.Due != nil {
		t.Error("reports written despite failed run")
	}
}

func TestRun_LoaderErrorPropagates(t *testing.T) {
	wantErr := errors.New("export not found")
	loader := &MockLoader{
		LoadOpenFunc: func(ctx context.Context) (*dataset.Dataset, error) { return nil, wantErr },
		LoadPaidFunc: func(ctx context.Context) (*dataset.Dataset, error) { return paidDataset(t), nil },
	}
	runlog := &MockRunLog{}

	_, err := pipeline.Run(context.Background(), loader, &MockReportWriter{}, runlog, pipeline.Params{CutoffDate: "30/07/2025"}, diag.Nop())
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want wrapped %v", err, wantErr)
	}
	if len(runlog.Failed) != 1 {
		t.Errorf("failed marks = %d, want 1", len(runlog.Failed))
	}
}

func TestParamsWithDefaults(t *testing.T) {
	p := pipeline.Params{CutoffDate: "30/07/2025"}.WithDefaults()

	if p.TypeColumn != pipeline.DefaultTypeColumn {
		t.Errorf("TypeColumn = %q, want default", p.TypeColumn)
	}
	if p.DocumentColumn != pipeline.DefaultDocumentColumn {
		t.Errorf("DocumentColumn = %q, want default", p.DocumentColumn)
	}
	if len(p.DateColumns) != 3 {
		t.Errorf("DateColumns = %v, want 3 defaults", p.DateColumns)
	}
	if p.CutoffDate != "30/07/2025" {
		t.Errorf("CutoffDate = %q, want preserved", p.CutoffDate)
	}

	overridden := pipeline.Params{TypeColumn: "Doc Type", CutoffDate: "01/01/2026"}.WithDefaults()
	if overridden.TypeColumn != "Doc Type" {
		t.Errorf("TypeColumn = %q, want override preserved", overridden.TypeColumn)
	}
}

func TestNopRunLog_GeneratesRunIDs(t *testing.T) {
	var l pipeline.NopRunLog
	a, err := l.StartRun(context.Background(), "30/07/2025", pipeline.DefaultAccountCode)
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	b, _ := l.StartRun(context.Background(), "30/07/2025", pipeline.DefaultAccountCode)
	if a == "" || a == b {
		t.Errorf("run IDs = (%q, %q), want distinct non-empty", a, b)
	}
}
