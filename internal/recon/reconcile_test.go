package recon

import (
	"errors"
	"testing"

	"github.com/mgoncalves/payables/internal/dataset"
	"github.com/mgoncalves/payables/internal/diag"
)

func newPaidSet(t *testing.T, docs ...string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New([]string{"No Doc SAP", "Saldo"})
	if err != nil {
		t.Fatalf("dataset.New failed: %v", err)
	}
	for _, d := range docs {
		ds.AppendRow(dataset.String(d), dataset.String("0,00"))
	}
	return ds
}

func TestReconcile_SetDifference(t *testing.T) {
	open := newOpenSet(t) // DOC001, DOC002, DOC003
	paid := newPaidSet(t, "DOC002")

	got, err := Reconcile(open, paid, "No Doc SAP", diag.Nop())
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	wantDocs := []string{"DOC001", "DOC003"}
	gotDocs := docNumbers(t, got)
	if len(gotDocs) != len(wantDocs) {
		t.Fatalf("Reconcile docs = %v, want %v", gotDocs, wantDocs)
	}
	for i := range wantDocs {
		if gotDocs[i] != wantDocs[i] {
			t.Errorf("Reconcile docs[%d] = %q, want %q (order must be stable)", i, gotDocs[i], wantDocs[i])
		}
	}

	// len(reconcile(A,B)) == len(A) - |matches|
	if got.NumRows() != open.NumRows()-1 {
		t.Errorf("NumRows = %d, want %d", got.NumRows(), open.NumRows()-1)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	open := newOpenSet(t)
	paid := newPaidSet(t, "DOC002")

	once, err := Reconcile(open, paid, "No Doc SAP", diag.Nop())
	if err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}
	twice, err := Reconcile(once, paid, "No Doc SAP", diag.Nop())
	if err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}

	gotOnce := docNumbers(t, once)
	gotTwice := docNumbers(t, twice)
	if len(gotOnce) != len(gotTwice) {
		t.Fatalf("second pass changed row count: %v vs %v", gotOnce, gotTwice)
	}
	for i := range gotOnce {
		if gotOnce[i] != gotTwice[i] {
			t.Errorf("second pass changed row %d: %q vs %q", i, gotOnce[i], gotTwice[i])
		}
	}
}

func TestReconcile_DuplicatePaidNumbersHarmless(t *testing.T) {
	open := newOpenSet(t)
	paid := newPaidSet(t, "DOC002", "DOC002", "DOC002")

	got, err := Reconcile(open, paid, "No Doc SAP", diag.Nop())
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if got.NumRows() != 2 {
		t.Errorf("NumRows = %d, want 2", got.NumRows())
	}
}

func TestReconcile_ExactStringMatch(t *testing.T) {
	open := newOpenSet(t)
	// Padding differs: must NOT match DOC001.
	paid := newPaidSet(t, " DOC001", "doc003")

	got, err := Reconcile(open, paid, "No Doc SAP", diag.Nop())
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if got.NumRows() != 3 {
		t.Errorf("NumRows = %d, want 3 (matching is exact, no trimming or case folding)", got.NumRows())
	}
}

func TestReconcile_MissingColumn(t *testing.T) {
	open := newOpenSet(t)
	paid, _ := dataset.New([]string{"Documento", "Saldo"})
	paid.AppendRow(dataset.String("DOC002"), dataset.String("0,00"))

	_, err := Reconcile(open, paid, "No Doc SAP", diag.Nop())
	var schemaErr *dataset.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
	if schemaErr.Column != "No Doc SAP" {
		t.Errorf("SchemaError.Column = %q, want %q", schemaErr.Column, "No Doc SAP")
	}
}

func TestReconcile_EmptyInput(t *testing.T) {
	open := newOpenSet(t)
	empty := newPaidSet(t)

	_, err := Reconcile(open, empty, "No Doc SAP", diag.Nop())
	var emptyErr *dataset.EmptyInputError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("error = %v, want *EmptyInputError", err)
	}

	_, err = Reconcile(empty, open, "No Doc SAP", diag.Nop())
	if !errors.As(err, &emptyErr) {
		t.Fatalf("error = %v, want *EmptyInputError", err)
	}
}
