package recon

import (
	"testing"

	"github.com/mgoncalves/payables/internal/dataset"
	"github.com/mgoncalves/payables/internal/diag"
)

func TestMerge_Concatenates(t *testing.T) {
	a, _ := dataset.New([]string{"No Doc SAP", "Saldo"})
	a.AppendRow(dataset.String("DOC001"), dataset.String("100,00"))
	a.AppendRow(dataset.String("DOC002"), dataset.String("200,00"))

	b, _ := dataset.New([]string{"No Doc SAP", "Saldo"})
	b.AppendRow(dataset.String("DOC003"), dataset.String("300,00"))

	got := Merge(a, b)
	if got.NumRows() != 3 {
		t.Fatalf("NumRows = %d, want 3", got.NumRows())
	}

	idx, _ := got.ColumnIndex("No Doc SAP")
	for i, want := range []string{"DOC001", "DOC002", "DOC003"} {
		if doc := got.At(i, idx).Str(); doc != want {
			t.Errorf("row %d doc = %q, want %q (A rows then B rows)", i, doc, want)
		}
	}
}

func TestMerge_NoDeduplication(t *testing.T) {
	a, _ := dataset.New([]string{"No Doc SAP"})
	a.AppendRow(dataset.String("DOC001"))
	b, _ := dataset.New([]string{"No Doc SAP"})
	b.AppendRow(dataset.String("DOC001"))

	if got := Merge(a, b); got.NumRows() != 2 {
		t.Errorf("NumRows = %d, want 2 (no de-duplication)", got.NumRows())
	}
}

func TestMerge_SchemaUnion(t *testing.T) {
	a, _ := dataset.New([]string{"No Doc SAP", "Saldo"})
	a.AppendRow(dataset.String("DOC001"), dataset.String("100,00"))

	b, _ := dataset.New([]string{"No Doc SAP", "Dt Vencimento"})
	b.AppendRow(dataset.String("DOC002"), dataset.String("01/01/2023"))

	got := Merge(a, b)

	wantCols := []string{"No Doc SAP", "Saldo", "Dt Vencimento"}
	cols := got.Columns()
	if len(cols) != len(wantCols) {
		t.Fatalf("columns = %v, want %v", cols, wantCols)
	}
	for i := range wantCols {
		if cols[i] != wantCols[i] {
			t.Errorf("columns[%d] = %q, want %q", i, cols[i], wantCols[i])
		}
	}

	// A's row has no Dt Vencimento; B's row has no Saldo.
	v, _ := got.Value(0, "Dt Vencimento")
	if !v.IsMissing() {
		t.Errorf("row 0 Dt Vencimento = %v, want missing", v)
	}
	v, _ = got.Value(1, "Saldo")
	if !v.IsMissing() {
		t.Errorf("row 1 Saldo = %v, want missing", v)
	}
	v, _ = got.Value(1, "Dt Vencimento")
	if v.Str() != "01/01/2023" {
		t.Errorf("row 1 Dt Vencimento = %q, want 01/01/2023", v.Str())
	}
}

func TestMerge_EmptyInputsAllowed(t *testing.T) {
	a, _ := dataset.New([]string{"No Doc SAP"})
	b, _ := dataset.New([]string{"No Doc SAP"})
	b.AppendRow(dataset.String("DOC001"))

	if got := Merge(a, b); got.NumRows() != 1 {
		t.Errorf("NumRows = %d, want 1 (merge accepts empty inputs)", got.NumRows())
	}
}

// End-to-end over the stage functions: filter, then reconcile, then coerce,
// then select, mirroring one full payables run.
func TestStages_EndToEnd(t *testing.T) {
	open, _ := dataset.New([]string{"Tipo Doc", "No Doc SAP", "Conta", "Dt Vencimento", "Saldo"})
	open.AppendRow(
		dataset.String("Invoice"), dataset.String("DOC001"), dataset.String("12345"),
		dataset.String("10/01/2023"), dataset.String("1.000,50"),
	)
	open.AppendRow(
		dataset.String("Accounts Payable"), dataset.String("DOC002"), dataset.String("12345"),
		dataset.String("11/01/2023"), dataset.String("2.500,00"),
	)
	open.AppendRow(
		dataset.String("Invoice"), dataset.String("DOC003"), dataset.String("67890"),
		dataset.String("12/01/2023"), dataset.String("10,00"),
	)

	paid, _ := dataset.New([]string{"No Doc SAP"})
	paid.AppendRow(dataset.String("DOC002"))

	sink := diag.Nop()

	filtered, err := FilterOpen(open, "Tipo Doc", "Accounts Payable", "Conta", "12345", sink)
	if err != nil {
		t.Fatalf("FilterOpen failed: %v", err)
	}
	if docs := docNumbers(t, filtered); len(docs) != 1 || docs[0] != "DOC001" {
		t.Fatalf("filtered docs = %v, want [DOC001]", docs)
	}

	// DOC002 was already filtered out, so reconciliation leaves the set unchanged.
	unpaid, err := Reconcile(filtered, paid, "No Doc SAP", sink)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if docs := docNumbers(t, unpaid); len(docs) != 1 || docs[0] != "DOC001" {
		t.Fatalf("reconciled docs = %v, want [DOC001]", docs)
	}

	normalized, err := CoerceDates(unpaid, []string{"Dt Vencimento"}, sink)
	if err != nil {
		t.Fatalf("CoerceDates failed: %v", err)
	}
	normalized, err = CoerceNumber(normalized, "Saldo", sink)
	if err != nil {
		t.Fatalf("CoerceNumber failed: %v", err)
	}

	due, err := SelectDue(normalized, "Dt Vencimento", "15/01/2023", sink)
	if err != nil {
		t.Fatalf("SelectDue failed: %v", err)
	}
	if due.NumRows() != 1 {
		t.Fatalf("due NumRows = %d, want 1", due.NumRows())
	}

	v, _ := due.Value(0, "Saldo")
	n, ok := v.Number()
	if !ok || n.String() != "1000.5" {
		t.Errorf("due balance = %v, want 1000.5", v)
	}
}
