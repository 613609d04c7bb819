package recon

import (
	"github.com/mgoncalves/payables/internal/dataset"
	"github.com/mgoncalves/payables/internal/diag"
)

// Reconcile removes from the open dataset every row whose document number
// appears in the paid dataset. Matching is exact string equality on the
// named column; duplicates in the paid set are harmless. The open dataset's
// row order is preserved.
func Reconcile(open, paid *dataset.Dataset, documentColumn string, sink diag.Sink) (*dataset.Dataset, error) {
	openIdx, err := open.ColumnIndex(documentColumn)
	if err != nil {
		sink.Error("document number column missing from open dataset", diag.Fields{"column": documentColumn})
		return nil, err
	}
	paidIdx, err := paid.ColumnIndex(documentColumn)
	if err != nil {
		sink.Error("document number column missing from paid dataset", diag.Fields{"column": documentColumn})
		return nil, err
	}

	if open.NumRows() == 0 || paid.NumRows() == 0 {
		sink.Error("cannot reconcile: one or both datasets are empty", diag.Fields{
			"open_rows": open.NumRows(),
			"paid_rows": paid.NumRows(),
		})
		return nil, &dataset.EmptyInputError{Op: "reconcile invoices"}
	}

	paidNumbers := make(map[string]struct{}, paid.NumRows())
	for i := 0; i < paid.NumRows(); i++ {
		paidNumbers[paid.At(i, paidIdx).Str()] = struct{}{}
	}

	out := dataset.NewLike(open)
	for i := 0; i < open.NumRows(); i++ {
		if _, alreadyPaid := paidNumbers[open.At(i, openIdx).Str()]; alreadyPaid {
			continue
		}
		out.AppendRow(open.Row(i)...)
	}
	return out, nil
}
