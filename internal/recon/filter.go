// Package recon implements the invoice reconciliation stages: open-invoice
// filtering, paid-set reconciliation, type coercion of locale text, due-date
// selection and ledger merging. Every stage is a pure function over a
// dataset snapshot; fatal conditions surface as typed errors from the
// dataset package and degraded cells are reported through the injected
// diagnostics sink.
package recon

import (
	"github.com/mgoncalves/payables/internal/dataset"
	"github.com/mgoncalves/payables/internal/diag"
)

// FilterOpen narrows a dataset to invoices open for payment: rows whose
// document type is not excludeValue and whose account code matches
// accountCode. Both tests are membership checks so multi-value criteria can
// be added without changing the row walk.
func FilterOpen(ds *dataset.Dataset, typeColumn, excludeValue, accountColumn, accountCode string, sink diag.Sink) (*dataset.Dataset, error) {
	if ds.NumRows() == 0 {
		sink.Error("cannot filter open invoices: dataset is empty", nil)
		return nil, &dataset.EmptyInputError{Op: "filter open invoices"}
	}

	typeIdx, err := ds.ColumnIndex(typeColumn)
	if err != nil {
		sink.Error("document type column not found", diag.Fields{"column": typeColumn})
		return nil, err
	}
	accountIdx, err := ds.ColumnIndex(accountColumn)
	if err != nil {
		sink.Error("account column not found", diag.Fields{"column": accountColumn})
		return nil, err
	}

	excluded := map[string]struct{}{excludeValue: {}}
	allowed := map[string]struct{}{accountCode: {}}

	out := dataset.NewLike(ds)
	for i := 0; i < ds.NumRows(); i++ {
		if _, skip := excluded[ds.At(i, typeIdx).Str()]; skip {
			continue
		}
		if _, ok := allowed[ds.At(i, accountIdx).Str()]; !ok {
			continue
		}
		out.AppendRow(ds.Row(i)...)
	}
	return out, nil
}
