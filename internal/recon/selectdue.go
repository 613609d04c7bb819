package recon

import (
	"github.com/mgoncalves/payables/internal/dataset"
	"github.com/mgoncalves/payables/internal/diag"
)

// SelectDue retains rows whose due date falls on or before the cutoff,
// ordered ascending by due date. The cutoff is locale text, day-first; a
// cutoff that cannot be parsed is an InvalidDateError. If the due-date
// column still holds text it is coerced here first. Rows whose due date is
// missing (including cells that failed coercion) are dropped before the
// comparison; they can never satisfy "due on or before". The sort is
// stable, so rows with equal due dates keep their original order.
func SelectDue(ds *dataset.Dataset, dueColumn, cutoff string, sink diag.Sink) (*dataset.Dataset, error) {
	idx, err := ds.ColumnIndex(dueColumn)
	if err != nil {
		sink.Error("due date column not found", diag.Fields{"column": dueColumn})
		return nil, err
	}
	if ds.NumRows() == 0 {
		sink.Error("cannot select due invoices: dataset is empty", nil)
		return nil, &dataset.EmptyInputError{Op: "select due invoices"}
	}

	cutoffDate, err := dataset.ParseDayFirstDate(cutoff)
	if err != nil {
		sink.Error("cutoff date could not be parsed", diag.Fields{"cutoff": cutoff})
		return nil, &dataset.InvalidDateError{Input: cutoff, Err: err}
	}

	coerced, err := CoerceDates(ds, []string{dueColumn}, sink)
	if err != nil {
		return nil, err
	}

	dropped := 0
	out := dataset.NewLike(coerced)
	for i := 0; i < coerced.NumRows(); i++ {
		due, ok := coerced.At(i, idx).Date()
		if !ok {
			dropped++
			continue
		}
		if due.After(cutoffDate) {
			continue
		}
		out.AppendRow(coerced.Row(i)...)
	}
	if dropped > 0 {
		sink.Warn("rows without a resolvable due date were dropped", diag.Fields{
			"column": dueColumn,
			"rows":   dropped,
		})
	}

	return out.Sorted(func(a, b []dataset.Value) bool {
		da, _ := a[idx].Date()
		db, _ := b[idx].Date()
		return da.Before(db)
	}), nil
}
