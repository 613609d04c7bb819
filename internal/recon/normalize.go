package recon

import (
	"strings"

	"github.com/mgoncalves/payables/internal/dataset"
	"github.com/mgoncalves/payables/internal/diag"
)

// CoerceDates returns a new dataset with each named column parsed from
// locale text into dates, day-first. Cells that fail to parse become missing
// values and are reported as warnings; a column absent from the schema is a
// SchemaError. Column names are trimmed of surrounding whitespace before
// lookup.
func CoerceDates(ds *dataset.Dataset, columns []string, sink diag.Sink) (*dataset.Dataset, error) {
	indexes := make([]int, 0, len(columns))
	for _, name := range columns {
		idx, err := ds.ColumnIndex(strings.TrimSpace(name))
		if err != nil {
			sink.Error("date column not found", diag.Fields{"column": name})
			return nil, err
		}
		indexes = append(indexes, idx)
	}

	out := ds.Clone()
	for n, idx := range indexes {
		failed := 0
		for i := 0; i < out.NumRows(); i++ {
			v := out.At(i, idx)
			switch v.Kind() {
			case dataset.KindDate, dataset.KindMissing:
				continue
			}
			d, err := dataset.ParseDayFirstDate(v.Str())
			if err != nil {
				out.SetAt(i, idx, dataset.Missing)
				failed++
				continue
			}
			out.SetAt(i, idx, dataset.Date(d))
		}
		if failed > 0 {
			sink.Warn("some values could not be converted to dates and are now missing", diag.Fields{
				"column": strings.TrimSpace(columns[n]),
				"cells":  failed,
			})
		}
	}
	return out, nil
}

// CoerceNumber returns a new dataset with the named column parsed from
// locale numeric text ("1.000,50") into decimals. Cells already numeric are
// untouched; unparsable cells become missing values. A column absent from
// the schema is not an error here: the dataset is returned unchanged and a
// warning is emitted.
func CoerceNumber(ds *dataset.Dataset, column string, sink diag.Sink) (*dataset.Dataset, error) {
	idx, err := ds.ColumnIndex(column)
	if err != nil {
		sink.Warn("numeric column not found, skipping value conversion", diag.Fields{"column": column})
		return ds.Clone(), nil
	}

	out := ds.Clone()
	failed := 0
	for i := 0; i < out.NumRows(); i++ {
		v := out.At(i, idx)
		if v.Kind() != dataset.KindString {
			continue
		}
		n, err := dataset.ParseLocaleNumber(v.Str())
		if err != nil {
			out.SetAt(i, idx, dataset.Missing)
			failed++
			continue
		}
		out.SetAt(i, idx, dataset.Number(n))
	}
	if failed > 0 {
		sink.Warn("some values could not be converted to numbers and are now missing", diag.Fields{
			"column": column,
			"cells":  failed,
		})
	}
	return out, nil
}
