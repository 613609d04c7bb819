package recon

import (
	"github.com/mgoncalves/payables/internal/dataset"
)

// Merge concatenates two datasets: all rows of a followed by all rows of b.
// The merged schema is the union of both schemas in first-seen order;
// columns one input lacks appear as missing values in its rows. No
// de-duplication and no schema validation.
func Merge(a, b *dataset.Dataset) *dataset.Dataset {
	columns := a.Columns()
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		seen[c] = struct{}{}
	}
	for _, c := range b.Columns() {
		if _, ok := seen[c]; !ok {
			columns = append(columns, c)
			seen[c] = struct{}{}
		}
	}

	out, _ := dataset.New(columns)
	appendRows(out, a, columns)
	appendRows(out, b, columns)
	return out
}

func appendRows(dst, src *dataset.Dataset, columns []string) {
	for i := 0; i < src.NumRows(); i++ {
		row := make([]dataset.Value, len(columns))
		for j, name := range columns {
			idx, err := src.ColumnIndex(name)
			if err != nil {
				row[j] = dataset.Missing
				continue
			}
			row[j] = src.At(i, idx)
		}
		dst.AppendRow(row...)
	}
}
