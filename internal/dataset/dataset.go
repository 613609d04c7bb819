// Package dataset holds the in-memory tabular model shared by every stage of
// the payables pipeline: an ordered row sequence over a fixed column schema,
// with cells typed as string, date, number or missing.
package dataset

import (
	"fmt"
	"sort"
)

// Dataset is an ordered sequence of rows sharing a uniform column schema.
// The schema is fixed at construction; column lookups are validated against
// it so that a missing column surfaces as a SchemaError at a single point.
//
// Transformations never mutate a caller-owned dataset: every stage builds a
// new snapshot and row accessors return copies.
type Dataset struct {
	cols  []string
	index map[string]int
	rows  [][]Value
}

// New creates an empty dataset with the given column schema. Column order is
// preserved; duplicate names are rejected.
func New(columns []string) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("dataset: schema must have at least one column")
	}
	index := make(map[string]int, len(columns))
	cols := make([]string, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("dataset: duplicate column %q in schema", name)
		}
		index[name] = i
		cols[i] = name
	}
	return &Dataset{cols: cols, index: index, rows: nil}, nil
}

// NewLike returns an empty dataset sharing d's schema.
func NewLike(d *Dataset) *Dataset {
	out, _ := New(d.cols)
	return out
}

// Columns returns the schema column names in order.
func (d *Dataset) Columns() []string {
	cols := make([]string, len(d.cols))
	copy(cols, d.cols)
	return cols
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return len(d.rows) }

// HasColumn reports whether the schema contains the named column.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// ColumnIndex returns the position of the named column, or a SchemaError if
// the schema does not contain it.
func (d *Dataset) ColumnIndex(name string) (int, error) {
	i, ok := d.index[name]
	if !ok {
		return 0, &SchemaError{Column: name}
	}
	return i, nil
}

// AppendRow appends one row. The number of values must match the schema.
func (d *Dataset) AppendRow(values ...Value) error {
	if len(values) != len(d.cols) {
		return fmt.Errorf("dataset: row has %d values, schema has %d columns", len(values), len(d.cols))
	}
	row := make([]Value, len(values))
	copy(row, values)
	d.rows = append(d.rows, row)
	return nil
}

// At returns the cell at the given row and column position.
func (d *Dataset) At(row, col int) Value {
	return d.rows[row][col]
}

// SetAt replaces the cell at the given row and column position.
func (d *Dataset) SetAt(row, col int, v Value) {
	d.rows[row][col] = v
}

// Value returns the cell at the given row in the named column.
func (d *Dataset) Value(row int, column string) (Value, error) {
	i, err := d.ColumnIndex(column)
	if err != nil {
		return Value{}, err
	}
	return d.rows[row][i], nil
}

// Row returns a copy of the row at the given position.
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.rows[i]))
	copy(row, d.rows[i])
	return row
}

// Clone returns a deep snapshot of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := NewLike(d)
	out.rows = make([][]Value, len(d.rows))
	for i, row := range d.rows {
		cp := make([]Value, len(row))
		copy(cp, row)
		out.rows[i] = cp
	}
	return out
}

// Sorted returns a new dataset with rows reordered by the given comparison.
// The sort is stable: rows comparing equal keep their relative order.
func (d *Dataset) Sorted(less func(a, b []Value) bool) *Dataset {
	out := d.Clone()
	sort.SliceStable(out.rows, func(i, j int) bool { return less(out.rows[i], out.rows[j]) })
	return out
}
