package dataset

import "fmt"

// SchemaError reports that an operation referenced a column that is not part
// of a dataset's schema. It is always fatal to the call that raised it.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("column %q is missing from the dataset", e.Column)
}

// EmptyInputError reports that an operation requiring rows received an empty
// dataset. "Not yet loaded" must never be mistaken for "legitimately empty".
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: dataset has no rows", e.Op)
}

// InvalidDateError reports that a cutoff or comparison date string could not
// be parsed. Per-cell parse failures do not raise it; they degrade to
// missing values instead.
type InvalidDateError struct {
	Input string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: %v", e.Input, e.Err)
}

func (e *InvalidDateError) Unwrap() error { return e.Err }
