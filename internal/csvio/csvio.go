// Package csvio loads invoice datasets from CSV or TSV sources and writes
// datasets back out. The header row becomes the dataset schema; every cell
// loads as locale text, with typing left to the coercion stages. Sources may
// be local paths or gs:// URIs.
package csvio

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mgoncalves/payables/internal/archive"
	"github.com/mgoncalves/payables/internal/dataset"
)

// Read parses comma-separated data into a dataset. The first row is the
// schema; empty cells load as missing values.
func Read(r io.Reader) (*dataset.Dataset, error) {
	return read(r, ',')
}

// ReadTSV parses tab-separated data, the shape produced by the ERP screen
// export, into a dataset.
func ReadTSV(r io.Reader) (*dataset.Dataset, error) {
	return read(r, '\t')
}

func read(r io.Reader, comma rune) (*dataset.Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csvio: input has no header row")
		}
		return nil, fmt.Errorf("csvio: reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	ds, err := dataset.New(header)
	if err != nil {
		return nil, fmt.Errorf("csvio: %w", err)
	}

	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("csvio: reading row %d: %w", ds.NumRows()+1, err)
		}
		row := make([]dataset.Value, len(header))
		for i := range header {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			if strings.TrimSpace(cell) == "" {
				row[i] = dataset.Missing
				continue
			}
			row[i] = dataset.String(cell)
		}
		if err := ds.AppendRow(row...); err != nil {
			return nil, fmt.Errorf("csvio: %w", err)
		}
	}
	return ds, nil
}

// ReadFile loads a dataset from a local path or a gs:// URI. Tab-separated
// files are detected by a .tsv extension.
func ReadFile(ctx context.Context, path string) (*dataset.Dataset, error) {
	var raw []byte
	if archive.IsGCSURI(path) {
		data, err := archive.Fetch(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("csvio: fetching %s: %w", path, err)
		}
		raw = data
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("csvio: opening %s: %w", path, err)
		}
		raw = data
	}
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return ReadTSV(bytes.NewReader(raw))
	}
	return Read(bytes.NewReader(raw))
}

// Write renders a dataset as CSV: header first, then rows. Dates render as
// DD/MM/YYYY, numbers with a "." decimal point, missing cells as empty
// strings.
func Write(w io.Writer, ds *dataset.Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ds.Columns()); err != nil {
		return fmt.Errorf("csvio: writing header: %w", err)
	}

	cols := len(ds.Columns())
	for i := 0; i < ds.NumRows(); i++ {
		record := make([]string, cols)
		for j := 0; j < cols; j++ {
			record[j] = ds.At(i, j).String()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("csvio: writing row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes a dataset to a local CSV file.
func WriteFile(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvio: creating %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := Write(f, ds); err != nil {
		return err
	}
	return f.Close()
}
