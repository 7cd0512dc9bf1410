package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Load reads a CSV table: header row of column names, then one row per
// record. Ragged rows are padded with empty cells.
func Load(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]Column, len(header))
	for i, name := range header {
		columns[i].Name = name
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		for i := range columns {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			columns[i].Values = append(columns[i].Values, cell)
		}
	}

	for i := range columns {
		columns[i].Kind = InferKind(columns[i].Values)
	}

	return NewTable(columns), nil
}

// LoadFile loads a CSV table from a file path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Write serializes the table as CSV with a header row.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}

	rows := t.Rows()
	rec := make([]string, len(t.columns))
	for r := 0; r < rows; r++ {
		for i := range t.columns {
			if r < len(t.columns[i].Values) {
				rec[i] = t.columns[i].Values[r]
			} else {
				rec[i] = ""
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table atomically: temp file in the target
// directory, then rename.
func (t *Table) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dmp-out-*.csv")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := t.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
