package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Table is a CSV file read into memory with a header-index map, so cells can
// be addressed by column name. Column names are trimmed and lower-cased; both
// V-Dem exports already use lower_snake_case column names.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// ReadFile loads a whole CSV into a Table. Rows may have varying field
// counts; lookups past the end of a short row come back empty.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %s is empty", path)
	}

	t := &Table{
		Columns: make([]string, 0, len(records[0])),
		Rows:    records[1:],
		index:   make(map[string]int, len(records[0])),
	}
	for i, name := range records[0] {
		name = strings.TrimSpace(strings.ToLower(name))
		t.Columns = append(t.Columns, name)
		t.index[name] = i
	}
	return t, nil
}

// MissingColumns returns the subset of required column names absent from the
// header, in the order given.
func (t *Table) MissingColumns(required ...string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := t.index[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// AvailableColumns renders up to max header names for error messages.
func (t *Table) AvailableColumns(max int) string {
	cols := t.Columns
	if len(cols) > max {
		cols = cols[:max]
	}
	return strings.Join(cols, ", ")
}

// Value returns the trimmed cell for the named column, or "" when the column
// is unknown or the row is short.
func (t *Table) Value(row []string, col string) string {
	idx, ok := t.index[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Float parses a cell as a number. Empty cells and the NA/NaN markers the
// research exports use come back nil, as does anything unparsable.
func Float(raw string) *float64 {
	if isMissing(raw) {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Int parses a cell as an integer year. Values like "2021.0" are accepted;
// missing markers and garbage come back nil.
func Int(raw string) *int {
	f := Float(raw)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

func isMissing(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "na", "nan", "null":
		return true
	}
	return false
}
