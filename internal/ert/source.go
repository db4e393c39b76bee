package ert

import (
	"fmt"
	"log"
	"strings"

	"demtracker/internal/tables"
	"demtracker/internal/tabular"
)

// ERT dataset column names (stable across v12-v14). The end year is optional
// in the export; only country, start and type are required.
const (
	ColCountry = "country_name"
	ColStart   = "reg_start"
	ColEnd     = "reg_end" // empty while the episode is ongoing
	ColType    = "reg_type"
)

// Row is one episode row, alias-normalized. Start is nil when the export had
// no usable start year; such rows are dropped later, not treated as errors.
type Row struct {
	Country string
	Type    string
	Start   *int
	End     *int
}

// Source groups the export's episode rows by tracker country name.
type Source struct {
	ByCountry map[string][]Row
	Episodes  int
}

// LoadCSV reads an ERT export and groups its rows by country, remapping
// names through the alias table.
func LoadCSV(path string, t tables.Tables) (*Source, error) {
	log.Printf("Loading ERT CSV: %s ...", path)
	tb, err := tabular.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read CSV: %w", err)
	}

	if missing := tb.MissingColumns(ColCountry, ColStart, ColType); len(missing) > 0 {
		return nil, fmt.Errorf("missing columns [%s]; available: %s",
			strings.Join(missing, ", "), tb.AvailableColumns(30))
	}

	src := &Source{ByCountry: make(map[string][]Row)}
	for _, row := range tb.Rows {
		name := t.CanonicalName(tb.Value(row, ColCountry))
		if name == "" {
			continue
		}
		src.ByCountry[name] = append(src.ByCountry[name], Row{
			Country: name,
			Type:    tb.Value(row, ColType),
			Start:   tabular.Int(tb.Value(row, ColStart)),
			End:     tabular.Int(tb.Value(row, ColEnd)),
		})
		src.Episodes++
	}

	log.Printf("Loaded %d ERT episodes for %d countries.", src.Episodes, len(src.ByCountry))
	return src, nil
}
