package vdem

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"demtracker/internal/tables"
	"demtracker/internal/tabular"
)

// V-Dem country-year column names, stable across recent releases (v13/v14).
const (
	ColCountry   = "country_name"
	ColYear      = "year"
	ColPolyarchy = "v2x_polyarchy" // Electoral Democracy Index
	ColLibdem    = "v2x_libdem"    // Liberal Democracy Index
)

// Row is one country's scores for the selected year. Nil scores were missing
// in the export.
type Row struct {
	Country   string
	Year      int
	Polyarchy *float64
	Libdem    *float64
}

// Source indexes the selected year's rows by tracker country name.
type Source struct {
	Year      int
	ByCountry map[string]Row
}

// LoadCSV reads a V-Dem country-year export and keeps the rows for the
// requested year, remapped through the alias table. A year <= 0 selects the
// latest year present in the file. When the same country appears twice for
// the year, the later row wins and the collision is logged; the upstream
// export gives no ordering guarantee for such duplicates.
func LoadCSV(path string, year int, t tables.Tables) (*Source, error) {
	log.Printf("Loading V-Dem CSV: %s ...", path)
	tb, err := tabular.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read CSV: %w", err)
	}

	if missing := tb.MissingColumns(ColCountry, ColYear, ColPolyarchy, ColLibdem); len(missing) > 0 {
		return nil, fmt.Errorf("could not find columns [%s] in the CSV; available: %s",
			strings.Join(missing, ", "), tb.AvailableColumns(30))
	}

	maxYear := 0
	yearSeen := false
	for _, row := range tb.Rows {
		y := tabular.Int(tb.Value(row, ColYear))
		if y == nil {
			continue
		}
		if *y > maxYear {
			maxYear = *y
		}
		if year > 0 && *y == year {
			yearSeen = true
		}
	}

	if year <= 0 {
		if maxYear == 0 {
			return nil, errors.New("no usable year values in the CSV")
		}
		year = maxYear
		log.Printf("Using latest available year: %d", year)
	} else if !yearSeen {
		return nil, fmt.Errorf("year %d not found in the dataset", year)
	}

	src := &Source{Year: year, ByCountry: make(map[string]Row)}
	for _, row := range tb.Rows {
		y := tabular.Int(tb.Value(row, ColYear))
		if y == nil || *y != year {
			continue
		}
		name := t.CanonicalName(tb.Value(row, ColCountry))
		if name == "" {
			continue
		}
		if _, dup := src.ByCountry[name]; dup {
			log.Printf("warning: duplicate row for %s in %d, keeping the later one", name, year)
		}
		src.ByCountry[name] = Row{
			Country:   name,
			Year:      year,
			Polyarchy: tabular.Float(tb.Value(row, ColPolyarchy)),
			Libdem:    tabular.Float(tb.Value(row, ColLibdem)),
		}
	}

	log.Printf("Loaded %d country rows for year %d.", len(src.ByCountry), year)
	return src, nil
}
