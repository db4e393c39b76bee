package vdem

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"demtracker/pkg/models"
)

// FieldChange is one old → new field transition on a country.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// CountryChange groups the changes applied to one country.
type CountryChange struct {
	Name    string
	Changes []FieldChange
}

// Report summarizes one updater run over the document.
type Report struct {
	Year      int
	Total     int
	Updated   int
	NotFound  []string
	Countries []CountryChange
}

// Update merges the source year's scores into the document in place and
// returns what changed. Scores are rounded to 3 decimals before comparison;
// a field is only touched when the rounded value is present and differs, so
// a missing source value never clobbers stored data. A trend point is added
// once per year, keeping the series sorted, which makes repeated runs with
// the same input a no-op.
func Update(doc *models.Document, src *Source) *Report {
	rep := &Report{Year: src.Year, Total: len(doc.Countries)}

	for _, c := range doc.Countries {
		row, ok := src.ByCountry[c.Name]
		if !ok {
			rep.NotFound = append(rep.NotFound, c.Name)
			continue
		}

		var changes []FieldChange

		if row.Polyarchy != nil {
			p := round3(*row.Polyarchy)
			if c.Polyarchy == nil || *c.Polyarchy != p {
				changes = append(changes, FieldChange{"polyarchy", formatScore(c.Polyarchy), formatFloat(p)})
				v := p
				c.Polyarchy = &v
			}
		}
		if row.Libdem != nil {
			l := round3(*row.Libdem)
			if c.Libdem == nil || *c.Libdem != l {
				changes = append(changes, FieldChange{"libdem", formatScore(c.Libdem), formatFloat(l)})
				v := l
				c.Libdem = &v
			}
		}

		if row.Polyarchy != nil && !hasTrendYear(c.Trend, src.Year) {
			p := round3(*row.Polyarchy)
			c.Trend = append(c.Trend, models.TrendPoint{Year: src.Year, Value: p})
			sort.Slice(c.Trend, func(i, j int) bool { return c.Trend[i].Year < c.Trend[j].Year })
			changes = append(changes, FieldChange{"trend", "", fmt.Sprintf("added %d=%s", src.Year, formatFloat(p))})
		}

		if len(changes) > 0 {
			rep.Updated++
			rep.Countries = append(rep.Countries, CountryChange{Name: c.Name, Changes: changes})
		}
	}

	return rep
}

// Print writes the per-country change log and the run summary to stdout.
func (r *Report) Print(dryRun bool) {
	for _, cc := range r.Countries {
		fmt.Printf("%s:\n", cc.Name)
		for _, fc := range cc.Changes {
			if fc.Old == "" {
				fmt.Printf("  %s: %s\n", fc.Field, fc.New)
				continue
			}
			fmt.Printf("  %s: %s → %s\n", fc.Field, fc.Old, fc.New)
		}
	}

	if len(r.NotFound) > 0 {
		fmt.Printf("\nCountries not found in V-Dem CSV (no update): %s\n", strings.Join(r.NotFound, ", "))
	}

	verb := "Updated"
	if dryRun {
		verb = "[DRY RUN] Would update"
	}
	fmt.Printf("\n%s %d/%d countries.\n", verb, r.Updated, r.Total)
}

func hasTrendYear(trend []models.TrendPoint, year int) bool {
	for _, pt := range trend {
		if pt.Year == year {
			return true
		}
	}
	return false
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatScore(p *float64) string {
	if p == nil {
		return "none"
	}
	return formatFloat(*p)
}
