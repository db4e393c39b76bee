// Package validate runs the pre-publication check battery over the tracker
// document. It is strictly read-only: every finding is collected and reported
// together, nothing stops the scan early.
package validate

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"demtracker/internal/dataset"
	"demtracker/internal/tables"
)

//go:embed schema.json
var schemaJSON []byte

// Validator holds the lookup tables and the compiled structural schema.
type Validator struct {
	Tables tables.Tables
	schema *jsonschema.Schema
}

// New compiles the embedded document schema.
func New(t tables.Tables) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("countryData.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile("countryData.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{Tables: t, schema: schema}, nil
}

// Validate checks the untyped document and returns every finding. The schema
// gate runs first and catches type-level breakage; the per-country checks
// then cover presence, ranges, enumerations and ordering.
func (v *Validator) Validate(raw map[string]any) []string {
	var findings []string

	if err := v.schema.Validate(any(raw)); err != nil {
		findings = append(findings, "schema: "+strings.TrimSpace(err.Error()))
	}

	seen := make(map[string]bool)
	for i, c := range dataset.RawCountries(raw) {
		label := fmt.Sprintf("[index %d]", i)
		if name, ok := str(c, "name"); ok && name != "" {
			label = name
		}

		if seen[label] {
			findings = append(findings, fmt.Sprintf("%s: duplicate entry", label))
		}
		seen[label] = true

		for _, field := range v.Tables.RequiredFields {
			if _, ok := c[field]; !ok {
				findings = append(findings, fmt.Sprintf("%s: missing field '%s'", label, field))
			}
		}

		poly, hasPoly := num(c, "V-Dem_polyarchy_index")
		lib, hasLib := num(c, "libdem_index")
		bti, hasBTI := num(c, "BTI_governance_score")

		if hasPoly && (poly < 0 || poly > 1) {
			findings = append(findings, fmt.Sprintf("%s: V-Dem_polyarchy_index %v out of range [0,1]", label, poly))
		}
		if hasLib && (lib < 0 || lib > 1) {
			findings = append(findings, fmt.Sprintf("%s: libdem_index %v out of range [0,1]", label, lib))
		}
		if hasBTI && (bti < 1 || bti > 10) {
			findings = append(findings, fmt.Sprintf("%s: BTI_governance_score %v out of range [1,10]", label, bti))
		}

		// Liberal democracy is a strict subset measure of electoral
		// democracy; a gap above 0.05 signals a data error.
		if hasPoly && hasLib && lib > poly+0.05 {
			findings = append(findings, fmt.Sprintf("%s: libdem_index (%v) > polyarchy (%v), unusual, please verify", label, lib, poly))
		}

		status, _ := str(c, "status_indicator")
		if !v.Tables.ValidStatus(status) {
			findings = append(findings, fmt.Sprintf("%s: status_indicator '%s' not in [%s]",
				label, strings.ToLower(status), strings.Join(v.Tables.Statuses, ", ")))
		}

		region, _ := str(c, "region")
		if !v.Tables.ValidRegion(region) {
			findings = append(findings, fmt.Sprintf("%s: region '%s' not in [%s]",
				label, region, strings.Join(v.Tables.Regions, ", ")))
		}

		findings = append(findings, v.checkEpisodes(label, c)...)
		findings = append(findings, v.checkTrend(label, c)...)
	}

	return findings
}

func (v *Validator) checkEpisodes(label string, c map[string]any) []string {
	var findings []string
	episodes, _ := c["ERT_episodes"].([]any)
	for j, raw := range episodes {
		ep, _ := raw.(map[string]any)
		if ep == nil {
			findings = append(findings, fmt.Sprintf("%s: ERT episode %d is not an object", label, j))
			continue
		}
		if _, ok := ep["start_year"]; !ok {
			findings = append(findings, fmt.Sprintf("%s: ERT episode %d missing start_year", label, j))
		}
		if _, ok := ep["type"]; !ok {
			findings = append(findings, fmt.Sprintf("%s: ERT episode %d missing type", label, j))
		}
		start, hasStart := num(ep, "start_year")
		end, hasEnd := num(ep, "end_year")
		if hasStart && hasEnd && end < start {
			findings = append(findings, fmt.Sprintf("%s: ERT episode end_year (%v) before start_year (%v)", label, end, start))
		}
	}
	return findings
}

func (v *Validator) checkTrend(label string, c map[string]any) []string {
	var findings []string
	trend, _ := c["polyarchy_trend"].([]any)

	prev := 0.0
	hasPrev := false
	sorted := true
	for _, raw := range trend {
		pt, _ := raw.(map[string]any)
		if pt == nil {
			continue
		}
		if year, ok := num(pt, "year"); ok {
			if hasPrev && year < prev {
				sorted = false
			}
			prev, hasPrev = year, true
		}
		if value, ok := num(pt, "value"); ok && (value < 0 || value > 1) {
			year, _ := num(pt, "year")
			findings = append(findings, fmt.Sprintf("%s: trend value %v for year %v out of range", label, value, year))
		}
	}
	if !sorted {
		findings = append(findings, fmt.Sprintf("%s: polyarchy_trend years not sorted", label))
	}
	return findings
}

func num(m map[string]any, key string) (float64, bool) {
	v, ok := m[key].(float64)
	return v, ok
}

func str(m map[string]any, key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}
