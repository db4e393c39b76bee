package tables

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tables bundles the lookup data shared by the maintenance tools: V-Dem →
// tracker country-name aliases, episode type labels, and the enumerations the
// validator checks against. The tools take a Tables value instead of reading
// package globals, so tests can substitute their own.
type Tables struct {
	Aliases        map[string]string `yaml:"aliases"`
	EpisodeLabels  map[string]string `yaml:"episode_labels"`
	Statuses       []string          `yaml:"statuses"`
	Regions        []string          `yaml:"regions"`
	RequiredFields []string          `yaml:"required_fields"`
}

// Default returns the built-in tables, matching the published dataset.
func Default() Tables {
	return Tables{
		// V-Dem country names → tracker country names where they differ.
		// Stable across recent V-Dem releases (v13/v14).
		Aliases: map[string]string{
			"United States of America":          "United States",
			"Republic of Korea":                 "South Korea",
			"Bolivia (Plurinational State of)":  "Bolivia",
			"Venezuela, Bolivarian Republic of": "Venezuela",
			"Iran, Islamic Republic of":         "Iran",
		},
		// ERT regime type codes → human-readable labels.
		EpisodeLabels: map[string]string{
			"autocratization": "autocratization",
			"democratization": "democratization",
			"stabilization":   "stable period",
		},
		Statuses: []string{"stable", "recovering", "at risk", "backsliding", "autocracy"},
		Regions:  []string{"Latin America", "Europe", "Asia", "Africa", "North America", "Middle East"},
		RequiredFields: []string{
			"name", "iso2", "region",
			"V-Dem_polyarchy_index", "libdem_index",
			"ERT_episodes", "BTI_governance_score",
			"DEED_event_counts", "status_indicator",
		},
	}
}

// Load reads a YAML override file on top of the defaults. Map entries are
// merged (file entries win); list fields are replaced wholesale when the file
// sets them.
func Load(path string) (Tables, error) {
	t := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tables file: %w", err)
	}
	if err := yaml.Unmarshal(b, &t); err != nil {
		return t, fmt.Errorf("parse tables file %s: %w", path, err)
	}
	return t, nil
}

// CanonicalName maps an external source's country name onto the tracker's
// spelling. Names without an alias pass through unchanged.
func (t Tables) CanonicalName(name string) string {
	if mapped, ok := t.Aliases[name]; ok {
		return mapped
	}
	return name
}

// EpisodeLabel lower-cases and trims a raw ERT type code and maps it through
// the label table, falling back to the cleaned code itself.
func (t Tables) EpisodeLabel(code string) string {
	cleaned := strings.ToLower(strings.TrimSpace(code))
	if label, ok := t.EpisodeLabels[cleaned]; ok {
		return label
	}
	return cleaned
}

// ValidStatus reports whether s is a known status indicator. Matching is
// case-insensitive.
func (t Tables) ValidStatus(s string) bool {
	s = strings.ToLower(s)
	for _, v := range t.Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ValidRegion reports whether s is a known region. Matching is exact.
func (t Tables) ValidRegion(s string) bool {
	for _, v := range t.Regions {
		if s == v {
			return true
		}
	}
	return false
}
