package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"demtracker/pkg/models"
)

// DefaultPath is where the published site keeps the dataset, relative to the
// repo root.
const DefaultPath = "public/data/countryData.json"

// Load reads and decodes the full tracker document.
func Load(path string) (*models.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc models.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}

// LoadRaw reads the document as untyped JSON. The validator works on this
// form so it can check field presence, which the typed model cannot express.
func LoadRaw(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return raw, nil
}

// RawCountries pulls the countries array out of an untyped document. Entries
// that are not JSON objects come back as nil maps.
func RawCountries(raw map[string]any) []map[string]any {
	arr, _ := raw["countries"].([]any)
	out := make([]map[string]any, len(arr))
	for i, v := range arr {
		m, _ := v.(map[string]any)
		out[i] = m
	}
	return out
}

// Save rewrites the whole document with stable 2-space indentation.
func Save(path string, doc *models.Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
