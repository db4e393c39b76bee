// Command validate checks countryData.json for common data quality issues.
// Run it after any update to catch missing fields, out-of-range scores or
// broken trend arrays before deploying to the site. It exits non-zero when
// anything is wrong.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"demtracker/internal/dataset"
	"demtracker/internal/tables"
	"demtracker/internal/validate"
)

func main() {
	var (
		jsonPath   = flag.String("json", dataset.DefaultPath, "path to countryData.json")
		tablesPath = flag.String("tables", "", "optional YAML override for lookup tables")
	)
	flag.Parse()

	if _, err := os.Stat(*jsonPath); err != nil {
		log.Fatalf("file not found: %s", *jsonPath)
	}

	t := tables.Default()
	if *tablesPath != "" {
		var err error
		if t, err = tables.Load(*tablesPath); err != nil {
			log.Fatalf("load tables: %v", err)
		}
	}

	v, err := validate.New(t)
	if err != nil {
		log.Fatalf("build validator: %v", err)
	}

	raw, err := dataset.LoadRaw(*jsonPath)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}

	countries := dataset.RawCountries(raw)
	fmt.Printf("Validating %d countries in %s ...\n\n", len(countries), *jsonPath)

	findings := v.Validate(raw)
	if len(findings) > 0 {
		fmt.Printf("Found %d issue(s):\n\n", len(findings))
		for _, f := range findings {
			fmt.Printf("  ✗ %s\n", f)
		}
		os.Exit(1)
	}

	fmt.Printf("✅ all %d countries passed validation.\n", len(countries))
}
