// Command update-vdem refreshes the polyarchy and liberal democracy scores in
// countryData.json from a V-Dem country-year CSV export, and appends the
// year's point to each country's polyarchy_trend.
//
// Download the dataset from https://www.v-dem.net/data/the-v-dem-dataset/
// (Country-Year: V-Dem Full+Others) and run:
//
//	update-vdem --csv V-Dem-CY-Full+Others-v14.1.csv
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"demtracker/internal/dataset"
	"demtracker/internal/history"
	"demtracker/internal/tables"
	"demtracker/internal/vdem"
	"demtracker/pkg/database"
)

func main() {
	var (
		csvPath    = flag.String("csv", "", "path to V-Dem country-year CSV (required)")
		year       = flag.Int("year", 0, "year to pull (default: latest available)")
		jsonPath   = flag.String("json", dataset.DefaultPath, "path to countryData.json")
		tablesPath = flag.String("tables", "", "optional YAML override for lookup tables")
		dryRun     = flag.Bool("dry-run", false, "show changes without writing")
		noHistory  = flag.Bool("no-history", false, "skip recording the run in the history db")
	)
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("--csv is required")
	}
	if _, err := os.Stat(*csvPath); err != nil {
		log.Fatalf("CSV not found: %s", *csvPath)
	}
	if _, err := os.Stat(*jsonPath); err != nil {
		log.Fatalf("JSON not found: %s", *jsonPath)
	}

	t := tables.Default()
	if *tablesPath != "" {
		var err error
		if t, err = tables.Load(*tablesPath); err != nil {
			log.Fatalf("load tables: %v", err)
		}
	}

	src, err := vdem.LoadCSV(*csvPath, *year, t)
	if err != nil {
		log.Fatalf("load V-Dem csv: %v", err)
	}

	doc, err := dataset.Load(*jsonPath)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}

	report := vdem.Update(doc, src)
	report.Print(*dryRun)

	if *dryRun {
		return
	}

	if err := dataset.Save(*jsonPath, doc); err != nil {
		log.Fatalf("write dataset: %v", err)
	}
	log.Printf("✅ written to %s", *jsonPath)

	if *noHistory {
		return
	}
	recordRun(*csvPath, report)
}

func recordRun(source string, report *vdem.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	var changes []history.Change
	for _, cc := range report.Countries {
		for _, fc := range cc.Changes {
			changes = append(changes, history.Change{
				Country: cc.Name,
				Field:   fc.Field,
				Old:     fc.Old,
				New:     fc.New,
			})
		}
	}

	runID, err := history.Record(ctx, db, history.Run{
		Tool:    "update-vdem",
		Source:  source,
		Year:    report.Year,
		Updated: report.Updated,
	}, changes)
	if err != nil {
		log.Fatalf("record run: %v", err)
	}
	log.Printf("recorded run %s", runID)
}
