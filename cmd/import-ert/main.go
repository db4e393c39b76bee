// Command import-ert updates ERT_episodes in countryData.json from a V-Dem
// "Episodes of Regime Transformation" CSV export.
//
// Download the ERT dataset from https://www.v-dem.net/data/dataset-archive/
// and run:
//
//	import-ert --csv ERT_v14.csv
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"demtracker/internal/dataset"
	"demtracker/internal/ert"
	"demtracker/internal/history"
	"demtracker/internal/tables"
	"demtracker/pkg/database"
)

func main() {
	var (
		csvPath    = flag.String("csv", "", "path to ERT CSV file (required)")
		jsonPath   = flag.String("json", dataset.DefaultPath, "path to countryData.json")
		tablesPath = flag.String("tables", "", "optional YAML override for lookup tables")
		dryRun     = flag.Bool("dry-run", false, "print changes without writing")
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

	src, err := ert.LoadCSV(*csvPath, t)
	if err != nil {
		log.Fatalf("load ERT csv: %v", err)
	}

	doc, err := dataset.Load(*jsonPath)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}

	report := ert.Import(doc, src, t)
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

func recordRun(source string, report *ert.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	changes := make([]history.Change, 0, len(report.Changes))
	for _, cc := range report.Changes {
		changes = append(changes, history.Change{
			Country: cc.Name,
			Field:   "ERT_episodes",
			Old:     strconv.Itoa(cc.OldCount),
			New:     strconv.Itoa(cc.NewCount),
		})
	}

	runID, err := history.Record(ctx, db, history.Run{
		Tool:    "import-ert",
		Source:  source,
		Updated: report.Updated,
	}, changes)
	if err != nil {
		log.Fatalf("record run: %v", err)
	}
	log.Printf("recorded run %s", runID)
}
