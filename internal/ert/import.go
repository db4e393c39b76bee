package ert

import (
	"fmt"
	"sort"

	"demtracker/internal/tables"
	"demtracker/pkg/models"
)

// CountryChange records an episode-count transition for one country.
type CountryChange struct {
	Name     string
	OldCount int
	NewCount int
}

// Report summarizes one importer run over the document.
type Report struct {
	Total   int
	Updated int
	Changes []CountryChange
}

// BuildEpisodes converts a country's export rows into episode records, sorted
// ascending by start year. Rows without a start year are dropped. The type
// code is mapped through the label table and each episode gets a derived
// description, with "ongoing" standing in for a missing end year.
func BuildEpisodes(rows []Row, t tables.Tables) []models.Episode {
	episodes := make([]models.Episode, 0, len(rows))
	for _, row := range rows {
		if row.Start == nil {
			continue
		}
		label := t.EpisodeLabel(row.Type)
		endText := "ongoing"
		if row.End != nil {
			endText = fmt.Sprintf("%d", *row.End)
		}
		episodes = append(episodes, models.Episode{
			Type:        label,
			StartYear:   *row.Start,
			EndYear:     row.End,
			Description: fmt.Sprintf("ERT-recorded %s episode (%d–%s).", label, *row.Start, endText),
		})
	}
	sort.SliceStable(episodes, func(i, j int) bool { return episodes[i].StartYear < episodes[j].StartYear })
	return episodes
}

// Import replaces ERT_episodes for every document country that has at least
// one row in the source; countries with no rows keep whatever they had. The
// report lists only countries whose episode count changed.
func Import(doc *models.Document, src *Source, t tables.Tables) *Report {
	rep := &Report{Total: len(doc.Countries)}

	for _, c := range doc.Countries {
		episodes := BuildEpisodes(src.ByCountry[c.Name], t)
		if len(episodes) == 0 {
			continue
		}

		oldCount := len(c.Episodes)
		if len(episodes) != oldCount {
			rep.Updated++
			rep.Changes = append(rep.Changes, CountryChange{Name: c.Name, OldCount: oldCount, NewCount: len(episodes)})
		}
		c.Episodes = episodes
	}

	return rep
}

// Print writes the per-country count transitions and the run summary.
func (r *Report) Print(dryRun bool) {
	for _, cc := range r.Changes {
		fmt.Printf("%s: %d → %d episodes\n", cc.Name, cc.OldCount, cc.NewCount)
	}
	verb := "Updated"
	if dryRun {
		verb = "[DRY RUN] Would update"
	}
	fmt.Printf("\n%s %d countries.\n", verb, r.Updated)
}
