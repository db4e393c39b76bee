package ert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demtracker/internal/tables"
	"demtracker/pkg/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ert.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func iptr(v int) *int { return &v }

func TestLoadCSVGroupsByCountry(t *testing.T) {
	csv := `country_name,reg_start,reg_end,reg_type
France,2017,2021,autocratization
France,2022,,democratization
United States of America,2016,2020,autocratization
`
	src, err := LoadCSV(writeCSV(t, csv), tables.Default())
	require.NoError(t, err)

	assert.Equal(t, 3, src.Episodes)
	assert.Len(t, src.ByCountry["France"], 2)
	assert.Len(t, src.ByCountry["United States"], 1, "names remapped through the alias table")
}

func TestLoadCSVMissingColumns(t *testing.T) {
	path := writeCSV(t, "country_name,reg_end\nFrance,2021\n")
	_, err := LoadCSV(path, tables.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reg_start")
	assert.Contains(t, err.Error(), "reg_type")
	assert.Contains(t, err.Error(), "available: country_name, reg_end")
}

func TestBuildEpisodesScenario(t *testing.T) {
	rows := []Row{
		{Country: "France", Type: "democratization", Start: iptr(2022), End: nil},
		{Country: "France", Type: "autocratization", Start: iptr(2017), End: iptr(2021)},
	}

	episodes := BuildEpisodes(rows, tables.Default())
	require.Len(t, episodes, 2)

	assert.Equal(t, models.Episode{
		Type:        "autocratization",
		StartYear:   2017,
		EndYear:     iptr(2021),
		Description: "ERT-recorded autocratization episode (2017–2021).",
	}, episodes[0], "episodes sorted ascending by start year")

	assert.Equal(t, "democratization", episodes[1].Type)
	assert.Equal(t, 2022, episodes[1].StartYear)
	assert.Nil(t, episodes[1].EndYear)
	assert.Equal(t, "ERT-recorded democratization episode (2022–ongoing).", episodes[1].Description)
}

func TestBuildEpisodesDropsMissingStart(t *testing.T) {
	rows := []Row{
		{Country: "France", Type: "autocratization", Start: nil},
		{Country: "France", Type: "democratization", Start: iptr(2022)},
	}

	episodes := BuildEpisodes(rows, tables.Default())
	require.Len(t, episodes, 1)
	assert.Equal(t, 2022, episodes[0].StartYear)
}

func TestBuildEpisodesLabelMapping(t *testing.T) {
	rows := []Row{
		{Country: "France", Type: " Stabilization ", Start: iptr(2000), End: iptr(2010)},
		{Country: "France", Type: "regression", Start: iptr(2011)},
	}

	episodes := BuildEpisodes(rows, tables.Default())
	require.Len(t, episodes, 2)
	assert.Equal(t, "stable period", episodes[0].Type)
	assert.Equal(t, "regression", episodes[1].Type, "unmapped codes fall back to the raw code")
}

func TestImportReplacesEpisodes(t *testing.T) {
	doc := &models.Document{Countries: []*models.Country{
		{Name: "France", Episodes: []models.Episode{{Type: "stale", StartYear: 1990}}},
		{Name: "Germany", Episodes: []models.Episode{{Type: "stable period", StartYear: 1949}}},
	}}
	src := &Source{ByCountry: map[string][]Row{
		"France": {
			{Country: "France", Type: "autocratization", Start: iptr(2017), End: iptr(2021)},
			{Country: "France", Type: "democratization", Start: iptr(2022)},
		},
	}}

	rep := Import(doc, src, tables.Default())

	assert.Equal(t, 1, rep.Updated)
	require.Len(t, rep.Changes, 1)
	assert.Equal(t, CountryChange{Name: "France", OldCount: 1, NewCount: 2}, rep.Changes[0])

	assert.Len(t, doc.Countries[0].Episodes, 2, "episode list replaced, not merged")
	assert.Len(t, doc.Countries[1].Episodes, 1, "countries with no rows keep their episodes")
}

func TestImportEqualCountStillReplaces(t *testing.T) {
	doc := &models.Document{Countries: []*models.Country{
		{Name: "France", Episodes: []models.Episode{{Type: "stale", StartYear: 1990}}},
	}}
	src := &Source{ByCountry: map[string][]Row{
		"France": {{Country: "France", Type: "autocratization", Start: iptr(2017)}},
	}}

	rep := Import(doc, src, tables.Default())

	assert.Equal(t, 0, rep.Updated, "only count changes are reported")
	assert.Empty(t, rep.Changes)
	assert.Equal(t, "autocratization", doc.Countries[0].Episodes[0].Type, "content is still replaced")
}

func TestImportIdempotent(t *testing.T) {
	doc := &models.Document{Countries: []*models.Country{{Name: "France"}}}
	src := &Source{ByCountry: map[string][]Row{
		"France": {{Country: "France", Type: "autocratization", Start: iptr(2017), End: iptr(2021)}},
	}}

	first := Import(doc, src, tables.Default())
	require.Equal(t, 1, first.Updated)

	second := Import(doc, src, tables.Default())
	assert.Equal(t, 0, second.Updated)
	assert.Len(t, doc.Countries[0].Episodes, 1)
}
