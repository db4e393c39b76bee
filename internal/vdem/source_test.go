package vdem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demtracker/internal/tables"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vdem.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleCSV = `country_name,year,v2x_polyarchy,v2x_libdem
France,2022,0.812,0.771
France,2023,0.821,0.778
United States of America,2023,0.733,0.692
Chad,2023,,
`

func TestLoadCSVLatestYear(t *testing.T) {
	src, err := LoadCSV(writeCSV(t, sampleCSV), 0, tables.Default())
	require.NoError(t, err)

	assert.Equal(t, 2023, src.Year, "defaults to the max year in the file")
	assert.Len(t, src.ByCountry, 3)
}

func TestLoadCSVExplicitYear(t *testing.T) {
	src, err := LoadCSV(writeCSV(t, sampleCSV), 2022, tables.Default())
	require.NoError(t, err)

	assert.Equal(t, 2022, src.Year)
	require.Contains(t, src.ByCountry, "France")
	assert.Equal(t, 0.812, *src.ByCountry["France"].Polyarchy)
}

func TestLoadCSVYearAbsent(t *testing.T) {
	_, err := LoadCSV(writeCSV(t, sampleCSV), 1999, tables.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "year 1999 not found")
}

func TestLoadCSVAliasRemap(t *testing.T) {
	src, err := LoadCSV(writeCSV(t, sampleCSV), 2023, tables.Default())
	require.NoError(t, err)

	assert.Contains(t, src.ByCountry, "United States")
	assert.NotContains(t, src.ByCountry, "United States of America")
}

func TestLoadCSVMissingValues(t *testing.T) {
	src, err := LoadCSV(writeCSV(t, sampleCSV), 2023, tables.Default())
	require.NoError(t, err)

	chad := src.ByCountry["Chad"]
	assert.Nil(t, chad.Polyarchy)
	assert.Nil(t, chad.Libdem)
}

func TestLoadCSVMissingColumns(t *testing.T) {
	path := writeCSV(t, "country_name,year,something_else\nFrance,2023,1\n")
	_, err := LoadCSV(path, 0, tables.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "v2x_polyarchy")
	assert.Contains(t, err.Error(), "available: country_name, year, something_else")
}

func TestLoadCSVDuplicateLastWins(t *testing.T) {
	csv := `country_name,year,v2x_polyarchy,v2x_libdem
France,2023,0.5,0.4
France,2023,0.821,0.778
`
	src, err := LoadCSV(writeCSV(t, csv), 2023, tables.Default())
	require.NoError(t, err)

	assert.Equal(t, 0.821, *src.ByCountry["France"].Polyarchy)
}
