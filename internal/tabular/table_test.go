package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	path := writeCSV(t, "Country_Name,year,score\nFrance,2023,0.821\nChad,2023\n")

	tb, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"country_name", "year", "score"}, tb.Columns, "header names are lower-cased")
	require.Len(t, tb.Rows, 2)
	assert.Equal(t, "France", tb.Value(tb.Rows[0], "country_name"))
	assert.Equal(t, "0.821", tb.Value(tb.Rows[0], "score"))
	assert.Equal(t, "", tb.Value(tb.Rows[1], "score"), "short rows read as empty")
	assert.Equal(t, "", tb.Value(tb.Rows[0], "nope"), "unknown columns read as empty")
}

func TestReadFileEmpty(t *testing.T) {
	path := writeCSV(t, "")
	_, err := ReadFile(path)
	require.Error(t, err)
}

func TestMissingColumns(t *testing.T) {
	path := writeCSV(t, "country_name,year\nFrance,2023\n")
	tb, err := ReadFile(path)
	require.NoError(t, err)

	assert.Empty(t, tb.MissingColumns("country_name", "year"))
	assert.Equal(t, []string{"v2x_polyarchy", "v2x_libdem"}, tb.MissingColumns("country_name", "v2x_polyarchy", "v2x_libdem"))
}

func TestAvailableColumns(t *testing.T) {
	path := writeCSV(t, "a,b,c\n1,2,3\n")
	tb, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "a, b, c", tb.AvailableColumns(30))
	assert.Equal(t, "a, b", tb.AvailableColumns(2))
}

func TestFloat(t *testing.T) {
	require.NotNil(t, Float("0.821"))
	assert.Equal(t, 0.821, *Float("0.821"))

	assert.Nil(t, Float(""))
	assert.Nil(t, Float("NA"))
	assert.Nil(t, Float("NaN"))
	assert.Nil(t, Float("garbage"))
}

func TestInt(t *testing.T) {
	require.NotNil(t, Int("2021"))
	assert.Equal(t, 2021, *Int("2021"))

	require.NotNil(t, Int("2021.0"), "float-formatted years are accepted")
	assert.Equal(t, 2021, *Int("2021.0"))

	assert.Nil(t, Int(""))
	assert.Nil(t, Int("nan"))
}
