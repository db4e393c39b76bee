package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demtracker/pkg/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := database.Config{Path: filepath.Join(t.TempDir(), "history.db")}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestRecordAndList(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	runID, err := Record(ctx, db, Run{
		Tool:    "update-vdem",
		Source:  "V-Dem-CY-Full+Others-v14.1.csv",
		Year:    2023,
		Updated: 2,
	}, []Change{
		{Country: "France", Field: "polyarchy", Old: "0.812", New: "0.821"},
		{Country: "France", Field: "trend", New: "added 2023=0.821"},
		{Country: "Hungary", Field: "libdem", Old: "0.401", New: "0.39"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	runs, err := RecentRuns(ctx, db, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, "update-vdem", runs[0].Tool)
	assert.Equal(t, 2023, runs[0].Year)
	assert.Equal(t, 2, runs[0].Updated)
	assert.False(t, runs[0].CreatedAt.IsZero())

	changes, err := RunChanges(ctx, db, runID)
	require.NoError(t, err)
	require.Len(t, changes, 3)
	assert.Equal(t, Change{Country: "France", Field: "polyarchy", Old: "0.812", New: "0.821"}, changes[0])
}

func TestRecordWithoutYear(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	runID, err := Record(ctx, db, Run{Tool: "import-ert", Source: "ERT_v14.csv", Updated: 1}, nil)
	require.NoError(t, err)

	runs, err := RecentRuns(ctx, db, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 0, runs[0].Year, "tools without a target year store NULL")

	changes, err := RunChanges(ctx, db, runID)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestRecentRunsOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	older := time.Now().UTC().Add(-time.Hour)
	_, err := Record(ctx, db, Run{ID: "run-a", Tool: "import-ert", Source: "a.csv", CreatedAt: older}, nil)
	require.NoError(t, err)
	_, err = Record(ctx, db, Run{ID: "run-b", Tool: "update-vdem", Source: "b.csv", CreatedAt: older.Add(time.Minute)}, nil)
	require.NoError(t, err)

	runs, err := RecentRuns(ctx, db, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].ID, "newest first")
	assert.Equal(t, "run-a", runs[1].ID)
}
