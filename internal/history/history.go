// Package history records importer/updater runs in the local sqlite store so
// maintainers can audit what changed across data releases.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded invocation of a maintenance tool. Year is 0 for tools
// that have no target year.
type Run struct {
	ID        string
	Tool      string
	Source    string
	Year      int
	Updated   int
	CreatedAt time.Time
}

// Change is one country-level change made by a run.
type Change struct {
	Country string
	Field   string
	Old     string
	New     string
}

// Record inserts the run and its changes in one transaction and returns the
// minted run ID.
func Record(ctx context.Context, db *sql.DB, run Run, changes []Change) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var year any
	if run.Year > 0 {
		year = run.Year
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, tool, source, year, updated, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Tool, run.Source, year, run.Updated, run.CreatedAt); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_changes (run_id, country, field, old_value, new_value)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, ch := range changes {
		if _, err := stmt.ExecContext(ctx, run.ID, ch.Country, ch.Field, ch.Old, ch.New); err != nil {
			return "", fmt.Errorf("insert change for %s: %w", ch.Country, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	return run.ID, nil
}

// RecentRuns lists the newest runs first.
func RecentRuns(ctx context.Context, db *sql.DB, limit int) ([]Run, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, tool, source, year, updated, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r    Run
			year sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Tool, &r.Source, &year, &r.Updated, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if year.Valid {
			r.Year = int(year.Int64)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// RunChanges lists the country-level changes recorded for a run.
func RunChanges(ctx context.Context, db *sql.DB, runID string) ([]Change, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT country, field, old_value, new_value
		FROM run_changes
		WHERE run_id = ?
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var (
			ch         Change
			oldV, newV sql.NullString
		)
		if err := rows.Scan(&ch.Country, &ch.Field, &oldV, &newV); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		ch.Old = oldV.String
		ch.New = newV.String
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
