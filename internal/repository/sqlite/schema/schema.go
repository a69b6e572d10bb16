// Package schema creates the tables the repository needs when a database is opened.
package schema

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed *.up.sql
var schemaFS embed.FS

// Step is one versioned schema file.
type Step struct {
	Version int
	Name    string
	Up      string
}

// Apply executes every schema step that has not been recorded yet.
// Steps are idempotent so re-opening an existing database is a no-op.
func Apply(ctx context.Context, db *sql.DB) error {
	if err := createVersionTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create schema_versions table: %w", err)
	}

	steps, err := Load()
	if err != nil {
		return fmt.Errorf("failed to load schema files: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read applied schema versions: %w", err)
	}

	for _, step := range steps {
		if applied[step.Version] {
			continue
		}
		if err := applyStep(ctx, db, step); err != nil {
			return fmt.Errorf("failed to apply schema step %d (%s): %w", step.Version, step.Name, err)
		}
	}

	return nil
}

func createVersionTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_versions (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	_, err := db.ExecContext(ctx, query)
	return err
}

// Load reads the embedded schema files ordered by version.
func Load() ([]Step, error) {
	entries, err := schemaFS.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var steps []Step
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		version := extractVersion(entry.Name())
		if version == 0 {
			continue
		}

		upSQL, err := schemaFS.ReadFile(entry.Name())
		if err != nil {
			return nil, err
		}

		steps = append(steps, Step{
			Version: version,
			Name:    strings.TrimSuffix(entry.Name(), ".up.sql"),
			Up:      string(upSQL),
		})
	}

	sort.Slice(steps, func(i, j int) bool {
		return steps[i].Version < steps[j].Version
	})

	return steps, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_versions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func applyStep(ctx context.Context, db *sql.DB, step Step) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, step.Up); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_versions (version) VALUES (?)", step.Version); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func extractVersion(filename string) int {
	var version int
	fmt.Sscanf(filename, "%d_", &version)
	return version
}
