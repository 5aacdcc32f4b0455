package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/emiliopalmerini/expconv/migrations"
)

// Migration represents a single database migration with up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

var upPattern = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

// EnsureMigrationsTable creates the schema_migrations table if it doesn't exist.
func EnsureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// GetCurrentVersion returns the current migration version and dirty state.
func GetCurrentVersion(ctx context.Context, db *sql.DB) (int, bool, error) {
	var version int
	var dirty int

	err := db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return version, dirty == 1, nil
}

// SetVersion sets the migration version and dirty state.
func SetVersion(ctx context.Context, db *sql.DB, version int, dirty bool) error {
	dirtyInt := 0
	if dirty {
		dirtyInt = 1
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}

	if version > 0 || dirty {
		_, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, dirtyInt)
		return err
	}
	return nil
}

// Load returns the embedded migrations sorted by version.
func Load() ([]Migration, error) {
	return LoadFS(migrations.FS)
}

// LoadFS reads NNN_name.up.sql / NNN_name.down.sql pairs from fsys.
func LoadFS(fsys fs.FS) ([]Migration, error) {
	var result []Migration

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := upPattern.FindStringSubmatch(path.Base(p))
		if matches == nil {
			return nil
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return fmt.Errorf("invalid migration version in %s: %w", p, err)
		}
		name := matches[2]

		upSQL, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		downPath := path.Join(path.Dir(p), fmt.Sprintf("%s_%s.down.sql", matches[1], name))
		downSQL, err := fs.ReadFile(fsys, downPath)
		if err != nil {
			downSQL = nil
		}

		result = append(result, Migration{
			Version: version,
			Name:    name,
			UpSQL:   string(upSQL),
			DownSQL: string(downSQL),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})

	return result, nil
}

// RunMigration executes a single migration (up or down), marking the schema
// dirty until every statement has succeeded.
func RunMigration(ctx context.Context, db *sql.DB, out io.Writer, m Migration, up bool) error {
	direction := "up"
	sqlContent := m.UpSQL
	targetVersion := m.Version
	if !up {
		direction = "down"
		sqlContent = m.DownSQL
		targetVersion = m.Version - 1
	}

	fmt.Fprintf(out, "  %s %03d_%s...\n", direction, m.Version, m.Name)

	if err := SetVersion(ctx, db, m.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}

	for _, stmt := range SplitSQL(sqlContent) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %d %s: %w\nSQL: %s", m.Version, direction, err, stmt)
		}
	}

	if err := SetVersion(ctx, db, targetVersion, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}

	return nil
}

// SplitSQL splits a SQL script on semicolons and drops empty statements.
func SplitSQL(script string) []string {
	var stmts []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// MigrateUp runs all pending up migrations.
func MigrateUp(ctx context.Context, db *sql.DB, out io.Writer, all []Migration, currentVersion int) error {
	count := 0
	for _, m := range all {
		if m.Version <= currentVersion {
			continue
		}
		if err := RunMigration(ctx, db, out, m, true); err != nil {
			return err
		}
		count++
	}

	if count == 0 {
		fmt.Fprintln(out, "No migrations to run")
		return nil
	}

	newVersion, _, err := GetCurrentVersion(ctx, db)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated to version %d (%d migrations applied)\n", newVersion, count)
	return nil
}

// MigrateUpTo runs up migrations to a specific version.
func MigrateUpTo(ctx context.Context, db *sql.DB, out io.Writer, all []Migration, currentVersion, targetVersion int) error {
	for _, m := range all {
		if m.Version <= currentVersion {
			continue
		}
		if m.Version > targetVersion {
			break
		}
		if err := RunMigration(ctx, db, out, m, true); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Migrated to version %d\n", targetVersion)
	return nil
}

// MigrateDownTo runs down migrations to a specific version.
func MigrateDownTo(ctx context.Context, db *sql.DB, out io.Writer, all []Migration, currentVersion, targetVersion int) error {
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if m.Version > currentVersion {
			continue
		}
		if m.Version <= targetVersion {
			break
		}
		if m.DownSQL == "" {
			return fmt.Errorf("no down migration for version %d", m.Version)
		}
		if err := RunMigration(ctx, db, out, m, false); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Migrated to version %d\n", targetVersion)
	return nil
}

// MigrateTo brings the schema to targetVersion, up or down as needed.
func MigrateTo(ctx context.Context, db *sql.DB, out io.Writer, targetVersion int) error {
	all, currentVersion, err := prepare(ctx, db)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Current version: %d\n", currentVersion)
	switch {
	case targetVersion > currentVersion:
		return MigrateUpTo(ctx, db, out, all, currentVersion, targetVersion)
	case targetVersion < currentVersion:
		return MigrateDownTo(ctx, db, out, all, currentVersion, targetVersion)
	default:
		fmt.Fprintln(out, "Already at target version")
		return nil
	}
}

// Up runs all pending migrations, reporting progress to out.
func Up(ctx context.Context, db *sql.DB, out io.Writer) error {
	all, currentVersion, err := prepare(ctx, db)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Current version: %d\n", currentVersion)
	return MigrateUp(ctx, db, out, all, currentVersion)
}

// RunAll runs all pending migrations silently.
func RunAll(ctx context.Context, db *sql.DB) error {
	all, currentVersion, err := prepare(ctx, db)
	if err != nil {
		return err
	}
	for _, m := range all {
		if m.Version <= currentVersion {
			continue
		}
		if err := RunMigration(ctx, db, io.Discard, m, true); err != nil {
			return err
		}
	}
	return nil
}

func prepare(ctx context.Context, db *sql.DB) ([]Migration, int, error) {
	if err := EnsureMigrationsTable(ctx, db); err != nil {
		return nil, 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, dirty, err := GetCurrentVersion(ctx, db)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return nil, 0, fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	all, err := Load()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load migrations: %w", err)
	}
	return all, currentVersion, nil
}
