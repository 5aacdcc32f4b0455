package migrate

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/tursodatabase/go-libsql"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file:"+filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestLoad_Embedded(t *testing.T) {
	all, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, all)

	assert.Equal(t, 1, all[0].Version)
	assert.Equal(t, "create_conversion_runs", all[0].Name)
	assert.Contains(t, all[0].UpSQL, "CREATE TABLE IF NOT EXISTS conversion_runs")
	assert.Contains(t, all[0].DownSQL, "DROP TABLE IF EXISTS conversion_runs")
}

func TestLoadFS_SortsAndPairs(t *testing.T) {
	fsys := fstest.MapFS{
		"010_later.up.sql":    {Data: []byte("CREATE TABLE b (id INTEGER)")},
		"002_first.up.sql":    {Data: []byte("CREATE TABLE a (id INTEGER)")},
		"002_first.down.sql":  {Data: []byte("DROP TABLE a")},
		"README.md":           {Data: []byte("ignored")},
		"003_orphan.down.sql": {Data: []byte("ignored")},
	}

	all, err := LoadFS(fsys)
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, 2, all[0].Version)
	assert.Equal(t, "DROP TABLE a", all[0].DownSQL)
	assert.Equal(t, 10, all[1].Version)
	assert.Empty(t, all[1].DownSQL)
}

func TestSplitSQL(t *testing.T) {
	got := SplitSQL("CREATE TABLE a (x);\n\n  ;CREATE INDEX i ON a (x);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x)", "CREATE INDEX i ON a (x)"}, got)
}

func TestRunAll(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, RunAll(ctx, db))
	assert.True(t, tableExists(t, db, "conversion_runs"))

	version, dirty, err := GetCurrentVersion(ctx, db)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, 1, version)

	// Idempotent.
	require.NoError(t, RunAll(ctx, db))
}

func TestMigrateTo_DownAndUp(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, Up(ctx, db, &out))
	assert.Contains(t, out.String(), "Current version: 0")
	assert.Contains(t, out.String(), "up 001_create_conversion_runs")

	out.Reset()
	require.NoError(t, MigrateTo(ctx, db, &out, 0))
	assert.Contains(t, out.String(), "down 001_create_conversion_runs")
	assert.False(t, tableExists(t, db, "conversion_runs"))

	version, _, err := GetCurrentVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	out.Reset()
	require.NoError(t, MigrateTo(ctx, db, &out, 0))
	assert.Contains(t, out.String(), "Already at target version")

	out.Reset()
	require.NoError(t, Up(ctx, db, &out))
	assert.True(t, tableExists(t, db, "conversion_runs"))

	out.Reset()
	require.NoError(t, Up(ctx, db, &out))
	assert.Contains(t, out.String(), "No migrations to run")
}

func TestRunAll_DirtyState(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, EnsureMigrationsTable(ctx, db))
	require.NoError(t, SetVersion(ctx, db, 1, true))

	err := RunAll(ctx, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dirty state at version 1")
}
