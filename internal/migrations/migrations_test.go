package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_UpDownPairs(t *testing.T) {
	ups, err := fs.Glob(MigrationFiles, "*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(MigrationFiles, down)
		require.NoErrorf(t, err, "missing down migration for %s", up)
	}
}

func TestMigrationFiles_SourceParses(t *testing.T) {
	src, err := iofs.New(MigrationFiles, ".")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	require.Equal(t, uint(1), first)

	next, err := src.Next(first)
	require.NoError(t, err)
	require.Equal(t, uint(2), next)
}

func TestMigrationFiles_CreateRequiredTables(t *testing.T) {
	events, err := fs.ReadFile(MigrationFiles, "000001_create_events.up.sql")
	require.NoError(t, err)
	require.Contains(t, string(events), "CREATE TABLE IF NOT EXISTS events")
	require.Contains(t, string(events), "idx_events_site_occurred")

	jobs, err := fs.ReadFile(MigrationFiles, "000002_create_queue_jobs.up.sql")
	require.NoError(t, err)
	require.Contains(t, string(jobs), "CREATE TABLE IF NOT EXISTS queue_jobs")
}
