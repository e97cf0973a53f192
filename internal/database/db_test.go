package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pantry.db")

	db, err := NewDB(path, nil)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"kv_entries", "execution_metrics"} {
		var name string
		err := db.SQL.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}

	assert.Equal(t, path, db.Path)

	t.Run("MigrationsAreIdempotent", func(t *testing.T) {
		version, err := RunMigrations(path)
		require.NoError(t, err)
		assert.Equal(t, uint(1), version)
	})
}
