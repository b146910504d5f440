package database

import (
	"path/filepath"
	"testing"

	"github.com/bookcatalog/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMigrate_SQLite(t *testing.T) {
	db, err := Connect(config.DriverSQLite, config.SQLiteDSN(filepath.Join(t.TempDir(), "catalog.db")))
	require.NoError(t, err)
	defer db.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	require.NoError(t, Migrate(db, config.DriverSQLite, logger))
	assert.Equal(t, 1, logs.FilterMessage("database migrated").Len())

	// Re-running on an up-to-date schema is a no-op
	require.NoError(t, Migrate(db, config.DriverSQLite, logger))
	assert.Equal(t, 1, logs.FilterMessage("database schema is up to date").Len())

	var version int
	require.NoError(t, db.QueryRow("SELECT version FROM "+migrationsTable).Scan(&version))
	assert.Equal(t, 3, version)

	t.Run("foreign keys are enforced", func(t *testing.T) {
		_, err := db.Exec("INSERT INTO books (title, author, year, pages, genre_id) VALUES ('Orphan', 'Nobody', 2000, 10, 42)")
		assert.Error(t, err)
	})

	t.Run("deleting a genre unlinks its books", func(t *testing.T) {
		res, err := db.Exec("INSERT INTO genres (name) VALUES ('Poetry')")
		require.NoError(t, err)
		genreID, err := res.LastInsertId()
		require.NoError(t, err)

		_, err = db.Exec("INSERT INTO books (title, author, year, pages, genre_id) VALUES ('Odes', 'Keats', 1819, 40, ?)", genreID)
		require.NoError(t, err)

		_, err = db.Exec("DELETE FROM genres WHERE id = ?", genreID)
		require.NoError(t, err)

		var linked *int64
		require.NoError(t, db.QueryRow("SELECT genre_id FROM books WHERE title = 'Odes'").Scan(&linked))
		assert.Nil(t, linked)
	})

	t.Run("check constraints", func(t *testing.T) {
		_, err := db.Exec("INSERT INTO books (title, author, year, pages) VALUES ('Zero', 'Nobody', 2000, 0)")
		assert.Error(t, err)

		_, err = db.Exec("INSERT INTO users (username, email, password_hash, role) VALUES ('eve', 'eve@example.com', 'x', 'ROOT')")
		assert.Error(t, err)
	})
}

func TestMigrate_UnsupportedDriver(t *testing.T) {
	db, err := Connect(config.DriverSQLite, config.SQLiteDSN(filepath.Join(t.TempDir(), "catalog.db")))
	require.NoError(t, err)
	defer db.Close()

	err = Migrate(db, "postgres", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestConnect_InvalidDriver(t *testing.T) {
	_, err := Connect("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}
