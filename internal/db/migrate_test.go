package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_UpAndDown(t *testing.T) {
	database, err := Init("sqlite", filepath.Join(t.TempDir(), "nested", "coach.db")+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer func() { _ = Close(database) }()

	require.NoError(t, RunMigrations(database.DB, "sqlite"))

	version, err := Version(database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	for _, table := range []string{"users", "credentials", "goals", "master_logs", "resources", "chats", "chat_messages", "summaries"} {
		var count int
		err = database.Get(&count, `SELECT COUNT(*) FROM `+table)
		assert.NoError(t, err, table)
	}

	require.NoError(t, MigrateDown(database.DB, "sqlite"))
	version, err = Version(database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	var count int
	err = database.Get(&count, `SELECT COUNT(*) FROM master_logs`)
	assert.Error(t, err)
}

func TestGetDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", getDialect("sqlite"))
	assert.Equal(t, "postgres", getDialect("pgx"))
	assert.Equal(t, "mysql", getDialect("mysql"))
}
