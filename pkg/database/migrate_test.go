package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNamesOrdered(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_email_logs.sql": {Data: []byte("SELECT 2")},
		"migrations/001_schema.sql":     {Data: []byte("SELECT 1")},
		"migrations/README.md":          {Data: []byte("notes")},
		"migrations/010_later.sql":      {Data: []byte("SELECT 10")},
	}
	names, err := migrationNames(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_schema.sql", "002_email_logs.sql", "010_later.sql"}, names)
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := migrationNames(migrationsFS)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_schema.sql", "002_email_logs.sql"}, names)
}
