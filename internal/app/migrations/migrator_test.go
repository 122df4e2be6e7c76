package migrations

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionsSortedAndFiltered(t *testing.T) {
	files := fstest.MapFS{
		"002_more.sql":  {Data: []byte("SELECT 2;")},
		"001_init.sql":  {Data: []byte("SELECT 1;")},
		"README.md":     {Data: []byte("notes")},
		"old/003_x.sql": {Data: []byte("SELECT 3;")},
	}

	m := NewMigrator(nil, files, zerolog.Nop())
	versions, err := m.Versions()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_more.sql"}, versions)
}

func TestEmbeddedFiles(t *testing.T) {
	content, err := fs.ReadFile(Files(), "001_init.sql")
	require.NoError(t, err)

	sql := string(content)
	for _, table := range []string{"users", "events", "event_attendees", "event_waitlist"} {
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	assert.Contains(t, sql, "events_dates_check")
}
