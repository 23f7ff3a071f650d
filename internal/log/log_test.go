package log

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempDB points the logger at a fresh database for the test.
func useTempDB(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	orig := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "log", "test.db")
	}
	t.Cleanup(func() {
		Close()
		dbPathFunc = orig
	})
}

func lastRow(t *testing.T, query string, dest ...any) {
	t.Helper()
	db, err := sql.Open("sqlite", DBPath())
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.QueryRow(query).Scan(dest...))
}

func TestLogger(t *testing.T) {
	useTempDB(t)

	t.Run("open and close", func(t *testing.T) {
		require.NoError(t, Open())
		defer Close()
		assert.FileExists(t, DBPath())
	})

	t.Run("log entry", func(t *testing.T) {
		require.NoError(t, Open())
		defer Close()
		SetProject("/test/project/.beamtime")

		Log(Entry{
			Source:  "queue:add",
			Author:  "test-user",
			Action:  "ingest",
			Batch:   "b-1",
			Count:   3,
			Success: true,
		})

		var source, action, batch string
		var count, success int
		lastRow(t, "SELECT source, action, batch, count, success FROM log ORDER BY id DESC LIMIT 1",
			&source, &action, &batch, &count, &success)
		assert.Equal(t, "queue:add", source)
		assert.Equal(t, "ingest", action)
		assert.Equal(t, "b-1", batch)
		assert.Equal(t, 3, count)
		assert.Equal(t, 1, success)
	})

	t.Run("log without logger is noop", func(t *testing.T) {
		Close()
		Log(Entry{Source: "test:cmd", Action: "test", Success: true})
		got, err := Recent(5)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("open is idempotent", func(t *testing.T) {
		require.NoError(t, Open())
		require.NoError(t, Open())
		Close()
	})
}

func TestBuilder(t *testing.T) {
	useTempDB(t)
	require.NoError(t, Open())
	SetProject("/test/project/.beamtime")

	t.Run("resolved path recorded when different", func(t *testing.T) {
		Event("datapath:check", "validate").
			Author("test-user").
			Path(`C:\data\\x`).
			Resolved("C:/data/x").
			Write(nil)

		var path, resolved string
		var success int
		lastRow(t, "SELECT path, resolved_path, success FROM log ORDER BY id DESC LIMIT 1",
			&path, &resolved, &success)
		assert.Equal(t, `C:\data\\x`, path)
		assert.Equal(t, "C:/data/x", resolved)
		assert.Equal(t, 1, success)
	})

	t.Run("resolved path omitted when unchanged", func(t *testing.T) {
		Event("datapath:check", "validate").Path("/a").Resolved("/a").Write(nil)

		var resolved sql.NullString
		lastRow(t, "SELECT resolved_path FROM log ORDER BY id DESC LIMIT 1", &resolved)
		assert.False(t, resolved.Valid)
	})

	t.Run("error", func(t *testing.T) {
		Event("queue:add", "ingest").Write(errors.New("database is locked"))

		var success int
		var msg string
		lastRow(t, "SELECT success, error FROM log ORDER BY id DESC LIMIT 1", &success, &msg)
		assert.Equal(t, 0, success)
		assert.Equal(t, "database is locked", msg)
	})

	t.Run("detail", func(t *testing.T) {
		Event("catalog:experiments", "list").
			Detail("run", 12).
			Detail("beamline", "13-BM-C").
			Write(nil)

		var detail string
		lastRow(t, "SELECT detail FROM log ORDER BY id DESC LIMIT 1", &detail)
		assert.Contains(t, detail, "13-BM-C")
		assert.Contains(t, detail, "12")
	})
}

func TestRecent(t *testing.T) {
	useTempDB(t)
	require.NoError(t, Open())

	SetProject("/other/.beamtime")
	Event("queue:add", "ingest").Count(1).Write(nil)

	SetProject("/mine/.beamtime")
	Event("queue:add", "ingest").Count(2).Write(nil)
	Event("catalog:ls", "list").Detail("kind", "run").Write(nil)

	got, err := Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 2, "entries from other projects are excluded")
	assert.Equal(t, "catalog:ls", got[0].Source)
	assert.Equal(t, "run", got[0].Detail["kind"])
	assert.Equal(t, 2, got[1].Count)
	assert.True(t, got[1].Success)
}

func TestHash(t *testing.T) {
	h1 := hash("/home/user/project/.beamtime")
	h2 := hash("/home/user/project/.beamtime")
	h3 := hash("/home/user/other/.beamtime")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 16)
}

func TestDBPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	orig := dbPathFunc
	dbPathFunc = defaultDBPath
	defer func() { dbPathFunc = orig }()

	assert.Equal(t, filepath.Join(home, ".beamtime", "log", "beamtime-log.db"), DBPath())
}
