package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB(t *testing.T) {
	env := newTestEnv(t)
	env.run("init", "--db", "13bm")

	out := env.run("db")
	env.contains(out, "(default)")
	env.contains(out, "beamtime.db")
	env.contains(out, "beamtime-13bm.db")

	var dbs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(env.stdout("db", "-o", "json")), &dbs))
	assert.Len(t, dbs, 2)
}

func TestDB_Select(t *testing.T) {
	env := newTestEnv(t)
	env.run("init", "--db", "13bm")

	env.run("seed", "--db", "13bm", env.write("ref.yaml", testReference))
	env.contains(env.run("ls", "run", "--db", "13bm"), "2025-1")
	env.equals(env.run("ls", "run"), "ID  NAME")

	env.env = append(env.env, "BEAMTIME_DB=13bm")
	env.contains(env.run("ls", "run"), "2025-2")
}

func TestDB_NoProject(t *testing.T) {
	env := newBareEnv(t)
	_, err := env.runErr("db")
	assert.Error(t, err)
}

func TestLog(t *testing.T) {
	env := newTestEnv(t)
	env.run("check-path", "https://example.com/x")

	out := env.run("log", "-n", "5")
	env.contains(out, "datapath:check-path")
	env.contains(out, "tester")

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(env.stdout("log", "-o", "json")), &entries))
	require.NotEmpty(t, entries)
	assert.Equal(t, "datapath:check-path", entries[0]["source"])
}
