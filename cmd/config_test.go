package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_SetGet(t *testing.T) {
	e := newTestEnv(t)

	out := e.run("config", "beamline.name", "13-BM-C")
	e.contains(out, "beamline.name = 13-BM-C (global)")
	assert.FileExists(t, filepath.Join(e.home, ".beamtime", "config.yaml"))

	e.equals(e.run("config", "beamline.name"), "13-BM-C")

	e.run("config", "--local", "beamline.name", "13-ID-D")
	assert.FileExists(t, filepath.Join(e.dir, ".beamtime", "config.yaml"))
	e.equals(e.run("config", "beamline.name"), "13-ID-D")
}

func TestConfig_List(t *testing.T) {
	e := newTestEnv(t)
	e.run("config", "limits.max_batch", "50")

	var all map[string]string
	require.NoError(t, json.Unmarshal([]byte(e.stdout("config", "-o", "json")), &all))
	assert.Equal(t, "50", all["limits.max_batch"])
	assert.Equal(t, "0.0.0.0:19999", all["server.bind"])
}

func TestConfig_Invalid(t *testing.T) {
	e := newTestEnv(t)

	out, err := e.runErr("config", "no.such.key")
	assert.Error(t, err)
	e.contains(out, "unknown config key")

	out, err = e.runErr("config", "server.log_level", "loud")
	assert.Error(t, err)
	e.contains(out, "invalid config value")
}

func TestConfig_AuthorRequired(t *testing.T) {
	e := newTestEnv(t)
	e.env = append(e.env, "USER=")

	out, err := e.runErr("seed", e.write("ref.yaml", testReference))
	assert.Error(t, err)
	e.contains(out, "author not configured")

	e.run("config", "author.name", "Beamline Scientist")
	e.run("seed", "ref.yaml")
}
