package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := &Config{}
	assert.Equal(t, "sqlite", c.Driver())
	assert.Equal(t, 12, c.MaxOpenConns())
	assert.Equal(t, 10, c.MaxIdleConns())
	assert.Equal(t, 30*time.Second, c.ConnMaxIdle())
	assert.Equal(t, "0.0.0.0:19999", c.Bind())
	assert.Equal(t, 60*time.Second, c.Timeout())
	assert.Equal(t, 30*time.Second, c.GracefulTimeout())
	assert.Equal(t, "info", c.LogLevel())
	assert.Equal(t, 1000, c.MaxBatch())
	assert.Equal(t, 4096, c.MaxPath())
}

func TestExpandPath(t *testing.T) {
	at := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		tmpl, want string
	}{
		{"/cars5/Data/{YEAR}/{MONTH}", "/cars5/Data/2025/Mar"},
		{"/data/{YEAR}/{YEAR}", "/data/2025/2025"},
		{"/fixed/path", "/fixed/path"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandPath(tt.tmpl, at), tt.tmpl)
	}
}

func TestEnvOverrides(t *testing.T) {
	c := &Config{Beamline: Beamline{Name: "13-BM-C", DefaultPath: "/file"}}

	t.Setenv(EnvBeamline, "13-ID-D")
	t.Setenv(EnvDefaultPath, "/env/{YEAR}")
	t.Setenv(EnvDBDriver, "postgres")

	assert.Equal(t, "13-ID-D", c.BeamlineName())
	assert.Equal(t, "/env/2024", c.DefaultPath(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "postgres", c.Driver())
	assert.False(t, c.IsSet("database.driver"), "env overrides are not file values")

	t.Setenv(EnvBeamline, "")
	assert.Equal(t, "13-BM-C", c.BeamlineName(), "empty env falls back to file")
}

func TestSetGet(t *testing.T) {
	c := &Config{}

	require.NoError(t, c.Set("server.bind", "127.0.0.1:8080"))
	require.NoError(t, c.Set("limits.max_batch", "50"))
	require.NoError(t, c.Set("server.log_level", "DEBUG"))
	require.NoError(t, c.Set("database.driver", "postgres"))

	v, err := c.Get("server.bind")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", v)
	assert.Equal(t, 50, c.MaxBatch())
	assert.Equal(t, "debug", c.LogLevel())
	assert.True(t, c.IsSet("limits.max_batch"))
	assert.False(t, c.IsSet("limits.max_path"))

	all := c.All()
	assert.Len(t, all, len(ValidKeys()))
	assert.Equal(t, "4096", all["limits.max_path"])
}

func TestSet_Invalid(t *testing.T) {
	c := &Config{}

	assert.ErrorIs(t, c.Set("nope", "x"), ErrUnknownKey)
	assert.ErrorIs(t, c.Set("limits.max_batch", "lots"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("limits.max_batch", "0"), ErrInvalidValue)
	assert.Nil(t, c.Limits.MaxBatch, "rejected value is not kept")
	assert.ErrorIs(t, c.Set("database.driver", "oracle"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("server.log_level", "chatty"), ErrInvalidValue)

	_, err := c.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")

	t.Run("missing file is empty config", func(t *testing.T) {
		c, err := LoadFile(p)
		require.NoError(t, err)
		assert.Equal(t, p, c.File())
		assert.Equal(t, DefaultBind, c.Bind())
	})

	t.Run("save and reload", func(t *testing.T) {
		c, err := LoadFile(p)
		require.NoError(t, err)
		require.NoError(t, c.Set("beamline.name", "13-BM-C"))
		require.NoError(t, c.Set("server.timeout", "90"))
		require.NoError(t, c.Save())

		back, err := LoadFile(p)
		require.NoError(t, err)
		assert.Equal(t, "13-BM-C", back.Beamline.Name)
		assert.Equal(t, 90*time.Second, back.Timeout())
	})

	t.Run("malformed yaml", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("server: [oops"), 0644))
		_, err := LoadFile(bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed config file")
	})

	t.Run("out of range", func(t *testing.T) {
		bad := filepath.Join(dir, "range.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("limits:\n  max_batch: 0\n"), 0644))
		_, err := LoadFile(bad)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("server:\n  log_level: info\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 4)
	require.NoError(t, Watch(ctx, p, func(c *Config) { got <- c }))

	require.NoError(t, os.WriteFile(p, []byte("server:\n  log_level: debug\n"), 0644))

	select {
	case c := <-got:
		assert.Equal(t, "debug", c.LogLevel())
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}
