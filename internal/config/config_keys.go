// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic used by the CLI and MCP, where config is addressed by
// dotted keys (e.g. "server.bind").
//
// Pointers are used for optional numeric fields so "not set" (nil) can be
// told apart from an explicit zero; defaults apply only to nil.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"author.name",
		"beamline.name", "beamline.default_path", "beamline.pvlog_config",
		"database.driver", "database.dsn",
		"database.max_open_conns", "database.max_idle_conns", "database.conn_max_idle",
		"server.bind", "server.timeout", "server.graceful_timeout", "server.log_level",
		"limits.max_batch", "limits.max_path",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the effective value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "author.name":
		return c.Author.Name, nil
	case "beamline.name":
		return c.BeamlineName(), nil
	case "beamline.default_path":
		return c.RawDefaultPath(), nil
	case "beamline.pvlog_config":
		return c.PVLogConfig(), nil
	case "database.driver":
		return c.Driver(), nil
	case "database.dsn":
		return c.DSN(), nil
	case "database.max_open_conns":
		return strconv.Itoa(c.MaxOpenConns()), nil
	case "database.max_idle_conns":
		return strconv.Itoa(c.MaxIdleConns()), nil
	case "database.conn_max_idle":
		return strconv.Itoa(int(c.ConnMaxIdle().Seconds())), nil
	case "server.bind":
		return c.Bind(), nil
	case "server.timeout":
		return strconv.Itoa(int(c.Timeout().Seconds())), nil
	case "server.graceful_timeout":
		return strconv.Itoa(int(c.GracefulTimeout().Seconds())), nil
	case "server.log_level":
		return c.LogLevel(), nil
	case "limits.max_batch":
		return strconv.Itoa(c.MaxBatch()), nil
	case "limits.max_path":
		return strconv.Itoa(c.MaxPath()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key. The result is validated as a
// whole, so out-of-range numbers are rejected here rather than on next load.
func (c *Config) Set(key, value string) error {
	switch key {
	case "author.name":
		c.Author.Name = value
	case "beamline.name":
		c.Beamline.Name = value
	case "beamline.default_path":
		c.Beamline.DefaultPath = value
	case "beamline.pvlog_config":
		c.Beamline.PVLogConfig = value
	case "database.driver":
		c.Database.Driver = strings.ToLower(value)
	case "database.dsn":
		c.Database.DSN = value
	case "database.max_open_conns":
		return c.setInt(key, value, &c.Database.MaxOpenConns)
	case "database.max_idle_conns":
		return c.setInt(key, value, &c.Database.MaxIdleConns)
	case "database.conn_max_idle":
		return c.setInt(key, value, &c.Database.ConnMaxIdle)
	case "server.bind":
		c.Server.Bind = value
	case "server.timeout":
		return c.setInt(key, value, &c.Server.Timeout)
	case "server.graceful_timeout":
		return c.setInt(key, value, &c.Server.GracefulTimeout)
	case "server.log_level":
		c.Server.LogLevel = strings.ToLower(value)
	case "limits.max_batch":
		return c.setInt(key, value, &c.Limits.MaxBatch)
	case "limits.max_path":
		return c.setInt(key, value, &c.Limits.MaxPath)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return c.Validate()
}

func (c *Config) setInt(key, value string, dst **int) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s must be an integer", ErrInvalidValue, key)
	}
	prev := *dst
	*dst = &n
	if err := c.Validate(); err != nil {
		*dst = prev
		return err
	}
	return nil
}

// All returns all effective configuration values as a map.
func (c *Config) All() map[string]string {
	out := make(map[string]string, len(ValidKeys()))
	for _, k := range ValidKeys() {
		v, _ := c.Get(k)
		out[k] = v
	}
	return out
}

// IsSet returns true if the key has an explicit value in the file (not
// just a default or an environment override).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "author.name":
		return c.Author.Name != ""
	case "beamline.name":
		return c.Beamline.Name != ""
	case "beamline.default_path":
		return c.Beamline.DefaultPath != ""
	case "beamline.pvlog_config":
		return c.Beamline.PVLogConfig != ""
	case "database.driver":
		return c.Database.Driver != ""
	case "database.dsn":
		return c.Database.DSN != ""
	case "database.max_open_conns":
		return c.Database.MaxOpenConns != nil
	case "database.max_idle_conns":
		return c.Database.MaxIdleConns != nil
	case "database.conn_max_idle":
		return c.Database.ConnMaxIdle != nil
	case "server.bind":
		return c.Server.Bind != ""
	case "server.timeout":
		return c.Server.Timeout != nil
	case "server.graceful_timeout":
		return c.Server.GracefulTimeout != nil
	case "server.log_level":
		return c.Server.LogLevel != ""
	case "limits.max_batch":
		return c.Limits.MaxBatch != nil
	case "limits.max_path":
		return c.Limits.MaxPath != nil
	default:
		return false
	}
}
