// Package config provides reading and writing of beamtime configuration.
// Supports both global (~/.beamtime/config.yaml) and local (.beamtime/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
//
// A handful of environment variables override the files at read time
// (see env.go) so a deployment can be configured without writing YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.beamtime/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is project-specific config in .beamtime/config.yaml
	ScopeLocal
)

// Author is recorded against audit log entries.
type Author struct {
	Name string `yaml:"name,omitempty"`
}

// Beamline describes the beamline this instance serves.
type Beamline struct {
	Name        string `yaml:"name,omitempty"`
	DefaultPath string `yaml:"default_path,omitempty"`
	PVLogConfig string `yaml:"pvlog_config,omitempty"`
}

// Database selects the store backend and its pool limits.
type Database struct {
	Driver       string `yaml:"driver,omitempty"`
	DSN          string `yaml:"dsn,omitempty"`
	MaxOpenConns *int   `yaml:"max_open_conns,omitempty"`
	MaxIdleConns *int   `yaml:"max_idle_conns,omitempty"`
	ConnMaxIdle  *int   `yaml:"conn_max_idle,omitempty"`
}

// Server holds HTTP server settings.
type Server struct {
	Bind            string `yaml:"bind,omitempty"`
	Timeout         *int   `yaml:"timeout,omitempty"`
	GracefulTimeout *int   `yaml:"graceful_timeout,omitempty"`
	LogLevel        string `yaml:"log_level,omitempty"`
}

// Limits holds size limit configuration options.
type Limits struct {
	MaxBatch *int `yaml:"max_batch,omitempty"`
	MaxPath  *int `yaml:"max_path,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultDriver          = "sqlite"
	DefaultMaxOpenConns    = 12 // pool of 10 plus overflow of 2
	DefaultMaxIdleConns    = 10
	DefaultConnMaxIdle     = 30
	DefaultBind            = "0.0.0.0:19999"
	DefaultTimeout         = 60
	DefaultGracefulTimeout = 30
	DefaultLogLevel        = "info"
	DefaultMaxBatch        = 1000
	DefaultMaxPath         = 4096
)

// Validation bounds for configuration values.
const (
	MinMaxBatch = 1
	MaxMaxBatch = 100000
	MinMaxPath  = 1
	MaxMaxPath  = 65536
	MaxConns    = 1000
	MaxSeconds  = 3600
)

// LogLevels lists the accepted server.log_level values.
var LogLevels = []string{"debug", "info", "warn", "error", "off"}

// Drivers lists the accepted database.driver values.
var Drivers = []string{"sqlite", "postgres"}

// Config contains configuration for beamtime.
type Config struct {
	Author   Author   `yaml:"author,omitempty"`
	Beamline Beamline `yaml:"beamline,omitempty"`
	Database Database `yaml:"database,omitempty"`
	Server   Server   `yaml:"server,omitempty"`
	Limits   Limits   `yaml:"limits,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if err := between("limits.max_batch", c.Limits.MaxBatch, MinMaxBatch, MaxMaxBatch); err != nil {
		return err
	}
	if err := between("limits.max_path", c.Limits.MaxPath, MinMaxPath, MaxMaxPath); err != nil {
		return err
	}
	if err := between("database.max_open_conns", c.Database.MaxOpenConns, 1, MaxConns); err != nil {
		return err
	}
	if err := between("database.max_idle_conns", c.Database.MaxIdleConns, 0, MaxConns); err != nil {
		return err
	}
	if err := between("database.conn_max_idle", c.Database.ConnMaxIdle, 0, MaxSeconds); err != nil {
		return err
	}
	if err := between("server.timeout", c.Server.Timeout, 1, MaxSeconds); err != nil {
		return err
	}
	if err := between("server.graceful_timeout", c.Server.GracefulTimeout, 0, MaxSeconds); err != nil {
		return err
	}
	if c.Database.Driver != "" && !oneOf(c.Database.Driver, Drivers) {
		return fmt.Errorf("%w: database.driver must be one of %s, got %q",
			ErrInvalidValue, strings.Join(Drivers, ", "), c.Database.Driver)
	}
	if c.Server.LogLevel != "" && !oneOf(c.Server.LogLevel, LogLevels) {
		return fmt.Errorf("%w: server.log_level must be one of %s, got %q",
			ErrInvalidValue, strings.Join(LogLevels, ", "), c.Server.LogLevel)
	}
	return nil
}

func between(key string, v *int, lo, hi int) error {
	if v == nil {
		return nil
	}
	if *v < lo || *v > hi {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d",
			ErrInvalidValue, key, lo, hi, *v)
	}
	return nil
}

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// BeamlineName returns the configured beamline, or "" when unset.
func (c *Config) BeamlineName() string {
	return envOr(EnvBeamline, c.Beamline.Name)
}

// RawDefaultPath returns the default path template without expansion.
func (c *Config) RawDefaultPath() string {
	return envOr(EnvDefaultPath, c.Beamline.DefaultPath)
}

// DefaultPath returns the default data path with {YEAR} and {MONTH}
// expanded for t, e.g. "/cars5/Data/{YEAR}/{MONTH}" becomes
// "/cars5/Data/2025/Mar".
func (c *Config) DefaultPath(t time.Time) string {
	return ExpandPath(c.RawDefaultPath(), t)
}

// ExpandPath replaces the {YEAR} and {MONTH} placeholders in tmpl.
func ExpandPath(tmpl string, t time.Time) string {
	if tmpl == "" {
		return ""
	}
	r := strings.NewReplacer("{YEAR}", t.Format("2006"), "{MONTH}", t.Format("Jan"))
	return r.Replace(tmpl)
}

// PVLogConfig returns the path to the PV logger configuration, if any.
func (c *Config) PVLogConfig() string {
	return envOr(EnvPVLogConfig, c.Beamline.PVLogConfig)
}

// Driver returns the database driver (defaults to sqlite).
func (c *Config) Driver() string {
	if d := envOr(EnvDBDriver, c.Database.Driver); d != "" {
		return d
	}
	return DefaultDriver
}

// DSN returns the configured data source name. Empty means the project's
// SQLite file.
func (c *Config) DSN() string {
	return envOr(EnvDBDSN, c.Database.DSN)
}

// MaxOpenConns returns the pool's open connection limit (defaults to 12).
func (c *Config) MaxOpenConns() int {
	return intOr(c.Database.MaxOpenConns, DefaultMaxOpenConns)
}

// MaxIdleConns returns the pool's idle connection limit (defaults to 10).
func (c *Config) MaxIdleConns() int {
	return intOr(c.Database.MaxIdleConns, DefaultMaxIdleConns)
}

// ConnMaxIdle returns how long an idle connection is kept (defaults to 30s).
func (c *Config) ConnMaxIdle() time.Duration {
	return time.Duration(intOr(c.Database.ConnMaxIdle, DefaultConnMaxIdle)) * time.Second
}

// Bind returns the HTTP listen address (defaults to 0.0.0.0:19999).
func (c *Config) Bind() string {
	if c.Server.Bind == "" {
		return DefaultBind
	}
	return c.Server.Bind
}

// Timeout returns the per-request read/write timeout (defaults to 60s).
func (c *Config) Timeout() time.Duration {
	return time.Duration(intOr(c.Server.Timeout, DefaultTimeout)) * time.Second
}

// GracefulTimeout returns how long shutdown waits for in-flight requests
// (defaults to 30s).
func (c *Config) GracefulTimeout() time.Duration {
	return time.Duration(intOr(c.Server.GracefulTimeout, DefaultGracefulTimeout)) * time.Second
}

// LogLevel returns the HTTP log level (defaults to info).
func (c *Config) LogLevel() string {
	if c.Server.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.Server.LogLevel
}

// MaxBatch returns the largest number of rows accepted in one ingest
// (defaults to 1000).
func (c *Config) MaxBatch() int {
	return intOr(c.Limits.MaxBatch, DefaultMaxBatch)
}

// MaxPath returns the maximum path length in bytes (defaults to 4096).
func (c *Config) MaxPath() int {
	return intOr(c.Limits.MaxPath, DefaultMaxPath)
}

// LocalPath returns the path to the local (project) config file.
func LocalPath() string {
	return filepath.Join(".beamtime", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.beamtime/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".beamtime", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.scope = scope
	return cfg, nil
}

// LoadFile reads configuration from an explicit path. A missing file
// yields an empty config that saves back to path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// File returns the path this config was loaded from, or "" if none.
func (c *Config) File() string {
	return c.path
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
