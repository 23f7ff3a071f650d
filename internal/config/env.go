package config

import "os"

// Environment variables that take precedence over the config files. The
// first three match the deployment .env keys the facility already uses.
const (
	EnvBeamline    = "BEAMLINE"
	EnvDefaultPath = "DEFAULT_PATH"
	EnvPVLogConfig = "PVLOG_CONFIG"
	EnvDBDriver    = "BEAMTIME_DB_DRIVER"
	EnvDBDSN       = "BEAMTIME_DB_DSN"
)

// envOr returns the environment value for key, or fallback when unset.
// Overrides are applied on read so Save never persists them.
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
