// flags.go defines constants for CLI flag names shared across extensions.
//
// Naming convention: Flag<PascalCaseName> where name matches the kebab-case
// CLI flag (e.g. "watch-config" -> FlagWatchConfig).

package extension

const (
	// Boolean flags

	FlagDiff        = "diff"         // Show normalisation diff
	FlagDryRun      = "dry-run"      // Parse and filter without writing
	FlagExpand      = "expand"       // Expand {YEAR} and {MONTH}
	FlagLocal       = "local"        // Use local (project) config scope
	FlagWatchConfig = "watch-config" // Reload config on change

	// String flags

	FlagBind  = "bind"  // HTTP listen address
	FlagWhere = "where" // column=value filter

	// Integer flags

	FlagBeamline  = "beamline"  // Beamline id filter
	FlagLimit     = "limit"     // Limit number of results
	FlagRun       = "run"       // Run id filter
	FlagStation   = "station"   // Station id
	FlagTechnique = "technique" // Technique id
)
