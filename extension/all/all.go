// Package all imports all built-in beamtime extensions.
// Import this package to register all built-in commands.
package all

import (
	// Each extension registers itself via init()
	_ "github.com/jpl-au/beamtime/extension/catalog"
	_ "github.com/jpl-au/beamtime/extension/core"
	_ "github.com/jpl-au/beamtime/extension/datapath"
	_ "github.com/jpl-au/beamtime/extension/queue"
)
