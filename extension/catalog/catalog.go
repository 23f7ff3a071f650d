// Package catalog provides the catalog extension for beamtime.
// It registers commands: ls, experiments, data-path, seed; and the MCP
// tools beamtime_list, beamtime_experiments and beamtime_data_path.
package catalog

import (
	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the catalog extension.
type Extension struct {
	svc service.Service
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "catalog".
func (e *Extension) Name() string { return "catalog" }

// Init receives the shared service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the read commands and seed.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newLsCmd(),
		e.newExperimentsCmd(),
		e.newDataPathCmd(),
		e.newSeedCmd(),
	}
}
