// mcp.go implements "beamtime mcp", the Model Context Protocol server over
// stdio. It opens its own service so it can start before a catalog exists
// and create one through beamtime_init.

package core

import (
	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long: `Start an MCP (Model Context Protocol) server over stdio.

Use --db to serve a specific database:
  beamtime mcp --db 13bm    # serve beamtime-13bm.db

See "beamtime guide mcp" for the tools and resources offered.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return mcp.Serve(cmd.DB(), cmd.Dir())
		},
	}
}
