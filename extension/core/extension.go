// Package core provides the core extension for beamtime.
// It registers commands: init, config, serve, mcp, guide, db, log, version.
package core

import (
	"github.com/jpl-au/beamtime/extension"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension.
type Extension struct{}

var (
	_ extension.Extension = (*Extension)(nil)
	_ extension.Storeless = (*Extension)(nil)
)

// Name returns "core".
func (e *Extension) Name() string { return "core" }

// Commands returns the project management and server commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newInitCmd(),
		newConfigCmd(),
		newServeCmd(),
		newMCPCmd(),
		newGuideCmd(),
		newDBCmd(),
		newLogCmd(),
		newVersionCmd(),
	}
}

// MCPTools returns nil. beamtime_init and beamtime_guide are built into
// the MCP server because they must work without a catalog.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// NoStoreCommands returns commands that manage their own service lifecycle
// or never touch the catalog.
//
// serve and mcp open their own long-lived service; db only lists files;
// log reads the audit database.
func (e *Extension) NoStoreCommands() []string {
	return []string{"serve", "mcp", "db", "log"}
}
