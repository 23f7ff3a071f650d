// Package extension provides the plugin architecture for beamtime.
// Extensions group related functionality (CLI commands, MCP tools) and
// register at init time, so a feature is added by importing its package
// from extension/all.
package extension

import "github.com/spf13/cobra"

// Extension defines the contract for beamtime extensions.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command

	// MCPTools returns MCP tools to register with the server.
	MCPTools() []MCPTool
}

// Initializable extensions perform setup once the service is available,
// such as creating their own tables.
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Storeless is implemented by extensions with commands that must run
// without a catalog database: bootstrap commands like init, commands that
// manage their own service lifecycle like serve, and utilities like guide.
// Commands named by NoStoreCommands() skip store initialisation in
// PersistentPreRunE.
type Storeless interface {
	NoStoreCommands() []string
}
