// log.go implements "beamtime log", showing recent audit log entries for
// the current project.

package core

import (
	"fmt"
	"path/filepath"

	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/beamtime"
	"github.com/jpl-au/beamtime/internal/format"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "log",
		Short: "Show recent audit log entries",
		Long: `Show recent audit log entries for this project, newest first.

The audit log lives in ~/.beamtime/log/beamtime-log.db and records path
checks, queue submissions, seeds and config changes from the CLI, the HTTP
server and the MCP server.`,
		Args: cobra.NoArgs,
		RunE: runLog,
	}
	c.Flags().IntP(extension.FlagLimit, "n", 20, "Number of entries")
	return c
}

func runLog(c *cobra.Command, _ []string) error {
	limit, _ := c.Flags().GetInt(extension.FlagLimit)

	// Scope to the project when one is found; outside a project every
	// project-less entry is shown.
	if p, err := beamtime.Locate(cmd.DB(), cmd.Dir()); err == nil {
		log.SetProject(filepath.Dir(p))
	}

	entries, err := log.Recent(limit)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("read audit log: %w", err))
	}
	if cmd.JSON() {
		if entries == nil {
			entries = []log.Entry{}
		}
		return cmd.PrintJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.Out(), "No log entries")
		return nil
	}
	format.LogEntries(cmd.Out(), entries)
	return nil
}
