// Package queue provides the queue extension for beamtime.
// It registers commands: queue (with subcommands add, import, ls); and the
// MCP tool beamtime_queue_add.
package queue

import (
	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the queue extension.
type Extension struct {
	svc service.Service
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "queue".
func (e *Extension) Name() string { return "queue" }

// Init receives the shared service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the queue command with its subcommands.
func (e *Extension) Commands() []*cobra.Command {
	c := &cobra.Command{
		Use:   "queue",
		Short: "Submit and inspect queued metadata rows",
		Long: `Rows are filtered and sanitised before they are stored: rows with no
value outside doi are dropped, "N/A" becomes empty and acknowledgment
lists are joined with commas. See "beamtime guide queue".`,
	}
	c.AddCommand(e.newAddCmd(), e.newImportCmd(), e.newLsCmd())
	return []*cobra.Command{c}
}
