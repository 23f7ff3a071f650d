package queue

import (
	"fmt"

	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/internal/format"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List queued rows, oldest first",
		Args:  cobra.NoArgs,
		RunE:  e.runLs,
	}
}

func (e *Extension) runLs(c *cobra.Command, _ []string) error {
	rows, err := e.svc.QueueRows(c.Context())

	log.Event("queue:ls", "list").
		Author(cmd.Author()).
		Count(len(rows)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("queue ls: %w", err))
	}
	if cmd.JSON() {
		if rows == nil {
			rows = []store.Queue{}
		}
		return cmd.PrintJSON(rows)
	}
	format.Queue(cmd.Out(), rows)
	return nil
}
