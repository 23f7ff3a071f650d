// add.go implements "beamtime queue add", the CLI equivalent of a
// create_update_queue request.

package queue

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/diff"
	"github.com/jpl-au/beamtime/internal/queue"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type dryRunResult struct {
	Submitted int         `json:"submitted"`
	Kept      int         `json:"kept"`
	Rows      []queue.Row `json:"rows"`
}

func (e *Extension) newAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add [file|-]",
		Short: "Submit one batch of rows",
		Long: `Submit a batch as {"rows": [...]} or a bare JSON array, from a file
or stdin.

  beamtime queue add batch.json
  echo '[{"title":"Powder XRD"}]' | beamtime queue add
  beamtime queue add batch.json --dry-run --diff   # show what would be stored`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runAdd,
	}
	c.Flags().Bool(extension.FlagDryRun, false, "Filter and sanitise without storing")
	c.Flags().Bool(extension.FlagDiff, false, "Show submitted rows against stored rows")
	return c
}

func (e *Extension) runAdd(c *cobra.Command, args []string) error {
	dryRun, _ := c.Flags().GetBool(extension.FlagDryRun)
	showDiff, _ := c.Flags().GetBool(extension.FlagDiff)

	src := "-"
	if len(args) > 0 {
		src = args[0]
	}
	rows, err := readBatch(src)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	if showDiff || dryRun {
		// Filter builds new maps, so rows stays as submitted.
		kept := queue.Sanitize(queue.Filter(rows))
		if showDiff && !cmd.JSON() {
			if err := printDiff(rows, kept); err != nil {
				return err
			}
		}
		if dryRun {
			if cmd.JSON() {
				if kept == nil {
					kept = []queue.Row{}
				}
				return cmd.PrintJSON(dryRunResult{Submitted: len(rows), Kept: len(kept), Rows: kept})
			}
			fmt.Fprintf(cmd.Out(), "Would store %d of %d rows\n", len(kept), len(rows))
			return nil
		}
	}

	res, err := e.svc.Ingest(c.Context(), rows, service.Origin{Source: "queue:add", Author: cmd.Author()})
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("queue add: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(res)
	}
	fmt.Fprintf(cmd.Out(), "Stored %d rows, %d failed\n", res.Success, res.Failure)
	if res.Failure > 0 {
		c.SilenceUsage = true
		return fmt.Errorf("queue add: %d rows not stored", res.Failure)
	}
	return nil
}

// readBatch decodes a batch from a file, or stdin for "-".
func readBatch(src string) ([]queue.Row, error) {
	var r io.Reader = os.Stdin
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", src, err)
		}
		defer f.Close()
		r = f
	}
	rows, err := queue.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return rows, nil
}

func printDiff(submitted, kept []queue.Row) error {
	a, err := json.MarshalIndent(submitted, "", "  ")
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(kept, "", "  ")
	if err != nil {
		return err
	}
	d := diff.Compute(string(a)+"\n", string(b)+"\n", "submitted", "stored")
	if d.Empty() {
		fmt.Fprintln(cmd.Out(), "No changes")
		return nil
	}
	fmt.Fprint(cmd.Out(), d.Format(term.IsTerminal(int(os.Stdout.Fd()))))
	return nil
}
