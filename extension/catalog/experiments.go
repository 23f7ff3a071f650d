// experiments.go implements "beamtime experiments", the CLI counterpart of
// the experiments table on the web page.

package catalog

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/format"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/jpl-au/beamtime/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newExperimentsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "experiments",
		Short: "List experiments",
		Long: `List experiments with their proposal, process status and user folder.
Missing text shows as N/A and a missing status as Unknown.

  beamtime experiments --run 42 --beamline 7`,
		Args: cobra.NoArgs,
		RunE: e.runExperiments,
	}
	c.Flags().Int64(extension.FlagRun, 0, "Only experiments in this run")
	c.Flags().Int64(extension.FlagBeamline, 0, "Only experiments on this beamline")
	return c
}

func (e *Extension) runExperiments(c *cobra.Command, _ []string) error {
	var f store.ExperimentFilter
	f.Run, _ = c.Flags().GetInt64(extension.FlagRun)
	f.Beamline, _ = c.Flags().GetInt64(extension.FlagBeamline)

	exps, err := e.svc.Experiments(c.Context(), f)

	log.Event("catalog:experiments", "list").
		Author(cmd.Author()).
		Detail("run", f.Run).
		Detail("beamline", f.Beamline).
		Count(len(exps)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("experiments: %w", err))
	}
	if cmd.JSON() {
		if exps == nil {
			exps = []service.Experiment{}
		}
		return cmd.PrintJSON(exps)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) && len(exps) > 0 {
		if rendered, err := glamour.Render(format.ExperimentsMarkdown(exps), "dark"); err == nil {
			fmt.Fprint(cmd.Out(), rendered)
			return nil
		}
	}
	format.Experiments(cmd.Out(), exps)
	return nil
}
