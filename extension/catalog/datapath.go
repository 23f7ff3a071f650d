// datapath.go implements "beamtime data-path", the lookup behind the web
// page's get_data_path endpoint.

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/config"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/validate"
	"github.com/spf13/cobra"
)

type dataPathResult struct {
	StationID   int64  `json:"station_id"`
	TechniqueID int64  `json:"technique_id"`
	Template    string `json:"template"`
	Expanded    string `json:"expanded,omitempty"`
}

func (e *Extension) newDataPathCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "data-path",
		Short: "Look up the data path template for a station and technique",
		Long: `Print the path template configured for a station and technique.
Nothing is printed when no template exists.

  beamtime data-path --station 3 --technique 4
  beamtime data-path --station 3 --technique 4 --expand   # {YEAR}/{MONTH} filled in`,
		Args: cobra.NoArgs,
		RunE: e.runDataPath,
	}
	c.Flags().Int64(extension.FlagStation, 0, "Station id (required)")
	c.Flags().Int64(extension.FlagTechnique, 0, "Technique id (required)")
	c.Flags().Bool(extension.FlagExpand, false, "Expand {YEAR} and {MONTH} for today")
	_ = c.MarkFlagRequired(extension.FlagStation)
	_ = c.MarkFlagRequired(extension.FlagTechnique)
	return c
}

func (e *Extension) runDataPath(c *cobra.Command, _ []string) error {
	station, _ := c.Flags().GetInt64(extension.FlagStation)
	technique, _ := c.Flags().GetInt64(extension.FlagTechnique)
	expand, _ := c.Flags().GetBool(extension.FlagExpand)

	if station <= 0 || technique <= 0 {
		return cmd.PrintJSONError(fmt.Errorf("%w: --station and --technique must be positive", validate.ErrInvalidID))
	}

	res, err := e.lookup(c.Context(), station, technique, expand)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("data-path: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(res)
	}

	switch {
	case expand && res.Expanded != "":
		fmt.Fprintln(cmd.Out(), res.Expanded)
	case res.Template != "":
		fmt.Fprintln(cmd.Out(), res.Template)
	}
	return nil
}

func (e *Extension) lookup(ctx context.Context, station, technique int64, expand bool) (dataPathResult, error) {
	tmpl, err := e.svc.DataPath(ctx, station, technique)

	log.Event("catalog:data-path", "lookup").
		Author(cmd.Author()).
		Detail("station_id", station).
		Detail("technique_id", technique).
		Write(err)

	res := dataPathResult{StationID: station, TechniqueID: technique, Template: tmpl}
	if expand && tmpl != "" {
		res.Expanded = config.ExpandPath(tmpl, time.Now())
	}
	return res, err
}
