// ls.go implements "beamtime ls <kind>".

package catalog

import (
	"fmt"
	"strings"

	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/format"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newLsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ls <kind>",
		Short: "List catalog records",
		Long: `List every record of a kind.

Kinds: info, run, beamline, technique, station, process_status,
acknowledgment, person, experiment, queue, data_path.

  beamtime ls station
  beamtime ls data_path --where station_id=3 --where technique_id=4`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKinds,
		RunE:              e.runLs,
	}
	c.Flags().StringArray(extension.FlagWhere, nil, "Filter by column=value (repeatable)")
	return c
}

func completeKinds(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	kinds := store.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func (e *Extension) runLs(c *cobra.Command, args []string) error {
	ctx := c.Context()

	kind, err := store.ParseKind(args[0])
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	where, _ := c.Flags().GetStringArray(extension.FlagWhere)
	f, err := parseWhere(where)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	var rows []store.Record
	if len(f) == 0 {
		rows, err = e.svc.List(ctx, kind)
	} else {
		rows, err = e.svc.Filtered(ctx, kind, f)
	}

	log.Event("catalog:ls", "list").
		Author(cmd.Author()).
		Detail("kind", string(kind)).
		Count(len(rows)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ls %s: %w", kind, err))
	}
	if cmd.JSON() {
		if rows == nil {
			rows = []store.Record{}
		}
		return cmd.PrintJSON(rows)
	}
	return format.Records(cmd.Out(), kind, rows)
}

// parseWhere turns column=value pairs into a filter. Values stay strings;
// the store coerces them to the column type.
func parseWhere(pairs []string) (store.Filter, error) {
	f := make(store.Filter, len(pairs))
	for _, p := range pairs {
		col, val, ok := strings.Cut(p, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid --where %q: want column=value", p)
		}
		f[col] = val
	}
	return f, nil
}
