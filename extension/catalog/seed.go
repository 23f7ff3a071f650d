// seed.go implements "beamtime seed", which loads reference data (runs,
// beamlines, stations, techniques, experiments, data paths, ...) from a
// YAML or JSON file. The catalog is read-only to the web page; this is how
// it gets populated outside a full proposal system.

package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/jpl-au/beamtime/internal/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type seedResult struct {
	File   string         `json:"file"`
	DryRun bool           `json:"dry_run,omitempty"`
	Counts map[string]int `json:"counts"`
}

func (e *Extension) newSeedCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "seed <file|->",
		Short: "Load reference data from YAML or JSON",
		Long: `Load reference data into the catalog. Each kind is inserted in one
transaction, in dependency order; the first failing kind stops the load.

  beamtime seed reference.yaml
  beamtime seed - < reference.json
  beamtime seed reference.yaml --dry-run    # count rows, write nothing

See "beamtime guide seed" for the file format.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runSeed,
	}
	c.Flags().Bool(extension.FlagDryRun, false, "Parse the file and report counts without writing")
	return c
}

func (e *Extension) runSeed(c *cobra.Command, args []string) error {
	file := args[0]
	dryRun, _ := c.Flags().GetBool(extension.FlagDryRun)

	ref, err := readReference(file)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	counts := make(map[store.Kind]int)
	if dryRun {
		for _, b := range ref.Batches() {
			counts[b.Kind] = len(b.Rows)
		}
	} else {
		counts, err = e.svc.Seed(c.Context(), ref)
		log.Event("catalog:seed", "seed").
			Author(cmd.Author()).
			Path(file).
			Write(err)
	}

	res := seedResult{File: file, DryRun: dryRun, Counts: make(map[string]int, len(counts))}
	for k, n := range counts {
		res.Counts[string(k)] = n
	}

	if err != nil {
		printCounts(counts)
		return cmd.PrintJSONError(fmt.Errorf("seed %s: %w", file, err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(res)
	}
	printCounts(counts)
	return nil
}

// readReference decodes a reference file. JSON is valid YAML, so one
// decoder serves both; "-" reads stdin.
func readReference(file string) (*service.Reference, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	var ref service.Reference
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return &ref, nil
}

func printCounts(counts map[store.Kind]int) {
	if cmd.JSON() {
		return
	}
	for _, k := range store.Kinds() {
		if n, ok := counts[k]; ok {
			fmt.Fprintf(cmd.Out(), "%-16s %d\n", k, n)
		}
	}
}
