// import.go implements "beamtime queue import", which submits one batch
// per file. A bad file is reported and skipped; the rest still import.

package queue

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/internal/format"
	"github.com/jpl-au/beamtime/internal/progress"
	"github.com/jpl-au/beamtime/internal/queue"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/spf13/cobra"
)

// ErrImportFailed reports that at least one file did not import cleanly.
var ErrImportFailed = errors.New("import failed")

type fileResult struct {
	File    string `json:"file"`
	Success int    `json:"success"`
	Failure int    `json:"failure"`
	Error   string `json:"error,omitempty"`
}

type importResult struct {
	Files   []fileResult `json:"files"`
	Success int          `json:"success"`
	Failure int          `json:"failure"`
}

func (e *Extension) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Submit one batch per file",
		Long: `Submit each file as its own batch. Files use the same format as
"queue add". Progress is written to stderr.

  beamtime queue import exports/*.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: e.runImport,
	}
}

func (e *Extension) runImport(c *cobra.Command, args []string) error {
	ctx := c.Context()
	origin := service.Origin{Source: "queue:import", Author: cmd.Author()}

	var (
		out    importResult
		failed int
	)
	prog := progress.New("Importing", len(args))
	for _, file := range args {
		fr := fileResult{File: file}
		rows, err := readBatch(file)
		if err == nil {
			var res queue.Result
			res, err = e.svc.Ingest(ctx, rows, origin)
			fr.Success, fr.Failure = res.Success, res.Failure
		}
		if err != nil {
			fr.Error = err.Error()
		}
		if err != nil || fr.Failure > 0 {
			failed++
		}
		out.Files = append(out.Files, fr)
		out.Success += fr.Success
		out.Failure += fr.Failure
		prog.Step(filepath.Base(file))
	}
	prog.Done()

	if cmd.JSON() {
		if err := cmd.PrintJSON(out); err != nil {
			return err
		}
	} else {
		rows := make([][]string, len(out.Files))
		for i, f := range out.Files {
			rows[i] = []string{f.File, fmt.Sprint(f.Success), fmt.Sprint(f.Failure), format.Cell(f.Error)}
		}
		format.Table(cmd.Out(), []string{"file", "success", "failure", "error"}, rows)
	}

	if failed > 0 {
		err := fmt.Errorf("%w: %d of %d files", ErrImportFailed, failed, len(args))
		c.SilenceUsage = true
		if cmd.JSON() {
			// The per-file errors are already in the JSON output.
			c.SilenceErrors = true
		}
		return err
	}
	return nil
}
