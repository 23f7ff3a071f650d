// db.go implements "beamtime db", which lists the catalog databases of
// the project. It only reads the .beamtime directory, so it works on a
// database that is locked by a running server.

package core

import (
	"fmt"
	"path/filepath"

	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/internal/format"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/repo"
	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db",
		Short: "List catalog databases",
		Long: `List the SQLite catalog databases in the project.

  beamtime db                 # databases in the nearest .beamtime
  beamtime db --dir /srv/bt   # databases in another project`,
		Args: cobra.NoArgs,
		RunE: runDB,
	}
}

func runDB(_ *cobra.Command, _ []string) error {
	dir := ""
	if d := cmd.Dir(); d != "" {
		dir = filepath.Join(d, repo.Dir)
	}

	dbs, err := repo.ListDBs(dir)
	log.Event("core:db", "list").Author(cmd.Author()).Detail("dir", cmd.Dir()).Count(len(dbs)).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("db list: %w", err))
	}

	if cmd.JSON() {
		if dbs == nil {
			dbs = []repo.DBInfo{}
		}
		return cmd.PrintJSON(dbs)
	}
	if len(dbs) == 0 {
		fmt.Fprintln(cmd.Out(), "No databases found")
		return nil
	}
	format.DBs(cmd.Out(), dbs)
	return nil
}
