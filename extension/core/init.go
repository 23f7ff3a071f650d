// init.go implements "beamtime init". It creates the project directory and
// applies the schema; configuration is left to "beamtime config".

package core

import (
	"fmt"
	"path/filepath"

	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/internal/beamtime"
	"github.com/jpl-au/beamtime/internal/config"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/repo"
	"github.com/jpl-au/beamtime/internal/store"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialise a beamtime catalog",
		Long: `Creates .beamtime/beamtime.db in the current directory and applies the schema.

Use --db to create additional databases:
  beamtime init --db 13bm    # creates .beamtime/beamtime-13bm.db

Use --dir to create in a different directory:
  beamtime init --dir /srv/beamtime

With database.driver set to postgres, the schema is applied to
database.dsn and no SQLite file is created.

Note: init does not create config. Use "beamtime config" for settings.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	opts := repo.Options{
		Force:  cmd.Force(),
		DB:     cmd.DB(),
		Dir:    cmd.Dir(),
		Driver: cfg.Driver(),
		DSN:    cfg.DSN(),
	}
	err = beamtime.Init(opts)

	log.Event("core:init", "init").
		Author(cmd.Author()).
		Detail("db", opts.DB).
		Detail("dir", opts.Dir).
		Detail("driver", opts.Driver).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("init: %w", err))
	}

	loc := "PostgreSQL (database.dsn)"
	if opts.Driver != store.DriverPostgres {
		loc = filepath.Join(opts.Dir, repo.Dir, repo.DBFileName(opts.DB))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"initialised": loc})
	}
	fmt.Fprintf(cmd.Out(), "Initialised beamtime catalog in %s\n", loc)
	return nil
}
