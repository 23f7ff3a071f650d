// serve.go implements "beamtime serve", the HTTP server. Like mcp it owns
// its service: the process runs until SIGINT or SIGTERM and then drains
// in-flight requests before closing the catalog.

package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/beamtime"
	"github.com/jpl-au/beamtime/internal/config"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Serve the beamtime page and JSON API.

  beamtime serve                    # bind server.bind (0.0.0.0:19999)
  beamtime serve --bind :8080
  beamtime serve --watch-config     # apply config.yaml edits without restart

Reloading applies the beamline name, default path, limits, log level and
pool sizes. Changing the bind address or database needs a restart.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	c.Flags().String(extension.FlagBind, "", "Listen address (overrides server.bind)")
	c.Flags().Bool(extension.FlagWatchConfig, false, "Reload configuration when the file changes")
	return c
}

func runServe(c *cobra.Command, _ []string) error {
	bind, _ := c.Flags().GetString(extension.FlagBind)
	watch, _ := c.Flags().GetBool(extension.FlagWatchConfig)

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	svc, err := beamtime.New(cmd.DB(), cmd.Dir())
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("opening database: %w", err))
	}
	defer svc.Close()

	log.SetProject(svc.Project())
	svc.SetExtensionContext(extension.NewContext(svc, svc.DB(), svc.Config()))

	cfg := svc.Config()
	if bind == "" {
		bind = cfg.Bind()
	}

	srv, err := web.New(svc, web.Options{
		LogLevel:        cfg.LogLevel(),
		Timeout:         cfg.Timeout(),
		GracefulTimeout: cfg.GracefulTimeout(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watch {
		if err := watchConfig(ctx, svc, srv, cfg); err != nil {
			return cmd.PrintJSONError(fmt.Errorf("watch config: %w", err))
		}
	}

	log.Event("core:serve", "start").Author(cmd.Author()).Detail("bind", bind).Write(nil)
	err = srv.Run(ctx, bind)
	log.Event("core:serve", "stop").Author(cmd.Author()).Detail("bind", bind).Write(err)
	return err
}

// watchConfig reloads the file the running config came from. Without a
// file (no local config and no home directory) there is nothing to watch.
func watchConfig(ctx context.Context, svc *beamtime.Service, srv *web.Server, cfg *config.Config) error {
	file := cfg.File()
	if file == "" {
		return config.ErrNoConfigPath
	}
	slog.Info("watching config", "file", file)
	return config.Watch(ctx, file, func(next *config.Config) {
		svc.SetConfig(next)
		web.SetLevel(srv.Echo(), next.LogLevel())
		slog.Info("config reloaded", "file", file)
		log.Event("core:serve", "reload").Path(file).Write(nil)
	})
}
