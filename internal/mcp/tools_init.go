// tools_init.go implements beamtime_init, the one tool that works before a
// catalog exists.

package mcp

import (
	"context"
	"log/slog"

	"github.com/jpl-au/beamtime/internal/beamtime"
	"github.com/jpl-au/beamtime/internal/config"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/repo"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) initCatalog(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.svc != nil {
		return mcp.NewToolResultError("catalog already initialised"), nil
	}

	cfg, err := config.Load()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = beamtime.Init(repo.Options{DB: h.db, Dir: h.dir, Driver: cfg.Driver(), DSN: cfg.DSN()})
	log.Event("mcp:init", "init").Author("mcp").Detail("db", h.db).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := beamtime.Open(cfg, h.db, h.dir)
	if err != nil {
		return mcp.NewToolResultError("init succeeded but failed to open catalog: " + err.Error()), nil
	}
	h.attach(svc)

	slog.Info("catalog initialised", "project", svc.Project())
	return mcp.NewToolResultText("catalog initialised"), nil
}
