// Package mcp implements the Model Context Protocol server, exposing the
// beamtime catalog, path validation and queue ingestion to LLM clients
// over stdio.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/beamtime"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/repo"
	"github.com/jpl-au/beamtime/internal/version"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ErrNotInitialised is returned by tools when no catalog database exists.
// The client should call beamtime_init first.
const ErrNotInitialised = "catalog not initialised - call beamtime_init first"

// Serve starts the MCP server over stdio. The server starts even without
// a catalog so a client can call beamtime_init; every other tool answers
// with ErrNotInitialised until then.
func Serve(db, dir string) error {
	// stdout carries JSON-RPC; logs go to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	h := &handlers{db: db, dir: dir}
	svc, err := beamtime.New(db, dir)
	switch {
	case err == nil:
		h.attach(svc)
		defer svc.Close()
	case errors.Is(err, repo.ErrNotInitialised):
		slog.Info("beamtime not initialised, starting in uninitialised mode")
	default:
		slog.Error("failed to open catalog", "error", err)
		return err
	}

	s := newServer(h)
	slog.Info("beamtime MCP server ready", "version", version.Version, "transport", "stdio")

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// handlers holds the service shared by every tool. svc is nil until the
// catalog exists.
type handlers struct {
	db, dir string
	svc     *beamtime.Service
	extCtx  extension.Context
}

// attach installs svc and builds the extension context around it.
func (h *handlers) attach(svc *beamtime.Service) {
	h.svc = svc
	h.extCtx = extension.NewContext(svc, svc.DB(), svc.Config())
	svc.SetExtensionContext(h.extCtx)
	log.SetProject(svc.Project())
}

func newServer(h *handlers) *server.MCPServer {
	s := server.NewMCPServer(
		"beamtime",
		version.Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)
	registerResources(s, h)
	registerTools(s, h)
	return s
}

// registerTools adds the built-in tools and every extension tool.
func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcp.NewTool("beamtime_init",
			mcp.WithDescription("Initialise a beamtime catalog database. Call this first if other tools return 'catalog not initialised'."),
		),
		h.initCatalog,
	)
	s.AddTool(
		mcp.NewTool("beamtime_guide",
			mcp.WithDescription("Get guide content for beamtime commands and concepts"),
			mcp.WithString("topic", mcp.Description("Guide topic (e.g. 'queue', 'paths') or empty for the main guide")),
		),
		h.getGuide,
	)

	for _, t := range extension.Tools() {
		s.AddTool(t.Tool, h.wrap(t.Handler))
	}
}

// wrap adapts an extension handler to mcp-go, refusing calls until the
// catalog is open.
func (h *handlers) wrap(fn extension.MCPHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if h.svc == nil {
			return mcp.NewToolResultError(ErrNotInitialised), nil
		}
		return fn(ctx, h.extCtx, req)
	}
}
