// tools.go defines the catalog's MCP tools. Handlers take the service from
// the extension context so they work in the MCP server's own process.

package catalog

import (
	"context"
	"time"

	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/config"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/jpl-au/beamtime/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTools returns the read-only catalog tools.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{
		{
			Tool: mcp.NewTool("beamtime_list",
				mcp.WithDescription("List every record of a catalog kind (run, beamline, station, technique, acknowledgment, experiment, queue, data_path, ...)"),
				mcp.WithString("kind", mcp.Required(), mcp.Description("Record kind")),
			),
			Handler: listTool,
		},
		{
			Tool: mcp.NewTool("beamtime_experiments",
				mcp.WithDescription("List experiments with proposal, process status and user folder, optionally filtered by run and beamline"),
				mcp.WithNumber("run", mcp.Description("Run id filter")),
				mcp.WithNumber("beamline", mcp.Description("Beamline id filter")),
			),
			Handler: experimentsTool,
		},
		{
			Tool: mcp.NewTool("beamtime_data_path",
				mcp.WithDescription("Get the data path template for a station and technique. Empty when none is configured."),
				mcp.WithNumber("station_id", mcp.Required(), mcp.Description("Station id")),
				mcp.WithNumber("technique_id", mcp.Required(), mcp.Description("Technique id")),
			),
			Handler: dataPathTool,
		},
	}
}

func listTool(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := store.ParseKind(extension.StringArg(req, "kind", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rows, err := extCtx.Service().List(ctx, kind)
	log.Event("mcp:beamtime_list", "list").Author("mcp").Detail("kind", string(kind)).Count(len(rows)).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if rows == nil {
		rows = []store.Record{}
	}
	return extension.JSONResult(rows)
}

func experimentsTool(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := store.ExperimentFilter{
		Run:      extension.IntArg(req, "run", 0),
		Beamline: extension.IntArg(req, "beamline", 0),
	}

	exps, err := extCtx.Service().Experiments(ctx, f)
	log.Event("mcp:beamtime_experiments", "list").Author("mcp").Count(len(exps)).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if exps == nil {
		exps = []service.Experiment{}
	}
	return extension.JSONResult(exps)
}

func dataPathTool(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	station := extension.IntArg(req, "station_id", 0)
	technique := extension.IntArg(req, "technique_id", 0)
	if station <= 0 || technique <= 0 {
		return mcp.NewToolResultError("station_id and technique_id must be positive integers"), nil
	}

	tmpl, err := extCtx.Service().DataPath(ctx, station, technique)
	log.Event("mcp:beamtime_data_path", "lookup").Author("mcp").
		Detail("station_id", station).
		Detail("technique_id", technique).
		Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res := dataPathResult{StationID: station, TechniqueID: technique, Template: tmpl}
	if tmpl != "" {
		res.Expanded = config.ExpandPath(tmpl, time.Now())
	}
	return extension.JSONResult(res)
}
