package queue

import (
	"context"
	"errors"

	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/queue"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/jpl-au/beamtime/internal/validate"
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTools returns beamtime_queue_add.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{
		{
			Tool: mcp.NewTool("beamtime_queue_add",
				mcp.WithDescription("Submit metadata rows to the queue. Rows without data outside doi are dropped; returns success and failure counts."),
				mcp.WithArray("rows",
					mcp.Required(),
					mcp.Description("Rows keyed by experiment_number, title, data_path, pvlog_path, doi, proposal_number, acknowledgments"),
					mcp.Items(map[string]any{"type": "object"}),
				),
				mcp.WithString("author", mcp.Description("Author attribution (default: mcp)")),
			),
			Handler: addTool,
		},
	}
}

func addTool(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	objs := extension.ObjectsArg(req, "rows")
	if objs == nil {
		return mcp.NewToolResultError("rows must be an array of objects"), nil
	}
	rows := make([]queue.Row, len(objs))
	for i, o := range objs {
		rows[i] = queue.Row(o)
	}

	origin := service.Origin{Source: "mcp:beamtime_queue_add", Author: extension.StringArg(req, "author", "mcp")}
	res, err := extCtx.Service().Ingest(ctx, rows, origin)
	if errors.Is(err, validate.ErrBatchTooLarge) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return nil, err
	}
	return extension.JSONResult(res)
}
