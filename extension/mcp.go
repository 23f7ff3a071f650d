// mcp.go defines types for MCP tool registration by extensions.
//
// An MCPTool pairs the tool definition with its handler. The handler gets
// the Go context for cancellation and the extension Context for service
// access.

package extension

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTool pairs an MCP tool definition with its handler.
type MCPTool struct {
	Tool    mcp.Tool
	Handler MCPHandler
}

// MCPHandler processes MCP tool requests.
type MCPHandler func(ctx context.Context, extCtx Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Tools returns the MCP tools of every registered extension in
// registration order.
func Tools() []MCPTool {
	var out []MCPTool
	for _, e := range All() {
		out = append(out, e.MCPTools()...)
	}
	return out
}

// Argument helpers. Extraction is permissive: a missing or mistyped
// optional argument yields the default rather than a tool failure.

// StringArg returns a string argument or def.
func StringArg(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// BoolArg returns a boolean argument or def.
func BoolArg(req mcp.CallToolRequest, name string, def bool) bool {
	if v, ok := arg(req, name).(bool); ok {
		return v
	}
	return def
}

// IntArg returns an integer argument or def. JSON numbers arrive as
// float64; numeric strings are accepted too.
func IntArg(req mcp.CallToolRequest, name string, def int64) int64 {
	switch v := arg(req, name).(type) {
	case float64:
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

// ObjectsArg returns an array-of-objects argument. Elements that are not
// objects are skipped; nil means the argument was absent.
func ObjectsArg(req mcp.CallToolRequest, name string) []map[string]any {
	arr, ok := arg(req, name).([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for _, v := range arr {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func arg(req mcp.CallToolRequest, name string) any {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	return args[name]
}

// JSONResult wraps v as indented JSON text. Marshalling failures become
// tool errors so the client sees them.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
