// tools_guide.go implements beamtime_guide, which serves the embedded
// guide pages to clients.

package mcp

import (
	"context"
	"fmt"

	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/guide"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) getGuide(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := extension.StringArg(req, "topic", "")

	content, err := guide.Get(topic)
	log.Event("mcp:guide", "read").Author("mcp").Detail("topic", topic).Write(err)

	if err != nil {
		topics, listErr := guide.List()
		if listErr != nil {
			return nil, fmt.Errorf("listing guides: %w", listErr)
		}
		return extension.JSONResult(map[string]any{
			"error":            err.Error(),
			"available_topics": topics,
		})
	}
	return mcp.NewToolResultText(content), nil
}
