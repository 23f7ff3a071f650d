package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/queue"
	"github.com/jpl-au/beamtime/internal/service"
)

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

// uninitialised returns handlers for an empty project with HOME isolated.
func uninitialised(t *testing.T) *handlers {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return &handlers{dir: t.TempDir()}
}

func TestTrimURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
		ok   bool
	}{
		{"beamtime://guide/queue", "queue", true},
		{"beamtime://guide/", "", false},
		{"beamtime://guide/a/b", "", false},
		{"beamtime://catalog/run", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := trimURI(tt.uri, guidePrefix)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrap_Uninitialised(t *testing.T) {
	h := uninitialised(t)
	called := false
	fn := h.wrap(func(context.Context, extension.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return nil, nil
	})

	res, err := fn(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, ErrNotInitialised, text(t, res))
	assert.False(t, called)

	_, err = h.readCatalog(context.Background(), mcp.ReadResourceRequest{})
	assert.EqualError(t, err, ErrNotInitialised)
}

func TestInitCatalog(t *testing.T) {
	h := uninitialised(t)

	res, err := h.initCatalog(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	require.NotNil(t, h.svc)
	t.Cleanup(func() { h.svc.Close() })

	res, err = h.initCatalog(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	fn := h.wrap(func(ctx context.Context, extCtx extension.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		r, err := extCtx.Service().Ingest(ctx, []queue.Row{{"title": "A"}}, service.Origin{Source: "test"})
		if err != nil {
			return nil, err
		}
		return extension.JSONResult(r)
	})
	res, err = fn(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":1,"failure":0}`, text(t, res))

	var req mcp.ReadResourceRequest
	req.Params.URI = catalogPrefix + "queue"
	contents, err := h.readCatalog(context.Background(), req)
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0]["title"])

	req.Params.URI = catalogPrefix + "proposal"
	_, err = h.readCatalog(context.Background(), req)
	assert.Error(t, err)
}

func TestGuideTool(t *testing.T) {
	h := uninitialised(t)

	var req mcp.CallToolRequest
	req.Params.Arguments = map[string]any{"topic": "queue"}
	res, err := h.getGuide(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "create_update_queue")

	req.Params.Arguments = map[string]any{"topic": "nope"}
	res, err = h.getGuide(context.Background(), req)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &body))
	assert.Contains(t, body, "available_topics")

	var rreq mcp.ReadResourceRequest
	rreq.Params.URI = guidePrefix + "paths"
	contents, err := h.readGuide(context.Background(), rreq)
	require.NoError(t, err)
	assert.Equal(t, "text/markdown", contents[0].(mcp.TextResourceContents).MIMEType)
}

func TestNewServer(t *testing.T) {
	s := newServer(uninitialised(t))
	assert.NotNil(t, s)
}
