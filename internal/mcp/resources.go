// resources.go implements read-only MCP resources. Clients load guide
// pages and reference tables as context without calling a tool.
//
// URIs: beamtime://guide/{topic} and beamtime://catalog/{kind}.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jpl-au/beamtime/guide"
	"github.com/jpl-au/beamtime/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ErrInvalidURI indicates a malformed resource URI.
var ErrInvalidURI = errors.New("invalid URI")

const (
	guidePrefix   = "beamtime://guide/"
	catalogPrefix = "beamtime://catalog/"
)

func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			guidePrefix+"{topic}",
			"Guide",
			mcp.WithTemplateDescription("Read a beamtime guide page"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		h.readGuide,
	)
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			catalogPrefix+"{kind}",
			"Catalog table",
			mcp.WithTemplateDescription("Read every row of a reference table (run, beamline, station, technique, ...)"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		h.readCatalog,
	)
}

func (h *handlers) readGuide(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	topic, err := trimURI(req.Params.URI, guidePrefix)
	if err != nil {
		return nil, err
	}
	content, err := guide.Get(topic)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "text/markdown", Text: content},
	}, nil
}

func (h *handlers) readCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.svc == nil {
		return nil, errors.New(ErrNotInitialised)
	}
	name, err := trimURI(req.Params.URI, catalogPrefix)
	if err != nil {
		return nil, err
	}
	kind, err := store.ParseKind(name)
	if err != nil {
		return nil, err
	}
	rows, err := h.svc.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []store.Record{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
	}, nil
}

// trimURI returns the single path segment after prefix.
func trimURI(uri, prefix string) (string, error) {
	if !strings.HasPrefix(uri, prefix) {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	rest := strings.TrimPrefix(uri, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	return rest, nil
}
