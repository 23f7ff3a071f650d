// Package datapath provides the data path extension for beamtime.
// It registers the check-path command and the MCP tool beamtime_check_path,
// both backed by the service's path checker.
package datapath

import (
	"context"
	"fmt"
	"os"

	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/diff"
	"github.com/jpl-au/beamtime/internal/format"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/jpl-au/beamtime/internal/validate"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the data path extension.
type Extension struct {
	svc service.Service
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "datapath".
func (e *Extension) Name() string { return "datapath" }

// Init receives the shared service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns check-path.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{e.newCheckPathCmd()}
}

func (e *Extension) newCheckPathCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "check-path <path>",
		Short: "Validate and normalise a data path",
		Long: `Check a data path the way the web page does before acquisition:
prohibited characters and misplaced colons make it invalid, separators are
collapsed, and local paths are probed for existence. http, https, ftp and
sftp paths are never probed.

  beamtime check-path '/cars5/Data//2025/Oct/'
  beamtime check-path 'C:\data\run1' --diff     # show what normalisation changed

Exits non-zero for an invalid path.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runCheckPath,
	}
	c.Flags().Bool(extension.FlagDiff, false, "Show the normalisation as an inline diff")
	return c
}

func (e *Extension) runCheckPath(c *cobra.Command, args []string) error {
	p := args[0]
	showDiff, _ := c.Flags().GetBool(extension.FlagDiff)

	res, err := e.svc.CheckPath(c.Context(), p, service.Origin{Source: "datapath:check-path", Author: cmd.Author()})
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("check-path: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(res)
	}

	format.PathResult(cmd.Out(), p, res)
	if showDiff && res.Valid {
		colour := term.IsTerminal(int(os.Stdout.Fd()))
		fmt.Fprintf(cmd.Out(), "diff:       %s\n", diff.Inline(p, res.Normalized, colour))
	}

	if !res.Valid {
		c.SilenceUsage = true
		return fmt.Errorf("%w: %s", validate.ErrInvalidPath, res.Message)
	}
	return nil
}

// MCPTools returns beamtime_check_path.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{
		{
			Tool: mcp.NewTool("beamtime_check_path",
				mcp.WithDescription("Validate, normalise and probe a data path. Returns valid, exists, normalized and message."),
				mcp.WithString("path", mcp.Required(), mcp.Description("Data path to check")),
			),
			Handler: checkPathTool,
		},
	}
}

func checkPathTool(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := extension.StringArg(req, "path", "")
	res, err := extCtx.Service().CheckPath(ctx, p, service.Origin{Source: "mcp:beamtime_check_path", Author: "mcp"})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return extension.JSONResult(res)
}
