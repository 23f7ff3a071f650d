package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/beamtime/cmd"
	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/beamtime"
	"github.com/jpl-au/beamtime/internal/config"
	"github.com/jpl-au/beamtime/internal/repo"
)

const reference = `
runs:
  - {id: 1, name: "2025-1"}
  - {id: 2, name: "2025-2"}
beamlines:
  - {id: 10, name: "13-BM-C"}
stations:
  - {id: 3, name: "13-BM-C"}
techniques:
  - {id: 4, name: "XRD"}
experiments:
  - {id: 100, run_id: 1, beamline_id: 10, proposal_id: 5001, title: "Powder"}
  - {id: 101, run_id: 2, beamline_id: 10}
data_paths:
  - {id: 1, path_template: "/cars5/Data/{YEAR}", station_id: 3, technique_id: 4}
`

// setup returns an initialised extension and its context, seeded from
// reference.
func setup(t *testing.T) (*Extension, extension.Context) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, repo.Init(repo.Options{Dir: dir}))

	svc, err := beamtime.Open(&config.Config{}, "", dir)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	ctx := extension.NewContext(svc, svc.DB(), svc.Config())
	e := &Extension{}
	require.NoError(t, e.Init(ctx))

	file := filepath.Join(dir, "reference.yaml")
	require.NoError(t, os.WriteFile(file, []byte(reference), 0644))
	ref, err := readReference(file)
	require.NoError(t, err)
	_, err = svc.Seed(context.Background(), ref)
	require.NoError(t, err)
	return e, ctx
}

// call runs a tool handler by name and decodes its JSON text into v.
func call(t *testing.T, e *Extension, ctx extension.Context, name string, args map[string]any, v any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	for _, tool := range e.MCPTools() {
		if tool.Tool.Name != name {
			continue
		}
		res, err := tool.Handler(context.Background(), ctx, req)
		require.NoError(t, err)
		if v != nil && !res.IsError {
			text := res.Content[0].(mcp.TextContent).Text
			require.NoError(t, json.Unmarshal([]byte(text), v))
		}
		return res
	}
	t.Fatalf("tool %s not registered", name)
	return nil
}

func TestListTool(t *testing.T) {
	e, ctx := setup(t)

	var runs []map[string]any
	call(t, e, ctx, "beamtime_list", map[string]any{"kind": "run"}, &runs)
	require.Len(t, runs, 2)
	assert.Equal(t, "2025-1", runs[0]["name"])

	var queued []map[string]any
	call(t, e, ctx, "beamtime_list", map[string]any{"kind": "queue"}, &queued)
	assert.Empty(t, queued)
	assert.NotNil(t, queued)

	res := call(t, e, ctx, "beamtime_list", map[string]any{"kind": "proposal"}, nil)
	assert.True(t, res.IsError)
}

func TestExperimentsTool(t *testing.T) {
	e, ctx := setup(t)

	var exps []map[string]any
	call(t, e, ctx, "beamtime_experiments", map[string]any{"run": float64(2)}, &exps)
	require.Len(t, exps, 1)
	assert.Equal(t, "N/A", exps[0]["title"])
	assert.Equal(t, "Unknown", exps[0]["process_status"])

	call(t, e, ctx, "beamtime_experiments", nil, &exps)
	assert.Len(t, exps, 2)
}

func TestDataPathTool(t *testing.T) {
	e, ctx := setup(t)

	var res dataPathResult
	call(t, e, ctx, "beamtime_data_path", map[string]any{"station_id": float64(3), "technique_id": float64(4)}, &res)
	assert.Equal(t, "/cars5/Data/{YEAR}", res.Template)
	assert.NotContains(t, res.Expanded, "{YEAR}")

	res = dataPathResult{}
	call(t, e, ctx, "beamtime_data_path", map[string]any{"station_id": float64(3), "technique_id": float64(9)}, &res)
	assert.Equal(t, "", res.Template)

	r := call(t, e, ctx, "beamtime_data_path", map[string]any{"station_id": float64(3)}, nil)
	assert.True(t, r.IsError)
}

func TestLsCmd(t *testing.T) {
	e, _ := setup(t)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	t.Cleanup(func() { cmd.SetOut(os.Stdout) })

	c := e.newLsCmd()
	c.SetArgs([]string{"run", "--where", "name=2025-2"})
	require.NoError(t, c.ExecuteContext(context.Background()))
	assert.Contains(t, buf.String(), "2025-2")
	assert.NotContains(t, buf.String(), "2025-1")

	c = e.newLsCmd()
	c.SetArgs([]string{"run", "--where", "name"})
	c.SilenceErrors, c.SilenceUsage = true, true
	assert.Error(t, c.ExecuteContext(context.Background()))
}

func TestParseWhere(t *testing.T) {
	f, err := parseWhere([]string{"station_id=3", " technique_id =4", "name=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "3", f["station_id"])
	assert.Equal(t, "4", f["technique_id"])
	assert.Equal(t, "a=b", f["name"])

	_, err = parseWhere([]string{"=3"})
	assert.Error(t, err)
}

func TestReadReference_Invalid(t *testing.T) {
	dir := t.TempDir()
	_, err := readReference(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("runs: {id: [}"), 0644))
	_, err = readReference(bad)
	assert.Error(t, err)
}
