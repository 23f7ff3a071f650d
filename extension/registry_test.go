package extension

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

// testExtension is a minimal Extension implementation for testing.
type testExtension struct {
	name  string
	tools []MCPTool
}

func (e testExtension) Name() string               { return e.name }
func (e testExtension) Commands() []*cobra.Command { return nil }
func (e testExtension) MCPTools() []MCPTool        { return e.tools }

func TestRegister_PanicOnDuplicate(t *testing.T) {
	name := "test-duplicate-panic"
	Register(testExtension{name: name})

	assert.Panics(t, func() { Register(testExtension{name: name}) })
}

func TestRegistry_OrderAndTools(t *testing.T) {
	Register(testExtension{name: "test-order-a", tools: []MCPTool{{Tool: mcp.NewTool("tool_a")}}})
	Register(testExtension{name: "test-order-b", tools: []MCPTool{{Tool: mcp.NewTool("tool_b")}}})

	names := Names()
	ia, ib := -1, -1
	for i, n := range names {
		switch n {
		case "test-order-a":
			ia = i
		case "test-order-b":
			ib = i
		}
	}
	assert.True(t, ia >= 0 && ib > ia, "registration order preserved")
	assert.Equal(t, "test-order-a", Get("test-order-a").Name())
	assert.Nil(t, Get("missing"))

	var tools []string
	for _, tl := range Tools() {
		tools = append(tools, tl.Tool.Name)
	}
	assert.Contains(t, tools, "tool_a")
	assert.Contains(t, tools, "tool_b")
}
