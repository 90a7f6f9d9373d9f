package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treedist/internal/config"
	"github.com/ludo-technologies/treedist/mcp"
)

func callTool(t *testing.T, handler func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), args map[string]interface{}) *mcplib.CallToolResult {
	t.Helper()
	result, err := handler(context.Background(), mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{Arguments: args},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleTreeEditDistance(t *testing.T) {
	h := mcp.NewHandlerSet(nil)

	result := callTool(t, h.HandleTreeEditDistance, map[string]interface{}{
		"tree1": "A(B,C)",
		"tree2": "A(B(D))",
	})
	require.False(t, result.IsError, resultText(t, result))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.Equal(t, 2.0, resp["distance"])
	assert.Equal(t, true, resp["has_distance"])

	results, ok := resp["results"].([]interface{})
	require.True(t, ok)
	assert.Len(t, results, 4)
}

func TestHandleTreeEditDistance_Options(t *testing.T) {
	h := mcp.NewHandlerSet(nil)

	result := callTool(t, h.HandleTreeEditDistance, map[string]interface{}{
		"tree1":       "A",
		"tree2":       "",
		"strategy":    "divide_and_conquer",
		"delete_cost": 5.0,
		"show_script": false,
	})
	require.False(t, result.IsError, resultText(t, result))

	var resp struct {
		Distance float64 `json:"distance"`
		Results  []struct {
			Strategy   string        `json:"strategy"`
			Operations []interface{} `json:"operations"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.Equal(t, 5.0, resp.Distance)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "divide_and_conquer", resp.Results[0].Strategy)
	assert.Empty(t, resp.Results[0].Operations)
}

func TestHandleTreeEditDistance_Errors(t *testing.T) {
	h := mcp.NewHandlerSet(mcp.NewDependencies(config.DefaultConfig()))

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{
			name: "missing tree1",
			args: map[string]interface{}{"tree2": "A"},
			want: "tree1 parameter is required",
		},
		{
			name: "malformed tree",
			args: map[string]interface{}{"tree1": "A(B", "tree2": "A"},
			want: "invalid tree1",
		},
		{
			name: "unknown strategy",
			args: map[string]interface{}{"tree1": "A", "tree2": "B", "strategy": "greedy"},
			want: "invalid settings",
		},
		{
			name: "negative cost",
			args: map[string]interface{}{"tree1": "A", "tree2": "B", "replace_cost": -1.0},
			want: "invalid settings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, h.HandleTreeEditDistance, tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

func TestHandleTreeEditDistance_InvalidArguments(t *testing.T) {
	h := mcp.NewHandlerSet(nil)

	result, err := h.HandleTreeEditDistance(context.Background(), mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{Arguments: "not a map"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "invalid arguments format")
}

func TestHandleParseTree(t *testing.T) {
	h := mcp.NewHandlerSet(nil)

	result := callTool(t, h.HandleParseTree, map[string]interface{}{"tree": "A(B(D),C)"})
	require.False(t, result.IsError, resultText(t, result))

	var resp struct {
		Size        int      `json:"size"`
		Height      int      `json:"height"`
		Leaves      int      `json:"leaves"`
		Fingerprint string   `json:"fingerprint"`
		Bracket     string   `json:"bracket"`
		Postorder   []string `json:"postorder"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.Equal(t, 4, resp.Size)
	assert.Equal(t, 2, resp.Height)
	assert.Equal(t, 2, resp.Leaves)
	assert.NotEmpty(t, resp.Fingerprint)
	assert.Equal(t, "A(B(D),C)", resp.Bracket)
	assert.Equal(t, []string{"D", "B", "C", "A"}, resp.Postorder)

	result = callTool(t, h.HandleParseTree, map[string]interface{}{"tree": "A(,)"})
	assert.True(t, result.IsError)
}
