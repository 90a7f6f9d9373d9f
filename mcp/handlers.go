package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ludo-technologies/treedist/domain"
	"github.com/mark3labs/mcp-go/mcp"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil)
	}
	return &HandlerSet{deps: deps}
}

// HandleTreeEditDistance handles the tree_edit_distance tool
func (h *HandlerSet) HandleTreeEditDistance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	tree1, ok := args["tree1"].(string)
	if !ok {
		return mcp.NewToolResultError("tree1 parameter is required and must be a string"), nil
	}
	tree2, ok := args["tree2"].(string)
	if !ok {
		return mcp.NewToolResultError("tree2 parameter is required and must be a string"), nil
	}

	settings := h.deps.solverSettings()
	if s, ok := args["strategy"].(string); ok && s != "" {
		settings.Strategies = []domain.Strategy{domain.Strategy(s)}
	}
	if v, ok := args["insert_cost"].(float64); ok {
		settings.Costs.Insert = v
	}
	if v, ok := args["delete_cost"].(float64); ok {
		settings.Costs.Delete = v
	}
	if v, ok := args["replace_cost"].(float64); ok {
		settings.Costs.Replace = v
	}
	if err := settings.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid settings: %v", err)), nil
	}

	showScript := true
	if v, ok := args["show_script"].(bool); ok {
		showScript = v
	}

	source, err := h.deps.treeReader.ParseInline("tree1", tree1)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid tree1: %v", err)), nil
	}
	target, err := h.deps.treeReader.ParseInline("tree2", tree2)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid tree2: %v", err)), nil
	}

	req := domain.DefaultDistanceRequest()
	req.Inline = true
	req.Solver = settings

	result, err := h.deps.service.Compare(ctx, req, source, target)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	if !showScript {
		for i := range result.Results {
			result.Results[i].Operations = nil
		}
	}

	jsonData, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleParseTree handles the parse_tree tool
func (h *HandlerSet) HandleParseTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	notation, ok := args["tree"].(string)
	if !ok {
		return mcp.NewToolResultError("tree parameter is required and must be a string"), nil
	}

	loaded, err := h.deps.treeReader.ParseInline("tree", notation)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid tree: %v", err)), nil
	}

	t := loaded.Tree
	postorder := make([]string, 0, t.Size())
	for id := range t.PostOrder() {
		postorder = append(postorder, t.Label(id))
	}

	jsonData, err := json.Marshal(map[string]interface{}{
		"size":        t.Size(),
		"height":      t.Height(),
		"leaves":      t.Leaves(),
		"fingerprint": t.Fingerprint(),
		"bracket":     t.Bracket(),
		"postorder":   postorder,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
