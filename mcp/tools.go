package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers the treedist MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	if h == nil {
		h = NewHandlerSet(nil)
	}

	s.AddTool(mcp.NewTool("tree_edit_distance",
		mcp.WithDescription("Compute the minimum-cost edit script between two ordered labeled trees given in bracket notation such as A(B,C)"),
		mcp.WithString("tree1",
			mcp.Required(),
			mcp.Description("Source tree in bracket notation; an empty string is the empty tree")),
		mcp.WithString("tree2",
			mcp.Required(),
			mcp.Description("Target tree in bracket notation; an empty string is the empty tree")),
		mcp.WithString("strategy",
			mcp.Enum("backtracking", "branch_and_bound", "divide_and_conquer", "dynamic_programming"),
			mcp.Description("Run only this strategy (default: all configured strategies)")),
		mcp.WithNumber("insert_cost",
			mcp.Description("Cost of inserting one node (default: 1)")),
		mcp.WithNumber("delete_cost",
			mcp.Description("Cost of deleting one node (default: 1)")),
		mcp.WithNumber("replace_cost",
			mcp.Description("Cost of renaming one node (default: 1)")),
		mcp.WithBoolean("show_script",
			mcp.Description("Include the edit scripts of the search strategies (default: true)")),
	), h.HandleTreeEditDistance)

	s.AddTool(mcp.NewTool("parse_tree",
		mcp.WithDescription("Parse a bracket-notation tree and report its size, height, leaf count, fingerprint and postorder labels"),
		mcp.WithString("tree",
			mcp.Required(),
			mcp.Description("Tree in bracket notation")),
	), h.HandleParseTree)
}
