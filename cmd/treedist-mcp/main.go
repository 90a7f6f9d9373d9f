package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ludo-technologies/treedist/internal/config"
	"github.com/ludo-technologies/treedist/internal/version"
	"github.com/ludo-technologies/treedist/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const serverName = "treedist"

func main() {
	// MCP uses stdout for JSON-RPC
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Printf("Warning: failed to load configuration, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	mcp.RegisterTools(server, mcp.NewHandlerSet(mcp.NewDependencies(cfg)))

	log.Printf("Starting %s MCP server v%s\n", serverName, version.Short())
	log.Println("Registered tools:")
	log.Println("  - tree_edit_distance: Edit distance and edit script between two trees")
	log.Println("  - parse_tree: Bracket notation parsing and tree statistics")
	log.Println("")
	log.Println("Server ready - waiting for MCP client connection...")

	// Blocks until the client disconnects
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
