// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Exposes the catalog to LLM agents via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/stacksapp/stacks/internal/config"
	"github.com/stacksapp/stacks/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the catalog as an MCP (Model Context Protocol) server over stdio,
so LLM agents can search, browse, and sync your library.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by the agent host)
  stacks mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "stacks": {
  #       "command": "stacks",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	orchestrator, backend, err := newOrchestrator(cfg, store)
	if err != nil {
		return err
	}

	// Opportunistically embed anything left without a vector.
	go orchestrator.AutoEmbed()

	server := mcpserver.NewMCPServer(
		"Stacks Catalog",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, store, orchestrator, backend, resolveModelDir(cfg))

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Stacks MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, shutting down...")
		}
		if err := store.Close(); err != nil {
			log.Printf("Warning: error closing catalog: %v", err)
		}

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
