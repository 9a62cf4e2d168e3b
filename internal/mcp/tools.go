// ABOUTME: MCP tool definitions and registration for the stacks server
// ABOUTME: Exposes the catalog query surface and the sync pipeline
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/stacksapp/stacks/internal/pipeline"
	"github.com/stacksapp/stacks/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Store, orchestrator *pipeline.Orchestrator, backend pipeline.Backend, modelDir string) *Handlers {
	handlers := &Handlers{
		store:        store,
		orchestrator: orchestrator,
		backend:      backend,
		modelDir:     modelDir,
	}

	// 1. get_stats - catalog counts
	server.AddTool(mcp.Tool{
		Name:        "get_stats",
		Description: "Get catalog statistics: total books, enriched books, and books with embeddings.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetStats)

	// 2. search_books - lexical or semantic search
	server.AddTool(mcp.Tool{
		Name:        "search_books",
		Description: "Search the catalog. Lexical mode ranks by BM25 over title, authors, description, and subjects; semantic mode ranks by embedding similarity.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Search mode: 'lexical' (default) or 'semantic'",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default: 100)",
					"default":     100,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchBooks)

	// 3. browse_books - filtered, paginated browsing
	server.AddTool(mcp.Tool{
		Name:        "browse_books",
		Description: "Browse the catalog with structured filter chips, pagination, and sorting.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"filters": map[string]interface{}{
					"type":        "array",
					"description": "Filter chips; field is one of all, title, author, description, subject",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"field": map[string]interface{}{"type": "string"},
							"value": map[string]interface{}{"type": "string"},
						},
						"required": []string{"field", "value"},
					},
				},
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number, starting at 1 (default: 1)",
					"default":     1,
				},
				"per_page": map[string]interface{}{
					"type":        "number",
					"description": "Books per page (default: 50)",
					"default":     50,
				},
				"sort_by": map[string]interface{}{
					"type":        "string",
					"description": "Sort column: title, author, year, or rank",
				},
				"sort_dir": map[string]interface{}{
					"type":        "string",
					"description": "Sort direction: asc or desc",
				},
			},
		},
	}, handlers.BrowseBooks)

	// 4. get_book - single book lookup
	server.AddTool(mcp.Tool{
		Name:        "get_book",
		Description: "Get one book with its metadata by item id.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"asin": map[string]interface{}{
					"type":        "string",
					"description": "Item id of the book",
				},
			},
			Required: []string{"asin"},
		},
	}, handlers.GetBook)

	// 5. get_subjects - distinct subject list
	server.AddTool(mcp.Tool{
		Name:        "get_subjects",
		Description: "List all distinct subjects across the catalog, sorted alphabetically.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetSubjects)

	// 6. sync_library - run the pipeline
	server.AddTool(mcp.Tool{
		Name:        "sync_library",
		Description: "Run the sync pipeline: optionally import a library export, then enrich metadata and generate embeddings for anything missing them.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"import_path": map[string]interface{}{
					"type":        "string",
					"description": "Optional path to a library export JSON file",
				},
			},
		},
	}, handlers.SyncLibrary)

	// 7. clear_metadata - reset enrichment
	server.AddTool(mcp.Tool{
		Name:        "clear_metadata",
		Description: "Delete all enrichment metadata and embeddings so the next sync re-enriches every book.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ClearMetadata)

	// 8. get_model_status - local model availability
	server.AddTool(mcp.Tool{
		Name:        "get_model_status",
		Description: "Report whether the local embedding model is downloaded and where it lives.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetModelStatus)

	return handlers
}
