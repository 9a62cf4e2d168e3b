// ABOUTME: MCP tool handler implementations for the stacks server
// ABOUTME: Handlers return tool errors, not Go errors, for expected failures
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/stacksapp/stacks/internal/embed"
	"github.com/stacksapp/stacks/internal/models"
	"github.com/stacksapp/stacks/internal/pipeline"
	"github.com/stacksapp/stacks/internal/search"
	"github.com/stacksapp/stacks/internal/storage/sqlite"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	store        *sqlite.Store
	orchestrator *pipeline.Orchestrator
	backend      pipeline.Backend
	modelDir     string
}

// paginatedBooks is the browse_books response shape.
type paginatedBooks struct {
	Books      []models.BookDetail `json:"books"`
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"total_pages"`
}

// GetStats handles the get_stats tool
func (h *Handlers) GetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.store.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}
	return jsonResult(stats)
}

// SearchBooks handles the search_books tool
func (h *Handlers) SearchBooks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	mode := request.GetString("mode", "lexical")
	limit := request.GetInt("limit", 100)
	if limit < 1 {
		limit = 100
	}

	if strings.TrimSpace(query) == "" {
		return jsonResult([]models.BookDetail{})
	}

	var results []models.BookDetail
	switch mode {
	case "semantic":
		if !h.backend.Available() {
			return mcp.NewToolResultError("semantic search requires the embedding model; download it first"), nil
		}
		if err := h.backend.Init(); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load embedding model: %v", err)), nil
		}
		vector, err := h.backend.Embed(query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to embed query: %v", err)), nil
		}
		results, err = h.store.SearchVector(vector, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("vector search failed: %v", err)), nil
		}
	case "lexical":
		results, err = h.store.SearchLexical(query, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown mode %q: use 'lexical' or 'semantic'", mode)), nil
	}

	return jsonResult(results)
}

// BrowseBooks handles the browse_books tool
func (h *Handlers) BrowseBooks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chips, err := parseChips(request.GetArguments()["filters"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filters: %v", err)), nil
	}

	page := request.GetInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := request.GetInt("per_page", 50)
	if perPage < 1 {
		perPage = 50
	}
	sortBy := request.GetString("sort_by", "")
	sortDir := request.GetString("sort_dir", "")
	offset := (page - 1) * perPage

	books, err := h.store.SearchFiltered(chips, perPage, offset, sortBy, sortDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("browse failed: %v", err)), nil
	}
	total, err := h.store.FilteredCount(chips)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("count failed: %v", err)), nil
	}

	return jsonResult(paginatedBooks{
		Books:      books,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// GetBook handles the get_book tool
func (h *Handlers) GetBook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	asin, err := request.RequireString("asin")
	if err != nil {
		return mcp.NewToolResultError("asin argument is required and must be a string"), nil
	}

	book, err := h.store.BookByASIN(asin)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if book == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no book with id %q", asin)), nil
	}
	return jsonResult(book)
}

// GetSubjects handles the get_subjects tool
func (h *Handlers) GetSubjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subjects, err := h.store.Subjects()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get subjects: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{"subjects": subjects})
}

// SyncLibrary handles the sync_library tool
func (h *Handlers) SyncLibrary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	importPath := request.GetString("import_path", "")

	stats, err := h.orchestrator.Run(importPath, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sync failed: %v", err)), nil
	}
	return jsonResult(stats)
}

// ClearMetadata handles the clear_metadata tool
func (h *Handlers) ClearMetadata(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cleared, err := h.store.ClearMetadata()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clear failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{"cleared": cleared})
}

// GetModelStatus handles the get_model_status tool
func (h *Handlers) GetModelStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]interface{}{
		"downloaded": embed.ModelAvailable(h.modelDir),
		"model_dir":  h.modelDir,
	})
}

// parseChips converts the raw filters argument into search chips.
func parseChips(raw interface{}) ([]search.Chip, error) {
	if raw == nil {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var chips []search.Chip
	if err := json.Unmarshal(data, &chips); err != nil {
		return nil, err
	}
	return chips, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
