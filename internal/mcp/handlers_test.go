// ABOUTME: Tests for MCP tool handlers over an in-memory catalog
// ABOUTME: Expected failures surface as tool errors, not Go errors
package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/stacksapp/stacks/internal/models"
	"github.com/stacksapp/stacks/internal/pipeline"
	"github.com/stacksapp/stacks/internal/storage/sqlite"
)

type stubBackend struct{}

func (stubBackend) Available() bool { return false }
func (stubBackend) Init() error     { return nil }
func (stubBackend) Embed(string) ([]float32, error) {
	return make([]float32, sqlite.Dimension), nil
}

type nilEnricher struct{}

func (nilEnricher) Search(string, []string) (*models.Enrichment, error) { return nil, nil }

func newTestHandlers(t *testing.T) (*Handlers, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	orchestrator := pipeline.NewOrchestrator(store, nilEnricher{}, stubBackend{}, time.Millisecond, nil)
	return &Handlers{
		store:        store,
		orchestrator: orchestrator,
		backend:      stubBackend{},
		modelDir:     t.TempDir(),
	}, store
}

func seed(t *testing.T, store *sqlite.Store) {
	t.Helper()
	if _, err := store.ImportBooks([]models.ImportedBook{
		{ASIN: "B001", Title: "The Dispossessed", Authors: []string{"Le Guin, Ursula K."}},
		{ASIN: "B002", Title: "Hyperion", Authors: []string{"Simmons, Dan"}},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveMetadata("B001", &models.Enrichment{
		Description: "An ambiguous utopia on the moon Anarres.",
		Subjects:    []string{"science fiction"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.RebuildFTS(); err != nil {
		t.Fatal(err)
	}
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool returned error: %+v", res.Content)
	}
	text, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content is not text: %+v", res.Content[0])
	}
	return text.Text
}

func TestGetStats(t *testing.T) {
	h, store := newTestHandlers(t)
	seed(t, store)

	res, err := h.GetStats(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}

	var stats models.Stats
	if err := json.Unmarshal([]byte(resultText(t, res)), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalBooks != 2 || stats.Enriched != 1 || stats.WithEmbeddings != 0 {
		t.Errorf("stats = %+v, want 2 total, 1 enriched, 0 embedded", stats)
	}
}

func TestSearchBooksLexical(t *testing.T) {
	h, store := newTestHandlers(t)
	seed(t, store)

	res, err := h.SearchBooks(context.Background(), callRequest(map[string]interface{}{
		"query": "utopia",
	}))
	if err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}

	var books []models.BookDetail
	if err := json.Unmarshal([]byte(resultText(t, res)), &books); err != nil {
		t.Fatal(err)
	}
	if len(books) != 1 || books[0].ASIN != "B001" {
		t.Errorf("results = %+v, want B001", books)
	}
}

func TestSearchBooksBlankQuery(t *testing.T) {
	h, store := newTestHandlers(t)
	seed(t, store)

	res, err := h.SearchBooks(context.Background(), callRequest(map[string]interface{}{
		"query": "   ",
	}))
	if err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}
	if got := resultText(t, res); got != "[]" {
		t.Errorf("blank query result = %s, want empty list", got)
	}
}

func TestSearchBooksSemanticWithoutModel(t *testing.T) {
	h, store := newTestHandlers(t)
	seed(t, store)

	res, err := h.SearchBooks(context.Background(), callRequest(map[string]interface{}{
		"query": "anarchist society",
		"mode":  "semantic",
	}))
	if err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}
	if !res.IsError {
		t.Error("semantic search without model succeeded, want tool error")
	}
}

func TestBrowseBooksWithFilters(t *testing.T) {
	h, store := newTestHandlers(t)
	seed(t, store)

	res, err := h.BrowseBooks(context.Background(), callRequest(map[string]interface{}{
		"filters": []interface{}{
			map[string]interface{}{"field": "author", "value": "ursula leguin"},
		},
	}))
	if err != nil {
		t.Fatalf("BrowseBooks() error = %v", err)
	}

	var page paginatedBooks
	if err := json.Unmarshal([]byte(resultText(t, res)), &page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || len(page.Books) != 1 || page.Books[0].ASIN != "B001" {
		t.Errorf("page = %+v, want only B001", page)
	}
	if page.TotalPages != 1 {
		t.Errorf("total pages = %d, want 1", page.TotalPages)
	}
}

func TestBrowseBooksUnfiltered(t *testing.T) {
	h, store := newTestHandlers(t)
	seed(t, store)

	res, err := h.BrowseBooks(context.Background(), callRequest(map[string]interface{}{
		"per_page": 1,
		"page":     2,
	}))
	if err != nil {
		t.Fatalf("BrowseBooks() error = %v", err)
	}

	var page paginatedBooks
	if err := json.Unmarshal([]byte(resultText(t, res)), &page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 || page.TotalPages != 2 || len(page.Books) != 1 {
		t.Errorf("page = %+v, want second page of two", page)
	}
}

func TestBrowseBooksClampsPagination(t *testing.T) {
	h, store := newTestHandlers(t)
	seed(t, store)

	res, err := h.BrowseBooks(context.Background(), callRequest(map[string]interface{}{
		"per_page": 0,
		"page":     -3,
	}))
	if err != nil {
		t.Fatalf("BrowseBooks() error = %v", err)
	}

	var page paginatedBooks
	if err := json.Unmarshal([]byte(resultText(t, res)), &page); err != nil {
		t.Fatal(err)
	}
	if page.Page != 1 || page.PerPage != 50 {
		t.Errorf("page = %d per_page = %d, want defaults 1 and 50", page.Page, page.PerPage)
	}
	if page.Total != 2 || page.TotalPages != 1 {
		t.Errorf("totals = %d/%d, want 2 books on 1 page", page.Total, page.TotalPages)
	}
}

func TestSearchBooksClampsLimit(t *testing.T) {
	h, store := newTestHandlers(t)
	seed(t, store)

	res, err := h.SearchBooks(context.Background(), callRequest(map[string]interface{}{
		"query": "utopia",
		"limit": -5,
	}))
	if err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}

	var books []models.BookDetail
	if err := json.Unmarshal([]byte(resultText(t, res)), &books); err != nil {
		t.Fatal(err)
	}
	if len(books) != 1 {
		t.Errorf("results = %d, want 1", len(books))
	}
}

func TestGetBook(t *testing.T) {
	h, store := newTestHandlers(t)
	seed(t, store)

	res, err := h.GetBook(context.Background(), callRequest(map[string]interface{}{
		"asin": "B001",
	}))
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}

	var book models.BookDetail
	if err := json.Unmarshal([]byte(resultText(t, res)), &book); err != nil {
		t.Fatal(err)
	}
	if book.Title != "The Dispossessed" {
		t.Errorf("title = %q", book.Title)
	}

	res, err = h.GetBook(context.Background(), callRequest(map[string]interface{}{
		"asin": "B999",
	}))
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}
	if !res.IsError {
		t.Error("missing book lookup succeeded, want tool error")
	}
}

func TestClearMetadata(t *testing.T) {
	h, store := newTestHandlers(t)
	seed(t, store)

	res, err := h.ClearMetadata(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("ClearMetadata() error = %v", err)
	}

	var out map[string]int
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatal(err)
	}
	if out["cleared"] != 1 {
		t.Errorf("cleared = %d, want 1", out["cleared"])
	}

	pending, err := store.BooksWithoutMetadata()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Errorf("pending enrichment = %d, want 2 after clear", len(pending))
	}
}

func TestGetModelStatus(t *testing.T) {
	h, _ := newTestHandlers(t)

	res, err := h.GetModelStatus(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("GetModelStatus() error = %v", err)
	}

	var out struct {
		Downloaded bool   `json:"downloaded"`
		ModelDir   string `json:"model_dir"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatal(err)
	}
	if out.Downloaded {
		t.Error("downloaded = true for empty model dir")
	}
	if out.ModelDir == "" {
		t.Error("model_dir missing from status")
	}
}
