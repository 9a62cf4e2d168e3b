// ABOUTME: Tests for the search command structure
// ABOUTME: Verifies flags and argument handling
package commands

import "testing"

func TestNewSearchCmd(t *testing.T) {
	cmd := NewSearchCmd()

	if cmd.Use != "search <query>" {
		t.Errorf("Use = %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	limit := cmd.Flags().Lookup("limit")
	if limit == nil {
		t.Fatal("--limit flag not found")
	}
	if limit.DefValue != "20" {
		t.Errorf("--limit default = %q, want 20", limit.DefValue)
	}

	if cmd.Flags().Lookup("semantic") == nil {
		t.Error("--semantic flag not found")
	}
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	cmd := NewSearchCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Error("search without query succeeded, want error")
	}
}
