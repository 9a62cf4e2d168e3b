// ABOUTME: Tests for the model command group
// ABOUTME: Verifies status and download subcommands exist
package commands

import "testing"

func TestNewModelCmd(t *testing.T) {
	cmd := NewModelCmd()

	if cmd.Use != "model" {
		t.Errorf("Use = %q, want model", cmd.Use)
	}

	expected := []string{"status", "download"}
	for _, name := range expected {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Use == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not found", name)
		}
	}
}
