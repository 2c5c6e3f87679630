package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addSimFlags(cmd)
	return cmd
}

// resetFlags restores the package-level flag targets between tests.
func resetFlags() {
	newTestCommand()
}

func TestResolveConfigFlagsOverridePreset(t *testing.T) {
	cmd := newTestCommand()
	if err := cmd.ParseFlags([]string{"--preset", "demo", "--particles", "7", "--closed"}); err != nil {
		t.Fatal(err)
	}
	defer resetFlags()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chain.Particles != 7 || !cfg.Chain.Closed {
		t.Errorf("flags not applied: %+v", cfg.Chain)
	}
	// untouched flags keep the preset values
	if cfg.Physics.Stiffness != 50 {
		t.Errorf("stiffness = %v, want preset value 50", cfg.Physics.Stiffness)
	}
}

func TestResolveConfigUnknownPreset(t *testing.T) {
	cmd := newTestCommand()
	if err := cmd.ParseFlags([]string{"--preset", "nope"}); err != nil {
		t.Fatal(err)
	}
	defer resetFlags()

	if _, err := resolveConfig(cmd); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestResolveConfigRejectsInvalid(t *testing.T) {
	cmd := newTestCommand()
	if err := cmd.ParseFlags([]string{"--particles", "500", "--capacity", "10"}); err != nil {
		t.Fatal(err)
	}
	defer resetFlags()

	if _, err := resolveConfig(cmd); err == nil {
		t.Error("expected error when particles exceed capacity")
	}
}

func TestParseGrid(t *testing.T) {
	name, values, err := parseGrid("stiffness=10:40:4")
	if err != nil {
		t.Fatal(err)
	}
	if name != "stiffness" {
		t.Errorf("name = %q", name)
	}
	want := []float64{10, 20, 30, 40}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("values = %v, want %v", values, want)
			break
		}
	}

	for _, bad := range []string{"stiffness", "=1:2:3", "dt=a:b:c", "dt=0.1:0.2:0"} {
		if _, _, err := parseGrid(bad); err == nil {
			t.Errorf("parseGrid(%q) should fail", bad)
		}
	}
}
