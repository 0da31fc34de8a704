package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateReportsEachProblem(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative density", func(c *Config) { c.Density = -0.1 }, "density"},
		{"density above one", func(c *Config) { c.Density = 1.5 }, "density"},
		{"zero citizen vision", func(c *Config) { c.CitizenVision = 0 }, "citizen_vision"},
		{"negative cop vision", func(c *Config) { c.CopVision = -2 }, "cop_vision"},
		{"empty grid", func(c *Config) { c.Width = 0 }, "grid"},
		{"legitimacy", func(c *Config) { c.Legitimacy = 2 }, "legitimacy"},
		{"jail capacity", func(c *Config) { c.JailCapacity = -1 }, "jail_capacity"},
		{"max iters", func(c *Config) { c.MaxIters = -1 }, "max_iters"},
		{"layout", func(c *Config) { c.Layout = "spiral" }, "layout"},
		{"hardship field", func(c *Config) { c.HardshipField = "perlin" }, "hardship_field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Density = -1
	cfg.CopVision = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "density") || !strings.Contains(msg, "cop_vision") {
		t.Fatalf("joined error missing a cause: %q", msg)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
height: 10
width: 12
legitimacy: 0.5
movement: false
layout: street
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Height != 10 || cfg.Width != 12 || cfg.Legitimacy != 0.5 || cfg.Movement {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Layout != LayoutStreet {
		t.Fatalf("layout = %q", cfg.Layout)
	}
	if cfg.CopVision != Default().CopVision {
		t.Fatalf("unset key lost its default: cop_vision = %d", cfg.CopVision)
	}
}

func TestParseEmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("empty document should yield defaults, got %+v", cfg)
	}
}

func TestParseSchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "hieght: 10\n"},
		{"wrong type", "density: lots\n"},
		{"out of range", "ratio: 3\n"},
		{"non-integer vision", "cop_vision: 1.5\n"},
		{"bad layout", "layout: spiral\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Fatalf("expected %q to be rejected", tt.doc)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(path, []byte("max_iters: 5\nseed: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxIters != 5 || cfg.Seed != 9 {
		t.Fatalf("loaded %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
