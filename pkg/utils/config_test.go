package utils

import (
	"path/filepath"
	"reflect"
	"testing"
)

// A saved configuration must load back field for field, including the
// values that differ from the defaults.
func TestConfigRoundTrip(t *testing.T) {
	config := DefaultConfig()
	config.Simulation.Rho = 0.25
	config.Simulation.NParts = 64
	config.Simulation.Dt = 5e-4
	config.Run.Iters = 500
	config.Run.Seed = 12345
	config.Run.Backend = "batch"
	config.Run.Workers = 4
	config.Output.StepR = 0.1
	config.Output.LessObs = true
	config.Output.Snapshots = "snapshots.jsonl"
	config.Output.SnapshotEvery = 50

	dir := t.TempDir()
	if err := SaveConfigTo(config, filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("SaveConfigTo: %v", err)
	}

	loaded, err := LoadConfigFrom(dir)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if !reflect.DeepEqual(loaded, config) {
		t.Errorf("loaded config differs:\n got %+v\nwant %+v", loaded, config)
	}
}

func TestLoadConfigFromMissingFile(t *testing.T) {
	loaded, err := LoadConfigFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if !reflect.DeepEqual(loaded, DefaultConfig()) {
		t.Errorf("missing file should yield the defaults, got %+v", loaded)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
}

func TestValidateConfigRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero particles", func(c *Config) { c.Simulation.NParts = 0 }},
		{"negative density", func(c *Config) { c.Simulation.Rho = -1 }},
		{"zero timestep", func(c *Config) { c.Simulation.Dt = 0 }},
		{"negative temperature", func(c *Config) { c.Simulation.Temperature = -1 }},
		{"zero iterations", func(c *Config) { c.Run.Iters = 0 }},
		{"negative thermalization", func(c *Config) { c.Run.ItersTherm = -1 }},
		{"zero skip", func(c *Config) { c.Run.Skip = 0 }},
		{"unknown backend", func(c *Config) { c.Run.Backend = "gpu" }},
		{"zero bin width", func(c *Config) { c.Output.StepR = 0 }},
		{"zero angle divisions", func(c *Config) { c.Output.NDivAngle = 0 }},
		{"negative snapshot interval", func(c *Config) { c.Output.SnapshotEvery = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			if err := ValidateConfig(config); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestEmptyBackendAccepted(t *testing.T) {
	config := DefaultConfig()
	config.Run.Backend = ""
	if err := ValidateConfig(config); err != nil {
		t.Fatalf("empty backend should fall back to the default: %v", err)
	}
}
