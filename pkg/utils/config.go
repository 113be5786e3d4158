// Package utils holds the configuration layer shared by the CLI
// commands.
package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation" mapstructure:"simulation"`
	Run        RunConfig        `yaml:"run" mapstructure:"run"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// SimulationConfig contains the physical parameters.
type SimulationConfig struct {
	Rho         float64 `yaml:"rho" mapstructure:"rho"`
	NParts      int     `yaml:"n_parts" mapstructure:"n_parts"`
	PotStrength float64 `yaml:"pot_strength" mapstructure:"pot_strength"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	RotDif      float64 `yaml:"rot_dif" mapstructure:"rot_dif"`
	Activity    float64 `yaml:"activity" mapstructure:"activity"`
	Dt          float64 `yaml:"dt" mapstructure:"dt"`
}

// RunConfig contains the run-control parameters.
type RunConfig struct {
	Iters      int    `yaml:"iters" mapstructure:"iters"`
	ItersTherm int    `yaml:"iters_therm" mapstructure:"iters_therm"`
	Skip       int    `yaml:"skip" mapstructure:"skip"`
	SleepMs    int    `yaml:"sleep_ms" mapstructure:"sleep_ms"`
	Seed       uint64 `yaml:"seed" mapstructure:"seed"`
	Backend    string `yaml:"backend" mapstructure:"backend"`
	Workers    int    `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig contains the export settings.
type OutputConfig struct {
	Dir           string  `yaml:"dir" mapstructure:"dir"`
	Correlations  string  `yaml:"correlations" mapstructure:"correlations"`
	Result        string  `yaml:"result" mapstructure:"result"`
	Snapshots     string  `yaml:"snapshots" mapstructure:"snapshots"`
	SnapshotEvery int     `yaml:"snapshot_every" mapstructure:"snapshot_every"`
	StepR         float64 `yaml:"step_r" mapstructure:"step_r"`
	NDivAngle     int     `yaml:"n_div_angle" mapstructure:"n_div_angle"`
	LessObs       bool    `yaml:"less_obs" mapstructure:"less_obs"`
	Cartesian     bool    `yaml:"cartesian" mapstructure:"cartesian"`
}

// DefaultConfig returns a configuration for a small reference run.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Rho:         0.5,
			NParts:      1000,
			PotStrength: 10,
			Temperature: 0.1,
			RotDif:      1,
			Activity:    1,
			Dt:          1e-4,
		},
		Run: RunConfig{
			Iters:      100000,
			ItersTherm: 10000,
			Skip:       100,
			SleepMs:    0,
			Seed:       0,
			Backend:    "scalar",
			Workers:    1,
		},
		Output: OutputConfig{
			Dir:           "output",
			Correlations:  "correlations.csv",
			Result:        "result.json",
			Snapshots:     "",
			SnapshotEvery: 0,
			StepR:         0.05,
			NDivAngle:     24,
			LessObs:       false,
			Cartesian:     false,
		},
	}
}

// LoadConfig loads configuration from the default search paths or falls
// back to defaults.
func LoadConfig() (*Config, error) {
	homeDir, _ := os.UserHomeDir()
	return LoadConfigFrom(filepath.Join(homeDir, ".activebrownian"), ".")
}

// LoadConfigFrom loads a config.yaml from the first of the given
// directories that holds one, falling back to defaults when none does.
// Values absent from the file keep their defaults.
func LoadConfigFrom(dirs ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("ACTIVEBROWNIAN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// SaveConfig writes the configuration to the default location.
func SaveConfig(config *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveConfigTo(config, path)
}

// SaveConfigTo writes the configuration as yaml to the given path,
// creating the parent directory if needed.
func SaveConfigTo(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".activebrownian", "config.yaml"), nil
}

// ValidateConfig checks the configuration before any simulation state
// is constructed; the core assumes pre-validated parameters.
func ValidateConfig(config *Config) error {
	s := config.Simulation
	if s.NParts <= 0 {
		return fmt.Errorf("simulation.n_parts must be positive, got %d", s.NParts)
	}
	if s.Rho <= 0 {
		return fmt.Errorf("simulation.rho must be positive, got %g", s.Rho)
	}
	if s.Dt <= 0 {
		return fmt.Errorf("simulation.dt must be positive, got %g", s.Dt)
	}
	if s.PotStrength < 0 || s.Temperature < 0 || s.RotDif < 0 || s.Activity < 0 {
		return fmt.Errorf("simulation parameters cannot be negative")
	}

	r := config.Run
	if r.Iters <= 0 {
		return fmt.Errorf("run.iters must be positive, got %d", r.Iters)
	}
	if r.ItersTherm < 0 {
		return fmt.Errorf("run.iters_therm cannot be negative, got %d", r.ItersTherm)
	}
	if r.Skip <= 0 {
		return fmt.Errorf("run.skip must be positive, got %d", r.Skip)
	}
	if r.Backend != "" && r.Backend != "scalar" && r.Backend != "batch" {
		return fmt.Errorf("run.backend must be \"scalar\" or \"batch\", got %q", r.Backend)
	}

	o := config.Output
	if o.StepR <= 0 {
		return fmt.Errorf("output.step_r must be positive, got %g", o.StepR)
	}
	if o.NDivAngle <= 0 {
		return fmt.Errorf("output.n_div_angle must be positive, got %d", o.NDivAngle)
	}
	if o.SnapshotEvery < 0 {
		return fmt.Errorf("output.snapshot_every cannot be negative, got %d", o.SnapshotEvery)
	}

	return nil
}
