package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/softmatterlab/activebrownian/pkg/utils"
)

const (
	appName = "activebrownian"
	version = "v1.0.0"
)

// rootCmd represents the base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Simulation of interacting active Brownian particles in 2D",
	Long: `activebrownian simulates a two-dimensional suspension of interacting
self-propelled Brownian particles under overdamped Langevin dynamics with
periodic boundary conditions. Particles repel through a harmonic-sphere
potential, self-propel along a diffusing orientation and experience
translational thermal noise.

The run command evolves the system, accumulates pair-correlation
observables and exports them together with a JSON run report.`,
	Version: version,
}

// initCmd writes the default configuration file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		config := utils.DefaultConfig()
		if err := utils.SaveConfig(config); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		path, err := utils.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Printf("Configuration initialized at: %s\n", path)
		return nil
	},
}

// printCmd shows the effective configuration
var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := utils.LoadConfig()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
