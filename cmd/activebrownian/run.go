package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/softmatterlab/activebrownian/internal/types"
	"github.com/softmatterlab/activebrownian/pkg/observables"
	"github.com/softmatterlab/activebrownian/pkg/runner"
	"github.com/softmatterlab/activebrownian/pkg/sim"
	"github.com/softmatterlab/activebrownian/pkg/utils"
)

// runCmd executes a full simulation run
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation and export the observables",
	Long: `Run evolves the particle suspension for the configured number of
timesteps after an optional thermalization phase. Pair correlations are
accumulated every few steps and written as CSV; a JSON report records
the parameters, timing and force statistics of the run. Flags override
values from the configuration file.`,
	RunE: runSimulation,
}

func init() {
	f := runCmd.Flags()
	f.Float64("rho", 0, "number density n/L²")
	f.Int("nparts", 0, "number of particles")
	f.Float64("pot-strength", -1, "strength of the harmonic repulsion")
	f.Float64("temperature", -1, "temperature (translational noise)")
	f.Float64("rot-dif", -1, "rotational diffusivity")
	f.Float64("activity", -1, "self-propulsion speed")
	f.Float64("dt", 0, "timestep")
	f.Int("iters", 0, "number of iterations")
	f.Int("iters-therm", -1, "thermalization iterations")
	f.Int("skip", 0, "steps between observable accumulations")
	f.Int("sleep", -1, "milliseconds to sleep between iterations")
	f.Uint64("seed", 0, "random seed (0 uses the current time)")
	f.String("backend", "", "integration backend: scalar or batch")
	f.Int("workers", 0, "goroutines for the force computation")
	f.String("output", "", "output directory")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	config, err := utils.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, config)

	if err := utils.ValidateConfig(config); err != nil {
		return err
	}

	params := sim.Params{
		Rho: config.Simulation.Rho,
		N:   config.Simulation.NParts,
		K:   config.Simulation.PotStrength,
		T:   config.Simulation.Temperature,
		Dr:  config.Simulation.RotDif,
		V0:  config.Simulation.Activity,
		Dt:  config.Simulation.Dt,
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid simulation parameters: %w", err)
	}

	seed := config.Run.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	printParameters(params, config, seed)

	state, err := sim.NewState(params, sim.Options{
		Seed:    seed,
		Backend: sim.Backend(config.Run.Backend),
		Workers: config.Run.Workers,
	})
	if err != nil {
		return fmt.Errorf("failed to create simulation state: %w", err)
	}

	obs, err := observables.NewCorrelations(state.BoxLength(), params.N, observables.Config{
		StepR:     config.Output.StepR,
		NDivAngle: config.Output.NDivAngle,
		LessObs:   config.Output.LessObs,
		Cartesian: config.Output.Cartesian,
	})
	if err != nil {
		return fmt.Errorf("failed to create observables: %w", err)
	}

	if err := os.MkdirAll(config.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var sink runner.SnapshotSink
	snapshotPath := ""
	if config.Output.Snapshots != "" && config.Output.SnapshotEvery > 0 {
		snapshotPath = filepath.Join(config.Output.Dir, config.Output.Snapshots)
		w, err := runner.NewJSONLSnapshotWriter(snapshotPath)
		if err != nil {
			return fmt.Errorf("failed to open snapshot file: %w", err)
		}
		defer w.Close()
		sink = w
	}

	runCfg := runner.Config{
		Iters:         config.Run.Iters,
		ItersTherm:    config.Run.ItersTherm,
		Skip:          config.Run.Skip,
		Sleep:         time.Duration(config.Run.SleepMs) * time.Millisecond,
		SnapshotEvery: config.Output.SnapshotEvery,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	r := runner.New(state, obs, sink, runCfg)
	runErr := r.Run(ctx)

	result := buildResult(params, config, seed, obs, snapshotPath, time.Since(start), runErr)

	correlPath := filepath.Join(config.Output.Dir, config.Output.Correlations)
	if err := obs.WriteCSV(correlPath); err != nil {
		return fmt.Errorf("failed to export correlations: %w", err)
	}

	resultPath := filepath.Join(config.Output.Dir, config.Output.Result)
	if err := writeResult(resultPath, result); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}

	if runErr != nil {
		return fmt.Errorf("run aborted: %w", runErr)
	}
	fmt.Printf("Results written to %s\n", config.Output.Dir)
	return nil
}

// applyFlags overrides config values with explicitly set flags.
func applyFlags(cmd *cobra.Command, config *utils.Config) {
	f := cmd.Flags()
	if f.Changed("rho") {
		config.Simulation.Rho, _ = f.GetFloat64("rho")
	}
	if f.Changed("nparts") {
		config.Simulation.NParts, _ = f.GetInt("nparts")
	}
	if f.Changed("pot-strength") {
		config.Simulation.PotStrength, _ = f.GetFloat64("pot-strength")
	}
	if f.Changed("temperature") {
		config.Simulation.Temperature, _ = f.GetFloat64("temperature")
	}
	if f.Changed("rot-dif") {
		config.Simulation.RotDif, _ = f.GetFloat64("rot-dif")
	}
	if f.Changed("activity") {
		config.Simulation.Activity, _ = f.GetFloat64("activity")
	}
	if f.Changed("dt") {
		config.Simulation.Dt, _ = f.GetFloat64("dt")
	}
	if f.Changed("iters") {
		config.Run.Iters, _ = f.GetInt("iters")
	}
	if f.Changed("iters-therm") {
		config.Run.ItersTherm, _ = f.GetInt("iters-therm")
	}
	if f.Changed("skip") {
		config.Run.Skip, _ = f.GetInt("skip")
	}
	if f.Changed("sleep") {
		config.Run.SleepMs, _ = f.GetInt("sleep")
	}
	if f.Changed("seed") {
		config.Run.Seed, _ = f.GetUint64("seed")
	}
	if f.Changed("backend") {
		config.Run.Backend, _ = f.GetString("backend")
	}
	if f.Changed("workers") {
		config.Run.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("output") {
		config.Output.Dir, _ = f.GetString("output")
	}
}

// printParameters echoes the effective run parameters before starting.
func printParameters(p sim.Params, config *utils.Config, seed uint64) {
	fmt.Println("Parameters:")
	fmt.Printf("  rho=%g, n=%d, L=%g\n", p.Rho, p.N, p.BoxLength())
	fmt.Printf("  k=%g, T=%g, Dr=%g, v0=%g, dt=%g\n", p.K, p.T, p.Dr, p.V0, p.Dt)
	fmt.Printf("  iters=%d (therm %d, skip %d), seed=%d\n",
		config.Run.Iters, config.Run.ItersTherm, config.Run.Skip, seed)
	fmt.Printf("  backend=%s, workers=%d\n", config.Run.Backend, config.Run.Workers)
}

func buildResult(p sim.Params, config *utils.Config, seed uint64,
	obs *observables.Correlations, snapshotPath string,
	duration time.Duration, runErr error) types.RunResult {

	mean, stddev := obs.FAlongStats()
	status := "completed"
	errMsg := ""
	if runErr != nil {
		status = "aborted"
		errMsg = runErr.Error()
	}

	return types.RunResult{
		ID:     fmt.Sprintf("run_%d", time.Now().Unix()),
		Status: status,
		Parameters: types.RunParameters{
			Rho:         p.Rho,
			NParts:      p.N,
			PotStrength: p.K,
			Temperature: p.T,
			RotDif:      p.Dr,
			Activity:    p.V0,
			Dt:          p.Dt,
			BoxLength:   p.BoxLength(),
			Iters:       config.Run.Iters,
			ItersTherm:  config.Run.ItersTherm,
			Skip:        config.Run.Skip,
			Seed:        seed,
			Backend:     config.Run.Backend,
			Workers:     config.Run.Workers,
			StepR:       config.Output.StepR,
			NDivAngle:   config.Output.NDivAngle,
			LessObs:     config.Output.LessObs,
			Cartesian:   config.Output.Cartesian,
		},
		Observed: types.ObservedStats{
			Samples:      obs.Samples(),
			PairCounts:   obs.PairCounts(),
			FAlongMean:   mean,
			FAlongStddev: stddev,
		},
		Outputs: types.OutputFiles{
			Correlations: config.Output.Correlations,
			Snapshots:    snapshotPath,
			Result:       config.Output.Result,
		},
		Timestamp: time.Now(),
		Duration:  duration,
		Error:     errMsg,
	}
}

func writeResult(path string, result types.RunResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
