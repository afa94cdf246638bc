package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/ahs-sim/sim"
	"github.com/inference-sim/ahs-sim/sim/basis"
	"github.com/inference-sim/ahs-sim/sim/trace"
)

var (
	// Input
	programPath      string // AHS program YAML
	defaultsFilePath string // device defaults YAML
	deviceName       string // device profile to take C6 and blockade radius from

	// Physics
	blockadeRadius         float64 // meters
	interactionCoefficient float64 // C6, rad·m^6/s

	// Numerics
	steps      int     // time intervals on the simulation grid
	solverName string  // dopri5 or rk4
	atol       float64 // dopri5 absolute tolerance
	rtol       float64 // dopri5 relative tolerance
	substeps   int     // rk4 sub-steps per interval
	matrixFree bool    // apply operators instead of assembling H

	// Sampling
	shots int   // number of measurement shots
	seed  int64 // sampler seed

	// Output
	logLevel    string // log verbosity level
	resultsPath string // JSON output file
	traceLevel  string // clamp diagnostics report
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ahs-sim",
	Short: "Analog Hamiltonian simulator for Rydberg atom arrays",
}

// setupLogging applies --log to the package-level logger.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadDevice returns the --device profile, or nil when none was requested.
func loadDevice() *Device {
	if deviceName == "" {
		return nil
	}
	device, err := GetDeviceDefaults(deviceName, defaultsFilePath)
	if err != nil {
		logrus.Fatalf("Could not load device defaults: %v", err)
	}
	logrus.Infof("Using device %q: C6=%v, blockade radius=%v", deviceName, device.InteractionCoefficient, device.BlockadeRadius)
	return &device
}

// newSimulationConfig builds the run config from flags. Device values fill in
// C6 and the blockade radius unless the user set those flags explicitly.
func newSimulationConfig(device *Device, changed func(name string) bool) sim.SimulationConfig {
	cfg := sim.DefaultSimulationConfig()
	cfg.BlockadeRadius = blockadeRadius
	cfg.InteractionCoefficient = interactionCoefficient
	if device != nil {
		if !changed("blockade-radius") {
			cfg.BlockadeRadius = device.BlockadeRadius
		}
		if !changed("c6") {
			cfg.InteractionCoefficient = device.InteractionCoefficient
		}
	}
	cfg.Steps = steps
	cfg.Shots = shots
	cfg.Seed = seed
	cfg.Solver = solverName
	cfg.Atol = atol
	cfg.Rtol = rtol
	cfg.Substeps = substeps
	cfg.MatrixFree = matrixFree
	return cfg
}

// mustLoadProgram loads and validates --program, exiting on failure.
func mustLoadProgram() *sim.Program {
	if programPath == "" {
		logrus.Fatalf("Program file not provided. Use --program.")
	}
	program, err := sim.LoadProgram(programPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	if err := program.Validate(); err != nil {
		logrus.Fatalf("%v", err)
	}
	return program
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate an AHS program and sample measurement outcomes",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		program := mustLoadProgram()
		cfg := newSimulationConfig(loadDevice(), cmd.Flags().Changed)

		logrus.Infof("Starting simulation: %d filled sites, duration=%vs, steps=%d, shots=%d, blockade radius=%v",
			program.NumFilled(), program.Duration(), cfg.Steps, cfg.Shots, cfg.BlockadeRadius)

		s, err := sim.NewSimulator(program, cfg)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		result, err := s.Run(cmd.Context())
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		if err := result.Print(os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
		printTrace(os.Stdout, s.Diagnostics(), trace.TraceLevel(traceLevel))
		if resultsPath != "" {
			if err := result.SaveResults(resultsPath); err != nil {
				logrus.Fatalf("%v", err)
			}
		}

		logrus.Info("Simulation complete.")
	},
}

// basisCmd lists the configuration basis without evolving anything
var basisCmd = &cobra.Command{
	Use:   "basis",
	Short: "List the blockade-constrained configurations of a program",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		program := mustLoadProgram()
		radius := newSimulationConfig(loadDevice(), cmd.Flags().Changed).BlockadeRadius

		configs := basis.Enumerate(program.FilledSites(), radius)
		printBasis(os.Stdout, configs)
	},
}

// printBasis writes one "index configuration" line per basis state.
func printBasis(w io.Writer, configs []string) {
	fmt.Fprintf(w, "=== Basis (%d configurations) ===\n", len(configs))
	for i, c := range configs {
		fmt.Fprintf(w, "%6d  %s\n", i, c)
	}
}

// printTrace reports clamp diagnostics at the requested level.
func printTrace(w io.Writer, d *trace.Diagnostics, level trace.TraceLevel) {
	if level == trace.TraceLevelNone || level == "" {
		return
	}
	summary := trace.Summarize(d)
	fmt.Fprintln(w, "=== Clamp Diagnostics ===")
	fmt.Fprintf(w, "Total clamps         : %d\n", summary.TotalClamps)
	fmt.Fprintf(w, "High / Low           : %d / %d\n", summary.HighClamps, summary.LowClamps)
	fmt.Fprintf(w, "Max overshoot        : %g\n", summary.MaxOvershoot)
	if level != trace.TraceLevelFull {
		return
	}
	for _, c := range d.Clamps() {
		fmt.Fprintf(w, "  %-4s requested=%g used=%d max=%d\n", c.Direction, c.Requested, c.Used, c.Max)
	}
}

// Execute runs the CLI root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// registerSharedFlags adds the flags common to run and basis.
func registerSharedFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&programPath, "program", "", "Path to the AHS program YAML")
	cmd.Flags().StringVar(&defaultsFilePath, "defaults", "defaults.yaml", "Path to the device defaults YAML")
	cmd.Flags().StringVar(&deviceName, "device", "", "Device profile in the defaults file (sets C6 and blockade radius)")
	cmd.Flags().Float64Var(&blockadeRadius, "blockade-radius", sim.DefaultBlockadeRadius, "Blockade radius in meters")
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// init sets up CLI flags and subcommands
func init() {
	defaults := sim.DefaultSimulationConfig()

	registerSharedFlags(runCmd)
	runCmd.Flags().Float64Var(&interactionCoefficient, "c6", sim.DefaultInteractionCoefficient, "Rydberg interaction coefficient C6 (rad·m^6/s)")
	runCmd.Flags().IntVar(&steps, "steps", defaults.Steps, "Number of time intervals on the simulation grid")
	runCmd.Flags().StringVar(&solverName, "solver", defaults.Solver, "ODE solver (dopri5, rk4)")
	runCmd.Flags().Float64Var(&atol, "atol", defaults.Atol, "Absolute tolerance for dopri5")
	runCmd.Flags().Float64Var(&rtol, "rtol", defaults.Rtol, "Relative tolerance for dopri5")
	runCmd.Flags().IntVar(&substeps, "substeps", defaults.Substeps, "RK4 sub-steps per time interval")
	runCmd.Flags().BoolVar(&matrixFree, "matrix-free", false, "Apply operators directly instead of assembling the Hamiltonian")
	runCmd.Flags().IntVar(&shots, "shots", defaults.Shots, "Number of measurement shots (0 for probabilities only)")
	runCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Seed for measurement sampling")
	runCmd.Flags().StringVar(&resultsPath, "results-path", "", "File to write the JSON results to")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Clamp diagnostics report (none, summary, full)")

	registerSharedFlags(basisCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(basisCmd)
}
