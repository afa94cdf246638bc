package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/inference-sim/ahs-sim/sim/basis"
	"github.com/inference-sim/ahs-sim/sim/hamiltonian"
	"github.com/inference-sim/ahs-sim/sim/operator"
	"github.com/inference-sim/ahs-sim/sim/sampling"
	"github.com/inference-sim/ahs-sim/sim/sparse"
	"github.com/inference-sim/ahs-sim/sim/trace"
	"github.com/inference-sim/ahs-sim/sim/waveform"
)

// Simulator runs one AHS program under one SimulationConfig.
type Simulator struct {
	program     *Program
	config      SimulationConfig
	rng         *PartitionedRNG
	diagnostics *trace.Diagnostics
}

// NewSimulator validates program and config and returns a ready simulator.
func NewSimulator(program *Program, config SimulationConfig) (*Simulator, error) {
	if err := program.Validate(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	return &Simulator{
		program:     program,
		config:      config,
		rng:         NewPartitionedRNG(NewSimulationKey(config.Seed)),
		diagnostics: trace.NewDiagnostics(),
	}, nil
}

// Diagnostics returns the collector that receives clamp records during Run.
func (s *Simulator) Diagnostics() *trace.Diagnostics {
	return s.diagnostics
}

// SimulationTimes returns steps+1 evenly spaced points on [0, duration].
func SimulationTimes(duration float64, steps int) []float64 {
	return floats.Span(make([]float64, steps+1), 0, duration)
}

// Configurations enumerates the blockade-constrained basis over filled sites.
func (s *Simulator) Configurations() []string {
	return basis.Enumerate(s.program.FilledSites(), s.config.BlockadeRadius)
}

// BuildBundle constructs the operators for configs and the coefficient
// tables for times.
func (s *Simulator) BuildBundle(configs []string, times []float64) (*hamiltonian.Bundle, error) {
	sites := s.program.FilledSites()
	targets := operator.AllSites(len(sites))
	fields := s.program.Hamiltonian.DrivingFields

	bundle := &hamiltonian.Bundle{
		Interaction: operator.Interaction(configs, sites, s.config.InteractionCoefficient),
	}
	if len(fields) > 0 {
		// Every field addresses all atoms, so the operators are shared.
		rabi := operator.Rabi(configs, targets)
		detuning := operator.Detuning(configs, targets)
		for range fields {
			bundle.RabiOps = append(bundle.RabiOps, rabi)
			bundle.DetuningOps = append(bundle.DetuningOps, detuning)
		}
	}
	magnitudes := make([]waveform.Series, 0, len(s.program.Hamiltonian.LocalDetuning))
	for _, ld := range s.program.Hamiltonian.LocalDetuning {
		bundle.LocalDetuningOps = append(bundle.LocalDetuningOps,
			operator.LocalDetuning(configs, s.program.FilledPattern(ld)))
		magnitudes = append(magnitudes, ld.Magnitude)
	}

	tables, err := waveform.BuildTables(fields, magnitudes, times)
	if err != nil {
		return nil, fmt.Errorf("building coefficient tables: %w", err)
	}
	bundle.RabiCoefs = tables.Rabi
	bundle.DetuningCoefs = tables.Detuning
	bundle.LocalDetuningCoefs = tables.LocalDetuning

	logrus.Debugf("operators built: dim=%d, interaction nnz=%d, %d driving fields, %d local detunings",
		len(configs), bundle.Interaction.NNZ(), len(fields), len(magnitudes))
	return bundle, nil
}

// Run evolves the all-ground state under the program and samples it.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()

	configs := s.Configurations()
	logrus.Debugf("basis: %d filled sites, %d valid configurations (blockade radius %v)",
		s.program.NumFilled(), len(configs), s.config.BlockadeRadius)

	duration := s.program.Duration()
	times := SimulationTimes(duration, s.config.Steps)
	bundle, err := s.BuildBundle(configs, times)
	if err != nil {
		return nil, err
	}

	// The all-ground configuration sorts first and is never blockaded.
	state := make([]complex128, len(configs))
	state[0] = 1

	if bundle.HasChannels() && duration > 0 {
		dt := duration / float64(s.config.Steps)
		evolution := hamiltonian.NewEvolution(bundle, dt, s.config.MatrixFree, s.diagnostics)
		indexTimes := SimulationTimes(float64(s.config.Steps), s.config.Steps)

		logrus.Infof("Starting evolution: dim=%d, steps=%d, dt=%v, solver=%s, matrix-free=%v",
			len(configs), s.config.Steps, dt, s.config.Solver, s.config.MatrixFree)
		state, err = s.config.NewSolver().Solve(ctx, evolution, state, indexTimes, nil)
		if err != nil {
			return nil, fmt.Errorf("time evolution: %w", err)
		}
	}

	result := &Result{
		Configurations: configs,
		Filling:        s.program.Setup.Filling,
		Times:          times,
		FinalState:     state,
		Probabilities:  sampling.Probabilities(state),
		Diagnostics:    trace.Summarize(s.diagnostics),
	}
	if s.config.Shots > 0 {
		result.Counts = sampling.Sample(state, s.config.Shots, s.rng.ForSubsystem(SubsystemSampler))
		result.Shots = result.ShotRecords(s.rng.ForSubsystem(SubsystemShotOrder))
	}
	result.Elapsed = time.Since(startTime)

	logrus.Infof("Simulation complete in %v (%d clamped evaluations)", result.Elapsed, result.Diagnostics.TotalClamps)
	return result, nil
}

// HamiltonianAt assembles the Hamiltonian at an index time for inspection,
// building the bundle on demand.
func (s *Simulator) HamiltonianAt(indexTime float64) (*sparse.Matrix, error) {
	configs := s.Configurations()
	bundle, err := s.BuildBundle(configs, SimulationTimes(s.program.Duration(), s.config.Steps))
	if err != nil {
		return nil, err
	}
	return bundle.At(indexTime, s.diagnostics), nil
}
