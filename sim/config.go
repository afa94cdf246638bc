package sim

import (
	"fmt"

	"github.com/inference-sim/ahs-sim/sim/ode"
)

// DefaultInteractionCoefficient is the C6 coefficient of 87Rb in the 70S
// Rydberg state, in rad·m^6/s.
const DefaultInteractionCoefficient = 5.42e-24

// DefaultBlockadeRadius is used when no radius is configured, in meters. Zero
// disables the blockade for any arrangement without coincident sites.
const DefaultBlockadeRadius = 0.0

// ValidSolvers is the set of recognized solver names.
var ValidSolvers = map[string]bool{"": true, "dopri5": true, "rk4": true}

// SimulationConfig groups the run parameters that are not part of the program.
type SimulationConfig struct {
	BlockadeRadius         float64 // meters; pairs at or within this distance cannot both be excited
	InteractionCoefficient float64 // C6, rad·m^6/s
	Steps                  int     // number of time intervals; the grid has Steps+1 points
	Shots                  int     // 0 = no sampling, only the final state
	Seed                   int64   // sampler seed
	Solver                 string  // "dopri5" (default) or "rk4"
	Atol                   float64 // dopri5 absolute tolerance
	Rtol                   float64 // dopri5 relative tolerance
	Substeps               int     // rk4 sub-steps per time interval
	MatrixFree             bool    // apply operators directly instead of assembling H
}

// DefaultSimulationConfig returns the defaults used by the CLI.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		BlockadeRadius:         DefaultBlockadeRadius,
		InteractionCoefficient: DefaultInteractionCoefficient,
		Steps:                  100,
		Shots:                  100,
		Seed:                   42,
		Solver:                 "dopri5",
		Atol:                   1e-8,
		Rtol:                   1e-6,
		Substeps:               10,
	}
}

// Validate checks parameter ranges and names.
func (c SimulationConfig) Validate() error {
	if c.BlockadeRadius < 0 {
		return fmt.Errorf("blockade radius must be non-negative, got %v", c.BlockadeRadius)
	}
	if c.InteractionCoefficient < 0 {
		return fmt.Errorf("interaction coefficient must be non-negative, got %v", c.InteractionCoefficient)
	}
	if c.Steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", c.Steps)
	}
	if c.Shots < 0 {
		return fmt.Errorf("shots must be non-negative, got %d", c.Shots)
	}
	if !ValidSolvers[c.Solver] {
		return fmt.Errorf("unknown solver %q", c.Solver)
	}
	if c.Atol < 0 || c.Rtol < 0 {
		return fmt.Errorf("tolerances must be non-negative, got atol=%v rtol=%v", c.Atol, c.Rtol)
	}
	return nil
}

// NewSolver returns the integrator selected by the config.
func (c SimulationConfig) NewSolver() ode.Solver {
	if c.Solver == "rk4" {
		return ode.RK4{Substeps: c.Substeps}
	}
	return ode.DormandPrince{Atol: c.Atol, Rtol: c.Rtol}
}
