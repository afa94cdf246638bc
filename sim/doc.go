// Package sim provides the analog Hamiltonian simulation (AHS) engine for
// Rydberg atom arrays.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - program.go: the declarative input (atom arrangement, driving fields, local detuning)
//   - config.go: run parameters (blockade radius, C6 coefficient, time steps, shots, solver)
//   - simulator.go: the pipeline from program to sampled measurement outcomes
//
// # Architecture
//
// The sim package owns orchestration; each stage of the pipeline lives in a
// sub-package, leaf to root:
//   - sim/basis/: blockade-constrained configuration enumeration
//   - sim/sparse/: CSR matrices and the triplet builder
//   - sim/operator/: interaction, detuning, Rabi and local-detuning operators
//   - sim/waveform/: interpolation and per-time-point coefficient tables
//   - sim/hamiltonian/: the operators+coefficients Bundle, assembly and matrix-free apply
//   - sim/ode/: time-stepping integrators that drive the Hamiltonian
//   - sim/sampling/: multinomial sampling of the final state
//   - sim/trace/: out-of-band diagnostics (boundary clamps)
//
// # Control Flow
//
// Configurations are enumerated once; operators are built once per program;
// coefficient tables once per time grid. The integrator then evaluates the
// Hamiltonian at many intermediate index times, and the final state is
// sampled. Only the coefficients vary with time; operators are never mutated.
package sim
