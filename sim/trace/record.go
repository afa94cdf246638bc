// Package trace provides out-of-band diagnostics recording for Hamiltonian
// evaluation. This package has no dependencies on sim/ or its other
// sub-packages; it stores pure data types.
package trace

// Direction says which end of the coefficient table a clamp hit.
type Direction string

const (
	// ClampHigh means the requested index was past the last time point.
	ClampHigh Direction = "high"
	// ClampLow means the requested index was before the first time point.
	ClampLow Direction = "low"
)

// ClampRecord captures one evaluation whose time index fell outside the
// coefficient table and was clamped.
type ClampRecord struct {
	Requested float64 // index time as passed by the integrator
	Used      int     // index actually used after clamping
	Max       int     // largest valid index
	Direction Direction
}
