// Package waveform evaluates program time series at simulation times and
// turns them into per-time-point Hamiltonian coefficients.
package waveform

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidMethod is returned for an unrecognised interpolation method.
var ErrInvalidMethod = errors.New("waveform: invalid interpolation method")

// Method selects how a time series is evaluated between its sample points.
type Method int

const (
	// PiecewiseLinear interpolates linearly and clamps outside the sampled range.
	PiecewiseLinear Method = iota
	// PiecewiseConstant holds the most recent sample value.
	PiecewiseConstant
)

// methodNames maps accepted method strings.
var methodNames = map[string]Method{
	"piecewise_linear":   PiecewiseLinear,
	"piecewise_constant": PiecewiseConstant,
}

// ParseMethod converts a method name such as "piecewise_linear".
func ParseMethod(name string) (Method, error) {
	m, ok := methodNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMethod, name)
	}
	return m, nil
}

func (m Method) String() string {
	switch m {
	case PiecewiseLinear:
		return "piecewise_linear"
	case PiecewiseConstant:
		return "piecewise_constant"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Series is an ordered list of (time, value) samples. Times must be
// non-decreasing and non-empty for evaluation.
type Series struct {
	Times  []float64 `yaml:"times"`
	Values []float64 `yaml:"values"`
}

// At evaluates the series at t.
func (s Series) At(t float64, m Method) (float64, error) {
	return Interpolate(t, s.Times, s.Values, m)
}

// Last returns the final sample time, or 0 for an empty series.
func (s Series) Last() float64 {
	if len(s.Times) == 0 {
		return 0
	}
	return s.Times[len(s.Times)-1]
}

// Interpolate evaluates the samples (times, values) at t. Both methods clamp
// to the first value before times[0] and to the last value after the final
// time.
func Interpolate(t float64, times, values []float64, m Method) (float64, error) {
	switch m {
	case PiecewiseLinear:
		return linear(t, times, values), nil
	case PiecewiseConstant:
		return constant(t, times, values), nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidMethod, m)
	}
}

func linear(t float64, times, values []float64) float64 {
	n := len(times)
	if t <= times[0] {
		return values[0]
	}
	if t >= times[n-1] {
		return values[n-1]
	}
	// times[j-1] <= t < times[j]
	j := sort.Search(n, func(k int) bool { return times[k] > t })
	i := j - 1
	frac := (t - times[i]) / (times[j] - times[i])
	return values[i] + frac*(values[j]-values[i])
}

func constant(t float64, times, values []float64) float64 {
	i := sort.Search(len(times), func(k int) bool { return times[k] > t }) - 1
	if i < 0 {
		i = 0
	}
	return values[i]
}
