package waveform

import (
	"fmt"
	"math/cmplx"
)

// DrivingField is a global drive with amplitude (rad/s), phase (rad) and
// detuning (rad/s) waveforms.
type DrivingField struct {
	Amplitude Series `yaml:"amplitude"`
	Phase     Series `yaml:"phase"`
	Detuning  Series `yaml:"detuning"`
}

// Tables holds one coefficient row per channel, one column per simulation
// time. Values are complex even where the physics is real.
type Tables struct {
	Rabi          [][]complex128
	Detuning      [][]complex128
	LocalDetuning [][]complex128
}

// BuildTables evaluates every channel at the given times.
//
//	Rabi[f][k]          = amplitude(t_k) * exp(i*phase(t_k))
//	Detuning[f][k]      = detuning(t_k)
//	LocalDetuning[l][k] = magnitude(t_k)
//
// Amplitude, detuning and magnitude are piecewise linear; phase is piecewise
// constant.
func BuildTables(fields []DrivingField, magnitudes []Series, times []float64) (Tables, error) {
	tables := Tables{
		Rabi:          make([][]complex128, len(fields)),
		Detuning:      make([][]complex128, len(fields)),
		LocalDetuning: make([][]complex128, len(magnitudes)),
	}
	for f, field := range fields {
		rabi := make([]complex128, len(times))
		detuning := make([]complex128, len(times))
		for k, t := range times {
			amplitude, err := field.Amplitude.At(t, PiecewiseLinear)
			if err != nil {
				return Tables{}, fmt.Errorf("driving field %d amplitude: %w", f, err)
			}
			phase, err := field.Phase.At(t, PiecewiseConstant)
			if err != nil {
				return Tables{}, fmt.Errorf("driving field %d phase: %w", f, err)
			}
			delta, err := field.Detuning.At(t, PiecewiseLinear)
			if err != nil {
				return Tables{}, fmt.Errorf("driving field %d detuning: %w", f, err)
			}
			rabi[k] = complex(amplitude, 0) * cmplx.Exp(complex(0, phase))
			detuning[k] = complex(delta, 0)
		}
		tables.Rabi[f] = rabi
		tables.Detuning[f] = detuning
	}
	for l, magnitude := range magnitudes {
		row := make([]complex128, len(times))
		for k, t := range times {
			h, err := magnitude.At(t, PiecewiseLinear)
			if err != nil {
				return Tables{}, fmt.Errorf("local detuning %d magnitude: %w", l, err)
			}
			row[k] = complex(h, 0)
		}
		tables.LocalDetuning[l] = row
	}
	return tables, nil
}
