package trace

import "math"

// TraceSummary aggregates statistics from a Diagnostics collector.
type TraceSummary struct {
	TotalClamps int `json:"total"`
	HighClamps  int `json:"high"`
	LowClamps   int `json:"low"`
	// MaxOvershoot is the largest distance, in index units, between a
	// requested index and the valid range.
	MaxOvershoot float64 `json:"max_overshoot"`
}

// Summarize computes aggregate statistics from a Diagnostics collector.
// Safe for nil or empty collectors (returns zero-value fields).
func Summarize(d *Diagnostics) *TraceSummary {
	summary := &TraceSummary{}
	if d == nil {
		return summary
	}

	for _, c := range d.Clamps() {
		summary.TotalClamps++
		var overshoot float64
		switch c.Direction {
		case ClampHigh:
			summary.HighClamps++
			overshoot = c.Requested - float64(c.Max)
		case ClampLow:
			summary.LowClamps++
			overshoot = -c.Requested
		}
		// NaN and infinite requests are counted but do not set the overshoot.
		if overshoot > summary.MaxOvershoot && !math.IsInf(overshoot, 0) {
			summary.MaxOvershoot = overshoot
		}
	}
	return summary
}
