package trace

import "sync"

// TraceLevel controls the verbosity of diagnostics reporting.
type TraceLevel string

const (
	// TraceLevelNone disables the diagnostics report.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelSummary reports aggregate clamp counts after a run.
	TraceLevelSummary TraceLevel = "summary"
	// TraceLevelFull reports every recorded clamp after a run.
	TraceLevelFull TraceLevel = "full"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:    true,
	TraceLevelSummary: true,
	TraceLevelFull:    true,
	"":                true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Recorder receives diagnostics emitted while evaluating the Hamiltonian.
type Recorder interface {
	RecordClamp(record ClampRecord)
}

// Diagnostics collects records for one simulation run. Safe for concurrent
// use, so independent time sub-intervals may share one collector.
type Diagnostics struct {
	mu     sync.Mutex
	clamps []ClampRecord
}

// NewDiagnostics creates an empty collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{clamps: make([]ClampRecord, 0)}
}

// RecordClamp appends a clamp record.
func (d *Diagnostics) RecordClamp(record ClampRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clamps = append(d.clamps, record)
}

// Clamps returns a copy of the recorded clamps in arrival order.
func (d *Diagnostics) Clamps() []ClampRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ClampRecord, len(d.clamps))
	copy(out, d.clamps)
	return out
}
