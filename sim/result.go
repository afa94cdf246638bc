package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/ahs-sim/sim/basis"
	"github.com/inference-sim/ahs-sim/sim/trace"
)

// Result holds everything a Run produces.
type Result struct {
	Configurations []string
	Filling        []int
	Times          []float64 // physical time grid, seconds
	FinalState     []complex128
	Probabilities  []float64
	Counts         []int        // per-configuration counts; nil when no shots were requested
	Shots          []ShotRecord // one per shot, in shuffled order
	Diagnostics    *trace.TraceSummary
	Elapsed        time.Duration
}

// ShotRecord is a single measurement in the device's reporting convention:
// PreSequence is the fill mask, PostSequence is 1 for an atom found in the
// ground state and 0 for a Rydberg atom or an empty site.
type ShotRecord struct {
	PreSequence  []int `json:"pre_sequence"`
	PostSequence []int `json:"post_sequence"`
}

// ShotRecords expands Counts into one record per shot, shuffled with rng so
// that repeated outcomes are not contiguous. Each record owns its slices.
func (r *Result) ShotRecords(rng *rand.Rand) []ShotRecord {
	var shots []ShotRecord
	for idx, n := range r.Counts {
		if n == 0 {
			continue
		}
		post := r.postSequence(r.Configurations[idx])
		for k := 0; k < n; k++ {
			shots = append(shots, ShotRecord{
				PreSequence:  append([]int(nil), r.Filling...),
				PostSequence: append([]int(nil), post...),
			})
		}
	}
	rng.Shuffle(len(shots), func(i, j int) { shots[i], shots[j] = shots[j], shots[i] })
	return shots
}

func (r *Result) postSequence(config string) []int {
	post := make([]int, len(r.Filling))
	atom := 0
	for i, f := range r.Filling {
		if f != 1 {
			continue
		}
		if config[atom] == basis.Ground {
			post[i] = 1
		}
		atom++
	}
	return post
}

// ConfigurationOutput is one row of the serialized distribution.
type ConfigurationOutput struct {
	Configuration string  `json:"configuration"`
	Probability   float64 `json:"probability"`
	Count         int     `json:"count,omitempty"`
}

// ResultOutput is the JSON form of a Result.
type ResultOutput struct {
	NumConfigurations int                   `json:"num_configurations"`
	Duration          float64               `json:"duration"`
	Steps             int                   `json:"steps"`
	Distribution      []ConfigurationOutput `json:"distribution"`
	Shots             []ShotRecord          `json:"shots,omitempty"`
	Clamps            *trace.TraceSummary   `json:"clamps,omitempty"`
	ElapsedSeconds    float64               `json:"elapsed_seconds"`
}

// probabilityFloor hides configurations that are numerically unpopulated.
const probabilityFloor = 1e-12

// Output converts the result to its serializable form.
func (r *Result) Output() ResultOutput {
	out := ResultOutput{
		NumConfigurations: len(r.Configurations),
		Shots:             r.Shots,
		ElapsedSeconds:    r.Elapsed.Seconds(),
	}
	if len(r.Times) > 0 {
		out.Duration = r.Times[len(r.Times)-1]
		out.Steps = len(r.Times) - 1
	}
	if r.Diagnostics != nil && r.Diagnostics.TotalClamps > 0 {
		out.Clamps = r.Diagnostics
	}
	for i, c := range r.Configurations {
		count := 0
		if r.Counts != nil {
			count = r.Counts[i]
		}
		if r.Probabilities[i] < probabilityFloor && count == 0 {
			continue
		}
		out.Distribution = append(out.Distribution, ConfigurationOutput{
			Configuration: c,
			Probability:   r.Probabilities[i],
			Count:         count,
		})
	}
	return out
}

// Print writes a human-readable summary followed by the JSON distribution.
func (r *Result) Print(w io.Writer) error {
	out := r.Output()
	fmt.Fprintln(w, "=== Simulation Result ===")
	fmt.Fprintf(w, "Configurations       : %d\n", out.NumConfigurations)
	fmt.Fprintf(w, "Duration             : %g s (%d steps)\n", out.Duration, out.Steps)
	if r.Counts != nil {
		fmt.Fprintf(w, "Shots                : %d\n", len(r.Shots))
	}
	if out.Clamps != nil {
		fmt.Fprintf(w, "Clamped evaluations  : %d (max overshoot %.3g)\n", out.Clamps.TotalClamps, out.Clamps.MaxOvershoot)
	}
	fmt.Fprintf(w, "Wall time            : %.3fs\n", out.ElapsedSeconds)

	data, err := json.MarshalIndent(out.Distribution, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding distribution: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// SaveResults writes the full JSON output, shots included, to path.
func (r *Result) SaveResults(path string) error {
	data, err := json.MarshalIndent(r.Output(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	logrus.Infof("Results written to %s", path)
	return nil
}
