package sim

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/ahs-sim/sim/basis"
	"github.com/inference-sim/ahs-sim/sim/waveform"
)

// ErrInvalidProgram is wrapped by every program validation failure.
var ErrInvalidProgram = errors.New("invalid program")

// Program is a declarative AHS program, loadable from a YAML file.
type Program struct {
	Setup       Setup       `yaml:"setup"`
	Hamiltonian Hamiltonian `yaml:"hamiltonian"`
}

// Setup is the atom arrangement: site coordinates (meters) and a parallel
// fill mask.
type Setup struct {
	Sites   []basis.Site `yaml:"sites"`
	Filling []int        `yaml:"filling"`
}

// Hamiltonian lists the time-dependent terms of the program.
type Hamiltonian struct {
	DrivingFields []waveform.DrivingField `yaml:"driving_fields"`
	LocalDetuning []LocalDetuning         `yaml:"local_detuning"`
}

// LocalDetuning is a site-dependent detuning: a magnitude waveform (rad/s)
// scaled per site by Pattern.
type LocalDetuning struct {
	Magnitude waveform.Series `yaml:"magnitude"`
	// Pattern has one entry per filled site, or one per site (entries at
	// empty sites are then ignored).
	Pattern []float64 `yaml:"pattern"`
}

// LoadProgram reads and parses a YAML program file.
func LoadProgram(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	return ParseProgram(data)
}

// ParseProgram parses a YAML program with strict field checking, so that a
// misspelled key is an error rather than a silently empty field.
func ParseProgram(data []byte) (*Program, error) {
	var p Program
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing program: %w", err)
	}
	return &p, nil
}

// NumFilled returns the number of filled sites.
func (p *Program) NumFilled() int {
	n := 0
	for _, f := range p.Setup.Filling {
		if f == 1 {
			n++
		}
	}
	return n
}

// FilledSites returns the coordinates of filled sites in site order.
func (p *Program) FilledSites() []basis.Site {
	out := make([]basis.Site, 0, p.NumFilled())
	for i, f := range p.Setup.Filling {
		if f == 1 {
			out = append(out, p.Setup.Sites[i])
		}
	}
	return out
}

// FilledPattern returns the local detuning pattern in filled-site order.
func (p *Program) FilledPattern(ld LocalDetuning) []float64 {
	if len(ld.Pattern) == p.NumFilled() {
		return ld.Pattern
	}
	out := make([]float64, 0, p.NumFilled())
	for i, f := range p.Setup.Filling {
		if f == 1 {
			out = append(out, ld.Pattern[i])
		}
	}
	return out
}

// Duration returns the program duration: the last time of the first driving
// field, else of the first local detuning, else 0.
func (p *Program) Duration() float64 {
	switch {
	case len(p.Hamiltonian.DrivingFields) > 0:
		return p.Hamiltonian.DrivingFields[0].Amplitude.Last()
	case len(p.Hamiltonian.LocalDetuning) > 0:
		return p.Hamiltonian.LocalDetuning[0].Magnitude.Last()
	default:
		return 0
	}
}

// Validate checks the arrangement and every waveform.
func (p *Program) Validate() error {
	if len(p.Setup.Sites) != len(p.Setup.Filling) {
		return fmt.Errorf("%w: %d sites but %d filling entries", ErrInvalidProgram, len(p.Setup.Sites), len(p.Setup.Filling))
	}
	for i, f := range p.Setup.Filling {
		if f != 0 && f != 1 {
			return fmt.Errorf("%w: filling[%d] must be 0 or 1, got %d", ErrInvalidProgram, i, f)
		}
	}
	if n := p.NumFilled(); n > basis.MaxSites {
		return fmt.Errorf("%w: %d filled sites exceeds the limit of %d", ErrInvalidProgram, n, basis.MaxSites)
	}

	duration := p.Duration()
	hasChannels := len(p.Hamiltonian.DrivingFields) > 0 || len(p.Hamiltonian.LocalDetuning) > 0
	if hasChannels && !(duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidProgram, duration)
	}
	checkSeries := func(name string, s waveform.Series) error {
		if err := validateSeries(s); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidProgram, name, err)
		}
		if last := s.Last(); last != duration {
			return fmt.Errorf("%w: %s ends at %v, expected %v", ErrInvalidProgram, name, last, duration)
		}
		return nil
	}
	for f, field := range p.Hamiltonian.DrivingFields {
		if err := checkSeries(fmt.Sprintf("driving_fields[%d].amplitude", f), field.Amplitude); err != nil {
			return err
		}
		if err := checkSeries(fmt.Sprintf("driving_fields[%d].phase", f), field.Phase); err != nil {
			return err
		}
		if err := checkSeries(fmt.Sprintf("driving_fields[%d].detuning", f), field.Detuning); err != nil {
			return err
		}
	}
	for l, ld := range p.Hamiltonian.LocalDetuning {
		if err := checkSeries(fmt.Sprintf("local_detuning[%d].magnitude", l), ld.Magnitude); err != nil {
			return err
		}
		if len(ld.Pattern) != p.NumFilled() && len(ld.Pattern) != len(p.Setup.Sites) {
			return fmt.Errorf("%w: local_detuning[%d].pattern has %d entries, want %d (filled) or %d (all sites)",
				ErrInvalidProgram, l, len(ld.Pattern), p.NumFilled(), len(p.Setup.Sites))
		}
	}
	return nil
}

func validateSeries(s waveform.Series) error {
	if len(s.Times) == 0 {
		return errors.New("empty time series")
	}
	if len(s.Times) != len(s.Values) {
		return fmt.Errorf("%d times but %d values", len(s.Times), len(s.Values))
	}
	if s.Times[0] != 0 {
		return fmt.Errorf("time series must start at 0, starts at %v", s.Times[0])
	}
	for i := 1; i < len(s.Times); i++ {
		if s.Times[i] < s.Times[i-1] {
			return fmt.Errorf("times not non-decreasing at index %d", i)
		}
	}
	return nil
}
