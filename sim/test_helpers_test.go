package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inference-sim/ahs-sim/sim/basis"
	"github.com/inference-sim/ahs-sim/sim/waveform"
)

func constantSeries(duration, value float64) waveform.Series {
	return waveform.Series{Times: []float64{0, duration}, Values: []float64{value, value}}
}

// constantDrive is a global drive with fixed amplitude and detuning and zero phase.
func constantDrive(duration, omega, delta float64) waveform.DrivingField {
	return waveform.DrivingField{
		Amplitude: constantSeries(duration, omega),
		Phase:     constantSeries(duration, 0),
		Detuning:  constantSeries(duration, delta),
	}
}

// singleAtomProgram drives one atom at the origin.
func singleAtomProgram(duration, omega, delta float64) *Program {
	return &Program{
		Setup: Setup{Sites: []basis.Site{{0, 0}}, Filling: []int{1}},
		Hamiltonian: Hamiltonian{
			DrivingFields: []waveform.DrivingField{constantDrive(duration, omega, delta)},
		},
	}
}

// pairProgram drives two atoms separated along x.
func pairProgram(separation, duration, omega float64) *Program {
	return &Program{
		Setup: Setup{Sites: []basis.Site{{0, 0}, {separation, 0}}, Filling: []int{1, 1}},
		Hamiltonian: Hamiltonian{
			DrivingFields: []waveform.DrivingField{constantDrive(duration, omega, 0)},
		},
	}
}

func testConfig() SimulationConfig {
	cfg := DefaultSimulationConfig()
	cfg.Steps = 50
	return cfg
}

// writeTempYAML writes content to a file in a per-test temp dir.
func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp yaml: %v", err)
	}
	return path
}
