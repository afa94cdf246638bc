package trace

import (
	"sync"
	"testing"
)

func TestDiagnostics_RecordClamp_AppendsRecord(t *testing.T) {
	// GIVEN an empty collector
	d := NewDiagnostics()

	// WHEN a clamp record is recorded
	d.RecordClamp(ClampRecord{Requested: 12.5, Used: 10, Max: 10, Direction: ClampHigh})

	// THEN the collector contains one record with correct data
	clamps := d.Clamps()
	if len(clamps) != 1 {
		t.Fatalf("expected 1 clamp, got %d", len(clamps))
	}
	if clamps[0].Used != 10 || clamps[0].Direction != ClampHigh {
		t.Errorf("unexpected record %+v", clamps[0])
	}
}

func TestDiagnostics_MultipleRecords_PreservesOrder(t *testing.T) {
	d := NewDiagnostics()
	d.RecordClamp(ClampRecord{Requested: -2, Used: 0, Max: 4, Direction: ClampLow})
	d.RecordClamp(ClampRecord{Requested: 7, Used: 4, Max: 4, Direction: ClampHigh})

	clamps := d.Clamps()
	if len(clamps) != 2 {
		t.Fatalf("expected 2 clamps, got %d", len(clamps))
	}
	if clamps[0].Direction != ClampLow || clamps[1].Direction != ClampHigh {
		t.Error("clamp order not preserved")
	}
}

func TestDiagnostics_Clamps_ReturnsCopy(t *testing.T) {
	d := NewDiagnostics()
	d.RecordClamp(ClampRecord{Used: 1})
	got := d.Clamps()
	got[0].Used = 99
	if d.Clamps()[0].Used != 1 {
		t.Error("Clamps() exposed internal storage")
	}
}

func TestDiagnostics_ConcurrentRecording(t *testing.T) {
	d := NewDiagnostics()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				d.RecordClamp(ClampRecord{Direction: ClampHigh})
			}
		}()
	}
	wg.Wait()
	if n := len(d.Clamps()); n != 800 {
		t.Errorf("expected 800 clamps, got %d", n)
	}
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"summary", true},
		{"full", true},
		{"", true},
		{"decisions", false},
		{"FULL", false},
	}
	for _, tt := range tests {
		if got := IsValidTraceLevel(tt.level); got != tt.valid {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
		}
	}
}
