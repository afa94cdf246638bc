// Package testutil provides shared test infrastructure for the AHS simulator:
// numeric assertion helpers, random states, and log capture, used across
// sim/ and its sub-package tests.
package testutil

import (
	"bytes"
	"math"
	"math/cmplx"
	"math/rand"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/cmplxs"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertComplexSlicesClose compares two complex vectors elementwise with an
// absolute tolerance.
func AssertComplexSlicesClose(t *testing.T, name string, want, got []complex128, absTol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("%s: length mismatch: got %d, want %d", name, len(got), len(want))
	}
	for i := range want {
		if d := cmplx.Abs(want[i] - got[i]); d > absTol {
			t.Errorf("%s[%d]: got %v, want %v (diff=%v)", name, i, got[i], want[i], d)
		}
	}
}

// RandomState returns a normalised random complex vector of length n.
func RandomState(rng *rand.Rand, n int) []complex128 {
	psi := make([]complex128, n)
	for i := range psi {
		psi[i] = complex(rng.NormFloat64(), rng.NormFloat64())
	}
	cmplxs.Scale(complex(1/cmplxs.Norm(psi, 2), 0), psi)
	return psi
}

// CaptureLogOutput runs fn with logrus writing to a buffer at warn level and
// returns what was logged.
func CaptureLogOutput(fn func()) string {
	var buf bytes.Buffer
	origOutput := logrus.StandardLogger().Out
	origLevel := logrus.GetLevel()
	logrus.SetOutput(&buf)
	logrus.SetLevel(logrus.WarnLevel)
	defer func() {
		if origOutput != nil {
			logrus.SetOutput(origOutput)
		} else {
			logrus.SetOutput(os.Stderr)
		}
		logrus.SetLevel(origLevel)
	}()
	fn()
	return buf.String()
}
