package cross

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-mtspec/internal/testutil"
	"github.com/cwbudde/algo-mtspec/taper"
)

func TestEstimateIdenticalSignals(t *testing.T) {
	x := testutil.GaussianNoise(7, 200)
	cfg := Config{NW: 3.5, K: 5, DT: 0.01}

	sp, err := Estimate(x, x, cfg)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	for f := range sp.Freq {
		if math.Abs(sp.Cohe[f]-1) > 1e-9 {
			t.Fatalf("coherence of identical signals at bin %d: %g, want 1", f, sp.Cohe[f])
		}

		if cmplx.Abs(sp.Sxy[f]-sp.Sxx[f]) > 1e-9*cmplx.Abs(sp.Sxx[f]) {
			t.Fatalf("Sxy != Sxx at bin %d: %v vs %v", f, sp.Sxy[f], sp.Sxx[f])
		}

		if cmplx.Abs(sp.Syx[f]-sp.Sxx[f]) > 1e-9*cmplx.Abs(sp.Sxx[f]) {
			t.Fatalf("Syx != Sxx at bin %d: %v vs %v", f, sp.Syx[f], sp.Sxx[f])
		}
	}
}

func TestEstimateSinePeak(t *testing.T) {
	const (
		n    = 256
		dt   = 1.0
		freq = 0.125 // exactly bin 32 of a 256-point transform
	)

	x := testutil.Sine(freq, dt, 0, n)
	y := testutil.Sine(freq, dt, 0.3, n)

	sp, err := Estimate(x, y, Config{NW: 3.5, K: 5, DT: dt})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	peak := 0
	for f := range sp.Sxx {
		if real(sp.Sxx[f]) > real(sp.Sxx[peak]) {
			peak = f
		}
	}

	if peak < 31 || peak > 33 {
		t.Errorf("auto-spectrum peak at bin %d, want near 32 (%.4f Hz)", peak, sp.Freq[peak])
	}

	if sp.Cohe[peak] < 0.99 {
		t.Errorf("coherence at the shared tone should be near 1: %g", sp.Cohe[peak])
	}
}

func TestEstimateOffGridTonePlateau(t *testing.T) {
	// A tone between bin centers smears into a plateau of half-width
	// NW/(n*dt) Hz; the argmax may land on any plateau bin, not on the
	// bin nearest the tone.
	const (
		n    = 256
		dt   = 0.001
		tone = 50.0
	)

	x := testutil.Sine(tone, dt, 0, n)
	y := testutil.Sine(tone, dt, 0.2, n)

	bandwidth := 3.5 / (n * dt)

	for _, mode := range []Weighting{WeightAdaptive, WeightEigen, WeightUniform} {
		sp, err := Estimate(x, y, Config{NW: 3.5, K: 5, DT: dt, Weighting: mode})
		if err != nil {
			t.Fatalf("mode %d: Estimate failed: %v", mode, err)
		}

		peak := 0
		for f := range sp.Sxx {
			if real(sp.Sxx[f]) > real(sp.Sxx[peak]) {
				peak = f
			}
		}

		if math.Abs(sp.Freq[peak]-tone) > bandwidth {
			t.Errorf("mode %d: argmax at %.3f Hz, outside the taper bandwidth %.3f Hz of the tone",
				mode, sp.Freq[peak], bandwidth)
		}

		// Neighboring plateau bins carry nearly the peak power.
		top := real(sp.Sxx[peak])
		for _, f := range []int{peak - 1, peak + 1} {
			if f < 0 || f >= len(sp.Freq) || math.Abs(sp.Freq[f]-tone) >= bandwidth/2 {
				continue
			}
			if real(sp.Sxx[f]) < 0.5*top {
				t.Errorf("mode %d: plateau bin %d at %.1f%% of the peak power",
					mode, f, 100*real(sp.Sxx[f])/top)
			}
		}
	}
}

func TestEstimatePhaseRecovery(t *testing.T) {
	const (
		n     = 256
		dt    = 1.0
		freq  = 0.125
		phase = math.Pi / 4
	)

	x := testutil.Sine(freq, dt, 0, n)
	y := testutil.Sine(freq, dt, -phase, n)

	sp, err := Estimate(x, y, Config{NW: 3.5, K: 5, DT: dt})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	got := cmplx.Phase(sp.Sxy[32])
	if math.Abs(got-phase) > 0.05 {
		t.Errorf("cross-spectrum phase at tone bin: %g, want %g", got, phase)
	}
}

func TestEstimateWeightingModes(t *testing.T) {
	x := testutil.GaussianNoise(1, 300)
	y := testutil.GaussianNoise(2, 300)

	for _, mode := range []Weighting{WeightAdaptive, WeightEigen, WeightUniform} {
		sp, err := Estimate(x, y, Config{NW: 3.5, K: 5, DT: 0.5, Weighting: mode})
		if err != nil {
			t.Fatalf("mode %d: Estimate failed: %v", mode, err)
		}

		if len(sp.Freq) != 256+1 {
			t.Fatalf("mode %d: frequency bin count %d, want 257", mode, len(sp.Freq))
		}

		for f := range sp.Freq {
			if sp.Cohe[f] < 0 || sp.Cohe[f] > 1 {
				t.Fatalf("mode %d: coherence out of [0,1] at bin %d: %g", mode, f, sp.Cohe[f])
			}

			if real(sp.Sxx[f]) < 0 || real(sp.Syy[f]) < 0 {
				t.Fatalf("mode %d: negative auto-power at bin %d", mode, f)
			}

			if cmplx.IsNaN(sp.Sxy[f]) || cmplx.IsNaN(sp.Trf[f]) {
				t.Fatalf("mode %d: non-finite estimate at bin %d", mode, f)
			}
		}
	}
}

func TestEstimateIndependentNoiseLowCoherence(t *testing.T) {
	x := testutil.GaussianNoise(11, 1024)
	y := testutil.GaussianNoise(23, 1024)

	sp, err := Estimate(x, y, Config{NW: 3.5, K: 5, DT: 1})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	var mean float64
	for _, c := range sp.Cohe {
		mean += c
	}
	mean /= float64(len(sp.Cohe))

	// MSC of independent series estimated with K tapers is biased around 1/K,
	// far below full coherence.
	if mean > 0.6 {
		t.Errorf("mean coherence of independent noise too high: %g", mean)
	}
}

func TestEstimatePrecomputedTapers(t *testing.T) {
	x := testutil.GaussianNoise(3, 128)
	y := testutil.GaussianNoise(4, 128)

	set, err := taper.DPSS(128, 3.5, 5)
	if err != nil {
		t.Fatalf("DPSS failed: %v", err)
	}

	a, err := Estimate(x, y, Config{NW: 3.5, K: 5, DT: 0.25})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	b, err := Estimate(x, y, Config{DT: 0.25, Tapers: set})
	if err != nil {
		t.Fatalf("Estimate with precomputed tapers failed: %v", err)
	}

	for f := range a.Freq {
		if cmplx.Abs(a.Sxy[f]-b.Sxy[f]) > 1e-9 {
			t.Fatalf("precomputed tapers change the estimate at bin %d", f)
		}
	}
}

func TestEstimateWaterLevel(t *testing.T) {
	x := testutil.GaussianNoise(5, 128)
	y := testutil.GaussianNoise(6, 128)

	plain, err := Estimate(x, y, Config{NW: 3.5, K: 5, DT: 1})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	damped, err := Estimate(x, y, Config{NW: 3.5, K: 5, DT: 1, WaterLevel: 10})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	for f := range plain.Freq {
		if cmplx.Abs(damped.Trf[f]) > cmplx.Abs(plain.Trf[f])+1e-12 {
			t.Fatalf("water level must not amplify the transfer function (bin %d)", f)
		}
	}
}

func TestEstimateErrors(t *testing.T) {
	x := testutil.GaussianNoise(1, 64)
	cfg := Config{NW: 3.5, K: 5, DT: 1}

	if _, err := Estimate(x, x[:32], cfg); err != ErrLengthMismatch {
		t.Errorf("length mismatch: got %v", err)
	}

	if _, err := Estimate(nil, nil, cfg); err != ErrEmptySegment {
		t.Errorf("empty segments: got %v", err)
	}

	if _, err := Estimate(x, x, Config{NW: 3.5, K: 5}); err == nil {
		t.Error("non-positive dt accepted")
	}

	flat := make([]float64, 64)
	if _, err := Estimate(flat, x, cfg); err != ErrZeroVariance {
		t.Errorf("constant segment: got %v", err)
	}

	set, err := taper.DPSS(32, 3.5, 5)
	if err != nil {
		t.Fatalf("DPSS failed: %v", err)
	}
	if _, err := Estimate(x, x, Config{DT: 1, Tapers: set}); err == nil {
		t.Error("mismatched taper length accepted")
	}

	if _, err := Estimate(x[:8], x[:8], cfg); err == nil {
		t.Error("segment shorter than 2*K accepted")
	}
}

func TestFrequencyAxis(t *testing.T) {
	f := FrequencyAxis(200, 0.01)
	if len(f) != 129 {
		t.Fatalf("axis length %d, want 129", len(f))
	}

	if f[0] != 0 {
		t.Errorf("axis must start at DC: %g", f[0])
	}

	nyquist := 0.5 / 0.01
	if math.Abs(f[len(f)-1]-nyquist) > 1e-12 {
		t.Errorf("axis must end at Nyquist %g: %g", nyquist, f[len(f)-1])
	}

	if FrequencyAxis(0, 0.01) != nil || FrequencyAxis(100, 0) != nil {
		t.Error("invalid arguments must yield nil axis")
	}
}
