package cross

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-mtspec/internal/numeric"
	"github.com/cwbudde/algo-mtspec/taper"
)

// Config holds estimator parameters for a single window.
type Config struct {
	// NW is the time-bandwidth product; used only when Tapers is nil.
	NW float64
	// K is the taper count; used only when Tapers is nil.
	K int
	// DT is the sampling interval in seconds.
	DT float64
	// Weighting selects the eigenspectrum combination mode.
	Weighting Weighting
	// WaterLevel stabilizes the transfer-function denominator, expressed as a
	// proportion of the mean power of Syy. Zero disables regularization.
	WaterLevel float64
	// Tapers optionally supplies a precomputed DPSS set whose length must
	// match the segments. When nil a set is generated from (NW, K).
	Tapers *taper.Set
}

// Spectra holds one window's multitaper cross-spectral estimate on the
// one-sided frequency axis.
type Spectra struct {
	// Freq is the non-negative frequency axis in Hz.
	Freq []float64
	// Sxx and Syy are the auto power spectral densities of the two segments.
	Sxx, Syy []complex128
	// Sxy and Syx are the two cross power spectral densities. They are
	// assigned independently, not inferred from one another.
	Sxy, Syx []complex128
	// Cohe is the magnitude-squared coherence in [0, 1].
	Cohe []float64
	// Trf is the water-level regularized transfer function Sxy/Syy.
	Trf []complex128
}

// FrequencyAxis returns the one-sided frequency axis the estimator produces
// for segments of length n sampled at interval dt. The axis depends only on
// (n, dt), so it is identical for every window of a spectrogram run.
//
// Segments are zero-padded to the next power of two; the axis has
// NextPow2(n)/2+1 bins ending exactly at the Nyquist frequency 0.5/dt.
// Returns nil for invalid arguments.
func FrequencyAxis(n int, dt float64) []float64 {
	if n <= 0 || dt <= 0 {
		return nil
	}

	nfft := numeric.NextPow2(n)
	freq := make([]float64, nfft/2+1)
	df := 1 / (float64(nfft) * dt)

	for i := range freq {
		freq[i] = float64(i) * df
	}

	return freq
}

// Estimate computes the multitaper cross-spectral quantities of two
// equal-length real segments.
//
// Both segments are demeaned and projected onto the same taper basis, a
// precondition for comparable eigenspectra. A segment with zero variance
// (constant data) is rejected, as the spectral estimate is undefined for it.
func Estimate(x, y []float64, cfg Config) (*Spectra, error) {
	if len(x) != len(y) {
		return nil, ErrLengthMismatch
	}

	n := len(x)
	if err := validateConfig(n, cfg); err != nil {
		return nil, err
	}

	set := cfg.Tapers
	if set == nil {
		var err error

		set, err = taper.DPSS(n, cfg.NW, cfg.K)
		if err != nil {
			return nil, fmt.Errorf("cross: taper generation failed: %w", err)
		}
	}

	xd, varx := demean(x)
	yd, vary := demean(y)

	if varx == 0 || vary == 0 {
		return nil, ErrZeroVariance
	}

	nfft := numeric.NextPow2(n)
	nf := nfft/2 + 1

	plan, err := algofft.NewPlan64(nfft)
	if err != nil {
		return nil, fmt.Errorf("cross: failed to create FFT plan: %w", err)
	}

	xk, skx, err := eigenspectra(plan, xd, set, nf)
	if err != nil {
		return nil, err
	}

	yk, sky, err := eigenspectra(plan, yd, set, nf)
	if err != nil {
		return nil, err
	}

	var wx, wy [][]float64

	switch cfg.Weighting {
	case WeightEigen:
		wx = eigenWeights(set.Concentrations, nf)
		wy = wx
	case WeightUniform:
		wx = uniformWeights(set.K, nf)
		wy = wx
	default:
		wx = adaptiveWeights(skx, set.Concentrations, varx)
		wy = adaptiveWeights(sky, set.Concentrations, vary)
	}

	sp := &Spectra{
		Freq: FrequencyAxis(n, cfg.DT),
		Sxx:  make([]complex128, nf),
		Syy:  make([]complex128, nf),
		Sxy:  make([]complex128, nf),
		Syx:  make([]complex128, nf),
		Cohe: make([]float64, nf),
		Trf:  make([]complex128, nf),
	}

	combine(sp, xk, yk, skx, sky, wx, wy, set.K, nfft, cfg.DT)
	transfer(sp, cfg.WaterLevel)

	return sp, nil
}

// demean returns a centered copy of x and its variance.
func demean(x []float64) ([]float64, float64) {
	n := float64(len(x))

	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= n

	out := make([]float64, len(x))

	var variance float64
	for i, v := range x {
		out[i] = v - mean
		variance += out[i] * out[i]
	}

	return out, variance / n
}

// eigenspectra tapers the segment with each DPSS sequence, transforms it, and
// returns the one-sided eigencoefficients plus their power spectra.
func eigenspectra(plan *algofft.Plan[complex128], seg []float64, set *taper.Set, nf int) ([][]complex128, [][]float64, error) {
	nfft := (nf - 1) * 2

	coeffs := make([][]complex128, set.K)
	powers := make([][]float64, set.K)

	inData := make([]complex128, nfft)
	out := make([]complex128, nfft)
	re := make([]float64, nf)
	im := make([]float64, nf)

	for k := 0; k < set.K; k++ {
		for i := range inData {
			inData[i] = 0
		}
		for i, v := range seg {
			inData[i] = complex(v*set.Tapers[k][i], 0)
		}

		if err := plan.Forward(out, inData); err != nil {
			return nil, nil, fmt.Errorf("cross: forward FFT failed: %w", err)
		}

		ck := make([]complex128, nf)
		copy(ck, out[:nf])
		coeffs[k] = ck

		for i, c := range ck {
			re[i] = real(c)
			im[i] = imag(c)
		}

		pk := make([]float64, nf)
		vecmath.Power(pk, re, im)
		powers[k] = pk
	}

	return coeffs, powers, nil
}

// combine forms the weighted spectral estimates. Cross weights take the
// per-(taper, frequency) minimum of the two series' weights, so a taper
// downweighted for either series is downweighted for the pair.
func combine(sp *Spectra, xk, yk [][]complex128, skx, sky, wx, wy [][]float64, k, nfft int, dt float64) {
	nf := len(sp.Freq)

	for f := 0; f < nf; f++ {
		var (
			norm     float64
			sxx, syy float64
			sxy, syx complex128
		)

		for i := 0; i < k; i++ {
			w := math.Min(wx[i][f], wy[i][f])
			w2 := w * w

			norm += w2
			sxx += w2 * skx[i][f]
			syy += w2 * sky[i][f]

			cx := xk[i][f]
			cy := yk[i][f]
			sxy += complex(w2, 0) * cx * cmplx.Conj(cy)
			syx += complex(w2, 0) * cy * cmplx.Conj(cx)
		}

		// One-sided PSD scaling: interior bins carry the folded negative
		// frequencies, DC and Nyquist do not.
		scale := 2 * dt
		if f == 0 || f == nfft/2 {
			scale = dt
		}

		if norm > 0 {
			scale /= norm
		}

		sp.Sxx[f] = complex(scale*sxx, 0)
		sp.Syy[f] = complex(scale*syy, 0)
		sp.Sxy[f] = complex(scale, 0) * sxy
		sp.Syx[f] = complex(scale, 0) * syx

		den := real(sp.Sxx[f]) * real(sp.Syy[f])
		if den > 0 {
			mag2 := real(sp.Sxy[f])*real(sp.Sxy[f]) + imag(sp.Sxy[f])*imag(sp.Sxy[f])
			sp.Cohe[f] = numeric.Clamp(mag2/den, 0, 1)
		}
	}
}

// transfer fills the water-level regularized transfer function estimating the
// linear filter that predicts the first series from the second.
func transfer(sp *Spectra, waterLevel float64) {
	var mean float64
	for _, s := range sp.Syy {
		mean += real(s)
	}
	mean /= float64(len(sp.Syy))

	wl := 0.0
	if waterLevel > 0 {
		wl = waterLevel * mean
	}

	for f := range sp.Trf {
		den := real(sp.Syy[f]) + wl
		if den <= 0 {
			sp.Trf[f] = 0
			continue
		}

		sp.Trf[f] = sp.Sxy[f] / complex(den, 0)
	}
}
