package spectrogram

import (
	"math"
	"time"
)

// Cube is the assembled cross-spectrogram: spectral quantities indexed by
// [frequency][window][pair].
//
// Cells of windows skipped under the missing-data policy remain at the NaN
// sentinel, so consumers can distinguish "no estimate" from zero power.
type Cube struct {
	// Freq is the band-restricted frequency axis in Hz.
	Freq []float64
	// Time is the elapsed time in seconds of each window start.
	Time []float64
	// Stamps holds absolute mid-window timestamps; nil unless a start time
	// was configured.
	Stamps []time.Time
	// Pairs lists the channel index pairs in lexicographic order.
	Pairs [][2]int

	// Sxx and Syy are the auto power spectral densities of the first and
	// second channel of each pair.
	Sxx, Syy [][][]complex128
	// Sxy and Syx are the two independently assigned cross power densities.
	Sxy, Syx [][][]complex128
	// Cohe is the magnitude-squared coherence in [0, 1].
	Cohe [][][]float64
	// Trf is the water-level regularized transfer function.
	Trf [][][]complex128
}

var (
	unsetReal    = math.NaN()
	unsetComplex = complex(math.NaN(), math.NaN())
)

func newCube(freq, times []float64, stamps []time.Time, pairs [][2]int) *Cube {
	nf := len(freq)
	nspec := len(times)
	npairs := len(pairs)

	alloc := func() [][][]complex128 {
		out := make([][][]complex128, nf)
		for f := range out {
			out[f] = make([][]complex128, nspec)
			for w := range out[f] {
				row := make([]complex128, npairs)
				for p := range row {
					row[p] = unsetComplex
				}
				out[f][w] = row
			}
		}
		return out
	}

	cohe := make([][][]float64, nf)
	for f := range cohe {
		cohe[f] = make([][]float64, nspec)
		for w := range cohe[f] {
			row := make([]float64, npairs)
			for p := range row {
				row[p] = unsetReal
			}
			cohe[f][w] = row
		}
	}

	return &Cube{
		Freq:   freq,
		Time:   times,
		Stamps: stamps,
		Pairs:  pairs,
		Sxx:    alloc(),
		Syy:    alloc(),
		Sxy:    alloc(),
		Syx:    alloc(),
		Cohe:   cohe,
		Trf:    alloc(),
	}
}

// NumWindows returns the number of analysis windows in the cube.
func (c *Cube) NumWindows() int {
	return len(c.Time)
}

// NumPairs returns the number of channel pairs in the cube.
func (c *Cube) NumPairs() int {
	return len(c.Pairs)
}

// HasEstimate reports whether the given (window, pair) cell holds an
// estimate, i.e. was not skipped under the missing-data policy.
func (c *Cube) HasEstimate(window, pair int) bool {
	if len(c.Cohe) == 0 {
		return false
	}
	if window < 0 || window >= len(c.Time) || pair < 0 || pair >= len(c.Pairs) {
		return false
	}
	return !math.IsNaN(c.Cohe[0][window][pair])
}
