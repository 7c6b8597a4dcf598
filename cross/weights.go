package cross

import (
	"math"

	"github.com/cwbudde/algo-mtspec/internal/numeric"
)

// Weighting selects how per-taper eigenspectra are combined.
type Weighting int

const (
	// WeightAdaptive applies Thomson's data-dependent per-frequency weights.
	WeightAdaptive Weighting = iota
	// WeightEigen weights each taper by its spectral concentration.
	WeightEigen
	// WeightUniform averages all tapers equally.
	WeightUniform
)

// adaptiveIterCap bounds the Thomson iteration; non-convergence past it is a
// structural property of the data and the last iterate is used as-is.
const (
	adaptiveIterCap = 100
	adaptiveTol     = 1e-5
)

// uniformWeights returns per-taper amplitude weights with sum of squares 1
// at every frequency.
func uniformWeights(k, nf int) [][]float64 {
	w := math.Sqrt(1 / float64(k))

	wt := make([][]float64, k)
	for i := range wt {
		row := make([]float64, nf)
		for f := range row {
			row[f] = w
		}
		wt[i] = row
	}

	return wt
}

// eigenWeights returns concentration-proportional amplitude weights,
// normalized to unit sum of squares per frequency.
func eigenWeights(lambda []float64, nf int) [][]float64 {
	var sum float64
	for _, l := range lambda {
		sum += l
	}

	wt := make([][]float64, len(lambda))
	for k, l := range lambda {
		w := math.Sqrt(l / sum)

		row := make([]float64, nf)
		for f := range row {
			row[f] = w
		}
		wt[k] = row
	}

	return wt
}

// adaptiveWeights runs Thomson's adaptive iteration on the per-taper power
// spectra sk (k x nf) and returns amplitude weights d_k(f)*sqrt(lambda_k),
// normalized to unit sum of squares per frequency.
//
// variance is the time-domain variance of the demeaned segment; with
// unit-energy tapers it matches the expected level of sk for white input.
func adaptiveWeights(sk [][]float64, lambda []float64, variance float64) [][]float64 {
	k := len(sk)
	nf := len(sk[0])

	if k < 2 {
		return uniformWeights(k, nf)
	}

	// Initial estimate from the two best-concentrated tapers.
	s := make([]float64, nf)
	for f := range s {
		s[f] = (sk[0][f] + sk[1][f]) / 2
	}

	d := make([][]float64, k)
	for i := range d {
		d[i] = make([]float64, nf)
	}

	for iter := 0; iter < adaptiveIterCap; iter++ {
		converged := true

		for f := range s {
			var num, den float64

			for i := 0; i < k; i++ {
				bias := lambda[i]*s[f] + (1-lambda[i])*variance
				if bias <= 0 {
					d[i][f] = 0
					continue
				}

				d[i][f] = s[f] / bias
				w := lambda[i] * d[i][f] * d[i][f]
				num += w * sk[i][f]
				den += w
			}

			if den == 0 {
				continue
			}

			next := num / den
			if !numeric.NearlyEqual(next, s[f], adaptiveTol) {
				converged = false
			}

			s[f] = next
		}

		if converged {
			break
		}
	}

	wt := make([][]float64, k)
	for i := range wt {
		wt[i] = make([]float64, nf)
		for f := range wt[i] {
			wt[i][f] = d[i][f] * math.Sqrt(lambda[i])
		}
	}

	normalizeWeights(wt)

	return wt
}

// normalizeWeights rescales so that the sum of squared weights over tapers is
// 1 at every frequency; frequencies where all weights vanish fall back to
// uniform.
func normalizeWeights(wt [][]float64) {
	k := len(wt)
	nf := len(wt[0])

	for f := 0; f < nf; f++ {
		var sum float64
		for i := 0; i < k; i++ {
			sum += wt[i][f] * wt[i][f]
		}

		if sum == 0 {
			w := math.Sqrt(1 / float64(k))
			for i := 0; i < k; i++ {
				wt[i][f] = w
			}
			continue
		}

		scale := 1 / math.Sqrt(sum)
		for i := 0; i < k; i++ {
			wt[i][f] *= scale
		}
	}
}
