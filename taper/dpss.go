package taper

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Set is an immutable collection of DPSS tapers sharing one (N, NW) design.
//
// Tapers are unit-energy normalized and ordered by decreasing spectral
// concentration, so Tapers[0] is the best-concentrated sequence.
type Set struct {
	N  int
	NW float64
	K  int

	// Tapers holds K orthonormal sequences of length N.
	Tapers [][]float64

	// Concentrations holds the in-band energy concentration lambda_k of each
	// taper, in (0, 1), descending. Values close to 1 indicate low leakage.
	Concentrations []float64
}

// DPSS computes the k most concentrated discrete prolate spheroidal sequences
// of length n for the time-bandwidth product nw.
//
// The sequences are obtained as eigenvectors of the symmetric tridiagonal
// matrix of the classic Slepian formulation; concentrations are evaluated
// through the Dirichlet-kernel quadratic form. For taper quality k should not
// exceed 2*nw-1; larger counts are permitted but the extra tapers carry poor
// concentration.
//
// The decomposition is dense and O(n^3); intended for the moderate window
// lengths typical of spectrogram analysis.
func DPSS(n int, nw float64, k int) (*Set, error) {
	if err := validateDPSS(n, nw, k); err != nil {
		return nil, err
	}

	w := nw / float64(n)
	cosw := math.Cos(2 * math.Pi * w)

	// Symmetric tridiagonal Slepian matrix.
	tri := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		d := float64(n-1-2*i) / 2
		tri.SetSym(i, i, d*d*cosw)
		if i < n-1 {
			tri.SetSym(i, i+1, float64(i+1)*float64(n-1-i)/2)
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(tri, true) {
		return nil, errEigenFailed
	}

	var vec mat.Dense
	eig.VectorsTo(&vec)

	s := &Set{
		N:              n,
		NW:             nw,
		K:              k,
		Tapers:         make([][]float64, k),
		Concentrations: make([]float64, k),
	}

	// Eigenvalues come back ascending; the k largest are the k most
	// concentrated tapers.
	for j := 0; j < k; j++ {
		col := n - 1 - j

		v := make([]float64, n)
		for i := 0; i < n; i++ {
			v[i] = vec.At(i, col)
		}

		normalize(v)
		fixPolarity(v, j)

		s.Tapers[j] = v
		s.Concentrations[j] = concentration(v, w)
	}

	return s, nil
}

// normalize scales v to unit energy.
func normalize(v []float64) {
	var energy float64
	for _, x := range v {
		energy += x * x
	}

	if energy == 0 {
		return
	}

	scale := 1 / math.Sqrt(energy)
	for i := range v {
		v[i] *= scale
	}
}

// fixPolarity applies the Slepian sign convention: even-order (symmetric)
// tapers have a positive sum, odd-order (antisymmetric) tapers have a
// positive first moment.
func fixPolarity(v []float64, order int) {
	var m float64
	if order%2 == 0 {
		for _, x := range v {
			m += x
		}
	} else {
		for i, x := range v {
			m += float64(i) * x
		}
	}

	if m < 0 {
		for i := range v {
			v[i] = -v[i]
		}
	}
}

// concentration evaluates the in-band energy fraction of a unit-energy taper
// via the Dirichlet kernel: lambda = v' A v with A[i][j] = sin(2 pi w (i-j)) / (pi (i-j)).
func concentration(v []float64, w float64) float64 {
	n := len(v)

	var lambda float64
	for i := 0; i < n; i++ {
		lambda += 2 * w * v[i] * v[i]
		for j := i + 1; j < n; j++ {
			d := float64(i - j)
			kernel := math.Sin(2*math.Pi*w*d) / (math.Pi * d)
			lambda += 2 * kernel * v[i] * v[j]
		}
	}

	if lambda > 1 {
		return 1
	}
	if lambda < 0 {
		return 0
	}

	return lambda
}
