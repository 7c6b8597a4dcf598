package cross_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-mtspec/cross"
)

func ExampleEstimate() {
	const (
		n  = 256
		dt = 0.001
	)

	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		tm := float64(i) * dt
		x[i] = math.Sin(2 * math.Pi * 50 * tm)
		y[i] = x[i]
	}

	sp, err := cross.Estimate(x, y, cross.Config{NW: 3.5, K: 5, DT: dt})
	if err != nil {
		panic(err)
	}

	peak := 0
	for f := range sp.Sxx {
		if real(sp.Sxx[f]) > real(sp.Sxx[peak]) {
			peak = f
		}
	}

	// The tone appears as a plateau of half-width NW/(n*dt) Hz, so the
	// argmax can land anywhere within the taper bandwidth of 50 Hz.
	bandwidth := 3.5 / (n * dt)

	fmt.Println("bins:", len(sp.Freq))
	fmt.Printf("peak within the taper bandwidth of 50 Hz: %v\n", math.Abs(sp.Freq[peak]-50) < bandwidth)
	fmt.Printf("coherence at peak: %.2f\n", sp.Cohe[peak])
	// Output:
	// bins: 129
	// peak within the taper bandwidth of 50 Hz: true
	// coherence at peak: 1.00
}
