// Package testutil provides deterministic signal generators and assertion
// helpers for spectral tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a sine wave sampled at interval dt seconds.
func Sine(freqHz, dt, phase float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = math.Sin(2*math.Pi*freqHz*float64(i)*dt + phase)
	}
	return out
}

// GaussianNoise generates unit-variance white noise with a fixed seed for
// reproducibility.
func GaussianNoise(seed int64, length int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, length)
	for i := range out {
		out[i] = rng.NormFloat64()
	}
	return out
}

// InsertGaps replaces samples in [from, to] with NaN in place, emulating
// missing data.
func InsertGaps(signal []float64, from, to int) {
	for i := from; i <= to && i < len(signal); i++ {
		if i >= 0 {
			signal[i] = math.NaN()
		}
	}
}
