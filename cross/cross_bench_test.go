package cross

import (
	"testing"

	"github.com/cwbudde/algo-mtspec/internal/testutil"
	"github.com/cwbudde/algo-mtspec/taper"
)

func BenchmarkEstimate(b *testing.B) {
	sizes := []struct {
		name string
		size int
	}{
		{"128", 128},
		{"512", 512},
		{"2K", 2048},
	}

	for _, testCase := range sizes {
		b.Run(testCase.name, func(b *testing.B) {
			x := testutil.GaussianNoise(1, testCase.size)
			y := testutil.GaussianNoise(2, testCase.size)

			set, err := taper.DPSS(testCase.size, 3.5, 5)
			if err != nil {
				b.Fatal(err)
			}

			cfg := Config{DT: 0.01, Tapers: set}

			b.ResetTimer()

			for range b.N {
				if _, err := Estimate(x, y, cfg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
