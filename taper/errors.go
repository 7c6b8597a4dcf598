package taper

import (
	"errors"
	"fmt"
)

var (
	errEigenFailed = errors.New("taper: eigendecomposition failed")
)

func validateDPSS(n int, nw float64, k int) error {
	if n < 2 {
		return fmt.Errorf("taper: length must be >= 2: %d", n)
	}
	if k < 1 {
		return fmt.Errorf("taper: taper count must be >= 1: %d", k)
	}
	if k > n {
		return fmt.Errorf("taper: taper count %d exceeds length %d", k, n)
	}
	if nw <= 0 || nw >= float64(n)/2 {
		return fmt.Errorf("taper: time-bandwidth product must be in (0, n/2): %f", nw)
	}
	return nil
}
