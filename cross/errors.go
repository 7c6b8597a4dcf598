package cross

import (
	"errors"
	"fmt"
)

// Errors returned by the estimator.
var (
	ErrLengthMismatch = errors.New("cross: segments must have the same length")
	ErrEmptySegment   = errors.New("cross: segments must not be empty")
	ErrZeroVariance   = errors.New("cross: segment has zero variance")
)

func validateConfig(n int, cfg Config) error {
	if n == 0 {
		return ErrEmptySegment
	}
	if cfg.DT <= 0 {
		return fmt.Errorf("cross: sampling interval must be > 0: %f", cfg.DT)
	}
	if cfg.Tapers == nil {
		if cfg.K < 1 {
			return fmt.Errorf("cross: taper count must be >= 1: %d", cfg.K)
		}
		if cfg.NW <= 0 {
			return fmt.Errorf("cross: time-bandwidth product must be > 0: %f", cfg.NW)
		}
		if n < 2*cfg.K {
			return fmt.Errorf("cross: segment length %d too short for %d tapers", n, cfg.K)
		}
		return nil
	}
	if cfg.Tapers.N != n {
		return fmt.Errorf("cross: taper length %d does not match segment length %d", cfg.Tapers.N, n)
	}
	return nil
}
