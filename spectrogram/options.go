package spectrogram

import (
	"time"

	"github.com/cwbudde/algo-mtspec/cross"
	"github.com/cwbudde/algo-mtspec/taper"
)

// Config holds cross-spectrogram parameters.
type Config struct {
	// Overlap is the fraction of a window shared with its successor, in
	// [0, 0.99]. Values <= 0 mean no overlap.
	Overlap float64
	// NW is the time-bandwidth product of the taper design.
	NW float64
	// K is the number of tapers per window. For taper quality K should not
	// exceed 2*NW-1; this is documented, not enforced.
	K int
	// FMin and FMax bound the frequency band of interest in Hz. FMax <= 0
	// selects the full band up to Nyquist.
	FMin, FMax float64
	// Weighting selects the eigenspectrum combination mode.
	Weighting cross.Weighting
	// WaterLevel stabilizes transfer-function estimation, as a proportion of
	// the mean power of Syy.
	WaterLevel float64
	// Tapers optionally reuses an externally generated set across batch
	// calls. Its length must match the window sample span.
	Tapers *taper.Set
	// Workers bounds concurrent window estimations; <= 0 uses GOMAXPROCS.
	Workers int
	// StartTime, when set, attaches absolute mid-window timestamps to the
	// result in addition to the elapsed-seconds axis.
	StartTime time.Time
	// Progress, when set, observes per-window completion.
	Progress Progress
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the standard analysis parameters.
func DefaultConfig() Config {
	return Config{
		Overlap: 0.5,
		NW:      3.5,
		K:       5,
		FMax:    -1,
	}
}

// WithOverlap sets the window overlap fraction.
func WithOverlap(overlap float64) Option {
	return func(cfg *Config) {
		cfg.Overlap = overlap
	}
}

// WithTimeBandwidth sets the taper time-bandwidth product.
func WithTimeBandwidth(nw float64) Option {
	return func(cfg *Config) {
		if nw > 0 {
			cfg.NW = nw
		}
	}
}

// WithTaperCount sets the number of tapers per window.
func WithTaperCount(k int) Option {
	return func(cfg *Config) {
		if k > 0 {
			cfg.K = k
		}
	}
}

// WithBand restricts the result to frequencies in [fmin, fmax] Hz.
func WithBand(fmin, fmax float64) Option {
	return func(cfg *Config) {
		if fmin >= 0 {
			cfg.FMin = fmin
		}
		cfg.FMax = fmax
	}
}

// WithWeighting sets the eigenspectrum combination mode.
func WithWeighting(w cross.Weighting) Option {
	return func(cfg *Config) {
		cfg.Weighting = w
	}
}

// WithWaterLevel sets the transfer-function stabilization term.
func WithWaterLevel(wl float64) Option {
	return func(cfg *Config) {
		if wl >= 0 {
			cfg.WaterLevel = wl
		}
	}
}

// WithTapers reuses a precomputed taper set instead of generating one.
func WithTapers(set *taper.Set) Option {
	return func(cfg *Config) {
		cfg.Tapers = set
	}
}

// WithWorkers bounds the number of concurrent window estimations.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// WithStartTime attaches absolute mid-window timestamps to the result.
func WithStartTime(t time.Time) Option {
	return func(cfg *Config) {
		cfg.StartTime = t
	}
}

// WithProgress registers a per-window completion observer.
func WithProgress(p Progress) Option {
	return func(cfg *Config) {
		cfg.Progress = p
	}
}

func applyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
