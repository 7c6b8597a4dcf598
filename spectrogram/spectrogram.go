package spectrogram

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/cwbudde/algo-mtspec/cross"
	"github.com/cwbudde/algo-mtspec/taper"
)

// maxGapFraction is the missing-data skip threshold: a (pair, window) cell is
// skipped when non-finite samples across both slices exceed this fraction of
// the window length. Tolerated sparse gaps are filled with the finite-sample
// mean before estimation.
const maxGapFraction = 0.10

// Compute estimates the multitaper cross-spectrogram of two or more
// co-sampled channels.
//
// channels holds nvars >= 2 equal-length series sampled at interval dt
// (seconds); twin is the duration of one analysis window. All unordered
// channel pairs are estimated in lexicographic order against a single shared
// taper set. The context cancels estimation between window dispatches.
//
// Malformed geometry or channel layout is reported as a configuration error
// before any estimation begins. A per-window estimator failure aborts the
// call with a WindowError naming the failing cell. Windows dominated by
// missing data are silently skipped and left unset in the cube.
func Compute(ctx context.Context, channels [][]float64, dt, twin float64, opts ...Option) (*Cube, error) {
	cfg := applyOptions(opts...)

	if len(channels) < 2 {
		return nil, ErrTooFewChannels
	}

	npts := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) != npts {
			return nil, ErrChannelLengthMismatch
		}
	}

	geom, err := newGeometry(npts, dt, twin, cfg.Overlap)
	if err != nil {
		return nil, err
	}

	nwin := geom.WindowLen
	if nwin < 2*cfg.K && cfg.Tapers == nil {
		return nil, ErrWindowTooShort
	}

	// Segments span nwin+1 samples; so does the taper basis.
	seglen := nwin + 1

	set := cfg.Tapers
	if set == nil {
		set, err = taper.DPSS(seglen, cfg.NW, cfg.K)
		if err != nil {
			return nil, fmt.Errorf("spectrogram: taper generation failed: %w", err)
		}
	} else if set.N != seglen {
		return nil, fmt.Errorf("spectrogram: taper length %d does not match window span %d", set.N, seglen)
	}

	fmin := cfg.FMin
	fmax := cfg.FMax
	if fmax <= 0 {
		fmax = 0.5 / dt
	}

	// The frequency axis depends only on the window span and dt, so band
	// selection and cube allocation need no probe estimate.
	axis := cross.FrequencyAxis(seglen, dt)

	fres := make([]int, 0, len(axis))
	for i, f := range axis {
		if f >= fmin && f <= fmax {
			fres = append(fres, i)
		}
	}
	if len(fres) == 0 {
		return nil, ErrEmptyBand
	}

	freq := make([]float64, len(fres))
	for i, fi := range fres {
		freq[i] = axis[fi]
	}

	pairs := channelPairs(len(channels))

	cube := newCube(freq, geom.Times(dt), midStamps(cfg, geom, dt), pairs)

	estCfg := cross.Config{
		DT:         dt,
		Weighting:  cfg.Weighting,
		WaterLevel: cfg.WaterLevel,
		Tapers:     set,
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(workers))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

dispatch:
	for j, pair := range pairs {
		for i, start := range geom.Starts {
			if err := sem.Acquire(runCtx, 1); err != nil {
				break dispatch
			}

			wg.Add(1)

			go func(j, i int, pair [2]int, start int) {
				defer wg.Done()
				defer sem.Release(1)

				xseg := channels[pair[0]][start : start+seglen]
				yseg := channels[pair[1]][start : start+seglen]

				if float64(gapCount(xseg)+gapCount(yseg)) > maxGapFraction*float64(nwin) {
					report(cfg.Progress, j, len(pairs), i, geom.NumWindows(), true)
					return
				}

				sp, err := cross.Estimate(fillGaps(xseg), fillGaps(yseg), estCfg)
				if err != nil {
					errOnce.Do(func() {
						firstErr = &WindowError{Pair: pair, Window: i, Err: err}
						cancel()
					})
					return
				}

				for fi, fb := range fres {
					cube.Sxx[fi][i][j] = sp.Sxx[fb]
					cube.Syy[fi][i][j] = sp.Syy[fb]
					cube.Sxy[fi][i][j] = sp.Sxy[fb]
					cube.Syx[fi][i][j] = sp.Syx[fb]
					cube.Cohe[fi][i][j] = sp.Cohe[fb]
					cube.Trf[fi][i][j] = sp.Trf[fb]
				}

				report(cfg.Progress, j, len(pairs), i, geom.NumWindows(), false)
			}(j, i, pair, start)
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return cube, nil
}

// ComputePair estimates the cross-spectrogram of a single channel pair.
func ComputePair(ctx context.Context, x, y []float64, dt, twin float64, opts ...Option) (*Cube, error) {
	return Compute(ctx, [][]float64{x, y}, dt, twin, opts...)
}

// midStamps returns absolute mid-window timestamps when a start time is
// configured, nil otherwise.
func midStamps(cfg Config, geom Geometry, dt float64) []time.Time {
	if cfg.StartTime.IsZero() {
		return nil
	}
	return geom.MidTimes(cfg.StartTime, dt)
}

// channelPairs enumerates all unordered channel pairs in lexicographic order.
func channelPairs(nvars int) [][2]int {
	pairs := make([][2]int, 0, nvars*(nvars-1)/2)
	for a := 0; a < nvars; a++ {
		for b := a + 1; b < nvars; b++ {
			pairs = append(pairs, [2]int{a, b})
		}
	}
	return pairs
}

// gapCount counts non-finite samples in a slice.
func gapCount(seg []float64) int {
	n := 0
	for _, v := range seg {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			n++
		}
	}
	return n
}

// fillGaps returns a copy of seg with non-finite samples replaced by the mean
// of the finite ones, so tolerated sparse gaps do not poison the transform.
func fillGaps(seg []float64) []float64 {
	out := make([]float64, len(seg))

	var (
		sum    float64
		finite int
	)
	for _, v := range seg {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sum += v
			finite++
		}
	}

	if finite == len(seg) {
		copy(out, seg)
		return out
	}

	mean := 0.0
	if finite > 0 {
		mean = sum / float64(finite)
	}

	for i, v := range seg {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = mean
		} else {
			out[i] = v
		}
	}

	return out
}

func report(p Progress, pair, pairCount, window, windowCount int, skipped bool) {
	if p == nil {
		return
	}

	p(ProgressEvent{
		Pair:        pair,
		PairCount:   pairCount,
		Window:      window,
		WindowCount: windowCount,
		Skipped:     skipped,
	})
}
