package spectrogram

import (
	"math"
	"time"
)

// Geometry describes how a series is tiled into analysis windows.
//
// Each window spans WindowLen+1 samples starting at an entry of Starts, an
// inclusive convention carried by the estimator contract. Every start
// satisfies start+WindowLen <= npts-1.
type Geometry struct {
	// WindowLen is the window length in sample steps (twin/dt rounded).
	WindowLen int
	// Jump is the sample distance between consecutive window starts.
	Jump int
	// Starts lists the window start indices in increasing order.
	Starts []int
}

// newGeometry derives the window tiling from the series length and the
// requested duration and overlap.
//
// A duration equal to the full series is accepted as a single whole-series
// window (the window length drops by one step so the inclusive span covers
// exactly the series); a longer duration is a configuration error.
func newGeometry(npts int, dt, twin, overlap float64) (Geometry, error) {
	if dt <= 0 {
		return Geometry{}, ErrInvalidSampleInterval
	}
	if twin <= 0 {
		return Geometry{}, ErrInvalidWindowDuration
	}
	if overlap > 0.99 {
		return Geometry{}, ErrOverlapOutOfRange
	}

	nwin := int(math.Round(twin / dt))
	if nwin < 1 {
		return Geometry{}, ErrInvalidWindowDuration
	}

	if nwin > npts {
		return Geometry{}, ErrNoWindows
	}
	if nwin == npts {
		nwin = npts - 1
	}

	jump := nwin
	if overlap > 0 {
		jump = int(math.Round(twin * (1 - overlap) / dt))
		if jump < 1 {
			jump = 1
		}
	}

	nmax := npts - nwin

	starts := make([]int, 0, (nmax+jump-1)/jump)
	for s := 0; s < nmax; s += jump {
		starts = append(starts, s)
	}

	if len(starts) == 0 {
		return Geometry{}, ErrNoWindows
	}

	return Geometry{WindowLen: nwin, Jump: jump, Starts: starts}, nil
}

// NumWindows returns the number of analysis windows.
func (g Geometry) NumWindows() int {
	return len(g.Starts)
}

// Times returns the elapsed time in seconds of each window start.
func (g Geometry) Times(dt float64) []float64 {
	out := make([]float64, len(g.Starts))
	for i, s := range g.Starts {
		out[i] = float64(s) * dt
	}
	return out
}

// MidTimes returns the absolute timestamp of each window midpoint.
func (g Geometry) MidTimes(start time.Time, dt float64) []time.Time {
	out := make([]time.Time, len(g.Starts))
	for i, s := range g.Starts {
		mid := (float64(s) + float64(g.WindowLen)/2) * dt
		out[i] = start.Add(time.Duration(mid * float64(time.Second)))
	}
	return out
}
