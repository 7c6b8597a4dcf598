package spectrogram

// ProgressEvent describes one completed (pair, window) cell.
type ProgressEvent struct {
	// Pair is the zero-based pair index; PairCount the total number of pairs.
	Pair, PairCount int
	// Window is the zero-based window index; WindowCount the total number of
	// windows.
	Window, WindowCount int
	// Skipped reports a missing-data skip rather than an estimate.
	Skipped bool
}

// Progress observes per-window completion of a spectrogram run.
//
// The callback may be invoked concurrently from worker goroutines and must be
// safe for concurrent use. Events are not ordered.
type Progress func(ProgressEvent)
