package spectrogram

import (
	"errors"
	"fmt"
)

// Configuration errors, reported before any estimation work begins.
var (
	ErrInvalidSampleInterval = errors.New("spectrogram: sampling interval must be > 0")
	ErrInvalidWindowDuration = errors.New("spectrogram: window duration must be > 0")
	ErrOverlapOutOfRange     = errors.New("spectrogram: overlap must not exceed 0.99")
	ErrTooFewChannels        = errors.New("spectrogram: at least two channels required")
	ErrChannelLengthMismatch = errors.New("spectrogram: channels must share one length")
	ErrNoWindows             = errors.New("spectrogram: series shorter than one analysis window")
	ErrWindowTooShort        = errors.New("spectrogram: window too short for the requested taper count")
	ErrEmptyBand             = errors.New("spectrogram: no frequency bins inside the requested band")
)

// WindowError reports an estimator failure at a specific (pair, window) cell.
// It aborts the whole computation; unlike a missing-data skip it indicates a
// structural problem with the data or configuration.
type WindowError struct {
	Pair   [2]int
	Window int
	Err    error
}

func (e *WindowError) Error() string {
	return fmt.Sprintf("spectrogram: pair (%d,%d) window %d: %v", e.Pair[0], e.Pair[1], e.Window, e.Err)
}

func (e *WindowError) Unwrap() error {
	return e.Err
}
