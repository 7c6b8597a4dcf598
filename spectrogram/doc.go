// Package spectrogram computes time-and-frequency resolved multitaper
// cross-spectral estimates between co-sampled real-valued series.
//
// The engine tiles the input into possibly overlapping analysis windows,
// generates one shared DPSS taper set, estimates each window of each channel
// pair independently, and assembles the per-window band-restricted spectra
// into a three-axis cube (frequency x window x pair). Windows dominated by
// missing data are skipped and left at a NaN sentinel, distinguishable from
// zero power.
//
// Every (pair, window) cell is independent given the shared read-only taper
// set, so estimation is dispatched across a bounded worker pool with each
// worker writing a disjoint region of the cube.
package spectrogram
