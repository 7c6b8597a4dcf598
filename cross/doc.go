// Package cross estimates multitaper cross-spectral quantities for a single
// pair of equal-length real segments.
//
// The estimator projects both segments onto a shared DPSS taper basis,
// combines the per-taper eigenspectra under one of three weighting modes
// (Thomson adaptive, eigenvalue, uniform), and derives auto-spectra,
// cross-spectra, magnitude-squared coherence, and a water-level regularized
// transfer function on the one-sided frequency axis.
//
// The package intentionally does not implement FFT itself; transforms are
// delegated to external FFT plans.
package cross
