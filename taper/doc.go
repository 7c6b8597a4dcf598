// Package taper generates discrete prolate spheroidal sequences (DPSS),
// the orthogonal taper family used by Thomson's multitaper method.
//
// A taper set is generated once from (length, time-bandwidth product, taper
// count) and reused across every analysis window of a spectrogram run, so
// that all windows are projected onto the identical basis.
package taper
