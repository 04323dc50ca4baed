// Package spectrum provides FFT-backed analysis primitives for the pitch
// and formant stages: linear autocorrelation, zero-padded power spectra and
// the inverse mapping from a power spectrum back to an autocorrelation
// sequence (Wiener-Khinchin).
package spectrum
