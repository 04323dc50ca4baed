// Package formant keeps the spectral envelope of a voice in place while its
// pitch is shifted.
//
// A [Corrector] fits an all-pole (LPC) envelope to every analysis frame,
// whitens the input with a lattice analysis filter before the pitch
// shifter, and re-applies the envelope with a lattice synthesis filter
// afterwards. A non-zero warp re-maps the envelope along the frequency
// axis with a first-order allpass map, moving formants up or down.
package formant
