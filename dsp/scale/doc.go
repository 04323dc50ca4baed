// Package scale maps detected frequencies onto the pitches of a musical
// scale.
//
// A [Table] is the ordered set of allowed pitch classes for a key, built
// from a 12-bit [Mask] and an optional mode rotation. A [Quantizer] snaps a
// frequency to the nearest allowed pitch relative to a concert-A reference
// and can pull the result towards a fixed pitch.
package scale
