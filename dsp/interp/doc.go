// Package interp provides interpolation primitives used by the resynthesis
// and analysis stages.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:    2-point linear interpolation
//   - [Hermite4]:   4-point cubic Hermite (grain reads)
//   - [Parabolic]:  3-point vertex estimate (sub-sample peak refinement)
package interp
