// Package fastmath provides the log2/exp2 conversions used once per analysis
// hop when mapping frequencies to semitones and back.
//
// By default the functions forward to the standard library. Building with
// the fastmath tag switches them to algo-approx approximations:
//
//	go build -tags fastmath ./...
//
// # Accuracy Characteristics
//
// Log2: <0.5% relative error for x in [0.001, 100]
//
// Exp2: <0.1% relative error for x in [-10, 10]
//
// The approximations are good to a few cents, which is audible on a sustained
// note. Keep the default build when correction accuracy matters more than CPU.
package fastmath
