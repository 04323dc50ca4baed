//go:build fastmath

package fastmath

import "github.com/meko-christian/algo-approx"

// ln2 is the natural logarithm of 2, used for log base conversions.
const ln2 = 0.693147180559945309417232121458

// Log2 computes log2(x) via ln(x)/ln(2).
func Log2(x float64) float64 {
	return approx.FastLog(x) / ln2
}

// Exp2 computes 2^x via e^(x*ln(2)).
func Exp2(x float64) float64 {
	return approx.FastExp(x * ln2)
}

// Sqrt computes sqrt(x) using fast approximation.
func Sqrt(x float64) float64 {
	return approx.FastSqrt(x)
}
