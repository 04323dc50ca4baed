package formant

import (
	"errors"
	"fmt"
)

var errNoEnergy = errors.New("autocorrelation has no energy")

// Coeffs is an all-pole model of order len(K).
type Coeffs struct {
	// A holds the inverse filter 1 + A[1]z^-1 + ... + A[p]z^-p; A[0] is 1.
	A []float64
	// K holds the reflection coefficients, |K[i]| < 1.
	K []float64
	// Err is the final prediction error energy.
	Err float64
}

// Order returns the model order.
func (c Coeffs) Order() int { return len(c.K) }

// LPC solves the normal equations for acf[0..order] with the
// Levinson-Durbin recursion. If the recursion reaches an unstable
// reflection coefficient the remaining stages are left at zero.
func LPC(acf []float64, order int) (Coeffs, error) {
	if order < 1 {
		return Coeffs{}, fmt.Errorf("lpc order must be >= 1: %d", order)
	}
	if len(acf) < order+1 {
		return Coeffs{}, fmt.Errorf("lpc needs %d autocorrelation lags: %d", order+1, len(acf))
	}

	c := Coeffs{
		A: make([]float64, order+1),
		K: make([]float64, order),
	}
	c.A[0] = 1

	if !(acf[0] > 0) {
		return c, errNoEnergy
	}

	err := acf[0]
	tmp := make([]float64, order+1)
	for m := 1; m <= order; m++ {
		acc := acf[m]
		for i := 1; i < m; i++ {
			acc += c.A[i] * acf[m-i]
		}
		k := -acc / err
		if !(k > -1 && k < 1) {
			break
		}

		copy(tmp, c.A)
		for i := 1; i < m; i++ {
			c.A[i] = tmp[i] + k*tmp[m-i]
		}
		c.A[m] = k
		c.K[m-1] = k
		err *= 1 - k*k
	}
	c.Err = err

	return c, nil
}

// ReflectionToPredictor converts reflection coefficients to the direct
// form inverse filter A (A[0] = 1).
func ReflectionToPredictor(k []float64) []float64 {
	a := make([]float64, len(k)+1)
	a[0] = 1
	tmp := make([]float64, len(k)+1)
	for m := 1; m <= len(k); m++ {
		copy(tmp, a)
		km := k[m-1]
		for i := 1; i < m; i++ {
			a[i] = tmp[i] + km*tmp[m-i]
		}
		a[m] = km
	}
	return a
}
