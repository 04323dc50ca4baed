package formant

import "github.com/cwbudde/algo-autotalent/dsp/core"

// Lattice is a lattice filter with persistent state. Coefficients may be
// swapped between samples; the filter stays stable as long as every
// reflection coefficient is inside (-1, 1).
//
// Analyze and Synthesize are inverses of each other, but one Lattice
// should only be used in one direction since both share the state.
type Lattice struct {
	k []float64
	z []float64
}

// NewLattice creates a lattice of the given order with all coefficients
// zero (identity).
func NewLattice(order int) *Lattice {
	return &Lattice{
		k: make([]float64, order),
		z: make([]float64, order),
	}
}

// Order returns the number of stages.
func (l *Lattice) Order() int { return len(l.k) }

// SetReflection copies k into the filter. Missing stages are set to 0,
// extra ones ignored.
func (l *Lattice) SetReflection(k []float64) {
	n := copy(l.k, k)
	core.Zero(l.k[n:])
}

// Analyze runs the FIR (whitening) direction: e = A(z) x.
func (l *Lattice) Analyze(x float64) float64 {
	f := x
	b := x
	for m, km := range l.k {
		bDel := l.z[m]
		l.z[m] = b
		f, b = f+km*bDel, km*f+bDel
	}
	return f
}

// Synthesize runs the all-pole direction: y = x / A(z).
func (l *Lattice) Synthesize(x float64) float64 {
	f := x
	p := len(l.k)
	for m := p - 1; m >= 0; m-- {
		f -= l.k[m] * l.z[m]
		if m+1 < p {
			l.z[m+1] = core.FlushDenormals(l.k[m]*f + l.z[m])
		}
	}
	if p > 0 {
		l.z[0] = f
	}
	return f
}

// Reset clears the filter state.
func (l *Lattice) Reset() {
	core.Zero(l.z)
}
