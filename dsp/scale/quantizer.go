package scale

import (
	"math"

	"github.com/cwbudde/algo-autotalent/dsp/core"
	"github.com/cwbudde/algo-autotalent/internal/fastmath"
)

const (
	// semitonesAToC is the distance from C up to A within one octave.
	semitonesAToC = 9

	// snapTieEps is how much closer, in semitones, a higher candidate must
	// be to win over a lower one. Detector noise on a pitch sitting exactly
	// between two degrees stays well below it.
	snapTieEps = 1e-3
)

// Quantizer snaps frequencies to a Table relative to a concert-A reference.
//
// FixedPitch is in semitones relative to concert A. With FixedPull > 0 the
// snapped pitch is pulled towards FixedPitch; a pull of 1 replaces it.
type Quantizer struct {
	ConcertA   float64
	Table      Table
	FixedPitch float64
	FixedPull  float64
}

// Semitones returns the distance of freq from concertA in semitones.
func Semitones(freq, concertA float64) float64 {
	return 12 * fastmath.Log2(freq/concertA)
}

// Frequency converts semitones relative to concertA to Hz.
func Frequency(semitones, concertA float64) float64 {
	return concertA * fastmath.Exp2(semitones/12)
}

// Cents returns the interval from ref to f in cents.
func Cents(f, ref float64) float64 {
	return 1200 * fastmath.Log2(f/ref)
}

// Target returns the corrected frequency for freq. ok is false for
// non-positive or non-finite input, in which case the input should pass
// through uncorrected.
func (q Quantizer) Target(freq float64) (float64, bool) {
	if !core.IsFinitePositive(freq) || !core.IsFinitePositive(q.ConcertA) || q.Table.Len() == 0 {
		return freq, false
	}

	semi := q.TargetSemitones(Semitones(freq, q.ConcertA))
	return Frequency(semi, q.ConcertA), true
}

// TargetSemitones applies snapping and fixed-pitch pull to a pitch given in
// semitones relative to concert A.
func (q Quantizer) TargetSemitones(semi float64) float64 {
	snapped := q.Snap(semi)
	if q.FixedPull > 0 {
		pull := core.Clamp(q.FixedPull, 0, 1)
		return snapped + pull*(q.FixedPitch-snapped)
	}
	return snapped
}

// Snap returns the nearest allowed pitch to semi, both in semitones
// relative to concert A. Ties, within snapTieEps, go to the lower pitch.
func (q Quantizer) Snap(semi float64) float64 {
	if q.Table.Len() == 0 || !core.IsFinite(semi) {
		return semi
	}

	key := float64(q.Table.key)
	rel := semi + semitonesAToC - key
	octave := math.Floor(rel / 12)

	best := rel
	bestDist := math.Inf(1)
	for o := octave - 1; o <= octave+1; o++ {
		for _, c := range q.Table.classes {
			cand := 12*o + float64(c)
			// Candidates ascend, so near-ties keep the lower one.
			if d := math.Abs(rel - cand); d < bestDist-snapTieEps {
				best = cand
				bestDist = d
			}
		}
	}

	return best + key - semitonesAToC
}
