// Package level provides a streaming level meter for processed blocks.
package level

import (
	"math"

	"github.com/cwbudde/algo-autotalent/dsp/core"
)

// Stats summarizes everything a Meter has seen since the last Reset.
type Stats struct {
	Samples       int
	DC            float64 // mean
	RMS           float64
	RMSdB         float64
	Peak          float64 // max(|max|, |min|)
	PeakdB        float64
	CrestFactor   float64 // peak / RMS (linear)
	ZeroCrossings int
	// Clipped counts samples that saturated on conversion to PCM.
	Clipped int
}

// Meter accumulates level statistics block by block. The zero value is
// ready to use.
type Meter struct {
	n             int
	sum           float64
	sumSq         float64
	peak          float64
	zeroCrossings int
	clipped       int
	last          float64
}

// Update adds a block of samples.
func (m *Meter) Update(samples []float64) {
	for _, x := range samples {
		m.n++
		m.sum += x
		m.sumSq += x * x
		if a := math.Abs(x); a > m.peak {
			m.peak = a
		}
		if m.n > 1 && m.last*x < 0 {
			m.zeroCrossings++
		}
		m.last = x
	}
}

// AddClipped records n saturated samples.
func (m *Meter) AddClipped(n int) {
	if n > 0 {
		m.clipped += n
	}
}

// Result returns the accumulated statistics.
func (m *Meter) Result() Stats {
	if m.n == 0 {
		return Stats{
			RMSdB:   math.Inf(-1),
			PeakdB:  math.Inf(-1),
			Clipped: m.clipped,
		}
	}

	nf := float64(m.n)
	rms := math.Sqrt(m.sumSq / nf)

	var crest float64
	if rms > 0 {
		crest = m.peak / rms
	}

	return Stats{
		Samples:       m.n,
		DC:            m.sum / nf,
		RMS:           rms,
		RMSdB:         core.LinearToDB(rms),
		Peak:          m.peak,
		PeakdB:        core.LinearToDB(m.peak),
		CrestFactor:   crest,
		ZeroCrossings: m.zeroCrossings,
		Clipped:       m.clipped,
	}
}

// Reset clears all accumulated data.
func (m *Meter) Reset() {
	*m = Meter{}
}
