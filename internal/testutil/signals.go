package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// HarmonicTone generates a voice-like tone: the fundamental plus harmonics
// with 1/k amplitude, normalized so the peak stays below amplitude.
func HarmonicTone(freqHz, sampleRate, amplitude float64, harmonics, length int) []float64 {
	if harmonics < 1 {
		harmonics = 1
	}

	var norm float64
	for k := 1; k <= harmonics; k++ {
		norm += 1 / float64(k)
	}

	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		var sum float64
		for k := 1; k <= harmonics; k++ {
			if float64(k)*freqHz >= sampleRate/2 {
				break
			}
			sum += math.Sin(step*float64(k)*float64(i)) / float64(k)
		}
		out[i] = amplitude * sum / norm
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Int16 converts a float signal in [-1, 1] to 16-bit PCM with rounding and
// saturation.
func Int16(x []float64) []int16 {
	out := make([]int16, len(x))
	for i, v := range x {
		s := math.Round(v * 32767)
		if s > math.MaxInt16 {
			s = math.MaxInt16
		}
		if s < math.MinInt16 {
			s = math.MinInt16
		}
		out[i] = int16(s)
	}
	return out
}

// Float converts 16-bit PCM to floats in [-1, 1).
func Float(x []int16) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v) / 32768
	}
	return out
}

// Cents returns the interval from ref to f in cents.
func Cents(f, ref float64) float64 {
	return 1200 * math.Log2(f/ref)
}

// EstimateFrequency returns the fundamental of x in Hz using the cumulative
// mean normalized difference function, searching minHz..maxHz. It returns 0
// when no period is found.
func EstimateFrequency(x []float64, sampleRate, minHz, maxHz float64) float64 {
	minLag := int(math.Floor(sampleRate / maxHz))
	maxLag := int(math.Ceil(sampleRate / minHz))
	if minLag < 2 {
		minLag = 2
	}
	if maxLag >= len(x)/2 {
		maxLag = len(x)/2 - 1
	}
	if maxLag <= minLag {
		return 0
	}

	window := len(x) - maxLag - 1
	d := make([]float64, maxLag+2)
	for lag := 1; lag <= maxLag+1; lag++ {
		var sum float64
		for i := range window {
			diff := x[i] - x[i+lag]
			sum += diff * diff
		}
		d[lag] = sum
	}

	cmnd := make([]float64, len(d))
	cmnd[0] = 1
	var running float64
	for lag := 1; lag < len(d); lag++ {
		running += d[lag]
		if running == 0 {
			cmnd[lag] = 1
			continue
		}
		cmnd[lag] = d[lag] * float64(lag) / running
	}

	const threshold = 0.15
	best := -1
	for lag := minLag; lag <= maxLag; lag++ {
		if cmnd[lag] < threshold {
			for lag+1 <= maxLag && cmnd[lag+1] < cmnd[lag] {
				lag++
			}
			best = lag
			break
		}
	}
	if best < 0 {
		best = minLag
		for lag := minLag; lag <= maxLag; lag++ {
			if cmnd[lag] < cmnd[best] {
				best = lag
			}
		}
	}

	period := float64(best)
	ym1, y0, y1 := cmnd[best-1], cmnd[best], cmnd[best+1]
	if den := ym1 - 2*y0 + y1; den != 0 {
		off := 0.5 * (ym1 - y1) / den
		if math.Abs(off) <= 1 {
			period += off
		}
	}

	return sampleRate / period
}
