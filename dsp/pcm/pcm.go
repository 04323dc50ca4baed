// Package pcm converts host 16-bit PCM buffers: int16/float conversion,
// stereo downmix and linear sample-rate conversion.
package pcm

import (
	"fmt"

	"github.com/cwbudde/algo-autotalent/dsp/interp"
	"github.com/cwbudde/algo-autotalent/dsp/mix"
)

// ToFloat converts src into dst (same length) in [-1, 1).
func ToFloat(dst []float64, src []int16) error {
	if len(dst) != len(src) {
		return fmt.Errorf("pcm length mismatch: %d != %d", len(dst), len(src))
	}
	for i, s := range src {
		dst[i] = mix.FromInt16(s)
	}
	return nil
}

// FromFloat converts src into dst with rounding and saturation and returns
// the number of clipped samples.
func FromFloat(dst []int16, src []float64) (int, error) {
	if len(dst) != len(src) {
		return 0, fmt.Errorf("pcm length mismatch: %d != %d", len(dst), len(src))
	}
	clipped := 0
	for i, v := range src {
		s, clip := mix.ToInt16(v)
		dst[i] = s
		if clip {
			clipped++
		}
	}
	return clipped, nil
}

// Downmix averages two channels into one.
func Downmix(left, right []int16) ([]int16, error) {
	if len(left) != len(right) {
		return nil, fmt.Errorf("downmix length mismatch: %d != %d", len(left), len(right))
	}
	out := make([]int16, len(left))
	for i := range left {
		out[i] = int16((int32(left[i]) + int32(right[i])) >> 1)
	}
	return out, nil
}

// Deinterleave splits interleaved stereo into two channels.
func Deinterleave(stereo []int16) (left, right []int16, err error) {
	if len(stereo)%2 != 0 {
		return nil, nil, fmt.Errorf("interleaved stereo needs an even sample count: %d", len(stereo))
	}
	n := len(stereo) / 2
	left = make([]int16, n)
	right = make([]int16, n)
	for i := range n {
		left[i] = stereo[2*i]
		right[i] = stereo[2*i+1]
	}
	return left, right, nil
}

// ResampledLength returns the output length of Resample.
func ResampledLength(n, inRate, outRate int) int {
	if n <= 0 || inRate <= 0 || outRate <= 0 {
		return 0
	}
	return int((int64(n)*int64(outRate) + int64(inRate) - 1) / int64(inRate))
}

// Resample converts in from inRate to outRate with linear interpolation.
// Equal rates return a copy.
func Resample(in []int16, inRate, outRate int) ([]int16, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("resample rates must be > 0: %d -> %d", inRate, outRate)
	}
	if inRate == outRate || len(in) == 0 {
		return append([]int16(nil), in...), nil
	}

	out := make([]int16, ResampledLength(len(in), inRate, outRate))
	step := float64(inRate) / float64(outRate)
	last := len(in) - 1
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= last {
			out[i] = in[last]
			continue
		}
		t := pos - float64(idx)
		v := interp.Linear2(t, mix.FromInt16(in[idx]), mix.FromInt16(in[idx+1]))
		out[i], _ = mix.ToInt16(v)
	}
	return out, nil
}
