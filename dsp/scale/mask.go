package scale

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

// Mask is a 12-bit set of allowed semitones above the root; bit i allows
// the degree i semitones up.
type Mask uint16

const fullMask Mask = 0x0fff

// Preset masks.
const (
	Major           Mask = 1<<0 | 1<<2 | 1<<4 | 1<<5 | 1<<7 | 1<<9 | 1<<11
	NaturalMinor    Mask = 1<<0 | 1<<2 | 1<<3 | 1<<5 | 1<<7 | 1<<8 | 1<<10
	HarmonicMinor   Mask = 1<<0 | 1<<2 | 1<<3 | 1<<5 | 1<<7 | 1<<8 | 1<<11
	MajorPentatonic Mask = 1<<0 | 1<<2 | 1<<4 | 1<<7 | 1<<9
	MinorPentatonic Mask = 1<<0 | 1<<3 | 1<<5 | 1<<7 | 1<<10
	Blues           Mask = 1<<0 | 1<<3 | 1<<5 | 1<<6 | 1<<7 | 1<<10
	Chromatic       Mask = fullMask
)

var presets = map[string]Mask{
	"major":            Major,
	"ionian":           Major,
	"minor":            NaturalMinor,
	"natural-minor":    NaturalMinor,
	"aeolian":          NaturalMinor,
	"harmonic-minor":   HarmonicMinor,
	"major-pentatonic": MajorPentatonic,
	"minor-pentatonic": MinorPentatonic,
	"blues":            Blues,
	"chromatic":        Chromatic,
}

// Presets returns the names accepted by ParseMask, sorted.
func Presets() []string {
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ParseMask accepts a preset name or a 12-character pattern of 0/1 (or
// '.'/'x') listing the degrees from the root upwards, e.g. "101011010101".
func ParseMask(s string) (Mask, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if m, ok := presets[name]; ok {
		return m, nil
	}

	if len(name) != 12 {
		return 0, fmt.Errorf("unknown scale: %q", s)
	}

	var m Mask
	for i, ch := range name {
		switch ch {
		case '1', 'x':
			m |= 1 << i
		case '0', '.':
		default:
			return 0, fmt.Errorf("invalid scale pattern %q at position %d", s, i)
		}
	}
	if m.Empty() {
		return 0, fmt.Errorf("scale pattern allows no notes: %q", s)
	}
	return m, nil
}

// Empty reports whether no degree is allowed.
func (m Mask) Empty() bool { return m&fullMask == 0 }

// Len returns the number of allowed degrees.
func (m Mask) Len() int { return bits.OnesCount16(uint16(m & fullMask)) }

// Has reports whether the degree semitones above the root is allowed.
func (m Mask) Has(degree int) bool {
	degree = mod12(degree)
	return m&(1<<degree) != 0
}

// Degrees returns the allowed semitone offsets in ascending order.
func (m Mask) Degrees() []int {
	out := make([]int, 0, m.Len())
	for i := range 12 {
		if m.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// String returns the 12-character pattern form.
func (m Mask) String() string {
	var b strings.Builder
	for i := range 12 {
		if m.Has(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func mod12(v int) int {
	v %= 12
	if v < 0 {
		v += 12
	}
	return v
}
