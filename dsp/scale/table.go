package scale

import (
	"errors"
	"sort"
)

var errEmptyMask = errors.New("scale mask allows no notes")

// Table is the ordered set of allowed pitch classes for one key. It is
// never empty.
type Table struct {
	key     Key
	classes []int
}

// NewTable builds the table for key from mask rotated by rotate scale
// degrees. Rotation selects a mode of the scale on the same root: major
// rotated by 1 is dorian, by 5 natural minor. Any integer is accepted and
// taken modulo the number of degrees.
func NewTable(key Key, mask Mask, rotate int) (Table, error) {
	if !key.Valid() {
		return Table{}, errors.New("scale key must be in 0..11")
	}
	if mask.Empty() {
		return Table{}, errEmptyMask
	}

	degrees := mask.Degrees()
	n := len(degrees)
	r := rotate % n
	if r < 0 {
		r += n
	}

	base := degrees[r]
	classes := make([]int, n)
	for i := range degrees {
		classes[i] = mod12(degrees[(i+r)%n] - base)
	}
	sort.Ints(classes)

	return Table{key: key, classes: classes}, nil
}

// Key returns the root.
func (t Table) Key() Key { return t.key }

// Classes returns the allowed semitone offsets from the root, ascending
// and unique.
func (t Table) Classes() []int {
	return append([]int(nil), t.classes...)
}

// PitchClasses returns the allowed absolute pitch classes (C = 0),
// ascending.
func (t Table) PitchClasses() []int {
	out := make([]int, len(t.classes))
	for i, c := range t.classes {
		out[i] = mod12(c + int(t.key))
	}
	sort.Ints(out)
	return out
}

// Mask returns the table as a mask relative to the root.
func (t Table) Mask() Mask {
	var m Mask
	for _, c := range t.classes {
		m |= 1 << c
	}
	return m
}

// Contains reports whether the absolute pitch class pc is allowed.
func (t Table) Contains(pc int) bool {
	rel := mod12(pc - int(t.key))
	for _, c := range t.classes {
		if c == rel {
			return true
		}
	}
	return false
}

// Len returns the number of allowed pitch classes.
func (t Table) Len() int { return len(t.classes) }
