package scale

import (
	"math"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{in: "C", want: C},
		{in: "c#", want: CSharp},
		{in: " Bb ", want: ASharp},
		{in: "F#", want: FSharp},
		{in: "Gb", want: FSharp},
		{in: "B", want: B},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("ParseKey(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseKey("H"); err == nil {
		t.Fatal("expected error for unknown key")
	}
	if got := Key(13).String(); got != "Key(13)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParseMask(t *testing.T) {
	m, err := ParseMask("major")
	if err != nil {
		t.Fatal(err)
	}
	if m != Major {
		t.Fatalf("ParseMask(major) = %s", m)
	}

	m, err = ParseMask("101011010101")
	if err != nil {
		t.Fatal(err)
	}
	if m != Major {
		t.Fatalf("pattern parse = %s, want %s", m, Major)
	}
	if Major.String() != "101011010101" {
		t.Fatalf("Major.String() = %s", Major.String())
	}

	for _, bad := range []string{"", "dorianish", "000000000000", "10101101010z"} {
		if _, err := ParseMask(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}

	if len(Presets()) == 0 {
		t.Fatal("Presets() is empty")
	}
}

func TestNewTableRotation(t *testing.T) {
	tests := []struct {
		name   string
		mask   Mask
		rotate int
		want   []int
	}{
		{name: "major", mask: Major, rotate: 0, want: []int{0, 2, 4, 5, 7, 9, 11}},
		{name: "dorian", mask: Major, rotate: 1, want: []int{0, 2, 3, 5, 7, 9, 10}},
		{name: "aeolian", mask: Major, rotate: 5, want: []int{0, 2, 3, 5, 7, 8, 10}},
		{name: "negative wraps", mask: Major, rotate: -2, want: []int{0, 2, 3, 5, 7, 8, 10}},
		{name: "full turn", mask: Major, rotate: 14, want: []int{0, 2, 4, 5, 7, 9, 11}},
		{name: "single note", mask: 1 << 4, rotate: 3, want: []int{0}},
		{name: "pentatonic relative minor", mask: MajorPentatonic, rotate: 4, want: []int{0, 3, 5, 7, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab, err := NewTable(D, tt.mask, tt.rotate)
			if err != nil {
				t.Fatal(err)
			}
			got := tab.Classes()
			if len(got) != len(tt.want) {
				t.Fatalf("Classes() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Classes() = %v, want %v", got, tt.want)
				}
			}
			if tab.Len() == 0 || got[0] != 0 {
				t.Fatalf("rotated table must contain the root: %v", got)
			}
		})
	}
}

func TestNewTableErrors(t *testing.T) {
	if _, err := NewTable(C, 0, 0); err == nil {
		t.Fatal("expected error for empty mask")
	}
	if _, err := NewTable(Key(12), Major, 0); err == nil {
		t.Fatal("expected error for invalid key")
	}
}

func TestTableContains(t *testing.T) {
	tab, err := NewTable(FSharp, Major, 0)
	if err != nil {
		t.Fatal(err)
	}

	want := []int{1, 3, 5, 6, 8, 10, 11}
	pcs := tab.PitchClasses()
	for i := range want {
		if pcs[i] != want[i] {
			t.Fatalf("PitchClasses() = %v, want %v", pcs, want)
		}
		if !tab.Contains(want[i]) {
			t.Fatalf("Contains(%d) = false", want[i])
		}
	}
	if tab.Contains(int(A)) {
		t.Fatal("F# major must not contain A")
	}
	if tab.Mask() != Major {
		t.Fatalf("Mask() = %s, want %s", tab.Mask(), Major)
	}
}

func mustQuantizer(t *testing.T, key Key, mask Mask) Quantizer {
	t.Helper()
	tab, err := NewTable(key, mask, 0)
	if err != nil {
		t.Fatal(err)
	}
	return Quantizer{ConcertA: 440, Table: tab}
}

func TestQuantizerTarget(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		mask Mask
		in   float64
		want float64
	}{
		{name: "A in C major stays", key: C, mask: Major, in: 440, want: 440},
		{name: "sharp A snaps back", key: C, mask: Major, in: 452, want: 440},
		{name: "flat B snaps up", key: C, mask: Major, in: 480, want: 493.883301},
		{name: "A# in C major goes to nearest", key: C, mask: Major, in: 470, want: 493.883301},
		{name: "tie in F# major goes down", key: FSharp, mask: Major, in: 440, want: 415.304698},
		{name: "low octave", key: C, mask: Major, in: 65.5, want: 65.406391},
		{name: "chromatic keeps nearest semitone", key: C, mask: Chromatic, in: 445, want: 440},
		{name: "single note scale", key: E, mask: 1, in: 440, want: 329.627557},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustQuantizer(t, tt.key, tt.mask)
			got, ok := q.Target(tt.in)
			if !ok {
				t.Fatal("Target() not ok")
			}
			if math.Abs(got-tt.want) > 1e-5 {
				t.Fatalf("Target(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuantizerSnapsToAllowedClass(t *testing.T) {
	q := mustQuantizer(t, DSharp, HarmonicMinor)
	for f := 80.0; f < 1000; f *= 1.013 {
		got, ok := q.Target(f)
		if !ok {
			t.Fatalf("Target(%v) not ok", f)
		}
		semi := Semitones(got, 440)
		rounded := math.Round(semi)
		if math.Abs(semi-rounded) > 1e-9 {
			t.Fatalf("Target(%v) = %v is not on a semitone", f, got)
		}
		pc := mod12(int(rounded) + semitonesAToC)
		if !q.Table.Contains(pc) {
			t.Fatalf("Target(%v) landed on pitch class %d outside the scale", f, pc)
		}
		if math.Abs(Cents(got, f)) > 300 {
			t.Fatalf("Target(%v) = %v moved more than a minor third", f, got)
		}
	}
}

func TestQuantizerNearTieGoesDown(t *testing.T) {
	q := mustQuantizer(t, FSharp, Major)

	// A4 lies exactly between G#4 (-1) and A#4 (+1).
	tests := []struct {
		name string
		semi float64
		want float64
	}{
		{name: "exact", semi: 0, want: -1},
		{name: "slightly sharp", semi: 1e-5, want: -1},
		{name: "detector sharp", semi: 1.5e-4, want: -1},
		{name: "slightly flat", semi: -1e-5, want: -1},
		{name: "clearly sharp", semi: 0.01, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := q.Snap(tt.semi); got != tt.want {
				t.Fatalf("Snap(%v) = %v, want %v", tt.semi, got, tt.want)
			}
		})
	}

	got, ok := q.Target(440.004)
	if !ok || math.Abs(got-415.304698) > 1e-5 {
		t.Fatalf("Target(440.004) = %v, %v, want 415.304698", got, ok)
	}
}

func TestQuantizerPassthrough(t *testing.T) {
	q := mustQuantizer(t, C, Major)
	for _, f := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		if _, ok := q.Target(f); ok {
			t.Fatalf("Target(%v) should not be ok", f)
		}
	}

	var zero Quantizer
	if got, ok := zero.Target(440); ok || got != 440 {
		t.Fatalf("zero Quantizer Target = %v, %v", got, ok)
	}
}

func TestQuantizerFixedPull(t *testing.T) {
	q := mustQuantizer(t, C, Major)
	q.FixedPitch = 3 // C above A4

	tests := []struct {
		pull float64
		want float64
	}{
		{pull: 0, want: 0},
		{pull: 0.5, want: 1.5},
		{pull: 1, want: 3},
	}

	for _, tt := range tests {
		q.FixedPull = tt.pull
		got := q.TargetSemitones(0.2)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("pull %v: TargetSemitones = %v, want %v", tt.pull, got, tt.want)
		}
	}
}

func TestSemitoneHelpers(t *testing.T) {
	if got := Semitones(880, 440); math.Abs(got-12) > 1e-12 {
		t.Fatalf("Semitones(880, 440) = %v", got)
	}
	if got := Frequency(-12, 440); math.Abs(got-220) > 1e-12 {
		t.Fatalf("Frequency(-12, 440) = %v", got)
	}
	if got := Cents(440*math.Exp2(1.0/1200), 440); math.Abs(got-1) > 1e-9 {
		t.Fatalf("Cents = %v, want 1", got)
	}
}
