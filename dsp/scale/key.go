package scale

import (
	"fmt"
	"strings"
)

// Key is a pitch class, 0 = C through 11 = B.
type Key int

const (
	C Key = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var keyNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var flatNames = map[string]Key{
	"DB": CSharp, "EB": DSharp, "GB": FSharp, "AB": GSharp, "BB": ASharp,
	"CB": B, "FB": E, "E#": F, "B#": C,
}

// Valid reports whether k is in 0..11.
func (k Key) Valid() bool { return k >= C && k <= B }

// String returns the sharp spelling of k.
func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// ParseKey parses a note name such as "C", "f#" or "Bb".
func ParseKey(s string) (Key, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range keyNames {
		if n == name {
			return Key(i), nil
		}
	}
	if k, ok := flatNames[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown key: %q", s)
}
