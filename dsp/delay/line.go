package delay

import "fmt"

// Line is a circular sample history. Delay 0 addresses the most recently
// written sample.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads the sample written delay samples ago.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := (d.writePos - 1 - delay) % size
	if readPos < 0 {
		readPos += size
	}
	return d.buffer[readPos]
}

// Snapshot copies the most recent len(dst) samples into dst, oldest first.
// When dst is longer than the line only the first Len() entries are written.
// It returns the number of samples copied.
func (d *Line) Snapshot(dst []float64) int {
	n := len(dst)
	if n > len(d.buffer) {
		n = len(d.buffer)
	}
	for i := range n {
		dst[i] = d.Read(n - 1 - i)
	}
	return n
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
