package delay

import "testing"

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for size=0")
	}

	if _, err := New(-1); err == nil {
		t.Fatal("expected error for size=-1")
	}
}

func TestReadWrite(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 12 {
		d.Write(float64(i))
	}

	for delay := range 8 {
		want := float64(11 - delay)
		if got := d.Read(delay); got != want {
			t.Fatalf("Read(%d) = %v, want %v", delay, got, want)
		}
	}
}

func TestSnapshotChronological(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 6; i++ {
		d.Write(float64(i))
	}

	dst := make([]float64, 4)
	if n := d.Snapshot(dst); n != 4 {
		t.Fatalf("Snapshot() copied %d, want 4", n)
	}

	want := []float64{3, 4, 5, 6}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	short := make([]float64, 2)
	d.Snapshot(short)
	if short[0] != 5 || short[1] != 6 {
		t.Fatalf("short snapshot = %v", short)
	}
}

func TestReset(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	d.Write(1)
	d.Write(2)
	d.Reset()

	for i := range 4 {
		if d.Read(i) != 0 {
			t.Fatalf("Read(%d) after Reset = %v", i, d.Read(i))
		}
	}
}
