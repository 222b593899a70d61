package rng

import "testing"

// fixed replays a fixed sequence of draws.
type fixed []float64

func (f *fixed) Float64() float64 {
	v := (*f)[0]
	*f = (*f)[1:]
	return v
}

func TestRNG_Deterministic(t *testing.T) {
	rng1 := New(42)
	rng2 := New(42)

	for i := 0; i < 20; i++ {
		a := rng1.Float64()
		b := rng2.Float64()
		if a != b {
			t.Fatalf("draw %d: got %v and %v from same seed", i, a, b)
		}
	}
}

func TestRNG_Float64_Range(t *testing.T) {
	r := New(99)

	for i := 0; i < 1000; i++ {
		f := r.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("draw out of range [0,1): got %v", f)
		}
	}
}

func TestRNG_Position_Tracks(t *testing.T) {
	r := New(42)

	if r.Position() != 0 {
		t.Fatalf("expected position 0, got %d", r.Position())
	}

	r.Float64()
	if r.Position() != 1 {
		t.Fatalf("expected position 1, got %d", r.Position())
	}

	Pick(r, []float64{1, 2})
	Pick(r, []float64{1, 2})
	if r.Position() != 3 {
		t.Fatalf("expected position 3, got %d", r.Position())
	}
}

func TestRNG_Restore_MatchesPosition(t *testing.T) {
	// Advance an RNG to position 10 and record the next 5 draws.
	r := New(42)
	for i := 0; i < 10; i++ {
		r.Float64()
	}

	var expected [5]float64
	for i := range expected {
		expected[i] = r.Float64()
	}

	restored := Restore(42, 10)
	if restored.Position() != 10 {
		t.Fatalf("expected position 10, got %d", restored.Position())
	}
	if restored.Seed() != 42 {
		t.Fatalf("expected seed 42, got %d", restored.Seed())
	}

	for i, want := range expected {
		if got := restored.Float64(); got != want {
			t.Fatalf("draw %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestRNG_ResetInPlace(t *testing.T) {
	r := New(1)
	r.Float64()
	var src Source = r

	r.Reset(42, 3)
	want := Restore(42, 3).Float64()
	if got := src.Float64(); got != want {
		t.Fatalf("expected reset stream to match Restore: got %v, want %v", got, want)
	}
	if r.Seed() != 42 || r.Position() != 4 {
		t.Fatalf("expected seed 42 at position 4, got %d at %d", r.Seed(), r.Position())
	}
}

func TestPick_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		cdf  []float64
		draw float64
		want int
	}{
		{"first bucket", []float64{1, 2, 3}, 0.1, 0},
		{"middle bucket", []float64{1, 2, 3}, 0.5, 1},
		{"last bucket", []float64{1, 2, 3}, 0.99, 2},
		{"zero draw skips zero weight", []float64{0, 5}, 0, 1},
		{"boundary skips zero weight", []float64{1, 1, 2}, 0.5, 2},
		{"single", []float64{4}, 0.7, 0},
	}
	for _, tt := range tests {
		src := fixed{tt.draw}
		if got := Pick(&src, tt.cdf); got != tt.want {
			t.Errorf("%s: Pick(%v, %v) = %d, want %d", tt.name, tt.cdf, tt.draw, got, tt.want)
		}
	}
}

func TestPick_Distribution(t *testing.T) {
	r := New(12345)
	cdf := []float64{70, 90, 100}
	counts := [3]int{}

	const trials = 10000
	for i := 0; i < trials; i++ {
		counts[Pick(r, cdf)]++
	}

	// With 10k trials, expect roughly 70%/20%/10% ± some margin.
	if counts[0] < 6000 || counts[0] > 8000 {
		t.Errorf("expected ~7000 for weight 70, got %d", counts[0])
	}
	if counts[1] < 1000 || counts[1] > 3000 {
		t.Errorf("expected ~2000 for weight 20, got %d", counts[1])
	}
	if counts[2] < 200 || counts[2] > 1800 {
		t.Errorf("expected ~1000 for weight 10, got %d", counts[2])
	}
}
