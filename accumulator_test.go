package seedindex

import (
	"errors"
	"slices"
	"testing"

	streamerrors "github.com/tamirms/seedindex/errors"
)

// pairMultiset counts (seed, locus) pairs.
func pairMultiset(words []uint64) map[[2]uint64]int {
	m := make(map[[2]uint64]int)
	for i := 0; i < len(words); i += 2 {
		m[[2]uint64{words[i], words[i+1]}]++
	}
	return m
}

func fillRandom(t *testing.T, acc *Accumulator, n int, seedBits int) {
	t.Helper()
	rng := newTestRNG(t)
	for i := 0; i < n; i++ {
		seed := rng.Uint64() & (uint64(1)<<seedBits - 1)
		if err := acc.AddFrame(seed, uint32(rng.IntN(1000)), uint32(rng.IntN(100000)), uint8(rng.IntN(7))); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}
}

func TestAccumulatorSort(t *testing.T) {
	tests := []struct {
		name   string
		bits   int
		weight int
		n      int
	}{
		{"DNA", 2, 16, 5000},
		{"DIAMOND_11", 4, 6, 5000},
		{"UNREDUCED", 5, 12, 5000},
		{"full width", 4, 16, 3000},
		{"one digit", 2, 1, 200},
		{"single pair", 2, 8, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := NewAccumulator(tt.bits, tt.weight, int64(tt.n))
			if err != nil {
				t.Fatal(err)
			}
			fillRandom(t, acc, tt.n, tt.bits*tt.weight)
			before := pairMultiset(acc.Words())

			acc.Sort(nil)

			if acc.Len() != tt.n {
				t.Fatalf("Len() = %d, want %d", acc.Len(), tt.n)
			}
			if !acc.Sorted() {
				t.Error("Sorted() = false after Sort")
			}
			for i := 1; i < acc.Len(); i++ {
				if acc.Seed(i-1) > acc.Seed(i) {
					t.Fatalf("seed %d (%x) > seed %d (%x)", i-1, acc.Seed(i-1), i, acc.Seed(i))
				}
			}
			after := pairMultiset(acc.Words())
			if len(before) != len(after) {
				t.Fatalf("distinct pairs changed: %d -> %d", len(before), len(after))
			}
			for k, c := range before {
				if after[k] != c {
					t.Fatalf("pair %x: count %d -> %d", k, c, after[k])
				}
			}
		})
	}
}

func TestAccumulatorSortIdempotent(t *testing.T) {
	acc, err := NewAccumulator(2, 12, 4000)
	if err != nil {
		t.Fatal(err)
	}
	fillRandom(t, acc, 4000, 24)
	acc.Sort(nil)
	first := slices.Clone(acc.Words())

	acc.Sort(nil)
	if !slices.Equal(first, acc.Words()) {
		t.Fatal("sorting a sorted accumulator changed it")
	}
}

// TestAccumulatorSortStable checks that equal seeds keep insertion order,
// which LSD radix sorting relies on between passes.
func TestAccumulatorSortStable(t *testing.T) {
	acc, err := NewAccumulator(2, 4, 100)
	if err != nil {
		t.Fatal(err)
	}
	rng := newTestRNG(t)
	for i := 0; i < 100; i++ {
		if err := acc.Add(uint64(rng.IntN(4)), uint32(i), 0); err != nil {
			t.Fatal(err)
		}
	}
	acc.Sort(nil)
	for i := 1; i < acc.Len(); i++ {
		if acc.Seed(i-1) == acc.Seed(i) && acc.Locus(i-1).SequenceID() > acc.Locus(i).SequenceID() {
			t.Fatalf("pairs %d and %d with seed %d out of insertion order", i-1, i, acc.Seed(i))
		}
	}
}

func TestAccumulatorSortProgress(t *testing.T) {
	acc, err := NewAccumulator(4, 6, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if err := acc.Add(uint64(10-i), uint32(i), 0); err != nil {
			t.Fatal(err)
		}
	}
	var p recordingProgress
	acc.Sort(&p)
	if p.maximum != 6 {
		t.Errorf("SetMaximum(%d), want 6", p.maximum)
	}
	want := []int64{0, 1, 2, 3, 4, 5, 6}
	if !slices.Equal(p.steps, want) {
		t.Errorf("progress = %v, want %v", p.steps, want)
	}
}

func TestAccumulatorGrowth(t *testing.T) {
	acc, err := NewAccumulator(2, 8, 0)
	if err != nil {
		t.Fatal(err)
	}
	const n = 1000
	for i := 0; i < n; i++ {
		if err := acc.Add(uint64(i%256), uint32(i), uint32(i)); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}
	if acc.Len() != n {
		t.Fatalf("Len() = %d, want %d", acc.Len(), n)
	}
	if got := len(acc.Words()); got != 2*n {
		t.Fatalf("len(Words()) = %d, want %d", got, 2*n)
	}
	for i := 0; i < n; i++ {
		if acc.Seed(i) != uint64(i%256) || acc.Locus(i).SequenceID() != uint32(i) || acc.Locus(i).Position() != uint32(i) {
			t.Fatalf("pair %d lost during growth: seed=%d locus=%v", i, acc.Seed(i), acc.Locus(i))
		}
	}
}

func TestAccumulatorCapacityExceeded(t *testing.T) {
	t.Run("projected", func(t *testing.T) {
		_, err := NewAccumulator(2, 8, 100, WithMaxWords(200))
		if !errors.Is(err, streamerrors.ErrCapacityExceeded) {
			t.Fatalf("got %v, want ErrCapacityExceeded", err)
		}
	})
	t.Run("growth", func(t *testing.T) {
		acc, err := NewAccumulator(2, 8, 0, WithMaxWords(11))
		if err != nil {
			t.Fatal(err)
		}
		// The ceiling rounds down to 10 words, 5 pairs.
		for i := 0; i < 5; i++ {
			if err := acc.Add(uint64(i), 0, uint32(i)); err != nil {
				t.Fatalf("Add %d: %v", i, err)
			}
		}
		err = acc.Add(99, 0, 99)
		if !errors.Is(err, streamerrors.ErrCapacityExceeded) {
			t.Fatalf("got %v, want ErrCapacityExceeded", err)
		}
		if acc.Len() != 5 {
			t.Fatalf("Len() = %d after failed Add, want 5", acc.Len())
		}
		for i := 0; i < 5; i++ {
			if acc.Seed(i) != uint64(i) {
				t.Fatalf("pair %d changed after failed Add", i)
			}
		}
	})
}

func TestAccumulatorSeedTooWide(t *testing.T) {
	tests := []struct {
		bits, weight int
		want         error
	}{
		{2, 32, nil},
		{2, 33, streamerrors.ErrSeedTooWide},
		{4, 16, nil},
		{4, 17, streamerrors.ErrSeedTooWide},
		{0, 4, streamerrors.ErrInvalidShape},
		{2, 0, streamerrors.ErrInvalidShape},
	}
	for _, tt := range tests {
		_, err := NewAccumulator(tt.bits, tt.weight, 10)
		if !errors.Is(err, tt.want) {
			t.Errorf("NewAccumulator(%d, %d): got %v, want %v", tt.bits, tt.weight, err, tt.want)
		}
	}
}

func TestAccumulatorResetAndRuns(t *testing.T) {
	acc, err := NewAccumulator(2, 4, 8)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []uint64{7, 3, 7, 1, 3, 7} {
		if err := acc.Add(s, 1, uint32(s)); err != nil {
			t.Fatal(err)
		}
	}
	acc.Sort(nil)

	var seeds []uint64
	var lens []int
	for r := range acc.Runs() {
		seeds = append(seeds, r.Seed)
		lens = append(lens, r.Len())
		for i := 0; i < r.Len(); i++ {
			if r.Locus(i).Position() != uint32(r.Seed) {
				t.Errorf("run %d locus %d has position %d", r.Seed, i, r.Locus(i).Position())
			}
		}
	}
	if !slices.Equal(seeds, []uint64{1, 3, 7}) || !slices.Equal(lens, []int{1, 2, 3}) {
		t.Fatalf("runs = %v / %v", seeds, lens)
	}

	capBefore := len(acc.data)
	acc.Reset()
	if acc.Len() != 0 || len(acc.Words()) != 0 {
		t.Fatal("Reset left pairs behind")
	}
	if len(acc.data) != capBefore {
		t.Fatal("Reset released the buffer")
	}
	for range acc.Runs() {
		t.Fatal("empty accumulator yielded a run")
	}
}
