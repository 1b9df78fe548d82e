package bits

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

func TestNextPow2(t *testing.T) {
	tests := []struct {
		n    uint64
		want uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{1000, 1024},
		{1 << 30, 1 << 30},
		{1<<30 + 1, 1 << 31},
	}
	for _, tt := range tests {
		if got := NextPow2(tt.n); got != tt.want {
			t.Errorf("NextPow2(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

// TestNextPow2Bounds verifies p/2 < n <= p for random n.
func TestNextPow2Bounds(t *testing.T) {
	rng := newTestRNG(t)
	for i := 0; i < 10000; i++ {
		n := rng.Uint64N(1<<62) + 2
		p := NextPow2(n)
		if p&(p-1) != 0 {
			t.Fatalf("NextPow2(%d) = %d is not a power of two", n, p)
		}
		if p < n || p/2 >= n {
			t.Fatalf("NextPow2(%d) = %d out of bounds", n, p)
		}
	}
}

func TestBitsFor(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{10, 4},
		{11, 4},
		{20, 5},
		{21, 5},
		{32, 5},
		{33, 6},
	}
	for _, tt := range tests {
		if got := BitsFor(tt.n); got != tt.want {
			t.Errorf("BitsFor(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestMask(t *testing.T) {
	if Mask(0) != 0 {
		t.Errorf("Mask(0) = %x", Mask(0))
	}
	if Mask(3) != 7 {
		t.Errorf("Mask(3) = %x", Mask(3))
	}
	if Mask(64) != ^uint64(0) {
		t.Errorf("Mask(64) = %x", Mask(64))
	}
}
