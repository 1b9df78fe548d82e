package encoding

import (
	"encoding/binary"
	"hash/fnv"
	"math"
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

// TestInt32ByteOrder pins the on-disk byte order.
func TestInt32ByteOrder(t *testing.T) {
	buf := make([]byte, 8)
	PutInt32At(buf, 1, 0x01020304)
	want := []byte{0, 0, 0, 0, 1, 2, 3, 4}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x (buf=%v)", i, buf[i], want[i], buf)
		}
	}
	if got := Int32At(buf, 1); got != 0x01020304 {
		t.Errorf("Int32At = %#x", got)
	}
}

func TestInt64ByteOrder(t *testing.T) {
	buf := make([]byte, 8)
	PutInt64At(buf, 0, -2)
	want := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, buf[i], want[i])
		}
	}
	if got := Int64At(buf, 0); got != -2 {
		t.Errorf("Int64At = %d, want -2", got)
	}
}

func TestWordsRandom(t *testing.T) {
	rng := newTestRNG(t)
	const n = 1000
	b32 := make([]byte, n*Int32Size)
	b64 := make([]byte, n*Int64Size)
	v32 := make([]int32, n)
	v64 := make([]int64, n)
	for i := 0; i < n; i++ {
		v32[i] = int32(rng.Uint32())
		v64[i] = int64(rng.Uint64())
		PutInt32At(b32, i, v32[i])
		PutInt64At(b64, i, v64[i])
	}
	for i := 0; i < n; i++ {
		if got := Int32At(b32, i); got != v32[i] {
			t.Fatalf("Int32At(%d) = %d, want %d", i, got, v32[i])
		}
		if got := Int64At(b64, i); got != v64[i] {
			t.Fatalf("Int64At(%d) = %d, want %d", i, got, v64[i])
		}
	}
}

func TestExtremes(t *testing.T) {
	buf := make([]byte, 16)
	PutInt64At(buf, 0, math.MinInt64)
	PutInt64At(buf, 1, math.MaxInt64)
	if Int64At(buf, 0) != math.MinInt64 || Int64At(buf, 1) != math.MaxInt64 {
		t.Error("int64 extremes not preserved")
	}
	PutInt32At(buf, 0, math.MinInt32)
	if Int32At(buf, 0) != math.MinInt32 {
		t.Error("int32 min not preserved")
	}
}

func TestPutLengthPrefixed(t *testing.T) {
	dst := make([]byte, 9)
	n := PutLengthPrefixed(dst, []byte("11011"))
	if n != 9 {
		t.Fatalf("n = %d, want 9", n)
	}
	if binary.BigEndian.Uint32(dst) != 5 || string(dst[4:]) != "11011" {
		t.Errorf("unexpected encoding %v", dst)
	}
}
