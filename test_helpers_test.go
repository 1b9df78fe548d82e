package seedindex

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"slices"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// newTestRNG returns a PCG generator seeded from the test name, so every
// test (and subtest) draws its own reproducible stream.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// randomSequence draws n letters from letters.
func randomSequence(rng *rand.Rand, n int, letters string) []byte {
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = letters[rng.IntN(len(letters))]
	}
	return seq
}

func randomDNA(rng *rand.Rand, n int) []byte {
	return randomSequence(rng, n, "ACGT")
}

func mustShape(t testing.TB, alphabet Alphabet, pattern string) *SeedShape {
	t.Helper()
	s, err := NewSeedShape(alphabet, pattern)
	if err != nil {
		t.Fatalf("NewSeedShape(%s, %q): %v", alphabet.Name(), pattern, err)
	}
	return s
}

func mustReduced(t testing.TB, name string) Alphabet {
	t.Helper()
	a, err := ReducedAlphabet(name)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func newTestAccumulator(t testing.TB, shape *SeedShape, approx int64, opts ...AccumulatorOption) *Accumulator {
	t.Helper()
	acc, err := NewAccumulator(shape.BitsPerLetter(), shape.Weight(), approx, opts...)
	if err != nil {
		t.Fatalf("NewAccumulator: %v", err)
	}
	return acc
}

// occurrence is one expected (seed bytes, pair) entry.
type occurrence struct {
	seed string
	pair Pair
}

// writeAndOpen writes acc as table 0 in a fresh directory and opens it.
func writeAndOpen(t testing.TB, acc *Accumulator, shape *SeedShape, seqType SequenceType, opts ...WriteOption) (*Table, *WriteStats) {
	t.Helper()
	dir := t.TempDir()
	stats, err := WriteTable(dir, 0, acc, shape, seqType, opts...)
	if err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	table, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { table.Close() })
	return table, stats
}

// lookupPairs returns the sorted pairs stored for seed.
func lookupPairs(table *Table, seed []byte) []Pair {
	var row Row
	table.Lookup(seed, &row)
	pairs := row.AppendPairs(nil)
	slices.SortFunc(pairs, comparePairs)
	return pairs
}

func comparePairs(a, b Pair) int {
	if a.SequenceID != b.SequenceID {
		if a.SequenceID < b.SequenceID {
			return -1
		}
		return 1
	}
	if a.Position != b.Position {
		if a.Position < b.Position {
			return -1
		}
		return 1
	}
	return 0
}

// recordingProgress records ProgressReporter calls.
type recordingProgress struct {
	maximum int64
	steps   []int64
}

func (p *recordingProgress) SetMaximum(max int64) { p.maximum = max }
func (p *recordingProgress) SetProgress(v int64)  { p.steps = append(p.steps, v) }
