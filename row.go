package seedindex

import (
	"encoding/binary"
	"iter"

	"github.com/tamirms/seedindex/internal/encoding"
)

// Pair is one reference occurrence returned by a lookup.
type Pair struct {
	SequenceID uint32
	Position   uint32
}

// Row is a reusable lookup result. Table.Lookup overwrites it on every
// call; list results point straight into the table's mapped data and stay
// valid until the table is closed. A Row must not be copied after use.
type Row struct {
	words  []byte // big-endian (sequenceId, position) int32 pairs
	inline [8]byte
}

// Len returns the number of pairs.
func (r *Row) Len() int {
	return len(r.words) / 8
}

// IsEmpty reports whether the row holds no pairs.
func (r *Row) IsEmpty() bool {
	return len(r.words) == 0
}

// Pair returns pair i.
func (r *Row) Pair(i int) Pair {
	return Pair{
		SequenceID: uint32(encoding.Int32At(r.words, 2*i)),
		Position:   uint32(encoding.Int32At(r.words, 2*i+1)),
	}
}

// Pairs iterates over the row.
func (r *Row) Pairs() iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		for i := 0; i < r.Len(); i++ {
			if !yield(r.Pair(i)) {
				return
			}
		}
	}
}

// AppendPairs appends the row's pairs to dst.
func (r *Row) AppendPairs(dst []Pair) []Pair {
	for i := 0; i < r.Len(); i++ {
		dst = append(dst, r.Pair(i))
	}
	return dst
}

// Reset marks the row empty.
func (r *Row) Reset() {
	r.words = nil
}

func (r *Row) setSingleton(seqID, pos uint32) {
	binary.BigEndian.PutUint32(r.inline[0:4], seqID)
	binary.BigEndian.PutUint32(r.inline[4:8], pos)
	r.words = r.inline[:]
}

func (r *Row) setList(words []byte) {
	r.words = words
}
