package seedindex

import "fmt"

// LocationKind tags the three meanings of a bucket entry.
type LocationKind uint8

const (
	LocationEmpty LocationKind = iota
	LocationSingleton
	LocationList
)

func (k LocationKind) String() string {
	switch k {
	case LocationEmpty:
		return "empty"
	case LocationSingleton:
		return "singleton"
	case LocationList:
		return "list"
	default:
		return "unknown"
	}
}

// Location is the decoded form of one bucket entry.
//
// On disk a bucket is a single int64: 0 is empty, a negative value is a
// singleton whose absolute value holds the sequence id in the upper 32 bits
// and the position in the lower 32 bits, and a positive value is the word
// offset of an occurrence list in the data block file. The conversion
// happens only in DecodeLocation and Encode.
type Location struct {
	Kind       LocationKind
	SequenceID uint32 // singleton only
	Position   uint32 // singleton only
	Offset     int64  // list only
}

// DecodeLocation decodes an on-disk bucket entry.
func DecodeLocation(v int64) Location {
	switch {
	case v == 0:
		return Location{}
	case v < 0:
		abs := uint64(-v) // math.MinInt64 stays 1<<63, still well defined
		return Location{Kind: LocationSingleton, SequenceID: uint32(abs >> 32), Position: uint32(abs)}
	default:
		return Location{Kind: LocationList, Offset: v}
	}
}

// Encode returns the on-disk bucket entry. A singleton at (0, 0) and a
// list at offset <= 0 are not representable and encode as empty; use
// singletonLocation to detect that case before encoding.
func (l Location) Encode() int64 {
	switch l.Kind {
	case LocationSingleton:
		v, _ := singletonLocation(l.SequenceID, l.Position)
		return v
	case LocationList:
		if l.Offset <= 0 {
			return 0
		}
		return l.Offset
	default:
		return 0
	}
}

func (l Location) String() string {
	switch l.Kind {
	case LocationSingleton:
		return fmt.Sprintf("singleton(%d/%d)", l.SequenceID, l.Position)
	case LocationList:
		return fmt.Sprintf("list@%d", l.Offset)
	default:
		return "empty"
	}
}

// singletonLocation encodes an inline singleton. ok is false when the pair
// cannot be inlined: (0, 0) would read back as empty, and sequence ids with
// the top bit set would overflow the sign.
func singletonLocation(seqID, pos uint32) (v int64, ok bool) {
	if seqID > uint32(MaxSequenceID) || (seqID == 0 && pos == 0) {
		return 0, false
	}
	return -(int64(seqID)<<32 | int64(pos)), true
}
