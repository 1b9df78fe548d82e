package seedindex

// Locus packs one seed occurrence into a single word:
//
//	bits 63..33  sequence id   (31 bits)
//	bits 32..30  frame rank    (3 bits, 0 for untranslated sequences)
//	bits 29..0   position      (30 bits)
//
// Fields wider than their slot are masked, not rejected. Build with
// -tags seedindex_debug to panic on truncation instead.
type Locus uint64

const (
	sequenceIDShift = 33
	frameRankShift  = 30

	positionMask   = uint64(1)<<frameRankShift - 1
	frameRankMask  = uint64(7) << frameRankShift
	sequenceIDMask = uint64(1)<<31 - 1

	// MaxSequenceID is the largest sequence id a Locus holds.
	MaxSequenceID = uint32(sequenceIDMask)

	// MaxPosition is the largest sequence position a Locus holds.
	MaxPosition = uint32(positionMask)

	// MaxFrameRank is the largest frame rank a Locus holds.
	MaxFrameRank = uint8(7)
)

// NewLocus packs a sequence id, position and frame rank.
func NewLocus(seqID, pos uint32, frame uint8) Locus {
	checkLocusRange(seqID, pos, frame)
	return Locus(uint64(seqID)&sequenceIDMask<<sequenceIDShift |
		uint64(frame)<<frameRankShift&frameRankMask |
		uint64(pos)&positionMask)
}

// SequenceID returns the sequence id.
func (l Locus) SequenceID() uint32 {
	return uint32(uint64(l) >> sequenceIDShift)
}

// Position returns the position within the sequence.
func (l Locus) Position() uint32 {
	return uint32(uint64(l) & positionMask)
}

// FrameRank returns the translation frame rank.
func (l Locus) FrameRank() uint8 {
	return uint8((uint64(l) & frameRankMask) >> frameRankShift)
}
