//go:build !seedindex_debug

package seedindex

import "testing"

// Out-of-range fields are masked into their slot without touching the
// neighbouring fields.
func TestLocusMasksOverflow(t *testing.T) {
	l := NewLocus(MaxSequenceID+1, MaxPosition+1, MaxFrameRank+1)
	if l.SequenceID() != 0 || l.Position() != 0 || l.FrameRank() != 0 {
		t.Fatalf("overflowing fields decode to (%d, %d, %d), want zeros",
			l.SequenceID(), l.Position(), l.FrameRank())
	}
	l = NewLocus(3, MaxPosition+5, 2)
	if l.SequenceID() != 3 || l.Position() != 4 || l.FrameRank() != 2 {
		t.Fatalf("position overflow leaked: (%d, %d, %d)", l.SequenceID(), l.Position(), l.FrameRank())
	}
}
