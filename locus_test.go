package seedindex

import "testing"

func TestLocusRoundTrip(t *testing.T) {
	tests := []struct {
		seqID, pos uint32
		frame      uint8
	}{
		{0, 0, 0},
		{1, 2, 3},
		{MaxSequenceID, MaxPosition, MaxFrameRank},
		{MaxSequenceID, 0, 0},
		{0, MaxPosition, 0},
		{12345, 67890, 6},
	}
	for _, tt := range tests {
		l := NewLocus(tt.seqID, tt.pos, tt.frame)
		if l.SequenceID() != tt.seqID || l.Position() != tt.pos || l.FrameRank() != tt.frame {
			t.Errorf("NewLocus(%d, %d, %d) decodes to (%d, %d, %d)",
				tt.seqID, tt.pos, tt.frame, l.SequenceID(), l.Position(), l.FrameRank())
		}
	}
}

func TestLocusLayout(t *testing.T) {
	l := NewLocus(1, 1, 1)
	want := uint64(1)<<33 | uint64(1)<<30 | 1
	if uint64(l) != want {
		t.Fatalf("NewLocus(1, 1, 1) = %#x, want %#x", uint64(l), want)
	}
}

func TestLocusRandom(t *testing.T) {
	rng := newTestRNG(t)
	for i := 0; i < 10000; i++ {
		seqID := rng.Uint32N(MaxSequenceID + 1)
		pos := rng.Uint32N(MaxPosition + 1)
		frame := uint8(rng.IntN(int(MaxFrameRank) + 1))
		l := NewLocus(seqID, pos, frame)
		if l.SequenceID() != seqID || l.Position() != pos || l.FrameRank() != frame {
			t.Fatalf("NewLocus(%d, %d, %d) decodes to (%d, %d, %d)",
				seqID, pos, frame, l.SequenceID(), l.Position(), l.FrameRank())
		}
	}
}
