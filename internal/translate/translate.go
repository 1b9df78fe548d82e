// Package translate converts nucleotide sequences into amino acid
// sequences in any of the six reading frames using the standard genetic
// code.
//
// Stop codons translate to '*'. Codons containing a letter other than
// A, C, G, T or U translate to 'X'.
package translate

import (
	"fmt"

	streamerrors "github.com/tamirms/seedindex/errors"
)

// Frames lists the six reading frames in rank order.
var Frames = [6]int{1, 2, 3, -1, -2, -3}

// Stop is the letter produced for stop codons.
const Stop = '*'

// Unknown is the letter produced for codons that cannot be translated.
const Unknown = 'X'

// minCodingRun is the stop-free stretch that makes a translation plausible.
const minCodingRun = 20

// standardCode lists amino acids for codons in TCAG order: index
// 16*first + 4*second + third with T=0, C=1, A=2, G=3.
const standardCode = "FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG"

var baseIndex = func() (t [256]int8) {
	for i := range t {
		t[i] = -1
	}
	for i, s := range []string{"TtUu", "Cc", "Aa", "Gg"} {
		for j := 0; j < len(s); j++ {
			t[s[j]] = int8(i)
		}
	}
	return t
}()

// complementIndex maps a base to the TCAG index of its complement.
var complementIndex = func() (t [256]int8) {
	for i := range t {
		t[i] = -1
	}
	for c, i := range map[byte]int8{'T': 2, 'U': 2, 'C': 3, 'A': 0, 'G': 1} {
		t[c] = i
		t[c|0x20] = i
	}
	return t
}()

func codon(idx *[256]int8, a, b, c byte) byte {
	i, j, k := idx[a], idx[b], idx[c]
	if i < 0 || j < 0 || k < 0 {
		return Unknown
	}
	return standardCode[16*int(i)+4*int(j)+int(k)]
}

func checkFrame(frame int) error {
	if frame == 0 || frame < -3 || frame > 3 {
		return fmt.Errorf("%w: %d", streamerrors.ErrIllegalFrame, frame)
	}
	return nil
}

// Length returns the number of amino acids produced by translating n bases
// in frame. It returns 0 for illegal frames.
func Length(n, frame int) int {
	if checkFrame(frame) != nil {
		return 0
	}
	var l int
	if frame > 0 {
		l = (n - (frame - 1)) / 3
	} else {
		l = (n + frame + 1) / 3
	}
	return max(l, 0)
}

// Translate writes the translation of dna in frame into dst and returns
// its length. Positive frames read the forward strand starting at offset
// frame-1; negative frames read the reverse complement starting -frame-1
// bases from the end. dst must hold Length(len(dna), frame) bytes.
func Translate(dna []byte, frame int, dst []byte) (int, error) {
	if err := checkFrame(frame); err != nil {
		return 0, err
	}
	n := Length(len(dna), frame)
	if len(dst) < n {
		return 0, fmt.Errorf("translate: destination holds %d bytes, need %d", len(dst), n)
	}
	if frame > 0 {
		for i, pos := 0, frame-1; i < n; i, pos = i+1, pos+3 {
			dst[i] = codon(&baseIndex, dna[pos], dna[pos+1], dna[pos+2])
		}
	} else {
		for i, pos := 0, len(dna)+frame; i < n; i, pos = i+1, pos-3 {
			dst[i] = codon(&complementIndex, dna[pos], dna[pos-1], dna[pos-2])
		}
	}
	return n, nil
}

// Translation returns the translation of dna in frame as a new slice.
func Translation(dna []byte, frame int) ([]byte, error) {
	dst := make([]byte, Length(len(dna), frame))
	n, err := Translate(dna, frame, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// IsPossibleCodingSequence reports whether protein looks like a real coding
// sequence: it has a stop-free run of at least 20 amino acids, or no stop
// at all.
func IsPossibleCodingSequence(protein []byte) bool {
	run := 0
	for _, c := range protein {
		if c == Stop {
			run = 0
			continue
		}
		run++
		if run == minCodingRun {
			return true
		}
	}
	return run == len(protein)
}

// FrameRank returns 1..3 for frames +1..+3 and 4..6 for frames -1..-3.
// Illegal frames rank 0.
func FrameRank(frame int) uint8 {
	switch {
	case frame >= 1 && frame <= 3:
		return uint8(frame)
	case frame <= -1 && frame >= -3:
		return uint8(3 - frame)
	}
	return 0
}

// FrameOf inverts FrameRank. Rank 0 and ranks above 6 return 0.
func FrameOf(rank uint8) int {
	if rank == 0 || rank > 6 {
		return 0
	}
	return Frames[rank-1]
}
