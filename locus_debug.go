//go:build seedindex_debug

package seedindex

import "fmt"

// checkLocusRange panics if a field would be truncated by NewLocus.
func checkLocusRange(seqID, pos uint32, frame uint8) {
	if seqID > MaxSequenceID || pos > MaxPosition || frame > MaxFrameRank {
		panic(fmt.Sprintf("seedindex: locus out of range: seqID=%d pos=%d frame=%d", seqID, pos, frame))
	}
}
