package seedindex

import (
	"fmt"

	"github.com/tamirms/seedindex/internal/translate"
)

// AddSeeds adds every seed of seq to acc, sampling window starts every
// stepSize positions. Windows covering letters the seed alphabet cannot
// encode are skipped. It returns the number of seeds added.
func AddSeeds(acc *Accumulator, shape *SeedShape, seqID uint32, seq []byte, stepSize int) (int, error) {
	return addSeeds(acc, shape, seqID, seq, stepSize, 0)
}

// AddTranslatedSeeds translates dna in all six frames and adds the seeds
// of each frame, tagged with the frame rank. Frames that do not look like
// coding sequence are skipped unless acceptAll is set. Positions are
// amino acid offsets within the frame's translation.
func AddTranslatedSeeds(acc *Accumulator, shape *SeedShape, seqID uint32, dna []byte, stepSize int, acceptAll bool) (int, error) {
	protein := make([]byte, translate.Length(len(dna), 1))
	total := 0
	for _, frame := range translate.Frames {
		n, err := translate.Translate(dna, frame, protein)
		if err != nil {
			return total, err
		}
		if !acceptAll && !translate.IsPossibleCodingSequence(protein[:n]) {
			continue
		}
		added, err := addSeeds(acc, shape, seqID, protein[:n], stepSize, translate.FrameRank(frame))
		total += added
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func addSeeds(acc *Accumulator, shape *SeedShape, seqID uint32, seq []byte, stepSize int, frame uint8) (int, error) {
	if stepSize < 1 {
		return 0, fmt.Errorf("step size must be positive, got %d", stepSize)
	}
	buf := make([]byte, shape.Weight())
	added := 0
	for pos := 0; pos+shape.Length() <= len(seq); pos += stepSize {
		value, ok := shape.Extract(seq, pos, buf)
		if !ok {
			continue
		}
		if err := acc.AddFrame(value, seqID, uint32(pos), frame); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
