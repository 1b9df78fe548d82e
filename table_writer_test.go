package seedindex

import (
	"errors"
	"os"
	"testing"

	streamerrors "github.com/tamirms/seedindex/errors"
)

func TestWriteTableRejectsMismatchedShape(t *testing.T) {
	dna := mustShape(t, DNAAlphabet(), "1111")
	acc := newTestAccumulator(t, dna, 1)

	other := mustShape(t, DNAAlphabet(), "11111")
	if _, err := WriteTable(t.TempDir(), 0, acc, other, DNA); !errors.Is(err, streamerrors.ErrInvalidShape) {
		t.Errorf("weight mismatch: got %v", err)
	}

	protein := mustShape(t, mustReduced(t, "GBMR_4"), "1111")
	if _, err := WriteTable(t.TempDir(), 0, acc, protein, DNA); !errors.Is(err, streamerrors.ErrUnknownAlphabet) {
		t.Errorf("DNA table with protein seeds: got %v", err)
	}

	custom, err := NewReducedAlphabet("CUSTOM_2", []string{"ACDEFGHIKL", "MNPQRSTVWY"})
	if err != nil {
		t.Fatal(err)
	}
	customShape := mustShape(t, custom, "11")
	customAcc := newTestAccumulator(t, customShape, 1)
	if _, err := WriteTable(t.TempDir(), 0, customAcc, customShape, Protein); !errors.Is(err, streamerrors.ErrUnknownAlphabet) {
		t.Errorf("unreadable reduction: got %v", err)
	}

	if _, err := WriteTable(t.TempDir(), 0, acc, dna, SequenceType(5)); !errors.Is(err, streamerrors.ErrUnknownSequenceType) {
		t.Errorf("unknown sequence type: got %v", err)
	}
}

func TestWriteTableRemovesFilesOnError(t *testing.T) {
	dir := t.TempDir()
	shape := mustShape(t, DNAAlphabet(), "1111")
	acc := newTestAccumulator(t, shape, 2)
	for i := uint64(0); i < 2; i++ {
		if err := acc.Add(i, 1, uint32(i)); err != nil {
			t.Fatal(err)
		}
	}
	// A directory in place of index0.idx makes the metadata write fail
	// after both arrays are written.
	if err := os.Mkdir(metadataPath(dir, 0), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteTable(dir, 0, acc, shape, DNA); err == nil {
		t.Fatal("expected error")
	}
	for _, path := range []string{bucketPath(dir, 0), dataPath(dir, 0)} {
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s left behind: %v", path, err)
		}
	}
}

func TestWriteTableOptions(t *testing.T) {
	shape := mustShape(t, DNAAlphabet(), "11111")
	acc := newTestAccumulator(t, shape, 3)
	for _, v := range []uint64{9, 3, 9} {
		if err := acc.Add(v, 1, uint32(v)); err != nil {
			t.Fatal(err)
		}
	}
	var p recordingProgress
	table, stats := writeAndOpen(t, acc, shape, DNA,
		WithStepSize(3), WithTableSize(100), WithRandomSeed(-7), WithSortProgress(&p))
	if table.StepSize() != 3 || table.RandomSeed() != -7 || stats.RandomSeed != -7 {
		t.Errorf("step %d seed %d", table.StepSize(), table.RandomSeed())
	}
	if table.TableSize() != 128 || table.HashMask() != 127 {
		t.Errorf("tableSize %d mask %d, want 128/127", table.TableSize(), table.HashMask())
	}
	if p.maximum != int64(shape.Weight()) {
		t.Errorf("sort progress maximum %d, want %d", p.maximum, shape.Weight())
	}
	if stats.BucketFileBytes != 128*8 || stats.DataFileBytes != stats.DataWords*4 {
		t.Errorf("file sizes %+v", stats)
	}
	fi, err := os.Stat(bucketPath(table.dir, 0))
	if err != nil || fi.Size() != stats.BucketFileBytes {
		t.Errorf("bucket file %v, %v", fi, err)
	}
}

func TestWriteTableAutoSize(t *testing.T) {
	shape := mustShape(t, DNAAlphabet(), "11111")
	acc := newTestAccumulator(t, shape, 300)
	for v := uint64(0); v < 300; v++ {
		if err := acc.Add(v, 1, uint32(v)); err != nil {
			t.Fatal(err)
		}
	}
	_, stats := writeAndOpen(t, acc, shape, DNA)
	if stats.TableSize != 512 || stats.DistinctSeeds != 300 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestDefaultRandomSeed(t *testing.T) {
	dna := mustShape(t, DNAAlphabet(), DefaultDNAShape)
	if defaultRandomSeed(dna, 0) != defaultRandomSeed(dna, 0) {
		t.Fatal("default seed is not deterministic")
	}
	if defaultRandomSeed(dna, 0) == defaultRandomSeed(dna, 1) {
		t.Error("tables 0 and 1 share a default seed")
	}
	protein := mustShape(t, mustReduced(t, "DIAMOND_11"), DefaultProteinShape)
	other := mustShape(t, mustReduced(t, "MURPHY_10"), DefaultProteinShape)
	if defaultRandomSeed(protein, 0) == defaultRandomSeed(other, 0) {
		t.Error("alphabet does not affect the default seed")
	}
}
