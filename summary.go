package seedindex

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	streamerrors "github.com/tamirms/seedindex/errors"
	"github.com/tamirms/seedindex/internal/encoding"
)

// SummaryFileName is the name of the index summary inside an index
// directory.
const SummaryFileName = "summary.idx"

var summaryMagic = []byte("MaltIndexV0.3.")

// FeatureFlags records which annotation classes were built alongside the
// index. The seed index itself does not use them.
type FeatureFlags struct {
	Taxonomy bool
	KEGG     bool
	SEED     bool
	COG      bool
}

// ShapeSummary describes the table built for one seed shape.
type ShapeSummary struct {
	AlphabetName string
	Pattern      string
	SeedCount    int64
}

// Shape reconstructs the seed shape.
func (s ShapeSummary) Shape() (*SeedShape, error) {
	alphabet, err := AlphabetByName(s.AlphabetName)
	if err != nil {
		return nil, err
	}
	return NewSeedShape(alphabet, s.Pattern)
}

// IndexSummary is the per-index summary file. Table i of the index was
// built with Shapes[i].
//
// Layout (big-endian):
//
//	Field                     Type
//	Magic                     "MaltIndexV0.3."
//	SequenceType              int32 length + name ("DNA" or "Protein")
//	NumberOfSequences         int32
//	NumberOfLetters           int64
//	len(Shapes)               int32
//	per shape:
//	  AlphabetName            int32 length + bytes
//	  Pattern                 int32 length + bytes
//	  SeedCount               int64
//	MaxRefOccurrencesPerSeed  int32
//	Taxonomy, KEGG, SEED, COG 1 byte each
type IndexSummary struct {
	SequenceType             SequenceType
	NumberOfSequences        int32
	NumberOfLetters          int64
	Shapes                   []ShapeSummary
	MaxRefOccurrencesPerSeed int32
	Features                 FeatureFlags
}

// SummaryPath returns the summary file path of an index directory.
func SummaryPath(dir string) string {
	return filepath.Join(dir, SummaryFileName)
}

// ReduceShapes keeps only the first max shapes. It reports whether any
// were removed.
func (s *IndexSummary) ReduceShapes(max int) bool {
	if max < 0 || len(s.Shapes) <= max {
		return false
	}
	s.Shapes = s.Shapes[:max]
	return true
}

func (s *IndexSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%d\n%d\n%d\n", s.SequenceType, s.NumberOfSequences, s.NumberOfLetters, len(s.Shapes))
	for _, sh := range s.Shapes {
		fmt.Fprintf(&b, "%s\n%s\n%d\n", sh.AlphabetName, sh.Pattern, sh.SeedCount)
	}
	fmt.Fprintf(&b, "doTax.: %t\ndoKegg: %t\ndoSeed: %t\ndoCog:  %t\n",
		s.Features.Taxonomy, s.Features.KEGG, s.Features.SEED, s.Features.COG)
	return b.String()
}

func (s *IndexSummary) encode() []byte {
	typeName := s.SequenceType.String()
	size := len(summaryMagic) + 4 + len(typeName) + 4 + 8 + 4
	for _, sh := range s.Shapes {
		size += 4 + len(sh.AlphabetName) + 4 + len(sh.Pattern) + 8
	}
	size += 4 + 4

	buf := make([]byte, size)
	off := copy(buf, summaryMagic)
	off += encoding.PutLengthPrefixed(buf[off:], []byte(typeName))
	binary.BigEndian.PutUint32(buf[off:], uint32(s.NumberOfSequences))
	binary.BigEndian.PutUint64(buf[off+4:], uint64(s.NumberOfLetters))
	binary.BigEndian.PutUint32(buf[off+12:], uint32(len(s.Shapes)))
	off += 16
	for _, sh := range s.Shapes {
		off += encoding.PutLengthPrefixed(buf[off:], []byte(sh.AlphabetName))
		off += encoding.PutLengthPrefixed(buf[off:], []byte(sh.Pattern))
		binary.BigEndian.PutUint64(buf[off:], uint64(sh.SeedCount))
		off += 8
	}
	binary.BigEndian.PutUint32(buf[off:], uint32(s.MaxRefOccurrencesPerSeed))
	off += 4
	for _, f := range []bool{s.Features.Taxonomy, s.Features.KEGG, s.Features.SEED, s.Features.COG} {
		if f {
			buf[off] = 1
		}
		off++
	}
	return buf
}

// WriteSummary writes s to path on fs.
func WriteSummary(fs afero.Fs, path string, s *IndexSummary) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if _, err := bw.Write(s.encode()); err != nil {
		return errors.Join(fmt.Errorf("write %s: %w", path, err), f.Close())
	}
	if err := bw.Flush(); err != nil {
		return errors.Join(fmt.Errorf("write %s: %w", path, err), f.Close())
	}
	return f.Close()
}

// ReadSummary reads the summary file at path on fs.
func ReadSummary(fs afero.Fs, path string) (*IndexSummary, error) {
	buf, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read index summary: %w", err)
	}
	return decodeSummary(path, buf)
}

func decodeSummary(path string, buf []byte) (*IndexSummary, error) {
	r := &metadataReader{buf: buf}
	if err := r.magic(path, summaryMagic); err != nil {
		return nil, err
	}
	wrap := func(err error) error { return fmt.Errorf("%s: %w", path, err) }

	s := &IndexSummary{}
	name, err := r.bytes()
	if err != nil {
		return nil, wrap(err)
	}
	if s.SequenceType, err = ParseSequenceType(string(name)); err != nil {
		return nil, wrap(err)
	}
	if s.NumberOfSequences, err = r.int32(); err != nil {
		return nil, wrap(err)
	}
	if s.NumberOfLetters, err = r.int64(); err != nil {
		return nil, wrap(err)
	}
	n, err := r.int32()
	if err != nil {
		return nil, wrap(err)
	}
	if n < 0 {
		return nil, wrap(fmt.Errorf("shape count %d: %w", n, streamerrors.ErrCorruptedIndex))
	}
	// Each shape takes at least 16 bytes, which bounds n before allocating.
	if int(n) > (len(buf)-r.off)/16 {
		return nil, wrap(fmt.Errorf("%d shapes: %w", n, streamerrors.ErrTruncatedFile))
	}
	s.Shapes = make([]ShapeSummary, n)
	for i := range s.Shapes {
		alphabet, err := r.bytes()
		if err != nil {
			return nil, wrap(err)
		}
		pattern, err := r.bytes()
		if err != nil {
			return nil, wrap(err)
		}
		count, err := r.int64()
		if err != nil {
			return nil, wrap(err)
		}
		s.Shapes[i] = ShapeSummary{AlphabetName: string(alphabet), Pattern: string(pattern), SeedCount: count}
	}
	if s.MaxRefOccurrencesPerSeed, err = r.int32(); err != nil {
		return nil, wrap(err)
	}
	for _, f := range []*bool{&s.Features.Taxonomy, &s.Features.KEGG, &s.Features.SEED, &s.Features.COG} {
		if *f, err = r.bool(); err != nil {
			return nil, wrap(err)
		}
	}
	return s, nil
}
