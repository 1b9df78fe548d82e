package seedindex

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	streamerrors "github.com/tamirms/seedindex/errors"
	"github.com/tamirms/seedindex/internal/mmarray"
	"go.uber.org/zap"
)

const (
	// dumpMaxPairs caps the pairs printed per bucket by Dump.
	dumpMaxPairs = 50
)

// Table is one read-only shard of the seed index.
//
// The bucket array (table<N>.idx) and data blocks (table<N>.db) are
// memory-mapped at Open and never loaded eagerly.
//
// Thread Safety:
// - Lookup, Hash, Location and the accessors are safe for concurrent use
// - Close is NOT safe to call concurrently with lookups
// - After Close, Lookup returns empty results
type Table struct {
	dir    string
	number int
	meta   *shardMetadata

	alphabet Alphabet
	shape    *SeedShape

	buckets *mmarray.Int64Array
	data    *mmarray.Int32Array

	log    *zap.Logger
	closed atomic.Bool
}

// OpenOption configures Open.
type OpenOption func(*openConfig)

type openConfig struct {
	logger *zap.Logger
}

// WithLogger sets the logger used while opening the table.
func WithLogger(l *zap.Logger) OpenOption {
	return func(c *openConfig) {
		c.logger = l
	}
}

// Open opens table number in dir. It reads and validates index<N>.idx and
// maps table<N>.idx and table<N>.db read-only.
//
// A wrong magic number yields a *errors.MagicError naming the file; a short
// metadata file yields ErrTruncatedFile; missing files surface as
// fs.ErrNotExist wrapped with the path.
func Open(dir string, number int, opts ...OpenOption) (*Table, error) {
	cfg := openConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.logger.With(zap.String("dir", dir), zap.Int("table", number))

	metaPath := metadataPath(dir, number)
	log.Debug("reading file", zap.String("file", metaPath))
	buf, err := afero.ReadFile(osFs, metaPath)
	if err != nil {
		return nil, fmt.Errorf("read shard metadata: %w", err)
	}
	meta, err := decodeShardMetadata(metaPath, buf)
	if err != nil {
		return nil, err
	}
	log.Info("reference sequence type", zap.Stringer("type", meta.SequenceType))

	var alphabet Alphabet
	if meta.SequenceType == Protein {
		alphabet, err = ReducedAlphabet(meta.Reduction)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", metaPath, err)
		}
		log.Info("protein reduction", zap.String("reduction", meta.Reduction))
	} else {
		alphabet = DNAAlphabet()
	}
	if meta.StepSize > 1 {
		log.Info("index was built using sparse seeding", zap.Int32("stepSize", meta.StepSize))
	}

	shape, err := SeedShapeFromBytes(alphabet, meta.ShapePattern)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", metaPath, err)
	}

	log.Debug("opening file", zap.String("file", bucketPath(dir, number)))
	buckets, err := mmarray.OpenInt64(bucketPath(dir, number))
	if err != nil {
		return nil, err
	}
	log.Debug("opening file", zap.String("file", dataPath(dir, number)))
	data, err := mmarray.OpenInt32(dataPath(dir, number))
	if err != nil {
		return nil, errors.Join(err, buckets.Close())
	}

	if want := min(int(meta.TableSize), MaxArraySize); buckets.Len() != want {
		log.Warn("bucket array length differs from table size",
			zap.Int("buckets", buckets.Len()), zap.Int32("tableSize", meta.TableSize))
	}

	return &Table{
		dir:      dir,
		number:   number,
		meta:     meta,
		alphabet: alphabet,
		shape:    shape,
		buckets:  buckets,
		data:     data,
		log:      log,
	}, nil
}

// Close unmaps the table files. Idempotent.
func (t *Table) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	return errors.Join(t.buckets.Close(), t.data.Close())
}

// Hash returns the bucket index of seed bytes.
func (t *Table) Hash(seed []byte) int {
	return BucketIndex(seed, t.meta.RandomSeed, t.meta.HashMask)
}

// Lookup finds all reference occurrences stored in the bucket of seed and
// puts them in row. It returns the number of pairs, or 0 with row emptied
// when the bucket is empty, out of range or malformed. Lookup does not
// allocate.
func (t *Table) Lookup(seed []byte, row *Row) int {
	if !t.closed.Load() && t.setRow(t.Hash(seed), row) {
		return row.Len()
	}
	row.Reset()
	return 0
}

// Location returns the decoded entry of a bucket. Out-of-range buckets are
// empty.
func (t *Table) Location(bucket int) Location {
	if t.closed.Load() {
		return Location{}
	}
	v, ok := t.buckets.At(bucket)
	if !ok {
		return Location{}
	}
	return DecodeLocation(v)
}

// setRow fills row from a bucket. Returns false if there is nothing valid
// to return.
func (t *Table) setRow(bucket int, row *Row) bool {
	v, ok := t.buckets.At(bucket)
	if !ok {
		return false
	}
	loc := DecodeLocation(v)
	switch loc.Kind {
	case LocationSingleton:
		row.setSingleton(loc.SequenceID, loc.Position)
		return true
	case LocationList:
		// The first word is the number of int32 words that follow.
		length, ok := t.data.At(loc.Offset)
		if !ok || length <= 0 || length%2 != 0 {
			return false
		}
		words, ok := t.data.Words(loc.Offset+1, int64(length))
		if !ok {
			return false
		}
		row.setList(words)
		return true
	}
	return false
}

// Size returns the total number of occurrences stored in the table.
func (t *Table) Size() int64 { return t.meta.TotalCount }

// SeedShape returns the shape the table was built with.
func (t *Table) SeedShape() *SeedShape { return t.shape }

// SeedAlphabet returns the alphabet used for seeds. For protein tables this
// is the reduced alphabet, which may differ from the alignment alphabet.
func (t *Table) SeedAlphabet() Alphabet { return t.alphabet }

// SequenceType returns the reference sequence type.
func (t *Table) SequenceType() SequenceType { return t.meta.SequenceType }

// TableSize returns the table size recorded at build time.
func (t *Table) TableSize() int { return int(t.meta.TableSize) }

// HashMask returns the mask applied to seed hashes.
func (t *Table) HashMask() int32 { return t.meta.HashMask }

// RandomSeed returns the hash seed.
func (t *Table) RandomSeed() int32 { return t.meta.RandomSeed }

// StepSize returns the seeding step used at build time. It is not applied
// at lookup time.
func (t *Table) StepSize() int { return int(t.meta.StepSize) }

// NumBuckets returns the length of the mapped bucket array.
func (t *Table) NumBuckets() int { return t.buckets.Len() }

// Number returns the table number within its index directory.
func (t *Table) Number() int { return t.number }

// Dump writes the first maxBuckets buckets in human readable form.
func (t *Table) Dump(w io.Writer, maxBuckets int) error {
	if t.closed.Load() {
		return streamerrors.ErrTableClosed
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Table %d (%d):\n", t.number, t.buckets.Len())

	var row Row
	for z := 0; z < t.buckets.Len() && z < maxBuckets; z++ {
		fmt.Fprintf(bw, "hash %d -> ", z)
		if t.setRow(z, &row) {
			fmt.Fprintf(bw, "(%d)", row.Len())
			for i := 0; i < row.Len(); i++ {
				if i == dumpMaxPairs {
					bw.WriteString(" ...")
					break
				}
				p := row.Pair(i)
				fmt.Fprintf(bw, " %d/%d", p.SequenceID, p.Position)
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Stats holds table statistics.
type Stats struct {
	NumBuckets       int
	EmptyBuckets     int
	SingletonBuckets int
	ListBuckets      int
	CorruptBuckets   int
	Occurrences      int64
	MaxListPairs     int
	DataWords        int
	TotalCount       int64
}

// Stats walks every bucket. This touches the whole mapping and is meant
// for diagnostics.
func (t *Table) Stats() (*Stats, error) {
	if t.closed.Load() {
		return nil, streamerrors.ErrTableClosed
	}
	s := &Stats{
		NumBuckets: t.buckets.Len(),
		DataWords:  t.data.Len(),
		TotalCount: t.meta.TotalCount,
	}
	var row Row
	for z := 0; z < t.buckets.Len(); z++ {
		loc := t.Location(z)
		if loc.Kind == LocationEmpty {
			s.EmptyBuckets++
			continue
		}
		if !t.setRow(z, &row) {
			s.CorruptBuckets++
			continue
		}
		if loc.Kind == LocationSingleton {
			s.SingletonBuckets++
		} else {
			s.ListBuckets++
			s.MaxListPairs = max(s.MaxListPairs, row.Len())
		}
		s.Occurrences += int64(row.Len())
	}
	return s, nil
}

// Checksum returns the xxHash64 of the bucket array followed by the data
// blocks. Two tables with equal checksums hold the same buckets and lists.
func (t *Table) Checksum() (uint64, error) {
	if t.closed.Load() {
		return 0, streamerrors.ErrTableClosed
	}
	h := xxhash.New()
	if _, err := h.Write(t.buckets.Bytes()); err != nil {
		panic("hash.Hash.Write returned unexpected error: " + err.Error())
	}
	if _, err := h.Write(t.data.Bytes()); err != nil {
		panic("hash.Hash.Write returned unexpected error: " + err.Error())
	}
	return h.Sum64(), nil
}
