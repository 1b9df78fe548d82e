package seedindex

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/edsrzf/mmap-go"
	streamerrors "github.com/tamirms/seedindex/errors"
	intbits "github.com/tamirms/seedindex/internal/bits"
	"github.com/tamirms/seedindex/internal/encoding"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
)

// MaxTableSize is the largest bucket count WriteTable chooses on its own.
const MaxTableSize = 1 << 30

// WriteOption configures WriteTable.
type WriteOption func(*writeConfig)

type writeConfig struct {
	randomSeed    int32
	hasRandomSeed bool
	stepSize      int
	maxOccurrence int
	tableSize     int
	logger        *zap.Logger
	progress      ProgressReporter
}

// WithRandomSeed fixes the hash seed. By default a seed is derived from
// the shape, the alphabet and the table number.
func WithRandomSeed(seed int32) WriteOption {
	return func(c *writeConfig) {
		c.randomSeed = seed
		c.hasRandomSeed = true
	}
}

// WithStepSize records the seeding step used to fill the accumulator.
func WithStepSize(n int) WriteOption {
	return func(c *writeConfig) {
		c.stepSize = n
	}
}

// WithMaxOccurrencesPerSeed drops seeds occurring more than n times.
// n <= 0 keeps every seed.
func WithMaxOccurrencesPerSeed(n int) WriteOption {
	return func(c *writeConfig) {
		c.maxOccurrence = n
	}
}

// WithTableSize fixes the number of buckets. It is rounded up to a power
// of two.
func WithTableSize(n int) WriteOption {
	return func(c *writeConfig) {
		c.tableSize = n
	}
}

// WithWriteLogger sets the logger.
func WithWriteLogger(l *zap.Logger) WriteOption {
	return func(c *writeConfig) {
		c.logger = l
	}
}

// WithSortProgress reports radix sort passes when WriteTable has to sort.
func WithSortProgress(p ProgressReporter) WriteOption {
	return func(c *writeConfig) {
		c.progress = p
	}
}

// WriteStats summarizes a written table.
type WriteStats struct {
	TableSize       int
	RandomSeed      int32
	DistinctSeeds   int   // seeds kept
	DroppedSeeds    int   // seeds over the occurrence limit
	Occurrences     int64 // occurrences stored
	Singletons      int   // buckets stored inline
	Lists           int   // buckets stored as data blocks
	Collisions      int   // seeds sharing a bucket with an earlier seed
	FramedLoci      int64 // stored occurrences whose frame rank was discarded
	DataWords       int64
	BucketFileBytes int64
	DataFileBytes   int64
}

// WriteTable writes the contents of acc as table number in dir: the
// metadata file index<N>.idx, the bucket array table<N>.idx and the data
// blocks table<N>.db. acc is sorted first if needed.
//
// Distinct seeds that hash to the same bucket share one occurrence list.
// Frame ranks are not stored. On error, partially written files are removed.
func WriteTable(dir string, number int, acc *Accumulator, shape *SeedShape, seqType SequenceType, opts ...WriteOption) (*WriteStats, error) {
	cfg := writeConfig{stepSize: 1, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if acc.SeedWeight() != shape.Weight() || acc.BitsPerLetter() != shape.BitsPerLetter() {
		return nil, fmt.Errorf("%w: accumulator holds %dx%d-bit seeds, shape %s is %dx%d-bit",
			streamerrors.ErrInvalidShape, acc.SeedWeight(), acc.BitsPerLetter(),
			shape, shape.Weight(), shape.BitsPerLetter())
	}
	if _, err := sequenceTypeOf(int32(seqType)); err != nil {
		return nil, err
	}
	if seqType == DNA && shape.Alphabet().Name() != dnaAlphabet.Name() {
		return nil, fmt.Errorf("%w: DNA table with %s seeds", streamerrors.ErrUnknownAlphabet, shape.Alphabet().Name())
	}
	if seqType == Protein {
		if _, err := ReducedAlphabet(shape.Alphabet().Name()); err != nil {
			return nil, err
		}
	}
	log := cfg.logger.With(zap.String("dir", dir), zap.Int("table", number))

	if !acc.Sorted() {
		log.Debug("sorting seeds", zap.Int("pairs", acc.Len()))
		acc.Sort(cfg.progress)
	}

	w := &tableWriter{
		dir:    dir,
		number: number,
		acc:    acc,
		shape:  shape,
		cfg:    &cfg,
		stats:  &WriteStats{},
	}
	if err := w.write(seqType); err != nil {
		return nil, errors.Join(err, w.remove())
	}
	log.Info("wrote table",
		zap.Int("tableSize", w.stats.TableSize),
		zap.Int("seeds", w.stats.DistinctSeeds),
		zap.Int("dropped", w.stats.DroppedSeeds),
		zap.Int64("occurrences", w.stats.Occurrences),
		zap.Int("collisions", w.stats.Collisions))
	return w.stats, nil
}

// tableWriter holds the state of one WriteTable call.
type tableWriter struct {
	dir    string
	number int
	acc    *Accumulator
	shape  *SeedShape
	cfg    *writeConfig
	stats  *WriteStats

	randomSeed int32
	hashMask   int32

	counts    []int32          // occurrences per bucket
	forceList map[int]struct{} // single-occurrence buckets that cannot be inlined
	seedBuf   []byte
}

func (w *tableWriter) keep(r Run) bool {
	return w.cfg.maxOccurrence <= 0 || r.Len() <= w.cfg.maxOccurrence
}

func (w *tableWriter) bucket(seed uint64) int {
	w.seedBuf = w.shape.SeedBytes(seed, w.seedBuf)
	return BucketIndex(w.seedBuf, w.randomSeed, w.hashMask)
}

func (w *tableWriter) write(seqType SequenceType) error {
	for r := range w.acc.Runs() {
		if w.keep(r) {
			w.stats.DistinctSeeds++
		} else {
			w.stats.DroppedSeeds++
		}
	}

	tableSize := w.cfg.tableSize
	if tableSize <= 0 {
		tableSize = min(max(w.stats.DistinctSeeds, 1), MaxTableSize)
	}
	tableSize = int(min(intbits.NextPow2(uint64(tableSize)), MaxTableSize))
	w.hashMask = int32(tableSize - 1)
	w.randomSeed = w.cfg.randomSeed
	if !w.cfg.hasRandomSeed {
		w.randomSeed = defaultRandomSeed(w.shape, w.number)
	}
	w.stats.TableSize = tableSize
	w.stats.RandomSeed = w.randomSeed

	// Count occurrences per bucket.
	w.counts = make([]int32, tableSize)
	w.forceList = make(map[int]struct{})
	for r := range w.acc.Runs() {
		if !w.keep(r) {
			continue
		}
		b := w.bucket(r.Seed)
		if w.counts[b] > 0 {
			w.stats.Collisions++
		}
		w.counts[b] += int32(r.Len())
		if r.Len() == 1 {
			l := r.Locus(0)
			if _, ok := singletonLocation(l.SequenceID(), l.Position()); !ok {
				w.forceList[b] = struct{}{}
			}
		}
	}

	// Lay out the data blocks. Word 0 is padding so no list sits at offset 0.
	dataWords := int64(1)
	for b, n := range w.counts {
		if n == 0 {
			continue
		}
		w.stats.Occurrences += int64(n)
		if _, forced := w.forceList[b]; n == 1 && !forced {
			w.stats.Singletons++
			continue
		}
		w.stats.Lists++
		dataWords += 1 + 2*int64(n)
	}
	w.stats.DataWords = dataWords
	w.stats.BucketFileBytes = int64(tableSize) * encoding.Int64Size
	w.stats.DataFileBytes = dataWords * encoding.Int32Size

	buckets, err := createMapped(bucketPath(w.dir, w.number), w.stats.BucketFileBytes)
	if err != nil {
		return err
	}
	data, err := createMapped(dataPath(w.dir, w.number), w.stats.DataFileBytes)
	if err != nil {
		return errors.Join(err, buckets.close())
	}

	w.fill(buckets.data, data.data)

	if err := errors.Join(buckets.finish(), data.finish()); err != nil {
		return errors.Join(err, buckets.close(), data.close())
	}

	meta := &shardMetadata{
		SequenceType: seqType,
		TableSize:    int32(tableSize),
		HashMask:     w.hashMask,
		RandomSeed:   w.randomSeed,
		TotalCount:   w.stats.Occurrences,
		StepSize:     int32(w.cfg.stepSize),
		ShapePattern: w.shape.Bytes(),
	}
	if seqType == Protein {
		meta.Reduction = w.shape.Alphabet().Name()
	}
	return writeMetadataFile(metadataPath(w.dir, w.number), meta)
}

// fill writes bucket entries and data blocks. Lists are filled back to front
// using counts as the remaining slot count.
func (w *tableWriter) fill(buckets, data []byte) {
	next := int64(1)
	for b, n := range w.counts {
		if _, forced := w.forceList[b]; n < 2 && !forced {
			continue
		}
		encoding.PutInt64At(buckets, b, next)
		encoding.PutInt32At(data, int(next), 2*n)
		next += 1 + 2*int64(n)
	}

	for r := range w.acc.Runs() {
		if !w.keep(r) {
			continue
		}
		b := w.bucket(r.Seed)
		offset := encoding.Int64At(buckets, b)
		for i := 0; i < r.Len(); i++ {
			l := r.Locus(i)
			if l.FrameRank() != 0 {
				w.stats.FramedLoci++
			}
			if offset == 0 {
				v, _ := singletonLocation(l.SequenceID(), l.Position())
				encoding.PutInt64At(buckets, b, v)
				continue
			}
			w.counts[b]--
			slot := offset + 1 + 2*int64(w.counts[b])
			encoding.PutInt32At(data, int(slot), int32(l.SequenceID()))
			encoding.PutInt32At(data, int(slot+1), int32(l.Position()))
		}
	}
}

// defaultRandomSeed derives a stable per-table hash seed.
func defaultRandomSeed(shape *SeedShape, number int) int32 {
	key := shape.String() + "\x00" + shape.Alphabet().Name() + "\x00" + strconv.Itoa(number)
	return int32(uint32(xxh3.HashString(key)))
}

// mappedFile is a file being written through a shared writable mapping.
type mappedFile struct {
	path string
	file *os.File
	mmap mmap.MMap
	data []byte
}

func createMapped(path string, size int64) (*mappedFile, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if err := allocateFile(file, size); err != nil {
		return nil, errors.Join(fmt.Errorf("allocate %s: %w", path, err), file.Close())
	}
	mm, err := mmap.MapRegion(file, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("mmap %s: %w", path, err), file.Close())
	}
	prefaultWrite(mm)
	return &mappedFile{path: path, file: file, mmap: mm, data: []byte(mm)}, nil
}

// finish flushes and unmaps the mapping, then closes the file.
func (m *mappedFile) finish() error {
	if err := m.mmap.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", m.path, err)
	}
	err := m.mmap.Unmap()
	m.mmap = nil
	m.data = nil
	if err != nil {
		return fmt.Errorf("unmap %s: %w", m.path, err)
	}
	err = m.file.Close()
	m.file = nil
	if err != nil {
		return fmt.Errorf("close %s: %w", m.path, err)
	}
	return nil
}

// close releases whatever finish did not. Idempotent.
func (m *mappedFile) close() error {
	var unmapErr, closeErr error
	if m.mmap != nil {
		unmapErr = m.mmap.Unmap()
		m.mmap = nil
	}
	if m.file != nil {
		closeErr = m.file.Close()
		m.file = nil
	}
	return errors.Join(unmapErr, closeErr)
}

func writeMetadataFile(path string, meta *shardMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if _, err := bw.Write(meta.encode()); err != nil {
		return errors.Join(fmt.Errorf("write %s: %w", path, err), f.Close())
	}
	if err := bw.Flush(); err != nil {
		return errors.Join(fmt.Errorf("write %s: %w", path, err), f.Close())
	}
	return f.Close()
}

// remove deletes the table files after a failed write.
func (w *tableWriter) remove() error {
	var errs []error
	for _, path := range []string{metadataPath(w.dir, w.number), bucketPath(w.dir, w.number), dataPath(w.dir, w.number)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
