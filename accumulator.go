package seedindex

import (
	"fmt"
	"iter"
	"math"

	streamerrors "github.com/tamirms/seedindex/errors"
)

const (
	// MaxArraySize bounds the accumulator buffer (in words) and the bucket
	// index range. Tables are read by JVM tools that cannot address more.
	MaxArraySize = math.MaxInt32 - 8

	// approxSlack is added to the expected occurrence count to absorb
	// variance between batches.
	approxSlack = 1.2
)

// ProgressReporter receives coarse progress for batch operations.
type ProgressReporter interface {
	SetMaximum(max int64)
	SetProgress(p int64)
}

// AccumulatorOption configures an Accumulator.
type AccumulatorOption func(*accumulatorConfig)

type accumulatorConfig struct {
	maxWords int
}

// WithMaxWords lowers the buffer ceiling below MaxArraySize.
func WithMaxWords(n int) AccumulatorOption {
	return func(c *accumulatorConfig) {
		c.maxWords = n
	}
}

// Accumulator collects (seed, locus) pairs for one shard and radix-sorts
// them by seed value so equal seeds become contiguous.
//
// The pairs live in one flat buffer: word 2i is a seed value, word 2i+1 its
// Locus. An Accumulator is owned by a single goroutine. Reset empties it
// without releasing memory so it can be reused for the next shard.
type Accumulator struct {
	data    []uint64 // len(data) is the capacity in words
	pos     int      // words in use, always even
	scratch []uint64 // radix sort output buffer, retained across sorts
	counts  []int    // radix sort digit counts

	seedWeight    int
	bitsPerLetter int
	maxWords      int
	sorted        bool
}

// NewAccumulator creates an accumulator for seeds of the given weight and
// letter width, sized for approxOccurrences pairs plus 20%.
//
// Returns ErrSeedTooWide if seedWeight*bitsPerLetter exceeds 64 and
// ErrCapacityExceeded if the projected buffer would not fit the ceiling.
func NewAccumulator(bitsPerLetter, seedWeight int, approxOccurrences int64, opts ...AccumulatorOption) (*Accumulator, error) {
	cfg := accumulatorConfig{maxWords: MaxArraySize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxWords > MaxArraySize || cfg.maxWords <= 0 {
		cfg.maxWords = MaxArraySize
	}
	cfg.maxWords &^= 1

	if bitsPerLetter <= 0 || seedWeight <= 0 {
		return nil, fmt.Errorf("%w: weight=%d bitsPerLetter=%d", streamerrors.ErrInvalidShape, seedWeight, bitsPerLetter)
	}
	if seedWeight*bitsPerLetter > 64 {
		return nil, fmt.Errorf("%w: weight=%d bitsPerLetter=%d", streamerrors.ErrSeedTooWide, seedWeight, bitsPerLetter)
	}

	projected := int64(math.Ceil(approxSlack * float64(max(approxOccurrences, 0))))
	if 2*projected >= int64(cfg.maxWords) {
		return nil, fmt.Errorf("%w: %d occurrences (projected %d)", streamerrors.ErrCapacityExceeded, approxOccurrences, projected)
	}

	return &Accumulator{
		data:          make([]uint64, 2*projected),
		seedWeight:    seedWeight,
		bitsPerLetter: bitsPerLetter,
		maxWords:      cfg.maxWords,
	}, nil
}

// Add appends one occurrence of seed at (seqID, pos) with no frame.
func (a *Accumulator) Add(seed uint64, seqID, pos uint32) error {
	return a.AddFrame(seed, seqID, pos, 0)
}

// AddFrame appends one occurrence of seed at (seqID, pos) in a translated
// frame. Returns ErrCapacityExceeded, leaving the buffer intact, if the
// buffer is at its ceiling.
func (a *Accumulator) AddFrame(seed uint64, seqID, pos uint32, frame uint8) error {
	if a.pos == len(a.data) {
		if err := a.grow(); err != nil {
			return err
		}
	}
	a.data[a.pos] = seed
	a.data[a.pos+1] = uint64(NewLocus(seqID, pos, frame))
	a.pos += 2
	a.sorted = false
	return nil
}

// grow doubles the buffer, keeping its length even and within maxWords.
func (a *Accumulator) grow() error {
	if len(a.data) >= a.maxWords {
		return fmt.Errorf("%w: %d pairs", streamerrors.ErrCapacityExceeded, a.pos/2)
	}
	n := max(2*len(a.data), 2)
	if n > a.maxWords {
		n = a.maxWords
	}
	data := make([]uint64, n)
	copy(data, a.data[:a.pos])
	a.data = data
	return nil
}

// Reset empties the accumulator without freeing memory.
func (a *Accumulator) Reset() {
	a.pos = 0
	a.sorted = false
}

// Len returns the number of (seed, locus) pairs stored.
func (a *Accumulator) Len() int {
	return a.pos / 2
}

// Sorted reports whether the buffer is ordered by seed value.
func (a *Accumulator) Sorted() bool {
	return a.sorted || a.pos <= 2
}

// Seed returns the seed value of pair i.
func (a *Accumulator) Seed(i int) uint64 {
	return a.data[2*i]
}

// Locus returns the locus of pair i.
func (a *Accumulator) Locus(i int) Locus {
	return Locus(a.data[2*i+1])
}

// Words returns the flat pair buffer. It is invalidated by Add and Sort.
func (a *Accumulator) Words() []uint64 {
	return a.data[:a.pos]
}

// SeedWeight returns the configured seed weight.
func (a *Accumulator) SeedWeight() int { return a.seedWeight }

// BitsPerLetter returns the configured radix digit width.
func (a *Accumulator) BitsPerLetter() int { return a.bitsPerLetter }

// Sort orders the pairs ascending by seed value using an LSD radix sort
// with one pass per seed letter. Ties keep no guaranteed order. progress
// may be nil.
func (a *Accumulator) Sort(progress ProgressReporter) {
	if len(a.scratch) < a.pos {
		a.scratch = make([]uint64, len(a.data))
	}
	if len(a.counts) < 1<<a.bitsPerLetter {
		a.counts = make([]int, 1<<a.bitsPerLetter)
	}
	swapped := radixSortPairs(a.data[:a.pos], a.scratch[:a.pos], a.counts,
		a.seedWeight*a.bitsPerLetter, a.bitsPerLetter, progress)
	if swapped {
		a.data, a.scratch = a.scratch, a.data
	}
	a.sorted = true
}

// Run is a maximal run of pairs sharing one seed value.
type Run struct {
	Seed  uint64
	words []uint64 // seed/locus pairs
}

// Len returns the number of occurrences in the run.
func (r Run) Len() int { return len(r.words) / 2 }

// Locus returns occurrence i of the run.
func (r Run) Locus(i int) Locus { return Locus(r.words[2*i+1]) }

// Runs iterates over runs of equal seed values. The accumulator must be
// sorted; otherwise runs of one seed may be split.
func (a *Accumulator) Runs() iter.Seq[Run] {
	return func(yield func(Run) bool) {
		words := a.data[:a.pos]
		for start := 0; start < len(words); {
			seed := words[start]
			end := start + 2
			for end < len(words) && words[end] == seed {
				end += 2
			}
			if !yield(Run{Seed: seed, words: words[start:end]}) {
				return
			}
			start = end
		}
	}
}
