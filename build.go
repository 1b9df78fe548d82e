package seedindex

import (
	"context"
	"fmt"
	"os"

	streamerrors "github.com/tamirms/seedindex/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// contextCheckInterval is how often, in sequences, seeding checks for
// cancellation.
const contextCheckInterval = 10000

// Reference is one reference sequence. Its sequence id is its position in
// the slice passed to BuildIndex.
type Reference struct {
	Name     string
	Sequence []byte
}

// BuildIndex builds one table per seed shape in dir and writes the index
// summary. Table i uses shapes[i].
//
// Tables are built concurrently, up to WithWorkers at a time, each with its
// own accumulator. The first error cancels the remaining tables.
//
// Usage:
//
//	shape, _ := seedindex.NewSeedShape(seedindex.DNAAlphabet(), seedindex.DefaultDNAShape)
//	summary, err := seedindex.BuildIndex(ctx, "index", refs, seedindex.DNA,
//	    []*seedindex.SeedShape{shape}, seedindex.WithWorkers(4))
func BuildIndex(ctx context.Context, dir string, refs []Reference, seqType SequenceType, shapes []*SeedShape, opts ...BuildOption) (*IndexSummary, error) {
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if len(shapes) == 0 {
		return nil, streamerrors.ErrNoShapes
	}
	if cfg.stepSize < 1 {
		return nil, fmt.Errorf("step size must be positive, got %d", cfg.stepSize)
	}
	if cfg.translate && seqType != Protein {
		return nil, fmt.Errorf("%w: translated references need a Protein index, got %s",
			streamerrors.ErrUnknownSequenceType, seqType)
	}
	if uint64(len(refs)) > uint64(MaxSequenceID)+1 {
		return nil, fmt.Errorf("%w: %d references", streamerrors.ErrCapacityExceeded, len(refs))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	var letters int64
	for _, ref := range refs {
		letters += int64(len(ref.Sequence))
	}
	approx := letters / int64(cfg.stepSize)
	if cfg.translate {
		approx *= 2 // six frames of a third of the length each
	}

	log := cfg.logger.With(zap.String("dir", dir))
	log.Info("building index",
		zap.Stringer("type", seqType),
		zap.Int("references", len(refs)),
		zap.Int64("letters", letters),
		zap.Int("tables", len(shapes)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.workers, 1))
	counts := make([]int64, len(shapes))
	for t, shape := range shapes {
		g.Go(func() error {
			stats, err := buildTable(gctx, dir, t, refs, seqType, shape, approx, cfg)
			if err != nil {
				return fmt.Errorf("table %d (%s): %w", t, shape, err)
			}
			counts[t] = stats.Occurrences
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &IndexSummary{
		SequenceType:             seqType,
		NumberOfSequences:        int32(len(refs)),
		NumberOfLetters:          letters,
		MaxRefOccurrencesPerSeed: int32(cfg.maxOccurrences),
		Features:                 cfg.features,
	}
	for t, shape := range shapes {
		summary.Shapes = append(summary.Shapes, ShapeSummary{
			AlphabetName: shape.Alphabet().Name(),
			Pattern:      shape.String(),
			SeedCount:    counts[t],
		})
	}
	if err := WriteSummary(cfg.fs, SummaryPath(dir), summary); err != nil {
		return nil, err
	}
	log.Info("index complete")
	return summary, nil
}

func buildTable(ctx context.Context, dir string, number int, refs []Reference, seqType SequenceType, shape *SeedShape, approx int64, cfg *buildConfig) (*WriteStats, error) {
	acc, err := NewAccumulator(shape.BitsPerLetter(), shape.Weight(), approx)
	if err != nil {
		return nil, err
	}
	for i, ref := range refs {
		if i%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if cfg.translate {
			_, err = AddTranslatedSeeds(acc, shape, uint32(i), ref.Sequence, cfg.stepSize, cfg.acceptAllFrames)
		} else {
			_, err = AddSeeds(acc, shape, uint32(i), ref.Sequence, cfg.stepSize)
		}
		if err != nil {
			return nil, fmt.Errorf("reference %q: %w", ref.Name, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := []WriteOption{
		WithStepSize(cfg.stepSize),
		WithMaxOccurrencesPerSeed(cfg.maxOccurrences),
		WithWriteLogger(cfg.logger),
	}
	if cfg.hasRandomSeed {
		opts = append(opts, WithRandomSeed(cfg.randomSeed))
	}
	if cfg.progress != nil {
		if p := cfg.progress(shape, number); p != nil {
			opts = append(opts, WithSortProgress(p))
		}
	}
	return WriteTable(dir, number, acc, shape, seqType, opts...)
}
