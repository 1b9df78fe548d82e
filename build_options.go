package seedindex

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// BuildOption is a functional option for configuring BuildIndex.
type BuildOption func(*buildConfig)

type buildConfig struct {
	workers         int
	stepSize        int
	maxOccurrences  int
	randomSeed      int32
	hasRandomSeed   bool
	translate       bool
	acceptAllFrames bool
	features        FeatureFlags
	logger          *zap.Logger
	progress        func(shape *SeedShape, table int) ProgressReporter
	fs              afero.Fs
}

func defaultBuildConfig() *buildConfig {
	return &buildConfig{
		workers:  1,
		stepSize: 1,
		logger:   zap.NewNop(),
		fs:       osFs,
	}
}

// WithWorkers sets how many tables are built concurrently. Each worker
// holds its own accumulator in memory.
func WithWorkers(n int) BuildOption {
	return func(c *buildConfig) {
		c.workers = n
	}
}

// WithBuildStepSize seeds every n-th reference position.
func WithBuildStepSize(n int) BuildOption {
	return func(c *buildConfig) {
		c.stepSize = n
	}
}

// WithBuildMaxOccurrences drops seeds that occur more than n times in the
// references. n <= 0 keeps all seeds.
func WithBuildMaxOccurrences(n int) BuildOption {
	return func(c *buildConfig) {
		c.maxOccurrences = n
	}
}

// WithBuildRandomSeed fixes the hash seed of every table.
func WithBuildRandomSeed(seed int32) BuildOption {
	return func(c *buildConfig) {
		c.randomSeed = seed
		c.hasRandomSeed = true
	}
}

// WithTranslatedReferences treats the references as DNA and seeds their
// six-frame translations into a protein index. Frames that do not look
// like coding sequence are skipped unless acceptAll is set.
func WithTranslatedReferences(acceptAll bool) BuildOption {
	return func(c *buildConfig) {
		c.translate = true
		c.acceptAllFrames = acceptAll
	}
}

// WithFeatureFlags records annotation flags in the index summary.
func WithFeatureFlags(f FeatureFlags) BuildOption {
	return func(c *buildConfig) {
		c.features = f
	}
}

// WithBuildLogger sets the logger.
func WithBuildLogger(l *zap.Logger) BuildOption {
	return func(c *buildConfig) {
		c.logger = l
	}
}

// WithProgressFactory supplies a progress reporter for the sort of each
// table. The factory may return nil.
func WithProgressFactory(f func(shape *SeedShape, table int) ProgressReporter) BuildOption {
	return func(c *buildConfig) {
		c.progress = f
	}
}

// WithFs sets the filesystem the index summary is written to. Tables are
// always written to the OS filesystem because they are memory-mapped.
func WithFs(fs afero.Fs) BuildOption {
	return func(c *buildConfig) {
		c.fs = fs
	}
}
