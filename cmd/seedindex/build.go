package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tamirms/seedindex"
)

type buildFlags struct {
	inputs          []string
	out             string
	seqType         string
	shapes          []string
	reduction       string
	translate       bool
	acceptAllFrames bool
	workers         int
	stepSize        int
	maxOccurrences  int
	randomSeed      int32
	taxonomy        bool
	progress        bool
}

func newBuildCommand(a *app) *cobra.Command {
	f := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an index from FASTA files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("workers") {
				f.workers = a.env.Workers
			}
			if !cmd.Flags().Changed("step") {
				f.stepSize = a.env.StepSize
			}
			if !cmd.Flags().Changed("max-occurrences") {
				f.maxOccurrences = a.env.MaxOccurrences
			}
			if !cmd.Flags().Changed("reduction") {
				f.reduction = a.env.Reduction
			}
			return runBuild(cmd, a.log, f, cmd.Flags().Changed("seed"))
		},
	}
	fl := cmd.Flags()
	fl.StringSliceVarP(&f.inputs, "input", "i", nil, "FASTA file (repeatable, may be gzipped)")
	fl.StringVarP(&f.out, "out", "o", "", "index directory")
	fl.StringVarP(&f.seqType, "type", "t", seedindex.DNA.String(), "index type: DNA or Protein")
	fl.StringSliceVarP(&f.shapes, "shape", "s", nil, "seed shape, one table each (default depends on type)")
	fl.StringVar(&f.reduction, "reduction", seedindex.DefaultReduction, "protein alphabet reduction")
	fl.BoolVar(&f.translate, "translate", false, "translate DNA references in six frames into a Protein index")
	fl.BoolVar(&f.acceptAllFrames, "accept-all-frames", false, "with --translate, keep frames that do not look coding")
	fl.IntVarP(&f.workers, "workers", "w", 1, "tables built in parallel")
	fl.IntVar(&f.stepSize, "step", 1, "seed every step-th window")
	fl.IntVar(&f.maxOccurrences, "max-occurrences", 0, "drop seeds occurring more often (0 keeps all)")
	fl.Int32Var(&f.randomSeed, "seed", 0, "hash seed (default derived per table)")
	fl.BoolVar(&f.taxonomy, "taxonomy", false, "mark the index as having taxonomy mapping")
	fl.BoolVar(&f.progress, "progress", false, "show sort progress bars")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runBuild(cmd *cobra.Command, log *zap.Logger, f *buildFlags, hasSeed bool) error {
	seqType, err := seedindex.ParseSequenceType(f.seqType)
	if err != nil {
		return err
	}
	shapes, err := parseShapes(seqType, f.reduction, f.shapes)
	if err != nil {
		return err
	}

	start := time.Now()
	var refs []seedindex.Reference
	for _, path := range f.inputs {
		refs, err = readFasta(path, refs)
		if err != nil {
			return err
		}
	}
	log.Info("read references", zap.Int("count", len(refs)), zap.Duration("elapsed", time.Since(start)))

	opts := []seedindex.BuildOption{
		seedindex.WithWorkers(f.workers),
		seedindex.WithBuildStepSize(f.stepSize),
		seedindex.WithBuildMaxOccurrences(f.maxOccurrences),
		seedindex.WithFeatureFlags(seedindex.FeatureFlags{Taxonomy: f.taxonomy}),
		seedindex.WithBuildLogger(log),
	}
	if hasSeed {
		opts = append(opts, seedindex.WithBuildRandomSeed(f.randomSeed))
	}
	if f.translate {
		opts = append(opts, seedindex.WithTranslatedReferences(f.acceptAllFrames))
	}
	var bars *progressBars
	if f.progress {
		bars = newProgressBars(cmd.ErrOrStderr())
		opts = append(opts, seedindex.WithProgressFactory(bars.reporter))
	}

	summary, err := seedindex.BuildIndex(cmd.Context(), f.out, refs, seqType, shapes, opts...)
	if bars != nil {
		bars.wait(err != nil)
	}
	if err != nil {
		return err
	}
	log.Info("built index", zap.String("dir", f.out), zap.Duration("elapsed", time.Since(start)))
	fmt.Fprint(cmd.OutOrStdout(), summary.String())
	return nil
}

// parseShapes resolves seed patterns for an index type, falling back to the
// default pattern of the type.
func parseShapes(seqType seedindex.SequenceType, reduction string, patterns []string) ([]*seedindex.SeedShape, error) {
	alphabet := seedindex.DNAAlphabet()
	def := seedindex.DefaultDNAShape
	if seqType == seedindex.Protein {
		var err error
		if alphabet, err = seedindex.ReducedAlphabet(reduction); err != nil {
			return nil, err
		}
		def = seedindex.DefaultProteinShape
	}
	if len(patterns) == 0 {
		patterns = []string{def}
	}
	shapes := make([]*seedindex.SeedShape, 0, len(patterns))
	for _, p := range patterns {
		s, err := seedindex.NewSeedShape(alphabet, p)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

// readFasta appends the records of a FASTA file to refs. The sequence id of
// a record is its position in the result.
func readFasta(path string, refs []seedindex.Reference) ([]seedindex.Reference, error) {
	reader, err := fastx.NewReader(nil, path, "")
	if err != nil {
		return refs, fmt.Errorf("open %s: %w", path, err)
	}
	defer reader.Close()

	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return refs, nil
			}
			return refs, fmt.Errorf("read %s: %w", path, err)
		}
		// The reader reuses record buffers.
		refs = append(refs, seedindex.Reference{
			Name:     string(record.ID),
			Sequence: bytes.Clone(record.Seq.Seq),
		})
	}
}
