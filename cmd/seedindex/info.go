package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tamirms/seedindex"
)

func newInfoCommand(a *app) *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "info DIR",
		Short: "Print the index summary and the parameters of each table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), a.log, afero.NewOsFs(), args[0], stats)
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "walk every bucket and print occupancy and checksum")
	return cmd
}

func runInfo(w io.Writer, log *zap.Logger, fsys afero.Fs, dir string, withStats bool) error {
	summary, err := seedindex.ReadSummary(fsys, seedindex.SummaryPath(dir))
	switch {
	case err == nil:
		fmt.Fprint(w, summary.String())
	case errors.Is(err, fs.ErrNotExist):
		log.Warn("index has no summary file", zap.String("dir", dir))
	default:
		return err
	}

	numbers, err := tableNumbers(dir, -1)
	if err != nil {
		return err
	}
	for _, n := range numbers {
		table, err := seedindex.Open(dir, n, seedindex.WithLogger(log))
		if err != nil {
			return err
		}
		err = printTable(w, table, withStats)
		if cerr := table.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func printTable(w io.Writer, table *seedindex.Table, withStats bool) error {
	fmt.Fprintf(w, "table %d: %s %s/%s size=%d buckets=%d seed=%d step=%d\n",
		table.Number(), table.SequenceType(), table.SeedAlphabet().Name(), table.SeedShape(),
		table.Size(), table.TableSize(), table.RandomSeed(), table.StepSize())
	if !withStats {
		return nil
	}
	s, err := table.Stats()
	if err != nil {
		return err
	}
	sum, err := table.Checksum()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  empty=%d singletons=%d lists=%d corrupt=%d occurrences=%d maxList=%d dataWords=%d checksum=%016x\n",
		s.EmptyBuckets, s.SingletonBuckets, s.ListBuckets, s.CorruptBuckets,
		s.Occurrences, s.MaxListPairs, s.DataWords, sum)
	return nil
}
