package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tamirms/seedindex"
)

func newLookupCommand(a *app) *cobra.Command {
	var table int
	cmd := &cobra.Command{
		Use:   "lookup DIR QUERY...",
		Short: "Print the reference occurrences of every seed of the query sequences",
		Long: "Each query is scanned with the seed shape of each table and every seed is looked up.\n" +
			"Output columns: query, query position, table, sequence id, reference position.\n" +
			"Reference occurrences of other seeds hashing to the same bucket are reported too.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd.OutOrStdout(), a.log, args[0], table, args[1:])
		},
	}
	cmd.Flags().IntVar(&table, "table", -1, "table number (-1 for all)")
	return cmd
}

func runLookup(out io.Writer, log *zap.Logger, dir string, number int, queries []string) error {
	numbers, err := tableNumbers(dir, number)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	for _, n := range numbers {
		table, err := seedindex.Open(dir, n, seedindex.WithLogger(log))
		if err != nil {
			return err
		}
		for i, q := range queries {
			hits := lookupQuery(w, table, fmt.Sprintf("q%d", i), []byte(q))
			log.Debug("looked up query", zap.Int("table", n), zap.Int("query", i), zap.Int("hits", hits))
		}
		if err := table.Close(); err != nil {
			return err
		}
	}
	return w.Flush()
}

// lookupQuery writes one line per occurrence found for the seeds of query
// and returns the number of lines.
func lookupQuery(w io.Writer, table *seedindex.Table, name string, query []byte) int {
	shape := table.SeedShape()
	seed := make([]byte, shape.Weight())
	var row seedindex.Row
	hits := 0
	for pos := 0; pos+shape.Length() <= len(query); pos++ {
		if _, ok := shape.Extract(query, pos, seed); !ok {
			continue
		}
		if table.Lookup(seed, &row) == 0 {
			continue
		}
		for p := range row.Pairs() {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", name, pos, table.Number(), p.SequenceID, p.Position)
			hits++
		}
	}
	return hits
}

// tableNumbers returns the tables to visit: all of them for number < 0.
func tableNumbers(dir string, number int) ([]int, error) {
	count := seedindex.NumberOfTables(dir)
	if count == 0 {
		return nil, fmt.Errorf("no tables in %s", dir)
	}
	if number >= 0 {
		if number >= count {
			return nil, fmt.Errorf("table %d not in %s (%d tables)", number, dir, count)
		}
		return []int{number}, nil
	}
	numbers := make([]int, count)
	for i := range numbers {
		numbers[i] = i
	}
	return numbers, nil
}
