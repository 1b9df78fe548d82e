package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tamirms/seedindex"
)

func newDumpCommand(a *app) *cobra.Command {
	var (
		table   int
		buckets int
	)
	cmd := &cobra.Command{
		Use:   "dump DIR",
		Short: "Print the first buckets of tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers, err := tableNumbers(args[0], table)
			if err != nil {
				return err
			}
			for _, n := range numbers {
				t, err := seedindex.Open(args[0], n, seedindex.WithLogger(a.log))
				if err != nil {
					return err
				}
				err = t.Dump(cmd.OutOrStdout(), buckets)
				if err = errors.Join(err, t.Close()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&table, "table", -1, "table number (-1 for all)")
	cmd.Flags().IntVar(&buckets, "buckets", 100, "buckets to print per table")
	return cmd
}
