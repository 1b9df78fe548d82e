package main

import (
	"errors"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	envFile string
	verbose bool

	env envVars
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "seedindex",
		Short:         "Build and inspect spaced seed indices of reference sequences",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "file with SEEDINDEX_* defaults")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newBuildCommand(a),
		newLookupCommand(a),
		newInfoCommand(a),
		newDumpCommand(a),
	)
	return root
}

func (a *app) init() error {
	env, err := loadEnv(a.envFile)
	if err != nil {
		return err
	}
	a.env = env
	a.log, err = newLogger(env, a.verbose)
	return err
}

func (a *app) close() error {
	if a.log == nil {
		return nil
	}
	err := a.log.Sync()
	// Syncing stderr fails on terminals.
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
