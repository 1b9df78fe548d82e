package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

const (
	envPrefix = "SEEDINDEX"

	EnvDev  = "dev"
	EnvProd = "prod"
)

// envVars are defaults that command line flags override.
type envVars struct {
	Environment    string `envconfig:"ENVIRONMENT" default:"dev"`
	Workers        int    `envconfig:"WORKERS" default:"1"`
	StepSize       int    `envconfig:"STEP_SIZE" default:"1"`
	MaxOccurrences int    `envconfig:"MAX_OCCURRENCES" default:"0"`
	Reduction      string `envconfig:"REDUCTION" default:"DIAMOND_11"`
}

// loadEnv reads envFile if it exists and then the SEEDINDEX_* variables.
// Variables already set in the environment win over the file.
func loadEnv(envFile string) (envVars, error) {
	var env envVars
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return env, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return env, fmt.Errorf("read environment: %w", err)
	}
	if env.Environment != EnvDev && env.Environment != EnvProd {
		return env, fmt.Errorf("%s_ENVIRONMENT must be %q or %q, got %q", envPrefix, EnvDev, EnvProd, env.Environment)
	}
	return env, nil
}

func newLogger(env envVars, verbose bool) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if env.Environment == EnvDev {
		log, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		log, err = cfg.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log, nil
}
