// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/nestsampler/config"
)

// cli holds flag values and the process logger shared by subcommands.
type cli struct {
	configPath string
	verbose    bool

	outfile   string
	nlive     int
	nmcmc     int
	nruns     int
	tolerance float64
	seed      int64
	model     string
	chains    int
	parallel  int
	metrics   string

	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{log: zap.NewNop()}
	root := &cobra.Command{
		Use:           "nestsample",
		Short:         "Nested-sampling evidence estimator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = c.log.Sync()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "YAML or JSON configuration file")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "log per-iteration progress")

	root.AddCommand(c.runCmd(), c.chainsCmd(), versionCmd())

	return root
}

// samplingFlags registers the flags shared by run and chains.
func (c *cli) samplingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&c.outfile, "outfile", "o", "", "samples file; evidence goes to <outfile>_B.txt")
	f.IntVar(&c.nlive, "nlive", 0, "number of live points")
	f.IntVar(&c.nmcmc, "nmcmc", 0, "minimum MCMC steps per replacement")
	f.IntVar(&c.nruns, "nruns", 0, "parallel evidence accumulators")
	f.Float64Var(&c.tolerance, "tolerance", 0, "stop when remaining log evidence falls below this")
	f.Int64Var(&c.seed, "seed", 0, "random seed")
	f.StringVar(&c.model, "model", "", "likelihood model: gaussian or chirp")
	f.StringVar(&c.metrics, "metrics-file", "", "write Prometheus metrics to this textfile")
}

// load resolves configuration with flags taking priority over env and file.
func (c *cli) load(cmd *cobra.Command) (config.Config, error) {
	changed := cmd.Flags().Changed
	cfg, err := config.Load(c.configPath, func(cfg *config.Config) {
		if changed("outfile") {
			cfg.Outfile = c.outfile
		}
		if changed("nlive") {
			cfg.Sampler.Nlive = c.nlive
		}
		if changed("nmcmc") {
			cfg.Sampler.Nmcmc = c.nmcmc
		}
		if changed("nruns") {
			cfg.Sampler.Nruns = c.nruns
		}
		if changed("tolerance") {
			cfg.Sampler.Tolerance = c.tolerance
		}
		if changed("seed") {
			cfg.Sampler.Seed = c.seed
		}
		if changed("model") {
			cfg.Model.Kind = c.model
		}
		if changed("metrics-file") {
			cfg.Observability.MetricsFile = c.metrics
		}
		if cmd.Flags().Lookup("chains") != nil {
			if changed("chains") {
				cfg.Chains.Count = c.chains
			}
			if changed("parallel") {
				cfg.Chains.Parallel = c.parallel
			}
		}
	})
	if err != nil {
		return cfg, err
	}
	if c.log, err = newLogger(cfg.Observability.LogLevel, c.verbose); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// newLogger builds a production zap logger; verbose forces Debug.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		zc.Level = lvl
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zc.OutputPaths = []string{"stderr"}

	return zc.Build()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "nestsample", version)
		},
	}
}

// commandLine is recorded in the JSON summary.
func commandLine() []string { return append([]string(nil), os.Args...) }
