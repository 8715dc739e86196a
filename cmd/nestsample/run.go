// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/nestsampler/config"
	"github.com/katalvlaran/nestsampler/nested"
	"github.com/katalvlaran/nestsampler/output"
	"github.com/katalvlaran/nestsampler/params"
	"github.com/katalvlaran/nestsampler/rng"
)

// initStream is the rng.Derive stream used for the initial live set.
const initStream = 1

func (c *cli) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one nested-sampling estimate",
		Long: `Draw Nlive points from the prior, run nested sampling until the remaining
evidence falls below the tolerance, and write:

  <outfile>               retired points then the sorted final live points
  <outfile>_B.txt         logB logZ logZnoise logLmax
  <outfile>_summary.json  run id, seed, timings and evidence`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.load(cmd)
			if err != nil {
				return c.fail(err)
			}

			return c.fail(c.run(cmd.Context(), cfg))
		},
	}
	c.samplingFlags(cmd)

	return cmd
}

// fail logs err before cobra returns it as the exit status.
// fail logs err and flushes the logger, since PersistentPostRun does not
// run after a failing RunE.
func (c *cli) fail(err error) error {
	if err != nil {
		c.log.Error("nestsample failed", zap.Error(err))
		_ = c.log.Sync()
	}

	return err
}

// session bundles what run and chains share.
type session struct {
	cfg     config.Config
	model   *config.Model
	sampler *nested.Sampler
	reg     *prometheus.Registry
	summary *output.RunSummary
}

func (c *cli) newSession(cfg config.Config) (*session, error) {
	model, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	opts := append(cfg.SamplerOptions(),
		nested.WithLogger(c.log),
		nested.WithMetrics(nested.NewMetrics(reg)))
	s, err := nested.NewSampler(model.Layout, model.Likelihood, model.Prior, model.Prior, opts...)
	if err != nil {
		return nil, err
	}
	sum := output.NewRunSummary(version, commandLine(), cfg.Sampler.Seed)
	sum.Parameters = model.Layout.Names()
	sum.Nlive, sum.Nmcmc, sum.Nruns = cfg.Sampler.Nlive, cfg.Sampler.Nmcmc, cfg.Sampler.Nruns
	sum.Tolerance = cfg.Sampler.Tolerance
	c.log.Info("nestsample session",
		zap.String("run_id", sum.RunID),
		zap.String("model", cfg.Model.Kind),
		zap.Strings("parameters", sum.Parameters),
		zap.String("outfile", cfg.Outfile))

	return &session{cfg: cfg, model: model, sampler: s, reg: reg, summary: sum}, nil
}

// initialLive draws the starting live set from the prior.
func (s *session) initialLive(_ int, r *rand.Rand) (*params.LiveSet, error) {
	live, err := params.NewLiveSet(s.model.Layout, s.cfg.Sampler.Nlive)
	if err != nil {
		return nil, err
	}
	if err = s.model.Prior.Populate(r, live, s.model.Likelihood, s.model.Template); err != nil {
		return nil, err
	}

	return live, nil
}

// finish writes the summary JSON and the optional metrics textfile.
func (s *session) finish(started time.Time) error {
	s.summary.Started = started
	s.summary.Finished = time.Now()
	s.summary.Time = s.summary.Finished.Sub(started).Seconds()
	if err := s.summary.Write(s.cfg.Outfile); err != nil {
		return err
	}
	if path := s.cfg.Observability.MetricsFile; path != "" {
		if err := prometheus.WriteToTextfile(path, s.reg); err != nil {
			return fmt.Errorf("metrics textfile: %w: %w", output.ErrIO, err)
		}
	}

	return nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}

	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func (c *cli) run(parent context.Context, cfg config.Config) (err error) {
	ctx, stop := signalContext(parent)
	defer stop()

	s, err := c.newSession(cfg)
	if err != nil {
		return err
	}
	started := time.Now()
	live, err := s.initialLive(0, rng.Derive(cfg.Sampler.Seed, initStream))
	if err != nil {
		return err
	}

	w, err := output.CreateSampleFile(cfg.Outfile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	res, err := s.sampler.Run(ctx, live, w)
	if err != nil {
		return err
	}
	if err = output.WriteEvidence(cfg.Outfile, output.Evidence{
		LogBayes:  res.LogBayes,
		LogZ:      res.LogZ,
		LogZNoise: res.LogZNoise,
		LogLMax:   res.LogLMax,
	}); err != nil {
		return err
	}
	s.summary.Evidence = evidenceOf(res)

	return s.finish(started)
}

func evidenceOf(r *nested.Result) output.RunEvidence {
	return output.RunEvidence{
		LogZ:           r.LogZ,
		LogZStd:        r.RunLogZStd,
		LogZNoise:      r.LogZNoise,
		LogBayes:       r.LogBayes,
		LogLMax:        r.LogLMax,
		Information:    r.Information,
		Iterations:     r.Iterations,
		AcceptanceRate: r.AcceptanceRate,
		Seed:           r.Seed,
		RunLogZ:        r.RunLogZ,
	}
}
