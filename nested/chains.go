// SPDX-License-Identifier: MIT

package nested

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/nestsampler/params"
	"github.com/katalvlaran/nestsampler/rng"
)

// LiveSetFunc draws an initial live set for one chain from its own stream.
type LiveSetFunc func(chain int, r *rand.Rand) (*params.LiveSet, error)

// SinkFunc returns the sample sink of one chain; a nil Sink discards.
type SinkFunc func(chain int) (Sink, error)

// ChainsResult combines independent chains.
type ChainsResult struct {
	Chains    []*Result
	LogZ      float64 // log of the mean chain evidence
	LogZStd   float64 // spread of the chain log evidences
	LogZNoise float64
	LogBayes  float64
}

// RunChains executes k independent runs of s concurrently, at most parallel
// at a time (parallel ≤ 0 means all at once). Chain c uses the seed
// rng.DeriveSeed(seed, c) for its sampler and a second derived stream for
// its initial live set, so results depend only on the base seed.
//
// The first failing chain cancels the others and its error is returned.
// Combined evidence is log( (1/k) Σ_c e^{logZ_c} ).
func RunChains(ctx context.Context, s *Sampler, k, parallel int, newLive LiveSetFunc, sinks SinkFunc) (*ChainsResult, error) {
	if s == nil || newLive == nil {
		return nil, preconditionf("RunChains: nil sampler or initializer")
	}
	if k < 1 {
		return nil, preconditionf("RunChains: k=%d must be >= 1", k)
	}
	base := s.opts.Seed
	if base == 0 {
		base = rng.DefaultSeed
	}

	results := make([]*Result, k)
	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for c := 0; c < k; c++ {
		g.Go(func() error {
			seed := rng.DeriveSeed(base, uint64(c))
			live, err := newLive(c, rng.Derive(seed, 1))
			if err != nil {
				return fmt.Errorf("nested: chain %d init: %w", c, err)
			}
			var sink Sink
			if sinks != nil {
				if sink, err = sinks(c); err != nil {
					return fmt.Errorf("nested: chain %d sink: %w: %w", c, ErrIO, err)
				}
			}
			label := strconv.Itoa(c)
			cs := s.with(WithSeed(seed), WithRunLabel(label),
				WithLogger(s.opts.Logger.With(zap.Int("chain", c))))
			res, err := cs.Run(gctx, live, sink)
			if err != nil {
				return fmt.Errorf("nested: chain %d: %w", c, err)
			}
			results[c] = res

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return combineChains(results), nil
}

func combineChains(results []*Result) *ChainsResult {
	logZ := make([]float64, len(results))
	for i, r := range results {
		logZ[i] = r.LogZ
	}
	out := &ChainsResult{
		Chains:    results,
		LogZ:      floats.LogSumExp(logZ) - math.Log(float64(len(results))),
		LogZNoise: results[0].LogZNoise,
	}
	if len(logZ) > 1 {
		out.LogZStd = stat.StdDev(logZ, nil)
	}
	out.LogBayes = out.LogZ - out.LogZNoise

	return out
}
