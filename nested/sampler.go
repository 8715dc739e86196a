// SPDX-License-Identifier: MIT

package nested

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/nestsampler/covariance"
	"github.com/katalvlaran/nestsampler/matrix"
	"github.com/katalvlaran/nestsampler/params"
	"github.com/katalvlaran/nestsampler/proposal"
	"github.com/katalvlaran/nestsampler/rng"
)

// dBPerNat converts a natural-log ratio to decibels.
var dBPerNat = 10 * math.Log10E

// Result summarises one completed run.
type Result struct {
	LogZ           float64       // log evidence
	LogZNoise      float64       // noise-only log-likelihood (0 without NullLikelihood)
	LogBayes       float64       // LogZ − LogZNoise
	LogLMax        float64       // largest log-likelihood seen
	Information    float64       // H in nats
	Iterations     int           // retired points before termination
	RunLogZ        []float64     // per-accumulator evidence
	RunLogZStd     float64       // spread of RunLogZ
	Proposals      int           // MCMC proposals
	Accepted       int           // accepted MCMC proposals
	AcceptanceRate float64       // Accepted / Proposals
	PDRetries      int           // covariance recoveries across refreshes
	StallRetries   int           // zero-acceptance replacement restarts
	Seed           int64         // seed actually used
	Duration       time.Duration // wall time of Run
}

// Sampler drives the nested-sampling state machine. A Sampler holds only
// configuration; every Run owns its own RNG, engine and accumulators, so
// distinct Runs may proceed concurrently on distinct live sets.
type Sampler struct {
	opts   Options
	layout *params.Layout
	like   Likelihood
	prior  Prior
	bounds proposal.Bounds
}

// NewSampler validates options and collaborators.
//
// Errors:
//   - ErrPrecondition for nil collaborators, invalid options, a layout with
//     no varying parameter or unusable bounds.
func NewSampler(layout *params.Layout, like Likelihood, prior Prior, bounds proposal.Bounds, opts ...Option) (*Sampler, error) {
	o := DefaultOptions()
	for _, set := range opts {
		set(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if layout == nil || like == nil || prior == nil || bounds == nil {
		return nil, preconditionf("NewSampler: nil layout, likelihood, prior or bounds")
	}
	if _, err := proposal.NewEngine(layout, bounds); err != nil {
		return nil, fmt.Errorf("nested: NewSampler: %w: %w", ErrPrecondition, err)
	}

	return &Sampler{opts: o, layout: layout, like: like, prior: prior, bounds: bounds}, nil
}

// Options returns a copy of the resolved options.
func (s *Sampler) Options() Options { return s.opts }

// Layout returns the parameter layout.
func (s *Sampler) Layout() *params.Layout { return s.layout }

// with returns a shallow copy of s with o applied.
func (s *Sampler) with(opts ...Option) *Sampler {
	c := *s
	for _, set := range opts {
		set(&c.opts)
	}

	return &c
}

// runState is the mutable state of one Run.
type runState struct {
	opts    Options
	log     *zap.Logger
	live    *params.LiveSet
	sink    Sink
	r       *rand.Rand
	engine  *proposal.Engine
	stepper *Stepper
	cov     *matrix.Dense
	acc     *accumulator
	clone   *params.Point

	logZ, info, logw, logLMax, logZNoise float64
	deltaZ                               float64
	iter, pdRetries, stallRetries        int
}

// Run executes the sampler over live, streaming every retired point and
// then the sorted final live points to sink (nil discards them). live must
// hold exactly Nlive points drawn from the prior with finite logL; it is
// modified in place and ends sorted ascending by logL.
//
// Implementation:
//   - INITIALIZING: validate live, seed the RNG, estimate and condition
//     the covariance, set logw = log(1 − e^{−1/Nlive}).
//   - ITERATING: retire argmin, fold it into every run, replace it by an
//     MCMC-evolved clone of another live point, shrink each run's prior
//     mass, refresh the covariance every max(1, Nlive/4) iterations; loop
//     while iter < Nlive or dZ > Tolerance.
//   - SORTING: order the live points by logL.
//   - FINALIZING: fold each remaining point into the evidence and emit it.
//
// ctx is checked once per iteration; cancellation returns ctx.Err()
// wrapped with the iteration number. Samples already written stay written.
//
// Errors:
//   - ErrPrecondition, ErrAllocation, ErrDimensionMismatch,
//     ErrNumericalInstability, ErrIO, ErrStalled, ErrDegeneratePopulation.
func (s *Sampler) Run(ctx context.Context, live *params.LiveSet, sink Sink) (*Result, error) {
	start := time.Now()
	st, err := s.initialize(live, sink)
	if err != nil {
		return nil, err
	}

	st.enter(Iterating)
	if err = st.iterate(ctx); err != nil {
		return nil, err
	}

	st.enter(Sorting)
	live.SortAscending()

	st.enter(Finalizing)
	if err = st.finalize(); err != nil {
		return nil, err
	}

	proposals, accepted := st.stepper.Totals()
	res := &Result{
		LogZ:           st.logZ,
		LogZNoise:      st.logZNoise,
		LogBayes:       st.logZ - st.logZNoise,
		LogLMax:        st.logLMax,
		Information:    st.info,
		Iterations:     st.iter,
		RunLogZ:        st.acc.runLogZ(),
		RunLogZStd:     st.acc.spread(),
		Proposals:      proposals,
		Accepted:       accepted,
		AcceptanceRate: rate(accepted, proposals),
		PDRetries:      st.pdRetries,
		StallRetries:   st.stallRetries,
		Seed:           st.opts.Seed,
		Duration:       time.Since(start),
	}
	st.opts.Metrics.observeRun(st.opts.RunLabel, res.Duration, res.LogZ)

	st.enter(Done)
	st.log.Info("nested sampling complete",
		zap.Float64("logZ", res.LogZ),
		zap.Float64("logZnoise", res.LogZNoise),
		zap.Float64("logB", res.LogBayes),
		zap.Float64("logLmax", res.LogLMax),
		zap.Float64("H", res.Information),
		zap.Int("iterations", res.Iterations),
		zap.Float64("accept", res.AcceptanceRate),
		zap.Duration("duration", res.Duration))

	return res, nil
}

func (s *Sampler) initialize(live *params.LiveSet, sink Sink) (*runState, error) {
	o := s.opts
	if o.Seed == 0 {
		o.Seed = rng.DefaultSeed
	}
	st := &runState{
		opts: o,
		log:  o.Logger.With(zap.String("run", o.RunLabel), zap.Int64("seed", o.Seed)),
		live: live,
		sink: sink,
	}
	st.enter(Initializing)

	if live == nil {
		return nil, preconditionf("Run: nil live set")
	}
	if live.Layout() != s.layout {
		return nil, preconditionf("Run: live set layout differs from sampler layout")
	}
	if live.Len() != o.Nlive {
		return nil, preconditionf("Run: live set holds %d points, Nlive=%d", live.Len(), o.Nlive)
	}
	for i := 0; i < live.Len(); i++ {
		if l := live.LogL(i); math.IsNaN(l) || math.IsInf(l, 0) {
			return nil, preconditionf("Run: live point %d has non-finite logL %g", i, l)
		}
	}
	if st.sink == nil {
		st.sink = discard{}
	}

	var err error
	st.engine, err = proposal.NewEngine(s.layout, s.bounds, o.proposalOptions()...)
	if err != nil {
		return nil, fmt.Errorf("nested: Run: %w: %w", ErrPrecondition, err)
	}
	st.stepper, err = NewStepper(st.engine, s.like, s.prior, live, o.Nmcmc, o.stepBudget())
	if err != nil {
		return nil, err
	}
	if err = st.refreshCovariance(); err != nil {
		return nil, err
	}

	st.r = rng.FromSeed(o.Seed)
	st.acc = newAccumulator(o.Nruns, o.Nlive)
	st.clone = params.NewPoint(s.layout)
	st.logw = InitialLogW(o.Nlive)
	st.logZ = math.Inf(-1)
	st.deltaZ = math.Inf(1)
	st.logLMax = live.MaxLogL()
	if nl, ok := s.like.(NullLikelihood); ok {
		st.logZNoise = nl.NullLogLikelihood()
	}

	return st, nil
}

func (st *runState) enter(state State) {
	st.log.Info("nested state", zap.Stringer("state", state), zap.Int("iteration", st.iter))
}

// refreshCovariance re-estimates the live-point covariance and hands it to
// the engine.
func (st *runState) refreshCovariance() error {
	cov, err := covariance.Estimate(st.live, st.cov)
	if err != nil {
		return fmt.Errorf("nested: covariance at iteration %d: %w", st.iter, err)
	}
	st.cov = cov
	retries, err := st.engine.SetCovariance(cov)
	st.pdRetries += retries
	st.opts.Metrics.observePDRetries(st.opts.RunLabel, retries)
	if err != nil {
		return fmt.Errorf("nested: covariance at iteration %d: %w", st.iter, err)
	}

	return nil
}

func (st *runState) iterate(ctx context.Context) error {
	o := st.opts
	n := o.Nlive
	refresh := max(1, n/4)

	for st.iter < n || st.deltaZ > o.Tolerance {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("nested: iteration %d: %w", st.iter, err)
		}
		minIdx := st.live.MinIndex()
		logLmin := st.live.LogL(minIdx)

		st.acc.retire(logLmin)
		st.logZ = st.acc.meanLogZ()
		st.info = st.acc.meanInfo()
		if err := st.sink.WriteSample(st.live.Row(minIdx), logLmin); err != nil {
			return fmt.Errorf("nested: write sample at iteration %d: %w: %w", st.iter, ErrIO, err)
		}

		p0, a0 := st.stepper.Totals()
		newL, accept, stalls, err := st.replace(minIdx, logLmin)
		st.stallRetries += stalls
		if err != nil {
			return fmt.Errorf("nested: replace at iteration %d: %w", st.iter, err)
		}
		if err = st.live.Load(minIdx, st.clone, newL); err != nil {
			return err
		}
		if newL > st.logLMax {
			st.logLMax = newL
		}

		st.acc.shrink(st.r, n)
		st.logw = st.acc.meanLogW()
		st.deltaZ = DeltaLogZ(st.logZ, st.logLMax, st.iter, n)

		st.progress(accept, logLmin, newL)
		p1, a1 := st.stepper.Totals()
		o.Metrics.observeIteration(o.RunLabel, iterationSample{
			proposals:    p1 - p0,
			accepted:     a1 - a0,
			stallRetries: stalls,
			logZ:         st.logZ,
			deltaZ:       st.deltaZ,
			logLMax:      st.logLMax,
			info:         st.info,
		})

		if st.iter%o.FlushEvery == 0 {
			if err = st.sink.Flush(); err != nil {
				return fmt.Errorf("nested: flush at iteration %d: %w: %w", st.iter, ErrIO, err)
			}
		}
		st.iter++

		if st.iter%refresh == 0 {
			if err = st.refreshCovariance(); err != nil {
				return err
			}
		}
	}

	return nil
}

// replace clones a uniformly chosen live point other than minIdx into
// st.clone and evolves it above logLmin. A walk that accepted nothing is
// restarted from a fresh clone, at most MaxStallRetries times.
func (st *runState) replace(minIdx int, logLmin float64) (newL, accept float64, stalls int, err error) {
	n := st.live.Len()
	for stalls = 0; stalls < st.opts.MaxStallRetries; stalls++ {
		j := minIdx
		for j == minIdx {
			j = st.r.IntN(n)
		}
		if err = st.live.CopyTo(j, st.clone); err != nil {
			return 0, 0, stalls, err
		}
		newL, accept, err = st.stepper.Step(st.r, st.clone, st.live.LogL(j), logLmin)
		if err != nil {
			return 0, 0, stalls, err
		}
		if newL > logLmin && accept > 0 {
			return newL, accept, stalls, nil
		}
	}

	return 0, 0, stalls, fmt.Errorf("nested: %d replacements accepted nothing above %g: %w", stalls, logLmin, ErrStalled)
}

// progress emits the per-iteration diagnostic line at Debug level.
func (st *runState) progress(accept, logLmin, newL float64) {
	if ce := st.log.Check(zap.DebugLevel, "nested iteration"); ce != nil {
		pct := 0.0
		if st.info > 0 {
			pct = 100 * float64(st.iter) / (float64(st.opts.Nlive) * st.info)
		}
		ce.Write(
			zap.Int("iteration", st.iter),
			zap.Float64("progress_pct", pct),
			zap.Float64("accept", accept),
			zap.Float64("H_nats", st.info),
			zap.Float64("H_bits", st.info/math.Ln2),
			zap.Float64("logLmin", logLmin),
			zap.Float64("logLnew", newL),
			zap.Float64("logZ", st.logZ),
			zap.Float64("dZ", st.deltaZ),
			zap.Float64("Zratio_dB", dBPerNat*(st.logZ-st.logZNoise)),
		)
	}
}

// finalize folds the sorted live points into the evidence and emits them.
func (st *runState) finalize() error {
	n := st.live.Len()
	for i := 0; i < n; i++ {
		l := st.live.LogL(i)
		st.logZ = LogAdd(st.logZ, l+st.logw)
		st.acc.fold(st.r, n, l)
		if err := st.sink.WriteSample(st.live.Row(i), l); err != nil {
			return fmt.Errorf("nested: write final point %d: %w: %w", i, ErrIO, err)
		}
	}
	if err := st.sink.Flush(); err != nil {
		return fmt.Errorf("nested: final flush: %w: %w", ErrIO, err)
	}

	return nil
}

type discard struct{}

func (discard) WriteSample([]float64, float64) error { return nil }
func (discard) Flush() error                         { return nil }
