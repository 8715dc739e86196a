// SPDX-License-Identifier: MIT

package nested

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/nestsampler/proposal"
	"github.com/katalvlaran/nestsampler/rng"
)

// Default values for Options. Nlive and Nmcmc have no default.
const (
	DefaultNruns           = 1
	DefaultTolerance       = 0.1
	DefaultProposalScale   = 0.1
	DefaultMaxPDRetries    = 10
	DefaultMaxStallRetries = 100
	DefaultMaxDERedraws    = 1000
	DefaultFlushEvery      = 100
	// DefaultStepBudget multiplies Nmcmc when MaxMCMCSteps is left at zero.
	DefaultStepBudget = 1000
)

// Options configures a Sampler.
//
//	Nlive:           number of live points (required, ≥ 2).
//	Nmcmc:           minimum MCMC steps per replacement (required, ≥ 1).
//	Nruns:           parallel evidence accumulators (default 1).
//	Tolerance:       stop once dZ ≤ Tolerance and iter ≥ Nlive (default 0.1).
//	Seed:            RNG seed; 0 selects rng.DefaultSeed.
//	ProposalScale:   covariance multiplier for the Student-t jump (default 0.1).
//	MaxPDRetries:    positive-definiteness shrink attempts (default 10).
//	MaxStallRetries: replacement restarts with zero acceptance (default 100).
//	MaxMCMCSteps:    step cap per replacement; 0 means 1000·Nmcmc.
//	MaxDERedraws:    differential-evolution pair redraws (default 1000).
//	FlushEvery:      sink flush period in iterations (default 100).
//	Logger:          progress and state logging (default zap.NewNop()).
//	Metrics:         optional Prometheus collectors; nil disables metrics.
//	RunLabel:        value of the "run" metric label and logger field.
type Options struct {
	Nlive           int
	Nmcmc           int
	Nruns           int
	Tolerance       float64
	Seed            int64
	ProposalScale   float64
	MaxPDRetries    int
	MaxStallRetries int
	MaxMCMCSteps    int
	MaxDERedraws    int
	FlushEvery      int
	Logger          *zap.Logger
	Metrics         *Metrics
	RunLabel        string
}

// Option represents a functional option for configuring a Sampler.
type Option func(*Options)

// DefaultOptions returns the documented defaults with Nlive and Nmcmc unset.
func DefaultOptions() Options {
	return Options{
		Nruns:           DefaultNruns,
		Tolerance:       DefaultTolerance,
		Seed:            rng.DefaultSeed,
		ProposalScale:   DefaultProposalScale,
		MaxPDRetries:    DefaultMaxPDRetries,
		MaxStallRetries: DefaultMaxStallRetries,
		MaxDERedraws:    DefaultMaxDERedraws,
		FlushEvery:      DefaultFlushEvery,
		Logger:          zap.NewNop(),
		RunLabel:        "0",
	}
}

// WithNlive sets the live-point count. Panics if n < 2.
func WithNlive(n int) Option {
	return func(o *Options) {
		if n < 2 {
			panic("nested: WithNlive requires n >= 2")
		}
		o.Nlive = n
	}
}

// WithNmcmc sets the minimum MCMC steps per replacement. Panics if n < 1.
func WithNmcmc(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("nested: WithNmcmc requires n >= 1")
		}
		o.Nmcmc = n
	}
}

// WithNruns sets the number of evidence accumulators. Panics if n < 1.
func WithNruns(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("nested: WithNruns requires n >= 1")
		}
		o.Nruns = n
	}
}

// WithTolerance sets the dZ termination threshold. Panics if tol ≤ 0.
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if !(tol > 0) {
			panic("nested: WithTolerance requires tol > 0")
		}
		o.Tolerance = tol
	}
}

// WithSeed sets the RNG seed.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithProposalScale sets the Student-t covariance multiplier. Panics if s ≤ 0.
func WithProposalScale(s float64) Option {
	return func(o *Options) {
		if !(s > 0) {
			panic("nested: WithProposalScale requires s > 0")
		}
		o.ProposalScale = s
	}
}

// WithMaxStallRetries bounds replacement restarts. Panics if n < 1.
func WithMaxStallRetries(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("nested: WithMaxStallRetries requires n >= 1")
		}
		o.MaxStallRetries = n
	}
}

// WithMaxMCMCSteps caps MCMC steps per replacement. Panics if n < 0.
func WithMaxMCMCSteps(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic("nested: WithMaxMCMCSteps requires n >= 0")
		}
		o.MaxMCMCSteps = n
	}
}

// WithMaxPDRetries bounds covariance positive-definiteness recovery. Panics if n < 0.
func WithMaxPDRetries(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic("nested: WithMaxPDRetries requires n >= 0")
		}
		o.MaxPDRetries = n
	}
}

// WithMaxDERedraws bounds differential-evolution pair redraws. Panics if n < 1.
func WithMaxDERedraws(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("nested: WithMaxDERedraws requires n >= 1")
		}
		o.MaxDERedraws = n
	}
}

// WithFlushEvery sets the sink flush period. Panics if n < 1.
func WithFlushEvery(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("nested: WithFlushEvery requires n >= 1")
		}
		o.FlushEvery = n
	}
}

// WithLogger routes progress and state logging to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithRunLabel names the run in logs and metrics.
func WithRunLabel(label string) Option {
	return func(o *Options) { o.RunLabel = label }
}

// Validate checks the options once, before any sampling starts.
func (o Options) Validate() error {
	switch {
	case o.Nlive < 2:
		return preconditionf("Nlive=%d must be >= 2", o.Nlive)
	case o.Nmcmc < 1:
		return preconditionf("Nmcmc=%d must be >= 1", o.Nmcmc)
	case o.Nruns < 1:
		return preconditionf("Nruns=%d must be >= 1", o.Nruns)
	case !(o.Tolerance > 0):
		return preconditionf("Tolerance=%g must be > 0", o.Tolerance)
	case !(o.ProposalScale > 0):
		return preconditionf("ProposalScale=%g must be > 0", o.ProposalScale)
	case o.MaxPDRetries < 0:
		return preconditionf("MaxPDRetries=%d must be >= 0", o.MaxPDRetries)
	case o.MaxStallRetries < 1:
		return preconditionf("MaxStallRetries=%d must be >= 1", o.MaxStallRetries)
	case o.MaxMCMCSteps < 0:
		return preconditionf("MaxMCMCSteps=%d must be >= 0", o.MaxMCMCSteps)
	case o.MaxDERedraws < 1:
		return preconditionf("MaxDERedraws=%d must be >= 1", o.MaxDERedraws)
	case o.FlushEvery < 1:
		return preconditionf("FlushEvery=%d must be >= 1", o.FlushEvery)
	}

	return nil
}

// stepBudget resolves the per-replacement MCMC cap.
func (o Options) stepBudget() int {
	if o.MaxMCMCSteps > 0 {
		return o.MaxMCMCSteps
	}

	return DefaultStepBudget * o.Nmcmc
}

// proposalOptions projects the sampler options onto the proposal engine.
func (o Options) proposalOptions() []proposal.Option {
	return []proposal.Option{
		proposal.WithScale(o.ProposalScale),
		proposal.WithMaxPDRetries(o.MaxPDRetries),
		proposal.WithMaxDERedraws(o.MaxDERedraws),
		proposal.WithLogger(o.Logger),
	}
}
