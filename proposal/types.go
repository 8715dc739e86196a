// SPDX-License-Identifier: MIT

// Package proposal defines the jump kernels that move a candidate point
// inside the likelihood-constrained MCMC walk.
//
// Every proposal is a composite step in a fixed order:
//
//	1. Differential evolution: add the difference of two distinct live
//	   points to every Linear and Circular dimension; correct boundaries.
//	2. Multivariate Student-t (ν = 2): add L·z·√(ν/χ²) to the Linear
//	   dimensions, where L factors the scaled live-point covariance;
//	   correct boundaries.
//
// Boundary correction wraps Circular values into [min, max) and reflects
// Linear values into [min, max] in closed form. Fixed and Output values are
// never touched.
//
// Randomness (single *rand.Rand, in this order per proposal):
//
//	– DE pair: IntN for A, IntN rejection loop for B ≠ A (repeated on redraw).
//	– D normals for the multivariate deviate.
//	– ν normals for the χ² scale.
//
// Errors (sentinel):
//
//	– ErrNumericalInstability if the covariance stays indefinite after MaxPDRetries shrinks.
//	– ErrDegeneratePopulation if no distinct DE pair is found within MaxDERedraws.
//	– ErrBounds               if a varying parameter has no usable [min, max].
//	– ErrNoVarying            if the layout has nothing to move.
//	– ErrDimensionMismatch    if a covariance does not match the varying dimension.
//	– ErrNotReady             if Propose is called before the first SetCovariance.
package proposal

import (
	"errors"

	"go.uber.org/zap"

	"github.com/katalvlaran/nestsampler/matrix"
)

// Sentinel errors returned by the proposal engine.
var (
	// ErrNumericalInstability indicates the covariance could not be made positive definite.
	ErrNumericalInstability = errors.New("proposal: covariance not positive definite after retries")

	// ErrDegeneratePopulation indicates every drawn DE pair was identical in all varying dimensions.
	ErrDegeneratePopulation = errors.New("proposal: no distinct differential-evolution pair")

	// ErrBounds indicates a missing or inverted [min, max] for a varying parameter.
	ErrBounds = errors.New("proposal: invalid parameter bounds")

	// ErrNoVarying indicates the layout has no Linear or Circular parameters.
	ErrNoVarying = errors.New("proposal: layout has no varying parameters")

	// ErrNotReady indicates Propose ran before any covariance was installed.
	ErrNotReady = errors.New("proposal: engine has no covariance")

	// ErrDimensionMismatch indicates a covariance of the wrong size.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch
)

// Bounds resolves the prior range of a named parameter.
type Bounds interface {
	MinMax(name string) (min, max float64, err error)
}

// Options configures the proposal engine.
//
//	Scale:         multiplier applied to the live-point covariance (default 0.1).
//	Nu:            Student-t degrees of freedom (default 2).
//	MaxPDRetries:  off-diagonal shrink attempts before ErrNumericalInstability (default 10).
//	ShrinkFactor:  base f of the 0.95^k shrink schedule (default 0.95).
//	MaxDERedraws:  DE pair redraws before ErrDegeneratePopulation (default 1000).
//	EigenTolerance: relative tolerance for the Jacobi PD check (default 1e-12).
//	Logger:        receives Warn lines on PD recovery (default zap.NewNop()).
type Options struct {
	Scale          float64
	Nu             int
	MaxPDRetries   int
	ShrinkFactor   float64
	MaxDERedraws   int
	EigenTolerance float64
	Logger         *zap.Logger
}

// Option represents a functional option for configuring the engine.
type Option func(*Options)

// WithScale sets the covariance multiplier. Panics if s ≤ 0.
func WithScale(s float64) Option {
	return func(o *Options) {
		if s <= 0 {
			panic("proposal: WithScale requires s > 0")
		}
		o.Scale = s
	}
}

// WithNu sets the Student-t degrees of freedom. Panics if nu < 1.
func WithNu(nu int) Option {
	return func(o *Options) {
		if nu < 1 {
			panic("proposal: WithNu requires nu >= 1")
		}
		o.Nu = nu
	}
}

// WithMaxPDRetries bounds the positive-definiteness recovery. Panics if n < 0.
func WithMaxPDRetries(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic("proposal: WithMaxPDRetries requires n >= 0")
		}
		o.MaxPDRetries = n
	}
}

// WithMaxDERedraws bounds the differential-evolution pair redraws. Panics if n < 1.
func WithMaxDERedraws(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("proposal: WithMaxDERedraws requires n >= 1")
		}
		o.MaxDERedraws = n
	}
}

// WithLogger routes PD-recovery warnings to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Scale:          0.1,
		Nu:             2,
		MaxPDRetries:   10,
		ShrinkFactor:   0.95,
		MaxDERedraws:   1000,
		EigenTolerance: 1e-12,
		Logger:         zap.NewNop(),
	}
}
