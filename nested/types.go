// SPDX-License-Identifier: MIT

// Package nested implements a nested-sampling estimator of the Bayesian
// evidence Z = ∫ L(θ)π(θ) dθ and of the information H (KL divergence from
// prior to posterior), producing posterior samples as a side effect.
//
// A Sampler repeatedly retires the lowest-likelihood live point, folds it
// into the evidence of Nruns statistically independent accumulators, and
// replaces it by evolving a clone of another live point with a
// likelihood-constrained MCMC walk (Stepper) driven by a proposal.Engine.
//
// States:
//
//	INITIALIZING → ITERATING → SORTING → FINALIZING → DONE
//
// Termination: iterate while iter < Nlive or dZ > Tolerance, where
// dZ = logadd(logZ, Lmax − iter/Nlive) − logZ estimates the evidence still
// held by the live points.
//
// Randomness (single *rand.Rand per run, in this order per iteration):
//
//	– replacement: IntN rejection loop for the clone index (≠ retired slot);
//	– per proposal: DE pair draws, D normals, ν normals, one Float64 for the
//	  Metropolis test;
//	– per run j: Nlive Float64 draws for the prior-mass shrinkage.
//
// Complexity (per iteration):
//
//	– Time:  O(Nlive) argmin + O(Nmcmc · (D² + cost(L))) replacement
//	         + O(Nlive·D²) every max(1, Nlive/4) iterations for the covariance.
//	– Space: O(Nlive·dim + D²).
//
// Errors (sentinel):
//
//	– ErrPrecondition         invalid options, live set or initial likelihoods.
//	– ErrAllocation           covariance storage could not be obtained.
//	– ErrDimensionMismatch    covariance size inconsistent with the layout.
//	– ErrNumericalInstability proposal covariance never became positive definite.
//	– ErrIO                   the sample sink failed.
//	– ErrStalled              replacement could not beat the likelihood floor.
//	– ErrDegeneratePopulation no distinct differential-evolution pair exists.
package nested

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/nestsampler/covariance"
	"github.com/katalvlaran/nestsampler/params"
	"github.com/katalvlaran/nestsampler/proposal"
)

// Sentinel errors returned by the sampler.
var (
	// ErrPrecondition indicates missing or invalid configuration or input.
	ErrPrecondition = errors.New("nested: precondition violated")

	// ErrIO indicates the sample sink could not be written or flushed.
	ErrIO = errors.New("nested: output failure")

	// ErrStalled indicates a replacement exhausted its retry or step budget.
	ErrStalled = errors.New("nested: replacement stalled")

	// ErrAllocation aliases covariance.ErrAllocation.
	ErrAllocation = covariance.ErrAllocation

	// ErrDimensionMismatch aliases the matrix dimension sentinel.
	ErrDimensionMismatch = covariance.ErrDimensionMismatch

	// ErrNumericalInstability aliases proposal.ErrNumericalInstability.
	ErrNumericalInstability = proposal.ErrNumericalInstability

	// ErrDegeneratePopulation aliases proposal.ErrDegeneratePopulation.
	ErrDegeneratePopulation = proposal.ErrDegeneratePopulation
)

// preconditionf wraps ErrPrecondition with a formatted detail.
func preconditionf(format string, args ...any) error {
	return fmt.Errorf("nested: %s: %w", fmt.Sprintf(format, args...), ErrPrecondition)
}

// Likelihood evaluates log L(θ). Data and templates are captured by the implementation.
type Likelihood interface {
	LogLikelihood(p *params.Point) float64
}

// LikelihoodFunc adapts a function to Likelihood.
type LikelihoodFunc func(p *params.Point) float64

// LogLikelihood calls f(p).
func (f LikelihoodFunc) LogLikelihood(p *params.Point) float64 { return f(p) }

// Prior evaluates the log prior density log π(θ).
type Prior interface {
	LogPrior(p *params.Point) float64
}

// PriorFunc adapts a function to Prior.
type PriorFunc func(p *params.Point) float64

// LogPrior calls f(p).
func (f PriorFunc) LogPrior(p *params.Point) float64 { return f(p) }

// NullLikelihood is optionally implemented by a Likelihood to report the
// noise-only reference log-likelihood used for the log Bayes factor.
type NullLikelihood interface {
	NullLogLikelihood() float64
}

// Sink receives every retired point and then the sorted final live points.
type Sink interface {
	WriteSample(values []float64, logL float64) error
	Flush() error
}

// State is the driver's lifecycle stage.
type State int

const (
	Initializing State = iota
	Iterating
	Sorting
	Finalizing
	Done
)

var stateNames = [...]string{"INITIALIZING", "ITERATING", "SORTING", "FINALIZING", "DONE"}

// String returns the upper-case state name.
func (s State) String() string {
	if s < Initializing || s > Done {
		return "UNKNOWN"
	}

	return stateNames[s]
}
