// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the numeric policy used by
// constructors and spectral kernels. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//   - Options fields are unexported; public APIs consume ...Option.

package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon defines the non-negative tolerance used by structural checks
	// (symmetry) and as the Jacobi convergence threshold.
	DefaultEpsilon = 1e-12

	// DefaultValidateNaNInf toggles strict finite-value validation on ingestion and Set.
	DefaultValidateNaNInf = true

	// DefaultEigenMaxIter caps Jacobi rotations for small matrices.
	// EigenBudget raises it with the dimension.
	DefaultEigenMaxIter = 1000

	// EigenSweepRotations is the per-n² rotation allowance used by EigenBudget.
	// One cyclic sweep is n(n-1)/2 rotations, so this allows about 40 sweeps.
	EigenSweepRotations = 20
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicMaxIterInvalid = "matrix: WithEigenMaxIter: maxIter must be > 0"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
// Constructors MUST panic only on nonsensical values (programmer error).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	eps            float64 // >= 0; DefaultEpsilon
	validateNaNInf bool    // DefaultValidateNaNInf
	eigenMaxIter   int     // > 0; DefaultEigenMaxIter
}

// Epsilon reports the resolved tolerance.
func (o Options) Epsilon() float64 { return o.eps }

// ValidateNaNInf reports whether finite-only ingestion is enabled.
func (o Options) ValidateNaNInf() bool { return o.validateNaNInf }

// EigenMaxIter reports the resolved Jacobi iteration cap.
func (o Options) EigenMaxIter() int { return o.eigenMaxIter }

// WithEpsilon sets the numeric tolerance eps used by structural checks.
// Implementation:
//   - Stage 1: validate eps is finite and ≥ 0.
//   - Stage 2: return a setter that writes eps into Options.
//
// Errors:
//   - Panics with a stable message when eps is invalid.
//
// AI-Hints:
//   - Prefer small positive eps (e.g., 1e-12) for double-precision covariances.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithValidateNaNInf enables finite-only ingestion (the default).
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf disables finite-only ingestion.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithEigenMaxIter caps the number of Jacobi rotations.
func WithEigenMaxIter(maxIter int) Option {
	if maxIter <= 0 {
		panic(panicMaxIterInvalid)
	}

	return func(o *Options) { o.eigenMaxIter = maxIter }
}

// EigenBudget returns a Jacobi rotation cap for an n×n matrix:
// max(DefaultEigenMaxIter, EigenSweepRotations·n²).
func EigenBudget(n int) int {
	return max(DefaultEigenMaxIter, EigenSweepRotations*n*n)
}

// NewMatrixOptions resolves a sequence of Option setters on top of defaults.
// Last writer wins. Complexity: O(k) for k=len(opts).
func NewMatrixOptions(opts ...Option) Options {
	return gatherOptions(opts...)
}

// defaultOptions returns the documented defaults (single source of truth).
func defaultOptions() Options {
	return Options{
		eps:            DefaultEpsilon,
		validateNaNInf: DefaultValidateNaNInf,
		eigenMaxIter:   DefaultEigenMaxIter,
	}
}

// gatherOptions applies user-provided Option setters on top of defaults.
func gatherOptions(user ...Option) Options {
	o := defaultOptions()
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}

	return o
}
