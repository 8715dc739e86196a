// SPDX-License-Identifier: MIT

package proposal

import (
	"fmt"
	"math/rand/v2"

	"github.com/katalvlaran/nestsampler/matrix"
	"github.com/katalvlaran/nestsampler/params"
)

// Engine owns the resolved bounds and the conditioned covariance factor of
// one run. It is not safe for concurrent use.
type Engine struct {
	opts   Options
	layout *params.Layout
	ivs    []interval
	factor *matrix.Dense
}

// NewEngine resolves bounds for every varying parameter of layout.
// The engine is unusable until SetCovariance succeeds once.
func NewEngine(layout *params.Layout, b Bounds, opts ...Option) (*Engine, error) {
	o := DefaultOptions()
	for _, set := range opts {
		set(&o)
	}
	ivs, err := resolveIntervals(layout, b)
	if err != nil {
		return nil, err
	}

	return &Engine{opts: o, layout: layout, ivs: ivs}, nil
}

// Dim is the number of varying parameters, the expected covariance size.
func (e *Engine) Dim() int { return len(e.ivs) }

// Factor returns the current covariance factor (nil before SetCovariance).
func (e *Engine) Factor() *matrix.Dense { return e.factor }

// SetCovariance conditions cov (see Condition) and installs its factor.
// On error the previous factor stays in place.
// Returns the number of positive-definiteness retries used.
func (e *Engine) SetCovariance(cov *matrix.Dense) (int, error) {
	if cov == nil || cov.Rows() != len(e.ivs) || cov.Cols() != len(e.ivs) {
		return 0, fmt.Errorf("proposal: covariance for %d varying parameters: %w", len(e.ivs), ErrDimensionMismatch)
	}
	factor, retries, err := Condition(cov, e.opts)
	if err != nil {
		return retries, err
	}
	e.factor = factor

	return retries, nil
}

// Propose moves cand in place: differential evolution against live, boundary
// correction, Student-t jump on the Linear dimensions, boundary correction.
//
// Errors:
//   - ErrNotReady, ErrDegeneratePopulation, params.ErrLayoutMismatch.
func (e *Engine) Propose(r *rand.Rand, live *params.LiveSet, cand *params.Point) error {
	if e.factor == nil {
		return ErrNotReady
	}
	if cand.Layout() != e.layout || live.Layout() != e.layout {
		return fmt.Errorf("proposal: %w", params.ErrLayoutMismatch)
	}
	vals := cand.Values()

	if err := DifferentialEvolution(r, live, vals, e.opts.MaxDERedraws); err != nil {
		return err
	}
	applyBounds(vals, e.ivs)

	if err := studentT(r, e.factor, e.opts.Nu, e.ivs, vals); err != nil {
		return err
	}
	applyBounds(vals, e.ivs)

	return nil
}
