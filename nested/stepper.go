// SPDX-License-Identifier: MIT

package nested

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/nestsampler/params"
	"github.com/katalvlaran/nestsampler/proposal"
)

// Stepper runs the likelihood-constrained Metropolis walk that evolves a
// cloned live point above the current floor. It owns one working candidate
// and is not safe for concurrent use.
type Stepper struct {
	engine   *proposal.Engine
	like     Likelihood
	prior    Prior
	live     *params.LiveSet
	nmcmc    int
	maxSteps int
	cand     *params.Point

	proposals int
	accepted  int
}

// NewStepper binds the walk to a live set and its proposal engine.
// maxSteps caps the walk; it must be positive.
func NewStepper(engine *proposal.Engine, like Likelihood, prior Prior, live *params.LiveSet, nmcmc, maxSteps int) (*Stepper, error) {
	if engine == nil || like == nil || prior == nil || live == nil {
		return nil, preconditionf("NewStepper: nil collaborator")
	}
	if nmcmc < 1 || maxSteps < 1 {
		return nil, preconditionf("NewStepper: nmcmc=%d maxSteps=%d", nmcmc, maxSteps)
	}

	return &Stepper{
		engine:   engine,
		like:     like,
		prior:    prior,
		live:     live,
		nmcmc:    nmcmc,
		maxSteps: maxSteps,
		cand:     params.NewPoint(live.Layout()),
	}, nil
}

// Step evolves current in place and returns its final log-likelihood and
// the acceptance rate of this walk.
//
// Implementation:
//   - Stage 1: propose a candidate from current via the engine.
//   - Stage 2: Metropolis test on the prior ratio with one uniform draw;
//     a NaN prior always rejects.
//   - Stage 3: evaluate the likelihood; commit only if it is finite and
//     strictly above floor.
//   - Stage 4: after any rejection reset the candidate to current.
//
// The walk ends once at least nmcmc proposals were made and the committed
// logL exceeds floor.
//
// Errors:
//   - ErrStalled if maxSteps proposals never lifted logL above floor.
//   - proposal errors (ErrDegeneratePopulation, ErrNotReady) unchanged.
//
// Complexity: O(steps · (D² + cost(L))).
func (s *Stepper) Step(r *rand.Rand, current *params.Point, logL, floor float64) (float64, float64, error) {
	if err := s.cand.CopyFrom(current); err != nil {
		return logL, 0, err
	}
	logPriorOld := s.prior.LogPrior(current)

	var iter, accepted int
	defer func() {
		s.proposals += iter
		s.accepted += accepted
	}()

	for iter < s.nmcmc || !(logL > floor) {
		if iter >= s.maxSteps {
			if logL > floor {
				break
			}

			return logL, 0, fmt.Errorf("nested: %d MCMC steps below logL floor %g: %w", iter, floor, ErrStalled)
		}
		iter++

		if err := s.engine.Propose(r, s.live, s.cand); err != nil {
			return logL, rate(accepted, iter), err
		}
		logPriorNew := s.prior.LogPrior(s.cand)
		u := r.Float64()
		if math.IsNaN(logPriorNew) || math.Log(u) > logPriorNew-logPriorOld {
			_ = s.cand.CopyFrom(current)
			continue
		}

		candL := s.like.LogLikelihood(s.cand)
		if math.IsNaN(candL) || math.IsInf(candL, 0) || !(candL > floor) {
			_ = s.cand.CopyFrom(current)
			continue
		}
		_ = current.CopyFrom(s.cand)
		logL = candL
		logPriorOld = logPriorNew
		accepted++
	}

	return logL, rate(accepted, iter), nil
}

// Totals returns the cumulative proposal and acceptance counts.
func (s *Stepper) Totals() (proposals, accepted int) { return s.proposals, s.accepted }

func rate(accepted, iter int) float64 {
	if iter == 0 {
		return 0
	}

	return float64(accepted) / float64(iter)
}
