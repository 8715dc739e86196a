// SPDX-License-Identifier: MIT

// Package covariance estimates the proposal covariance of a live-point set.
//
// Linear parameters use the population covariance (divide by Nlive).
// Circular parameters use circular statistics: the mean direction is
// atan2(mean sin, mean cos) normalised to [0, 2π), the variance is the mean
// squared shortest-path angular distance to it, and every off-diagonal entry
// that pairs a circular dimension with another dimension is zero.
//
// The matrix is D×D over the layout's varying parameters, in layout order.
package covariance

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/nestsampler/matrix"
	"github.com/katalvlaran/nestsampler/params"
)

// ErrAllocation is returned when matrix storage cannot be obtained.
var ErrAllocation = errors.New("covariance: allocation failed")

// ErrNoVarying is returned for a layout without Linear or Circular parameters.
var ErrNoVarying = errors.New("covariance: layout has no varying parameters")

// ErrDimensionMismatch is returned when a reused destination has the wrong size.
var ErrDimensionMismatch = matrix.ErrDimensionMismatch

// ResultantFloor is the mean resultant length below which the mean direction
// of a circular parameter is undefined and taken to be 0.
const ResultantFloor = 1e-12

const twoPi = 2 * math.Pi

// Estimate computes the covariance of the varying parameters of live.
//
// Implementation:
//   - Stage 1: gather the varying columns into an Nlive×D Dense.
//   - Stage 2: matrix.PopulationCovariance for the linear block.
//   - Stage 3: overwrite every circular row/column with its circular variance
//     on the diagonal and zeros elsewhere; mirror the lower triangle.
//   - Stage 4: copy into dst (allocated when nil).
//
// Errors:
//   - ErrNoVarying when D == 0.
//   - ErrAllocation when storage cannot be obtained.
//   - ErrDimensionMismatch when dst is non-nil and not D×D.
//
// Complexity:
//   - Time O(Nlive·D²), Space O(Nlive·D).
func Estimate(live *params.LiveSet, dst *matrix.Dense) (*matrix.Dense, error) {
	layout := live.Layout()
	varying := layout.Varying()
	n, d := live.Len(), len(varying)
	if d == 0 {
		return nil, ErrNoVarying
	}

	if dst != nil && (dst.Rows() != d || dst.Cols() != d) {
		return nil, fmt.Errorf("covariance: dst %dx%d for %d varying: %w", dst.Rows(), dst.Cols(), d, ErrDimensionMismatch)
	}

	X, err := matrix.NewDense(n, d)
	if err != nil {
		return nil, fmt.Errorf("covariance: %v: %w", err, ErrAllocation)
	}
	var i, j int
	for i = 0; i < n; i++ {
		row := live.Row(i)
		for j = 0; j < d; j++ {
			if err = X.Set(i, j, row[varying[j]]); err != nil {
				return nil, fmt.Errorf("covariance: live slot %d: %w", i, err)
			}
		}
	}

	raw, _, err := matrix.PopulationCovariance(X)
	if err != nil {
		return nil, fmt.Errorf("covariance: %w", err)
	}
	cov := raw.(*matrix.Dense)

	col := make([]float64, n)
	for j = 0; j < d; j++ {
		if layout.Vary(varying[j]) != params.Circular {
			continue
		}
		col = live.Column(varying[j], col)
		for i = 0; i < d; i++ {
			_ = cov.Set(i, j, 0)
			_ = cov.Set(j, i, 0)
		}
		if err = cov.Set(j, j, CircularVariance(col)); err != nil {
			return nil, fmt.Errorf("covariance: circular %q: %w", layout.Name(varying[j]), err)
		}
	}
	if err = matrix.MirrorLower(cov); err != nil {
		return nil, fmt.Errorf("covariance: %w", err)
	}

	if dst == nil {
		return cov, nil
	}
	if err = dst.CopyFrom(cov); err != nil {
		return nil, fmt.Errorf("covariance: %w", err)
	}

	return dst, nil
}

// CircularMean returns the mean direction of angles in [0, 2π). When the mean
// resultant length is below ResultantFloor the direction is undefined and 0
// is returned.
func CircularMean(angles []float64) float64 {
	var s, c float64
	for _, a := range angles {
		s += math.Sin(a)
		c += math.Cos(a)
	}
	n := float64(len(angles))
	s, c = s/n, c/n
	if math.Hypot(s, c) < ResultantFloor {
		return 0
	}
	m := math.Atan2(s, c)
	if m < 0 {
		m += twoPi
	}

	return m
}

// AngularDistance is the signed shortest-path difference a−b wrapped into [−π, π].
func AngularDistance(a, b float64) float64 {
	return math.Remainder(a-b, twoPi)
}

// CircularVariance is the mean squared angular distance to CircularMean.
func CircularVariance(angles []float64) float64 {
	if len(angles) == 0 {
		return 0
	}
	mean := CircularMean(angles)
	var acc, dd float64
	for _, a := range angles {
		dd = AngularDistance(a, mean)
		acc += dd * dd
	}

	return acc / float64(len(angles))
}
