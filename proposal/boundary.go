// SPDX-License-Identifier: MIT

package proposal

import (
	"fmt"
	"math"

	"github.com/katalvlaran/nestsampler/params"
)

// interval is the resolved prior range of one varying parameter.
type interval struct {
	index    int // layout index
	min, max float64
	vary     params.VaryType
}

// resolveIntervals looks up [min, max] for every varying parameter of l.
func resolveIntervals(l *params.Layout, b Bounds) ([]interval, error) {
	varying := l.Varying()
	if len(varying) == 0 {
		return nil, ErrNoVarying
	}
	out := make([]interval, len(varying))
	for j, k := range varying {
		name := l.Name(k)
		lo, hi, err := b.MinMax(name)
		if err != nil {
			return nil, fmt.Errorf("proposal: bounds for %q: %v: %w", name, err, ErrBounds)
		}
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || !(lo < hi) {
			return nil, fmt.Errorf("proposal: bounds for %q = [%g, %g]: %w", name, lo, hi, ErrBounds)
		}
		out[j] = interval{index: k, min: lo, max: hi, vary: l.Vary(k)}
	}

	return out, nil
}

// Wrap maps v periodically into [min, max). A value at max maps to min.
// Values already in range are returned unchanged.
func Wrap(v, min, max float64) float64 {
	if v >= min && v < max {
		return v
	}
	w := max - min
	m := math.Mod(v-min, w)
	if m < 0 {
		m += w
	}
	out := min + m
	if out >= max {
		// Rounding can land exactly on max.
		out = min
	}

	return out
}

// Reflect folds v into [min, max] as if bouncing between the walls any
// number of times. Values already in range are returned unchanged.
func Reflect(v, min, max float64) float64 {
	if v >= min && v <= max {
		return v
	}
	w := max - min
	t := math.Mod(v-min, 2*w)
	if t < 0 {
		t += 2 * w
	}
	if t > w {
		t = 2*w - t
	}
	out := min + t
	if out > max {
		out = max
	} else if out < min {
		out = min
	}

	return out
}

// applyBounds corrects every varying value of vals in place.
func applyBounds(vals []float64, ivs []interval) {
	for _, iv := range ivs {
		switch iv.vary {
		case params.Circular:
			vals[iv.index] = Wrap(vals[iv.index], iv.min, iv.max)
		case params.Linear:
			vals[iv.index] = Reflect(vals[iv.index], iv.min, iv.max)
		}
	}
}
