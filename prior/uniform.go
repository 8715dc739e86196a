// SPDX-License-Identifier: MIT

// Package prior provides a uniform box prior over a parameter layout,
// the bounds lookup used by the proposal engine, and the initial live-set
// draw that nested sampling requires before it starts.
package prior

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/nestsampler/params"
)

var (
	// ErrUnknownParameter indicates a range for a name absent from the layout.
	ErrUnknownParameter = errors.New("prior: unknown parameter")

	// ErrInvalidRange indicates a non-finite or empty [min, max].
	ErrInvalidRange = errors.New("prior: invalid range")

	// ErrMissingRange indicates a varying parameter without a range.
	ErrMissingRange = errors.New("prior: varying parameter has no range")

	// ErrNonFiniteLikelihood indicates repeated prior draws all gave a
	// non-finite likelihood.
	ErrNonFiniteLikelihood = errors.New("prior: non-finite likelihood for every draw")
)

// MaxDrawsPerPoint bounds redraws of one live point whose likelihood is not finite.
const MaxDrawsPerPoint = 100

// Range is a closed prior interval.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Width is Max − Min.
func (r Range) Width() float64 { return r.Max - r.Min }

// Likelihood is the evaluation Populate needs; nested.Likelihood satisfies it.
type Likelihood interface {
	LogLikelihood(p *params.Point) float64
}

// Uniform is a product of independent uniform densities on the varying
// parameters of a layout. Fixed and Output parameters do not enter it.
type Uniform struct {
	layout     *params.Layout
	ranges     []Range
	has        []bool
	logDensity float64
}

// NewUniform builds the prior from named ranges. Every varying parameter
// needs a range; ranges on Fixed or Output parameters are kept for MinMax
// but carry no density.
func NewUniform(layout *params.Layout, ranges map[string]Range) (*Uniform, error) {
	u := &Uniform{
		layout: layout,
		ranges: make([]Range, layout.Dim()),
		has:    make([]bool, layout.Dim()),
	}
	for name, r := range ranges {
		i, ok := layout.Index(name)
		if !ok {
			return nil, fmt.Errorf("prior: %q: %w", name, ErrUnknownParameter)
		}
		if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) || !(r.Min < r.Max) {
			return nil, fmt.Errorf("prior: %q [%g, %g]: %w", name, r.Min, r.Max, ErrInvalidRange)
		}
		u.ranges[i], u.has[i] = r, true
	}
	for _, i := range layout.Varying() {
		if !u.has[i] {
			return nil, fmt.Errorf("prior: %q: %w", layout.Name(i), ErrMissingRange)
		}
		u.logDensity -= math.Log(u.ranges[i].Width())
	}

	return u, nil
}

// Layout returns the layout the prior was built for.
func (u *Uniform) Layout() *params.Layout { return u.layout }

// MinMax implements proposal.Bounds.
func (u *Uniform) MinMax(name string) (float64, float64, error) {
	i, ok := u.layout.Index(name)
	if !ok {
		return 0, 0, fmt.Errorf("prior: %q: %w", name, ErrUnknownParameter)
	}
	if !u.has[i] {
		return 0, 0, fmt.Errorf("prior: %q: %w", name, ErrMissingRange)
	}

	return u.ranges[i].Min, u.ranges[i].Max, nil
}

// LogVolume is the log prior volume of the varying box.
func (u *Uniform) LogVolume() float64 { return -u.logDensity }

// LogPrior returns −log(volume) inside the box and −∞ outside. Circular
// parameters are half-open: a value equal to Max is outside.
func (u *Uniform) LogPrior(p *params.Point) float64 {
	for _, i := range u.layout.Varying() {
		v, r := p.At(i), u.ranges[i]
		if math.IsNaN(v) || v < r.Min || v > r.Max {
			return math.Inf(-1)
		}
		if v == r.Max && u.layout.Vary(i) == params.Circular {
			return math.Inf(-1)
		}
	}

	return u.logDensity
}

// Sample overwrites every varying parameter of p with a uniform draw,
// one Float64 per varying parameter in layout order.
func (u *Uniform) Sample(r *rand.Rand, p *params.Point) {
	for _, i := range u.layout.Varying() {
		rg := u.ranges[i]
		d := distuv.Uniform{Min: rg.Min, Max: rg.Max, Src: r}
		p.SetAt(i, d.Rand())
	}
}

// Populate fills every live slot with a prior draw and its log-likelihood.
// Non-varying values come from template (zero when nil). A draw whose
// likelihood is not finite is redrawn, at most MaxDrawsPerPoint times.
func (u *Uniform) Populate(r *rand.Rand, live *params.LiveSet, like Likelihood, template *params.Point) error {
	if live.Layout() != u.layout {
		return fmt.Errorf("prior: Populate: %w", params.ErrLayoutMismatch)
	}
	p := params.NewPoint(u.layout)
	if template != nil {
		if err := p.CopyFrom(template); err != nil {
			return fmt.Errorf("prior: Populate: %w", err)
		}
	}
	for i := 0; i < live.Len(); i++ {
		logL := math.NaN()
		for draw := 0; draw < MaxDrawsPerPoint; draw++ {
			u.Sample(r, p)
			if logL = like.LogLikelihood(p); !math.IsNaN(logL) && !math.IsInf(logL, 0) {
				break
			}
		}
		if math.IsNaN(logL) || math.IsInf(logL, 0) {
			return fmt.Errorf("prior: live point %d: %w", i, ErrNonFiniteLikelihood)
		}
		if err := live.Load(i, p, logL); err != nil {
			return err
		}
	}

	return nil
}
