// SPDX-License-Identifier: MIT

// Package likelihood provides ready-made log-likelihood models for the
// nested sampler: a multivariate Gaussian toy model and a white-noise
// matched filter against a linear chirp template, with its noise-only null.
//
// Every model is safe for concurrent use; evaluation allocates its own
// scratch space.
package likelihood

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/katalvlaran/nestsampler/params"
	"github.com/katalvlaran/nestsampler/waveform"
)

var (
	// ErrMissingParameter indicates the layout lacks a parameter the model reads.
	ErrMissingParameter = errors.New("likelihood: parameter not in layout")

	// ErrBadModel indicates inconsistent model inputs.
	ErrBadModel = errors.New("likelihood: invalid model")
)

func indices(layout *params.Layout, names []string) ([]int, error) {
	idx := make([]int, len(names))
	for k, n := range names {
		i, ok := layout.Index(n)
		if !ok {
			return nil, fmt.Errorf("likelihood: %q: %w", n, ErrMissingParameter)
		}
		idx[k] = i
	}

	return idx, nil
}

// Gaussian is a normalised multivariate normal density over named parameters.
type Gaussian struct {
	idx  []int
	dist *distmv.Normal
}

// NewGaussian builds N(mu, sigma) over the named parameters.
func NewGaussian(layout *params.Layout, names []string, mu []float64, sigma mat.Symmetric) (*Gaussian, error) {
	if len(names) == 0 || len(names) != len(mu) || sigma == nil || sigma.SymmetricDim() != len(mu) {
		return nil, fmt.Errorf("likelihood: Gaussian over %d names, %d means: %w", len(names), len(mu), ErrBadModel)
	}
	idx, err := indices(layout, names)
	if err != nil {
		return nil, err
	}
	dist, ok := distmv.NewNormal(mu, sigma, nil)
	if !ok {
		return nil, fmt.Errorf("likelihood: Gaussian covariance not positive definite: %w", ErrBadModel)
	}

	return &Gaussian{idx: idx, dist: dist}, nil
}

// NewIsotropicGaussian is N(mu, σ²I) over the named parameters.
func NewIsotropicGaussian(layout *params.Layout, names []string, mu []float64, sigma float64) (*Gaussian, error) {
	if !(sigma > 0) {
		return nil, fmt.Errorf("likelihood: sigma %g: %w", sigma, ErrBadModel)
	}
	d := len(mu)
	diag := make([]float64, d*d)
	for i := 0; i < d; i++ {
		diag[i*d+i] = sigma * sigma
	}

	return NewGaussian(layout, names, mu, mat.NewSymDense(d, diag))
}

// LogLikelihood evaluates the log density at the named coordinates of p.
func (g *Gaussian) LogLikelihood(p *params.Point) float64 {
	x := make([]float64, len(g.idx))
	for k, i := range g.idx {
		x[k] = p.At(i)
	}

	return g.dist.LogProb(x)
}

// Chirp is the white-noise Gaussian likelihood of data given a linear
// chirp template with parameters amplitude, f0, f1 and phase:
//
//	log L = −½ Σ (dᵢ − hᵢ)²/σ² − (n/2)·log(2πσ²)
//
// Parameters outside the waveform's domain give −∞.
type Chirp struct {
	idx   []int
	data  []float64
	sigma float64
	norm  float64
}

// ChirpParameters lists the parameter names a Chirp model reads.
var ChirpParameters = []string{waveform.NameAmplitude, waveform.NameF0, waveform.NameF1, waveform.NamePhase}

// NewChirp binds data with known noise level sigma. data is copied.
func NewChirp(layout *params.Layout, data []float64, sigma float64) (*Chirp, error) {
	if len(data) == 0 || !(sigma > 0) || math.IsInf(sigma, 1) {
		return nil, fmt.Errorf("likelihood: chirp with %d samples, sigma %g: %w", len(data), sigma, ErrBadModel)
	}
	idx, err := indices(layout, ChirpParameters)
	if err != nil {
		return nil, err
	}
	n := float64(len(data))

	return &Chirp{
		idx:   idx,
		data:  append([]float64(nil), data...),
		sigma: sigma,
		norm:  -0.5 * n * math.Log(2*math.Pi*sigma*sigma),
	}, nil
}

// Template reads the chirp parameters from p.
func (c *Chirp) Template(p *params.Point) waveform.Chirp {
	return waveform.Chirp{
		Amplitude: p.At(c.idx[0]),
		F0:        p.At(c.idx[1]),
		F1:        p.At(c.idx[2]),
		Phase:     p.At(c.idx[3]),
	}
}

// LogLikelihood implements nested.Likelihood.
func (c *Chirp) LogLikelihood(p *params.Point) float64 {
	h, err := waveform.Render(c.Template(p), len(c.data), nil)
	if err != nil {
		return math.Inf(-1)
	}
	d := floats.Distance(c.data, h, 2)

	return -0.5*d*d/(c.sigma*c.sigma) + c.norm
}

// NullLogLikelihood implements nested.NullLikelihood: the likelihood of
// the data as pure noise.
func (c *Chirp) NullLogLikelihood() float64 {
	d := floats.Norm(c.data, 2)

	return -0.5*d*d/(c.sigma*c.sigma) + c.norm
}
