// SPDX-License-Identifier: MIT

package config

import (
	"fmt"

	"github.com/katalvlaran/nestsampler/likelihood"
	"github.com/katalvlaran/nestsampler/nested"
	"github.com/katalvlaran/nestsampler/params"
	"github.com/katalvlaran/nestsampler/prior"
	"github.com/katalvlaran/nestsampler/rng"
	"github.com/katalvlaran/nestsampler/waveform"
)

// Model is everything a run needs besides the sampler options.
type Model struct {
	Layout     *params.Layout
	Prior      *prior.Uniform
	Likelihood nested.Likelihood
	// Template carries the values of fixed parameters.
	Template *params.Point
}

// Build constructs the layout, prior and likelihood described by c.
// For the chirp model the data are synthesised from the configured true
// chirp with seeded white noise.
func (c Config) Build() (*Model, error) {
	specs := make([]params.Spec, len(c.Parameters))
	ranges := make(map[string]prior.Range, len(c.Parameters))
	for i, p := range c.Parameters {
		specs[i] = params.Spec{Name: p.Name, Vary: p.Vary}
		if p.Vary.IsVarying() {
			ranges[p.Name] = prior.Range{Min: p.Min, Max: p.Max}
		}
	}
	layout, err := params.NewLayout(specs...)
	if err != nil {
		return nil, fmt.Errorf("config: layout: %w", err)
	}
	box, err := prior.NewUniform(layout, ranges)
	if err != nil {
		return nil, fmt.Errorf("config: prior: %w", err)
	}
	tmpl := params.NewPoint(layout)
	for i, p := range c.Parameters {
		if !p.Vary.IsVarying() {
			tmpl.SetAt(i, p.Value)
		}
	}

	m := &Model{Layout: layout, Prior: box, Template: tmpl}
	switch c.Model.Kind {
	case ModelGaussian:
		names := make([]string, 0, layout.NumVarying())
		for _, i := range layout.Varying() {
			names = append(names, layout.Name(i))
		}
		m.Likelihood, err = likelihood.NewIsotropicGaussian(layout, names, c.Model.Gaussian.Mean, c.Model.Gaussian.Sigma)
	case ModelChirp:
		m.Likelihood, err = c.chirp(layout)
	default:
		err = invalidf("unknown model kind %q", c.Model.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("config: model: %w", err)
	}

	return m, nil
}

func (c Config) chirp(layout *params.Layout) (*likelihood.Chirp, error) {
	cc := c.Model.Chirp
	truth := waveform.Chirp{Amplitude: cc.Amplitude, F0: cc.F0, F1: cc.F1, Phase: cc.Phase}
	data, err := waveform.Synthesize(truth, cc.Samples, cc.Noise, rng.FromSeed(cc.DataSeed))
	if err != nil {
		return nil, err
	}

	return likelihood.NewChirp(layout, data, cc.Noise)
}
