// SPDX-License-Identifier: MIT
// Package: nestsampler/waveform
//
// chirp.go - deterministic linear chirp template and seeded noisy data.
//
// Purpose:
//   - Produce a 1-D linear chirp (frequency sweep from F0 to F1) used as the
//     signal template of the synthetic matched-filter model.
//   - Produce reproducible noisy observations of a chirp for demos and tests.
//
// Contract:
//   - Render is pure: the same Chirp and n always give the same samples.
//   - Synthesize consumes exactly n normal draws from the given stream.
//   - O(n) time, O(n) memory. No panics. No global state.
//
// Model:
//   - fi   = F0 + (F1 − F0) * i/(n−1)   (cycles/sample)
//   - θᵢ₊₁ = θᵢ + τ * fi, θ₀ = Phase     (phase accumulator, τ=2π)
//   - yᵢ   = A * sin(θᵢ₊₁)
package waveform

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const tau = 2.0 * math.Pi

// Parameter names read by likelihood.Chirp.Template.
const (
	NameAmplitude = "amplitude"
	NameF0        = "f0"
	NameF1        = "f1"
	NamePhase     = "phase"
)

var (
	// ErrInvalidLength indicates a non-positive sample count.
	ErrInvalidLength = errors.New("waveform: sample count must be positive")

	// ErrInvalidChirp indicates a non-finite or out-of-domain chirp parameter.
	ErrInvalidChirp = errors.New("waveform: invalid chirp parameters")
)

// Chirp describes a linear frequency sweep. Frequencies are in cycles per
// sample and must lie in [0, 0.5]; Phase is the initial phase in radians.
type Chirp struct {
	Amplitude float64
	F0        float64
	F1        float64
	Phase     float64
}

// Validate reports ErrInvalidChirp for non-finite values or frequencies
// outside the Nyquist band.
func (c Chirp) Validate() error {
	for _, v := range [...]float64{c.Amplitude, c.F0, c.F1, c.Phase} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %+v", ErrInvalidChirp, c)
		}
	}
	if c.F0 < 0 || c.F0 > 0.5 || c.F1 < 0 || c.F1 > 0.5 {
		return fmt.Errorf("%w: frequency outside [0, 0.5]: %+v", ErrInvalidChirp, c)
	}

	return nil
}

// Render writes n samples of c into dst, reallocating when cap(dst) < n.
func Render(c Chirp, n int, dst []float64) ([]float64, error) {
	if n < 1 {
		return nil, ErrInvalidLength
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]

	theta := c.Phase
	var t float64
	for i := 0; i < n; i++ {
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		theta += tau * (c.F0 + (c.F1-c.F0)*t)
		dst[i] = c.Amplitude * math.Sin(theta)
	}

	return dst, nil
}

// Synthesize renders c and adds white Gaussian noise of standard deviation
// sigma drawn from r. sigma == 0 returns the clean template.
func Synthesize(c Chirp, n int, sigma float64, r *rand.Rand) ([]float64, error) {
	if !(sigma >= 0) || math.IsInf(sigma, 1) {
		return nil, fmt.Errorf("%w: noise sigma %g", ErrInvalidChirp, sigma)
	}
	out, err := Render(c, n, nil)
	if err != nil {
		return nil, err
	}
	if sigma == 0 {
		return out, nil
	}
	noise := distuv.Normal{Mu: 0, Sigma: sigma, Src: r}
	for i := range out {
		out[i] += noise.Rand()
	}

	return out, nil
}
