// SPDX-License-Identifier: MIT

package waveform_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/nestsampler/rng"
	"github.com/katalvlaran/nestsampler/waveform"
)

func TestRender_ConstantFrequency(t *testing.T) {
	c := waveform.Chirp{Amplitude: 2, F0: 0.25, F1: 0.25}
	out, err := waveform.Render(c, 4, nil)
	require.NoError(t, err)
	// θ advances by π/2 per sample: sin(π/2), sin(π), sin(3π/2), sin(2π).
	want := []float64{2, 0, -2, 0}
	for i := range want {
		assert.InDelta(t, want[i], out[i], 1e-12, "sample %d", i)
	}
}

func TestRender_PhaseShiftsWave(t *testing.T) {
	base := waveform.Chirp{Amplitude: 1, F0: 0.05, F1: 0.2}
	a, err := waveform.Render(base, 16, nil)
	require.NoError(t, err)
	shifted := base
	shifted.Phase = math.Pi
	b, err := waveform.Render(shifted, 16, nil)
	require.NoError(t, err)
	for i := range a {
		assert.InDelta(t, -a[i], b[i], 1e-12)
	}
}

func TestRender_ReusesBuffer(t *testing.T) {
	buf := make([]float64, 8)
	out, err := waveform.Render(waveform.Chirp{Amplitude: 1, F0: 0.1, F1: 0.1}, 8, buf)
	require.NoError(t, err)
	assert.Same(t, &buf[0], &out[0])
}

func TestRender_Errors(t *testing.T) {
	_, err := waveform.Render(waveform.Chirp{Amplitude: 1, F0: 0.1, F1: 0.1}, 0, nil)
	assert.ErrorIs(t, err, waveform.ErrInvalidLength)

	_, err = waveform.Render(waveform.Chirp{Amplitude: 1, F0: 0.6, F1: 0.1}, 8, nil)
	assert.ErrorIs(t, err, waveform.ErrInvalidChirp)

	_, err = waveform.Render(waveform.Chirp{Amplitude: math.NaN(), F0: 0.1, F1: 0.1}, 8, nil)
	assert.ErrorIs(t, err, waveform.ErrInvalidChirp)
}

func TestSynthesize_NoiseIsSeededAndScaled(t *testing.T) {
	c := waveform.Chirp{Amplitude: 0, F0: 0.1, F1: 0.1}
	a, err := waveform.Synthesize(c, 4000, 0.5, rng.FromSeed(3))
	require.NoError(t, err)
	b, err := waveform.Synthesize(c, 4000, 0.5, rng.FromSeed(3))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.InDelta(t, 0.5, stat.StdDev(a, nil), 0.03)

	_, err = waveform.Synthesize(c, 10, -1, rng.FromSeed(3))
	assert.ErrorIs(t, err, waveform.ErrInvalidChirp)
}
