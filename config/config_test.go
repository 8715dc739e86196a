// SPDX-License-Identifier: MIT

package config_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nestsampler/config"
	"github.com/katalvlaran/nestsampler/likelihood"
	"github.com/katalvlaran/nestsampler/nested"
	"github.com/katalvlaran/nestsampler/params"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

const chirpYAML = `
outfile: /tmp/chirp.dat
sampler:
  nlive: 200
  nmcmc: 50
  nruns: 2
  tolerance: 0.2
  random_seed: 9
parameters:
  - {name: amplitude, vary: linear, min: 0, max: 3}
  - {name: f0, vary: linear, min: 0.01, max: 0.1}
  - {name: f1, vary: linear, min: 0.1, max: 0.3}
  - {name: phase, vary: circular, min: 0, max: 6.283185307179586}
  - {name: epoch, vary: fixed, value: 12.5}
model:
  kind: chirp
  chirp: {samples: 64, noise: 0.5, data_seed: 3, amplitude: 1, f0: 0.05, f1: 0.2, phase: 1}
`

func TestLoad_YAMLFile(t *testing.T) {
	cfg, err := config.Load(writeFile(t, "run.yaml", chirpYAML))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/chirp.dat", cfg.Outfile)
	assert.Equal(t, 200, cfg.Sampler.Nlive)
	assert.Equal(t, 2, cfg.Sampler.Nruns)
	assert.Equal(t, nested.DefaultMaxStallRetries, cfg.Sampler.MaxStallRetries, "unset fields keep defaults")
	require.Len(t, cfg.Parameters, 5)
	assert.Equal(t, params.Circular, cfg.Parameters[3].Vary)
	assert.Equal(t, params.Fixed, cfg.Parameters[4].Vary)

	o := cfg.Options()
	assert.Equal(t, 200, o.Nlive)
	assert.Equal(t, 0.2, o.Tolerance)
	assert.Equal(t, int64(9), o.Seed)
}

func TestLoad_JSONFallback(t *testing.T) {
	body := `{"outfile": "g.dat", "sampler": {"nlive": 10, "nmcmc": 2}}`
	cfg, err := config.Load(writeFile(t, "run.json", body))
	require.NoError(t, err)
	assert.Equal(t, "g.dat", cfg.Outfile)
	assert.Equal(t, config.ModelGaussian, cfg.Model.Kind)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("NEST_NLIVE", "77")
	t.Setenv("NEST_OUTFILE", "env.dat")
	t.Setenv("NEST_SEED", "-3")
	cfg, err := config.Load(writeFile(t, "run.yaml", chirpYAML))
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.Sampler.Nlive)
	assert.Equal(t, "env.dat", cfg.Outfile)
	assert.Equal(t, int64(-3), cfg.Sampler.Seed)

	t.Setenv("NEST_NMCMC", "many")
	_, err = config.Load(writeFile(t, "run.yaml", chirpYAML))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoad_SeedKeys(t *testing.T) {
	cfg, err := config.Load(writeFile(t, "short.yaml", "outfile: s.dat\nsampler: {seed: 4}\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), cfg.Sampler.Seed, "seed is accepted as a short key")
	assert.Nil(t, cfg.Sampler.SeedAlias)

	body := `{"outfile": "s.dat", "sampler": {"seed": 4, "random_seed": 12}}`
	cfg, err = config.Load(writeFile(t, "both.json", body))
	require.NoError(t, err)
	assert.Equal(t, int64(12), cfg.Sampler.Seed, "random_seed wins")

	t.Setenv("NEST_SEED", "1")
	t.Setenv("NEST_RANDOM_SEED", "2")
	cfg, err = config.Load("", func(c *config.Config) { c.Outfile = "s.dat" })
	require.NoError(t, err)
	assert.Equal(t, int64(2), cfg.Sampler.Seed)
}

func TestLoad_EnvRetryAndFlushKnobs(t *testing.T) {
	t.Setenv("NEST_MAX_PD_RETRIES", "3")
	t.Setenv("NEST_MAX_DE_REDRAWS", "50")
	t.Setenv("NEST_FLUSH_EVERY", "7")
	cfg, err := config.Load(writeFile(t, "run.yaml", chirpYAML))
	require.NoError(t, err)

	o := cfg.Options()
	assert.Equal(t, 3, o.MaxPDRetries)
	assert.Equal(t, 50, o.MaxDERedraws)
	assert.Equal(t, 7, o.FlushEvery)

	t.Setenv("NEST_FLUSH_EVERY", "often")
	_, err = config.Load(writeFile(t, "run.yaml", chirpYAML))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	valid := config.Default()
	valid.Outfile = "x.dat"
	valid.Sampler.Nlive, valid.Sampler.Nmcmc = 20, 5
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"NoOutfile", func(c *config.Config) { c.Outfile = "" }},
		{"NliveTooSmall", func(c *config.Config) { c.Sampler.Nlive = 1 }},
		{"NoParameters", func(c *config.Config) { c.Parameters = nil }},
		{"EmptyRange", func(c *config.Config) { c.Parameters[0].Max = c.Parameters[0].Min }},
		{"MeanLength", func(c *config.Config) { c.Model.Gaussian.Mean = []float64{0} }},
		{"UnknownModel", func(c *config.Config) { c.Model.Kind = "sine" }},
		{"NoChains", func(c *config.Config) { c.Chains.Count = 0 }},
		{"OnlyFixed", func(c *config.Config) {
			c.Parameters = []config.ParameterConfig{{Name: "k", Vary: params.Fixed}}
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			c.Parameters = append([]config.ParameterConfig(nil), valid.Parameters...)
			tc.mutate(&c)
			assert.ErrorIs(t, c.Validate(), config.ErrInvalidConfig)
		})
	}
}

func TestBuild_Gaussian(t *testing.T) {
	cfg := config.Default()
	m, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, m.Layout.Names())
	assert.InDelta(t, math.Log(100), m.Prior.LogVolume(), 1e-12)
	assert.InDelta(t, -math.Log(2*math.Pi), m.Likelihood.LogLikelihood(m.Template), 1e-12)
}

func TestBuild_ChirpKeepsFixedValues(t *testing.T) {
	cfg, err := config.Load(writeFile(t, "run.yaml", chirpYAML))
	require.NoError(t, err)
	m, err := cfg.Build()
	require.NoError(t, err)

	v, err := m.Template.Get("epoch")
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)

	c, ok := m.Likelihood.(*likelihood.Chirp)
	require.True(t, ok)
	assert.Less(t, c.NullLogLikelihood(), 0.0)
	_ = cfg.SamplerOptions()
}

func TestLoad_OverridesBeatEnv(t *testing.T) {
	t.Setenv("NEST_NLIVE", "77")
	cfg, err := config.Load("", func(c *config.Config) {
		c.Outfile = "flag.dat"
		c.Sampler.Nlive = 30
		c.Sampler.Nmcmc = 4
	})
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Sampler.Nlive)
	assert.Equal(t, "flag.dat", cfg.Outfile)
}
