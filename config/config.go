// SPDX-License-Identifier: MIT

// Package config loads nested-sampling run configuration from YAML or JSON
// files and NEST_* environment variables, validates it once, and turns it
// into sampler options and a ready-to-run model.
//
// Priority: overrides > environment > file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/nestsampler/nested"
	"github.com/katalvlaran/nestsampler/params"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NEST_"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Model kinds.
const (
	ModelGaussian = "gaussian"
	ModelChirp    = "chirp"
)

// Config is the full run configuration.
//
// Thread Safety: safe to read concurrently; not safe to modify after Load.
type Config struct {
	// Outfile is the samples path; the evidence and summary files derive from it.
	Outfile string `json:"outfile" yaml:"outfile"`

	// Sampler holds the nested-sampling settings.
	Sampler SamplerConfig `json:"sampler" yaml:"sampler"`

	// Parameters declares the layout in column order, with prior ranges.
	Parameters []ParameterConfig `json:"parameters" yaml:"parameters"`

	// Model selects and configures the likelihood.
	Model ModelConfig `json:"model" yaml:"model"`

	// Chains configures independent replicate runs.
	Chains ChainsConfig `json:"chains" yaml:"chains"`

	// Observability configures logging and metrics export.
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`
}

// SamplerConfig mirrors nested.Options.
type SamplerConfig struct {
	Nlive           int     `json:"nlive" yaml:"nlive"`
	Nmcmc           int     `json:"nmcmc" yaml:"nmcmc"`
	Nruns           int     `json:"nruns" yaml:"nruns"`
	Tolerance       float64 `json:"tolerance" yaml:"tolerance"`
	Seed            int64   `json:"random_seed" yaml:"random_seed"`
	ProposalScale   float64 `json:"proposal_scale" yaml:"proposal_scale"`
	MaxPDRetries    int     `json:"max_pd_retries" yaml:"max_pd_retries"`
	MaxStallRetries int     `json:"max_stall_retries" yaml:"max_stall_retries"`
	MaxMCMCSteps    int     `json:"max_mcmc_steps" yaml:"max_mcmc_steps"`
	MaxDERedraws    int     `json:"max_de_redraws" yaml:"max_de_redraws"`
	FlushEvery      int     `json:"flush_every" yaml:"flush_every"`

	// SeedAlias accepts the short key "seed". It applies only when
	// random_seed is absent from the file, and is cleared after loading.
	SeedAlias *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// ParameterConfig declares one parameter. Min and Max are required for
// linear and circular parameters; Value seeds fixed ones.
type ParameterConfig struct {
	Name  string          `json:"name" yaml:"name"`
	Vary  params.VaryType `json:"vary" yaml:"vary"`
	Min   float64         `json:"min" yaml:"min"`
	Max   float64         `json:"max" yaml:"max"`
	Value float64         `json:"value" yaml:"value"`
}

// ModelConfig selects the likelihood.
type ModelConfig struct {
	// Kind is "gaussian" or "chirp".
	Kind     string         `json:"kind" yaml:"kind"`
	Gaussian GaussianConfig `json:"gaussian" yaml:"gaussian"`
	Chirp    ChirpConfig    `json:"chirp" yaml:"chirp"`
}

// GaussianConfig is an isotropic normal over the varying parameters.
type GaussianConfig struct {
	Mean  []float64 `json:"mean" yaml:"mean"`
	Sigma float64   `json:"sigma" yaml:"sigma"`
}

// ChirpConfig generates seeded noisy data from a true chirp.
type ChirpConfig struct {
	Samples   int     `json:"samples" yaml:"samples"`
	Noise     float64 `json:"noise" yaml:"noise"`
	DataSeed  int64   `json:"data_seed" yaml:"data_seed"`
	Amplitude float64 `json:"amplitude" yaml:"amplitude"`
	F0        float64 `json:"f0" yaml:"f0"`
	F1        float64 `json:"f1" yaml:"f1"`
	Phase     float64 `json:"phase" yaml:"phase"`
}

// ChainsConfig configures RunChains.
type ChainsConfig struct {
	Count    int `json:"count" yaml:"count"`
	Parallel int `json:"parallel" yaml:"parallel"`
}

// ObservabilityConfig configures logging and the metrics textfile.
type ObservabilityConfig struct {
	LogLevel    string `json:"log_level" yaml:"log_level"`
	MetricsFile string `json:"metrics_file" yaml:"metrics_file"`
}

// Default returns a 2-D unit Gaussian on [-5, 5]² with sampler defaults.
// Outfile, Nlive and Nmcmc are left for the caller.
func Default() Config {
	return Config{
		Sampler: SamplerConfig{
			Nruns:           nested.DefaultNruns,
			Tolerance:       nested.DefaultTolerance,
			Seed:            1,
			ProposalScale:   nested.DefaultProposalScale,
			MaxPDRetries:    nested.DefaultMaxPDRetries,
			MaxStallRetries: nested.DefaultMaxStallRetries,
			MaxDERedraws:    nested.DefaultMaxDERedraws,
			FlushEvery:      nested.DefaultFlushEvery,
		},
		Parameters: []ParameterConfig{
			{Name: "x", Vary: params.Linear, Min: -5, Max: 5},
			{Name: "y", Vary: params.Linear, Min: -5, Max: 5},
		},
		Model: ModelConfig{
			Kind:     ModelGaussian,
			Gaussian: GaussianConfig{Mean: []float64{0, 0}, Sigma: 1},
			Chirp: ChirpConfig{
				Samples:   256,
				Noise:     1,
				DataSeed:  1,
				Amplitude: 1,
				F0:        0.02,
				F1:        0.25,
			},
		},
		Chains:        ChainsConfig{Count: 1},
		Observability: ObservabilityConfig{LogLevel: "info"},
	}
}

// Load merges defaults, the optional file at path, the environment and
// then overrides (command-line flags, applied in order), and validates
// the result.
func Load(path string, overrides ...func(*Config)) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	if err := loadEnv(&cfg); err != nil {
		return cfg, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	seed := cfg.Sampler.Seed
	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	if a := cfg.Sampler.SeedAlias; a != nil && cfg.Sampler.Seed == seed {
		cfg.Sampler.Seed = *a
	}
	cfg.Sampler.SeedAlias = nil

	return nil
}

// loadEnv applies NEST_* overrides. Unlike unset variables, malformed
// values are reported rather than ignored.
func loadEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}
	var firstErr error
	integer := func(key string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			i, err := strconv.Atoi(v)
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("config: %s%s=%q: %w", EnvPrefix, key, v, ErrInvalidConfig)
			}
			if err == nil {
				*dst = i
			}
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("config: %s%s=%q: %w", EnvPrefix, key, v, ErrInvalidConfig)
			}
			if err == nil {
				*dst = f
			}
		}
	}

	int64v := func(key string, dst *int64) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			i, err := strconv.ParseInt(v, 10, 64)
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("config: %s%s=%q: %w", EnvPrefix, key, v, ErrInvalidConfig)
			}
			if err == nil {
				*dst = i
			}
		}
	}

	str("OUTFILE", &cfg.Outfile)
	integer("NLIVE", &cfg.Sampler.Nlive)
	integer("NMCMC", &cfg.Sampler.Nmcmc)
	integer("NRUNS", &cfg.Sampler.Nruns)
	float("TOLERANCE", &cfg.Sampler.Tolerance)
	float("PROPOSAL_SCALE", &cfg.Sampler.ProposalScale)
	integer("MAX_PD_RETRIES", &cfg.Sampler.MaxPDRetries)
	integer("MAX_STALL_RETRIES", &cfg.Sampler.MaxStallRetries)
	integer("MAX_MCMC_STEPS", &cfg.Sampler.MaxMCMCSteps)
	integer("MAX_DE_REDRAWS", &cfg.Sampler.MaxDERedraws)
	integer("FLUSH_EVERY", &cfg.Sampler.FlushEvery)
	integer("CHAINS", &cfg.Chains.Count)
	integer("PARALLEL", &cfg.Chains.Parallel)
	str("MODEL", &cfg.Model.Kind)
	str("LOG_LEVEL", &cfg.Observability.LogLevel)
	str("METRICS_FILE", &cfg.Observability.MetricsFile)
	// RANDOM_SEED is read last so it wins over the SEED alias.
	int64v("SEED", &cfg.Sampler.Seed)
	int64v("RANDOM_SEED", &cfg.Sampler.Seed)

	return firstErr
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("config: %s: %w", fmt.Sprintf(format, args...), ErrInvalidConfig)
}

// Validate checks the configuration once; sampler fields are checked by
// nested.Options.Validate and reported as ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Outfile == "" {
		return invalidf("outfile is required")
	}
	if err := c.Options().Validate(); err != nil {
		return fmt.Errorf("config: sampler: %w: %w", ErrInvalidConfig, err)
	}
	if len(c.Parameters) == 0 {
		return invalidf("at least one parameter is required")
	}
	varying := 0
	for _, p := range c.Parameters {
		if p.Name == "" {
			return invalidf("parameter without name")
		}
		if p.Vary.IsVarying() {
			varying++
			if !(p.Min < p.Max) {
				return invalidf("parameter %q: min %g must be < max %g", p.Name, p.Min, p.Max)
			}
		}
	}
	if varying == 0 {
		return invalidf("no linear or circular parameter")
	}
	switch c.Model.Kind {
	case ModelGaussian:
		if len(c.Model.Gaussian.Mean) != varying {
			return invalidf("gaussian mean has %d entries for %d varying parameters", len(c.Model.Gaussian.Mean), varying)
		}
		if !(c.Model.Gaussian.Sigma > 0) {
			return invalidf("gaussian sigma must be > 0")
		}
	case ModelChirp:
		if c.Model.Chirp.Samples < 1 || !(c.Model.Chirp.Noise > 0) {
			return invalidf("chirp needs samples >= 1 and noise > 0")
		}
	default:
		return invalidf("unknown model kind %q", c.Model.Kind)
	}
	if c.Chains.Count < 1 || c.Chains.Parallel < 0 {
		return invalidf("chains count must be >= 1 and parallel >= 0")
	}

	return nil
}

// Options converts the sampler section into nested.Options.
// Logger and Metrics stay at their defaults.
func (c Config) Options() nested.Options {
	o := nested.DefaultOptions()
	s := c.Sampler
	o.Nlive, o.Nmcmc, o.Nruns = s.Nlive, s.Nmcmc, s.Nruns
	o.Tolerance, o.Seed, o.ProposalScale = s.Tolerance, s.Seed, s.ProposalScale
	o.MaxPDRetries, o.MaxStallRetries = s.MaxPDRetries, s.MaxStallRetries
	o.MaxMCMCSteps, o.MaxDERedraws, o.FlushEvery = s.MaxMCMCSteps, s.MaxDERedraws, s.FlushEvery

	return o
}

// SamplerOptions returns functional options for nested.NewSampler.
// Call only after Validate succeeded; the setters panic on invalid values.
func (c Config) SamplerOptions() []nested.Option {
	s := c.Sampler

	return []nested.Option{
		nested.WithNlive(s.Nlive),
		nested.WithNmcmc(s.Nmcmc),
		nested.WithNruns(s.Nruns),
		nested.WithTolerance(s.Tolerance),
		nested.WithSeed(s.Seed),
		nested.WithProposalScale(s.ProposalScale),
		nested.WithMaxPDRetries(s.MaxPDRetries),
		nested.WithMaxStallRetries(s.MaxStallRetries),
		nested.WithMaxMCMCSteps(s.MaxMCMCSteps),
		nested.WithMaxDERedraws(s.MaxDERedraws),
		nested.WithFlushEvery(s.FlushEvery),
	}
}
