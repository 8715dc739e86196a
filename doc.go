// SPDX-License-Identifier: MIT

// Package nestsampler estimates Bayesian evidence Z = ∫ L(θ)π(θ) dθ by
// nested sampling and produces weighted posterior samples as a side effect.
//
// What is in the module?
//
//	params/       parameter layout (Linear, Circular, Fixed, Output), points, live set
//	matrix/       dense storage, validators, Jacobi eigen, covariance, Cholesky bridge
//	covariance/   live-point covariance with circular statistics
//	proposal/     differential evolution + Student-t jumps, boundary wrap/reflect
//	nested/       evidence accumulation, constrained MCMC stepper, driver, chains
//	prior/        uniform box prior, bounds, initial population
//	likelihood/   Gaussian toy model, chirp matched filter with noise-only null
//	waveform/     deterministic linear chirp and seeded noisy data
//	output/       samples file, <outfile>_B.txt, JSON run summary
//	config/       YAML/JSON + NEST_* environment configuration
//	rng/          seeded PCG streams and derived substreams
//	cmd/nestsample  run / chains / version
//
// Quick example:
//
//	layout, _ := params.NewLayout(params.Spec{Name: "x", Vary: params.Linear})
//	like, _ := likelihood.NewIsotropicGaussian(layout, []string{"x"}, []float64{0}, 1)
//	box, _ := prior.NewUniform(layout, map[string]prior.Range{"x": {Min: -5, Max: 5}})
//	live, _ := params.NewLiveSet(layout, 100)
//	_ = box.Populate(rng.FromSeed(1), live, like, nil)
//	s, _ := nested.NewSampler(layout, like, box, box, nested.WithNlive(100), nested.WithNmcmc(20))
//	res, _ := s.Run(ctx, live, nil) // res.LogZ ≈ log(1/10)
//
// Every run is reproducible from its seed: one *rand.Rand drives all
// draws in a documented order, and chains use SplitMix64-derived seeds.
package nestsampler
