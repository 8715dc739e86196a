// SPDX-License-Identifier: MIT

// Package matrix_test provides benchmarks for the kernels the sampler runs on
// every covariance refresh, using deterministic random fill.
package matrix_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/nestsampler/matrix"
)

// benchDims are the parameter counts to benchmark.
var benchDims = []int{2, 8, 32}

// sinks to defeat dead-code elimination
var (
	sinkM matrix.Matrix
	sinkF float64
)

func randomDense(b *testing.B, r, c int, seed uint64) *matrix.Dense {
	b.Helper()
	rng := rand.New(rand.NewPCG(seed, seed))
	vals := make([]float64, r*c)
	for i := range vals {
		vals[i] = rng.NormFloat64()
	}
	m, err := matrix.NewDenseFrom(r, c, vals)
	if err != nil {
		b.Fatal(err)
	}

	return m
}

func BenchmarkPopulationCovariance(b *testing.B) {
	b.ReportAllocs()
	for _, d := range benchDims {
		b.Run(fmt.Sprintf("d=%d", d), func(b *testing.B) {
			X := randomDense(b, 500, d, 7)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cov, _, err := matrix.PopulationCovariance(X)
				if err != nil {
					b.Fatal(err)
				}
				sinkM = cov
			}
		})
	}
}

func BenchmarkMinEigenvalue(b *testing.B) {
	b.ReportAllocs()
	for _, d := range benchDims {
		b.Run(fmt.Sprintf("d=%d", d), func(b *testing.B) {
			X := randomDense(b, 4*d, d, 11)
			cov, _, err := matrix.PopulationCovariance(X)
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				lo, err := matrix.MinEigenvalue(cov, matrix.WithEpsilon(1e-10))
				if err != nil {
					b.Fatal(err)
				}
				sinkF = lo
			}
		})
	}
}
