// SPDX-License-Identifier: MIT

package nested

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
)

// LogAdd returns log(e^a + e^b) without overflow. It is symmetric and has
// −∞ as identity: LogAdd(−∞, b) == b.
func LogAdd(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a < b {
		a, b = b, a
	}

	return a + math.Log1p(math.Exp(b-a))
}

// InitialLogW is log(1 − e^{−1/nlive}), the log prior mass of the first shell.
func InitialLogW(nlive int) float64 {
	return math.Log(-math.Expm1(-1 / float64(nlive)))
}

// SampleLogT draws log t where t is the largest of n uniform variates, the
// stochastic shrinkage of the enclosed prior mass. Consumes n Float64 draws.
func SampleLogT(r *rand.Rand, n int) float64 {
	var t float64
	for i := 0; i < n; i++ {
		if u := r.Float64(); u > t {
			t = u
		}
	}

	return math.Log(t)
}

// DeltaLogZ estimates the log fraction of evidence still held by the live
// points: logadd(logZ, logLmax − iter/nlive) − logZ.
func DeltaLogZ(logZ, logLmax float64, iter, nlive int) float64 {
	return LogAdd(logZ, logLmax-float64(iter)/float64(nlive)) - logZ
}

// accumulator holds the per-run evidence, information and log prior weight.
// Each run j shrinks independently; the scalar estimates are arithmetic means.
type accumulator struct {
	logZ []float64
	info []float64
	logw []float64
}

func newAccumulator(nruns, nlive int) *accumulator {
	a := &accumulator{
		logZ: make([]float64, nruns),
		info: make([]float64, nruns),
		logw: make([]float64, nruns),
	}
	w0 := InitialLogW(nlive)
	for j := range a.logZ {
		a.logZ[j] = math.Inf(-1)
		a.logw[j] = w0
	}

	return a
}

// retire folds the shell at logLmin into every run:
//
//	Z_j ← logadd(Z_j, Lmin + w_j)
//	H_j ← e^{Wt−Znew}·Lmin + e^{Zold−Znew}·(H_j + Zold) − Znew
//
// with the Zold term dropped while Zold is still −∞.
func (a *accumulator) retire(logLmin float64) {
	for j := range a.logZ {
		zOld := a.logZ[j]
		wt := a.logw[j] + logLmin
		zNew := LogAdd(zOld, wt)

		h := math.Exp(wt-zNew)*logLmin - zNew
		if !math.IsInf(zOld, -1) {
			h += math.Exp(zOld-zNew) * (a.info[j] + zOld)
		}
		a.info[j] = h
		a.logZ[j] = zNew
	}
}

// shrink applies one stochastic shrinkage per run, nlive draws each.
func (a *accumulator) shrink(r *rand.Rand, nlive int) {
	for j := range a.logw {
		a.logw[j] += SampleLogT(r, nlive)
	}
}

// fold adds a final live point to every run after a further shrinkage.
func (a *accumulator) fold(r *rand.Rand, nlive int, logL float64) {
	for j := range a.logw {
		a.logw[j] += SampleLogT(r, nlive)
		a.logZ[j] = LogAdd(a.logZ[j], logL+a.logw[j])
	}
}

func (a *accumulator) meanLogZ() float64 { return stat.Mean(a.logZ, nil) }
func (a *accumulator) meanInfo() float64 { return stat.Mean(a.info, nil) }
func (a *accumulator) meanLogW() float64 { return stat.Mean(a.logw, nil) }

// spread is the sample standard deviation of the per-run evidences, 0 for one run.
func (a *accumulator) spread() float64 {
	if len(a.logZ) < 2 {
		return 0
	}

	return stat.StdDev(a.logZ, nil)
}

func (a *accumulator) runLogZ() []float64 { return append([]float64(nil), a.logZ...) }
