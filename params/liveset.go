// SPDX-License-Identifier: MIT

package params

import "math"

// LiveSet is the fixed-size population of live points.
//
// Storage is one row-major arena (row i at vals[i*dim:(i+1)*dim]) plus a
// parallel logL slice; Len never changes after construction and every row
// always has a matching logL entry.
type LiveSet struct {
	layout *Layout
	n, dim int
	vals   []float64
	logL   []float64
}

// NewLiveSet allocates n zero rows for layout l. n must be at least 2 so
// that a replacement can always clone a different live point.
func NewLiveSet(l *Layout, n int) (*LiveSet, error) {
	if n < 2 {
		return nil, paramsErrorf("NewLiveSet", ErrLiveSetSize, n)
	}
	dim := l.Dim()

	return &LiveSet{
		layout: l,
		n:      n,
		dim:    dim,
		vals:   make([]float64, n*dim),
		logL:   make([]float64, n),
	}, nil
}

// Layout returns the shared layout.
func (s *LiveSet) Layout() *Layout { return s.layout }

// Len is Nlive.
func (s *LiveSet) Len() int { return s.n }

// Row returns a view of slot i's values. Writes are visible in the set.
func (s *LiveSet) Row(i int) []float64 { return s.vals[i*s.dim : (i+1)*s.dim] }

// LogL returns slot i's log-likelihood.
func (s *LiveSet) LogL(i int) float64 { return s.logL[i] }

// SetLogL stores slot i's log-likelihood.
func (s *LiveSet) SetLogL(i int, v float64) { s.logL[i] = v }

// Load copies p and its log-likelihood into slot i.
func (s *LiveSet) Load(i int, p *Point, logL float64) error {
	if i < 0 || i >= s.n {
		return paramsErrorf("LiveSet.Load", ErrIndexOutOfRange, i)
	}
	if p.layout != s.layout {
		return paramsErrorf("LiveSet.Load", ErrLayoutMismatch, i)
	}
	copy(s.Row(i), p.vals)
	s.logL[i] = logL

	return nil
}

// CopyTo copies slot i's values into p.
func (s *LiveSet) CopyTo(i int, p *Point) error {
	if i < 0 || i >= s.n {
		return paramsErrorf("LiveSet.CopyTo", ErrIndexOutOfRange, i)
	}
	if p.layout != s.layout {
		return paramsErrorf("LiveSet.CopyTo", ErrLayoutMismatch, i)
	}
	copy(p.vals, s.Row(i))

	return nil
}

// Point returns a fresh copy of slot i.
func (s *LiveSet) Point(i int) *Point {
	p := NewPoint(s.layout)
	copy(p.vals, s.Row(i))

	return p
}

// MinIndex returns the slot with the smallest logL; ties go to the lowest index.
func (s *LiveSet) MinIndex() int {
	best := 0
	for i := 1; i < s.n; i++ {
		if s.logL[i] < s.logL[best] {
			best = i
		}
	}

	return best
}

// MaxLogL returns the largest logL in the set.
func (s *LiveSet) MaxLogL() float64 {
	m := math.Inf(-1)
	for _, v := range s.logL {
		if v > m {
			m = v
		}
	}

	return m
}

// Swap exchanges slots i and j (values and logL).
func (s *LiveSet) Swap(i, j int) {
	if i == j {
		return
	}
	ri, rj := s.Row(i), s.Row(j)
	for k := 0; k < s.dim; k++ {
		ri[k], rj[k] = rj[k], ri[k]
	}
	s.logL[i], s.logL[j] = s.logL[j], s.logL[i]
}

// SortAscending orders the slots by increasing logL with a selection sort:
// for each position the first-found minimum of the remainder is swapped in.
// Complexity: O(n^2) comparisons, at most n-1 swaps.
func (s *LiveSet) SortAscending() {
	var i, j, lo int
	for i = 0; i < s.n-1; i++ {
		lo = i
		for j = i + 1; j < s.n; j++ {
			if s.logL[j] < s.logL[lo] {
				lo = j
			}
		}
		s.Swap(i, lo)
	}
}

// Column copies the values of layout index k across all slots into dst
// (allocated when nil or too short) and returns it.
func (s *LiveSet) Column(k int, dst []float64) []float64 {
	if cap(dst) < s.n {
		dst = make([]float64, s.n)
	}
	dst = dst[:s.n]
	for i := 0; i < s.n; i++ {
		dst[i] = s.vals[i*s.dim+k]
	}

	return dst
}
