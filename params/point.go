// SPDX-License-Identifier: MIT

package params

// Point is one parameter vector. It owns its values; Clone and CopyFrom
// always copy, so two points never share storage.
type Point struct {
	layout *Layout
	vals   []float64
}

// NewPoint allocates a zero-valued point for l.
func NewPoint(l *Layout) *Point {
	return &Point{layout: l, vals: make([]float64, l.Dim())}
}

// Layout returns the shared layout.
func (p *Point) Layout() *Layout { return p.layout }

// Get returns the value of the named parameter.
func (p *Point) Get(name string) (float64, error) {
	i, ok := p.layout.index[name]
	if !ok {
		return 0, paramsErrorf("Point.Get", ErrUnknownName, name)
	}

	return p.vals[i], nil
}

// Set stores v under name.
func (p *Point) Set(name string, v float64) error {
	i, ok := p.layout.index[name]
	if !ok {
		return paramsErrorf("Point.Set", ErrUnknownName, name)
	}
	p.vals[i] = v

	return nil
}

// At returns the value at layout index i.
func (p *Point) At(i int) float64 { return p.vals[i] }

// SetAt stores v at layout index i.
func (p *Point) SetAt(i int, v float64) { p.vals[i] = v }

// Values exposes the backing slice in layout order. Writes are visible in p.
func (p *Point) Values() []float64 { return p.vals }

// Clone returns a deep copy.
func (p *Point) Clone() *Point {
	return &Point{layout: p.layout, vals: append([]float64(nil), p.vals...)}
}

// CopyFrom overwrites p's values with src's. Both must share a layout.
func (p *Point) CopyFrom(src *Point) error {
	if src.layout != p.layout {
		return paramsErrorf("Point.CopyFrom", ErrLayoutMismatch, src.layout.Dim())
	}
	copy(p.vals, src.vals)

	return nil
}
