// SPDX-License-Identifier: MIT

package params

// Layout is the immutable, shared description of a parameter vector.
// Every Point and LiveSet of a run references the same *Layout.
type Layout struct {
	specs   []Spec
	index   map[string]int
	varying []int // indices of Linear/Circular parameters, layout order
}

// NewLayout validates specs (non-empty, unique names) and builds the name index.
// Complexity: O(n).
func NewLayout(specs ...Spec) (*Layout, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyLayout
	}
	l := &Layout{
		specs: append([]Spec(nil), specs...),
		index: make(map[string]int, len(specs)),
	}
	for i, s := range specs {
		if _, dup := l.index[s.Name]; dup {
			return nil, paramsErrorf("NewLayout", ErrDuplicateName, s.Name)
		}
		if s.Vary < Fixed || s.Vary > Output {
			return nil, paramsErrorf("NewLayout", ErrUnknownVaryType, s.Name)
		}
		l.index[s.Name] = i
		if s.Vary.IsVarying() {
			l.varying = append(l.varying, i)
		}
	}

	return l, nil
}

// Dim returns the total number of parameters.
func (l *Layout) Dim() int { return len(l.specs) }

// Name returns the name of parameter i.
func (l *Layout) Name(i int) string { return l.specs[i].Name }

// Vary returns the vary class of parameter i.
func (l *Layout) Vary(i int) VaryType { return l.specs[i].Vary }

// Index resolves a name to its position.
func (l *Layout) Index(name string) (int, bool) {
	i, ok := l.index[name]
	return i, ok
}

// Varying returns the indices of the Linear and Circular parameters in layout
// order. The slice is shared; callers must not modify it.
func (l *Layout) Varying() []int { return l.varying }

// NumVarying is len(Varying()), the dimension D of the proposal covariance.
func (l *Layout) NumVarying() int { return len(l.varying) }

// Names returns a copy of the parameter names in layout order.
func (l *Layout) Names() []string {
	out := make([]string, len(l.specs))
	for i, s := range l.specs {
		out[i] = s.Name
	}

	return out
}

// Specs returns a copy of the layout's specs.
func (l *Layout) Specs() []Spec { return append([]Spec(nil), l.specs...) }
