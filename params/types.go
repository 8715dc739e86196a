// SPDX-License-Identifier: MIT

package params

import "strings"

// VaryType classifies how the sampler may move a parameter.
type VaryType int

const (
	// Fixed parameters are never perturbed.
	Fixed VaryType = iota
	// Linear parameters live on a bounded interval with reflective edges.
	Linear
	// Circular parameters live on a bounded interval with periodic edges (angles).
	Circular
	// Output parameters are derived values carried along for the samples file.
	Output
)

var varyNames = [...]string{
	Fixed:    "fixed",
	Linear:   "linear",
	Circular: "circular",
	Output:   "output",
}

// String returns the lower-case name used in config files.
func (v VaryType) String() string {
	if v < Fixed || v > Output {
		return "unknown"
	}

	return varyNames[v]
}

// IsVarying reports whether proposals move this parameter.
func (v VaryType) IsVarying() bool { return v == Linear || v == Circular }

// ParseVaryType maps a case-insensitive name back to its VaryType.
func ParseVaryType(s string) (VaryType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range varyNames {
		if name == key {
			return VaryType(i), nil
		}
	}

	return Fixed, paramsErrorf("ParseVaryType", ErrUnknownVaryType, s)
}

// MarshalText implements encoding.TextMarshaler so VaryType reads naturally in YAML/JSON.
func (v VaryType) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *VaryType) UnmarshalText(b []byte) error {
	parsed, err := ParseVaryType(string(b))
	if err != nil {
		return err
	}
	*v = parsed

	return nil
}

// Spec declares one parameter of a layout.
type Spec struct {
	Name string
	Vary VaryType
}
