// SPDX-License-Identifier: MIT

package params

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyLayout is returned when a layout would have no parameters.
	ErrEmptyLayout = errors.New("params: layout has no parameters")

	// ErrDuplicateName is returned when two specs share a name.
	ErrDuplicateName = errors.New("params: duplicate parameter name")

	// ErrUnknownName is returned when a name is not part of the layout.
	ErrUnknownName = errors.New("params: unknown parameter name")

	// ErrUnknownVaryType is returned when parsing an unrecognized vary class.
	ErrUnknownVaryType = errors.New("params: unknown vary type")

	// ErrLayoutMismatch is returned when points from different layouts are mixed.
	ErrLayoutMismatch = errors.New("params: layout mismatch")

	// ErrIndexOutOfRange is returned for a live slot outside [0, Len()).
	ErrIndexOutOfRange = errors.New("params: index out of range")

	// ErrLiveSetSize is returned when a live set is requested with fewer than two slots.
	ErrLiveSetSize = errors.New("params: live set needs at least two points")
)

// paramsErrorf attaches an operation tag and detail while keeping the sentinel matchable.
func paramsErrorf(op string, err error, detail any) error {
	return fmt.Errorf("%s(%v): %w", op, detail, err)
}
