// SPDX-License-Identifier: MIT

// Package params is the named-variable store shared by every sampler stage.
//
// A Layout fixes, once per run, the ordered parameter names and each one's
// VaryType (Fixed, Linear, Circular, Output). Points own a flat value slice
// indexed by that layout; the LiveSet stores Nlive points as one row-major
// arena with a parallel log-likelihood slice, so replacing a live point is a
// row copy and never aliases another slot.
//
// Name lookups go through the layout's index map; hot loops should resolve
// indices once (Layout.Index, Layout.Varying) and then address values directly.
package params
