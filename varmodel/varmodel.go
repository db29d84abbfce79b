// seehuhn.de/go/instancer - instantiate variable OpenType fonts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package varmodel implements the interpolation primitives of OpenType font
// variations: axis normalization, segment maps, and region scalars.
//
// https://learn.microsoft.com/en-us/typography/opentype/spec/otvaroverview
package varmodel

import (
	"math"

	"golang.org/x/exp/constraints"
)

// An Axis is a design axis of a variable font, in user space units.
type Axis struct {
	Tag     string
	Min     float64
	Default float64
	Max     float64
}

// Location is a point in design space, given in user space coordinates.
// Axes which are not mentioned are at their default value.
type Location map[string]float64

// Normalized is a point in design space, given in normalized coordinates.
// The entries are aligned with the axis list of the font and each value
// lies in the range [-1, 1].
type Normalized []float64

// IsDefault returns true if all coordinates are zero.
func (loc Normalized) IsDefault() bool {
	for _, x := range loc {
		if x != 0 {
			return false
		}
	}
	return true
}

// NormalizeValue maps a user space value to the normalized range [-1, 1].
// The value is clamped to [min, max]; min, def and max map to -1, 0 and +1.
func NormalizeValue(v, min, def, max float64) float64 {
	v = Clamp(v, min, max)
	switch {
	case v == def:
		return 0
	case v < def:
		return (v - def) / (def - min)
	default:
		return (v - def) / (max - def)
	}
}

// Breakpoint is one entry of a segment map.
type Breakpoint struct {
	From, To float64
}

// PiecewiseLinearMap maps v through the segment map given by bp.
// The breakpoints must be sorted by From.  An empty map is the identity.
// Values outside the range of the map are shifted by the offset of the
// nearest end point.
func PiecewiseLinearMap(v float64, bp []Breakpoint) float64 {
	n := len(bp)
	if n == 0 {
		return v
	}
	for _, b := range bp {
		if b.From == v {
			return b.To
		}
	}
	if v < bp[0].From {
		return v + bp[0].To - bp[0].From
	}
	if v > bp[n-1].From {
		return v + bp[n-1].To - bp[n-1].From
	}

	i := 1
	for bp[i].From < v {
		i++
	}
	a, b := bp[i-1], bp[i]
	return a.To + (b.To-a.To)*(v-a.From)/(b.From-a.From)
}

// QuantizeF2Dot14 rounds v to the nearest multiple of 1/16384.
func QuantizeF2Dot14(v float64) float64 {
	return math.Round(v*16384) / 16384
}

// Clamp restricts x to the interval [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
