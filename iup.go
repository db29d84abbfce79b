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

package instancer

import (
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/instancer/sfnt/gvar"
)

// inferDeltas returns the deltas for all points of a glyph.  Points without
// an explicit delta get a delta interpolated from their neighbours on the
// same contour, as described in the "gvar" documentation ("inferred deltas
// for un-referenced point numbers").  The argument ends gives the index of
// the last point of every contour and coords holds the original point
// positions.
func inferDeltas(deltas []gvar.Delta, coords []vec.Vec2, ends []int) []vec.Vec2 {
	res := make([]vec.Vec2, len(deltas))
	explicit := make([]bool, len(deltas))
	for i, d := range deltas {
		res[i] = d.Vec2
		explicit[i] = d.Explicit
	}

	start := 0
	for _, end := range ends {
		iupContour(res[start:end+1], explicit[start:end+1], coords[start:end+1])
		start = end + 1
	}
	return res
}

// iupContour fills in the missing deltas of one closed contour in place.
func iupContour(deltas []vec.Vec2, explicit []bool, coords []vec.Vec2) {
	n := len(deltas)
	var ref []int
	for i, e := range explicit {
		if e {
			ref = append(ref, i)
		}
	}
	switch len(ref) {
	case 0:
		for i := range deltas {
			deltas[i] = vec.Vec2{}
		}
		return
	case n:
		return
	}

	for k, start := range ref {
		end := ref[(k+1)%len(ref)]
		for i := (start + 1) % n; i != end; i = (i + 1) % n {
			deltas[i] = vec.Vec2{
				X: iupValue(coords[i].X, coords[start].X, coords[end].X, deltas[start].X, deltas[end].X),
				Y: iupValue(coords[i].Y, coords[start].Y, coords[end].Y, deltas[start].Y, deltas[end].Y),
			}
		}
	}
}

// iupValue interpolates the delta for a point at position x, between two
// reference points at x1 and x2 with deltas d1 and d2.
func iupValue(x, x1, x2, d1, d2 float64) float64 {
	if x1 > x2 {
		x1, x2 = x2, x1
		d1, d2 = d2, d1
	}
	switch {
	case x1 == x2:
		if d1 == d2 {
			return d1
		}
		return 0
	case x <= x1:
		return d1
	case x >= x2:
		return d2
	default:
		return d1 + (x-x1)*(d2-d1)/(x2-x1)
	}
}
