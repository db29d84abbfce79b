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
	"seehuhn.de/go/instancer/sfnt/avar"
	"seehuhn.de/go/instancer/varmodel"
)

// resolveLocation converts a user space location to normalized
// coordinates: each value is normalized using the axis bounds, mapped
// through the segment map of the axis, and quantized to F2Dot14 precision.
func resolveLocation(axes []varmodel.Axis, segments avar.Info, user varmodel.Location) varmodel.Normalized {
	known := make(map[string]bool, len(axes))
	res := make(varmodel.Normalized, len(axes))
	for i, a := range axes {
		known[a.Tag] = true
		v, ok := user[a.Tag]
		if !ok {
			continue
		}
		x := varmodel.NormalizeValue(v, a.Min, a.Default, a.Max)
		x = varmodel.PiecewiseLinearMap(x, segments[a.Tag])
		res[i] = varmodel.QuantizeF2Dot14(x)
	}
	for tag := range user {
		if !known[tag] {
			tracer().Infof("ignoring unknown axis %q", tag)
		}
	}
	return res
}
