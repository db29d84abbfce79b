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

package varmodel

// Support describes the extent of a region along one axis.
// The contribution is 1 at Peak, falls linearly to 0 at Start and End,
// and is 0 outside [Start, End].
type Support struct {
	Start, Peak, End float64
}

// Region is a sub-region of the design space, given by one Support per axis.
// The entries are aligned with the axis list of the font.
type Region []Support

// Scalar returns the weight of the region at the given location.
//
// Axes with a zero peak do not restrict the region.  Support triples which
// are not ordered, or which cross zero, are ignored as well.
func (r Region) Scalar(loc Normalized) float64 {
	scalar := 1.0
	for i, s := range r {
		if s.Peak == 0 {
			continue
		}
		if s.Start > s.Peak || s.Peak > s.End {
			continue
		}
		if s.Start < 0 && s.End > 0 {
			continue
		}

		var v float64
		if i < len(loc) {
			v = loc[i]
		}
		if v == s.Peak {
			continue
		}
		if v <= s.Start || s.End <= v {
			return 0
		}
		if v < s.Peak {
			scalar *= (v - s.Start) / (s.Peak - s.Start)
		} else {
			scalar *= (v - s.End) / (s.Peak - s.End)
		}
	}
	return scalar
}

// PeakRegion returns the region implied by a peak tuple alone: along each
// axis the support runs from the peak to zero.
func PeakRegion(peak []float64) Region {
	r := make(Region, len(peak))
	for i, p := range peak {
		r[i] = Support{Start: min(p, 0), Peak: p, End: max(p, 0)}
	}
	return r
}

// IntermediateRegion returns the region given by explicit start, peak and
// end tuples.
func IntermediateRegion(start, peak, end []float64) Region {
	r := make(Region, len(peak))
	for i := range peak {
		r[i] = Support{Start: start[i], Peak: peak[i], End: end[i]}
	}
	return r
}
