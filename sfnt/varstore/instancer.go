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

package varstore

import (
	"fmt"
	"math"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/varmodel"
)

// Instancer evaluates the deltas of a Store at a fixed location.
// The region scalars are computed once, when the Instancer is created.
type Instancer struct {
	store   *Store
	scalars []float64
}

// NewInstancer returns an Instancer for the given location.
func NewInstancer(s *Store, loc varmodel.Normalized) *Instancer {
	scalars := make([]float64, len(s.Regions))
	for i, r := range s.Regions {
		scalars[i] = r.Scalar(loc)
	}
	return &Instancer{store: s, scalars: scalars}
}

// NumRegions returns the number of regions referenced by the item variation
// data subtable with index vsindex.
func (in *Instancer) NumRegions(vsindex int) (int, error) {
	if vsindex < 0 || vsindex >= len(in.store.Data) {
		return 0, errVSIndex(vsindex)
	}
	return len(in.store.Data[vsindex].RegionIndices), nil
}

// Interpolate returns the weighted sum of the given deltas, one per region
// of the item variation data subtable with index vsindex.  The result is
// not rounded.
func (in *Instancer) Interpolate(vsindex int, deltas []float64) (float64, error) {
	if vsindex < 0 || vsindex >= len(in.store.Data) {
		return 0, errVSIndex(vsindex)
	}
	regions := in.store.Data[vsindex].RegionIndices
	if len(deltas) != len(regions) {
		return 0, &sfnt.InvalidFontError{
			SubSystem: "sfnt/varstore",
			Reason: fmt.Sprintf("got %d deltas for %d regions",
				len(deltas), len(regions)),
		}
	}
	var sum float64
	for k, d := range deltas {
		sum += in.scalars[regions[k]] * d
	}
	return sum, nil
}

// Value returns the interpolated delta for the variation index
// outer<<16 | inner.  The value for NoVariation is 0.
func (in *Instancer) Value(varIdx uint32) (float64, error) {
	if varIdx == NoVariation {
		return 0, nil
	}
	outer := int(varIdx >> 16)
	inner := int(varIdx & 0xFFFF)
	if outer >= len(in.store.Data) || inner >= len(in.store.Data[outer].Deltas) {
		return 0, &sfnt.InvalidFontError{
			SubSystem: "sfnt/varstore",
			Reason:    fmt.Sprintf("variation index %d/%d out of range", outer, inner),
		}
	}
	d := in.store.Data[outer]
	var sum float64
	for k, delta := range d.Deltas[inner] {
		sum += in.scalars[d.RegionIndices[k]] * float64(delta)
	}
	return sum, nil
}

func errVSIndex(vsindex int) error {
	return &sfnt.InvalidFontError{
		SubSystem: "sfnt/varstore",
		Reason:    fmt.Sprintf("invalid vsindex %d", vsindex),
	}
}

func appendF2Dot14(buf []byte, x float64) []byte {
	v := uint16(int16(math.Round(x * 16384)))
	return append(buf, byte(v>>8), byte(v))
}
