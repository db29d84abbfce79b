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

// Package avar reads the "avar" table, which modifies the normalization of
// axis values by a piecewise linear segment map per axis.
// https://learn.microsoft.com/en-us/typography/opentype/spec/avar
package avar

import (
	"fmt"
	"math"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/parser"
	"seehuhn.de/go/instancer/varmodel"
)

// Info contains the segment maps of the "avar" table, indexed by axis tag.
// Axes without an entry use the identity map.
type Info map[string][]varmodel.Breakpoint

// Decode reads an "avar" table.  The axis tags must be given in the order
// of the "fvar" table.
func Decode(data []byte, axisTags []string) (Info, error) {
	p := parser.New("avar", data)

	major, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if major != 1 {
		// version 2 adds an ItemVariationStore for the axes themselves
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/avar",
			Feature:   fmt.Sprintf("table version %d", major),
		}
	}
	err = p.Discard(4) // minor version, reserved
	if err != nil {
		return nil, err
	}
	axisCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if int(axisCount) != len(axisTags) {
		return nil, p.Error("axis count %d does not match fvar (%d)",
			axisCount, len(axisTags))
	}

	info := make(Info)
	for _, tag := range axisTags {
		count, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		var bp []varmodel.Breakpoint
		for j := 0; j < int(count); j++ {
			from, err := p.ReadF2Dot14()
			if err != nil {
				return nil, err
			}
			to, err := p.ReadF2Dot14()
			if err != nil {
				return nil, err
			}
			if len(bp) > 0 && from < bp[len(bp)-1].From {
				return nil, p.Error("segment map for %q is not sorted", tag)
			}
			bp = append(bp, varmodel.Breakpoint{From: from, To: to})
		}
		if len(bp) > 0 {
			info[tag] = bp
		}
	}
	return info, nil
}

// Encode returns the binary form of an "avar" table for the given axes.
func (info Info) Encode(axisTags []string) []byte {
	n := len(axisTags)
	res := []byte{0, 1, 0, 0, 0, 0, byte(n >> 8), byte(n)}
	for _, tag := range axisTags {
		bp := info[tag]
		res = append(res, byte(len(bp)>>8), byte(len(bp)))
		for _, b := range bp {
			res = appendF2Dot14(res, b.From)
			res = appendF2Dot14(res, b.To)
		}
	}
	return res
}

func appendF2Dot14(buf []byte, x float64) []byte {
	v := uint16(int16(math.Round(x * 16384)))
	return append(buf, byte(v>>8), byte(v))
}
