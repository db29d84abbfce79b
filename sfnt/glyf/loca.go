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

package glyf

import (
	"encoding/binary"
	"fmt"

	"seehuhn.de/go/instancer/sfnt"
)

// maxShortOffset is the largest glyph offset the short loca format can
// represent.  Short offsets are stored divided by two.
const maxShortOffset = 2 * 0xFFFF

// decodeLoca returns the glyph offsets, one more than the number of
// glyphs.  Offsets must be non-decreasing and lie inside the glyf data.
func decodeLoca(enc *Encoded) ([]int, error) {
	var width int
	switch enc.LocaFormat {
	case 0:
		width = 2
	case 1:
		width = 4
	default:
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/loca",
			Feature:   fmt.Sprintf("loca table format %d", enc.LocaFormat),
		}
	}

	data := enc.LocaData
	if len(data) < 2*width || len(data)%width != 0 {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/loca",
			Reason:    "invalid table length",
		}
	}

	offs := make([]int, len(data)/width)
	prev := 0
	for i := range offs {
		var pos int
		if width == 2 {
			pos = 2 * int(binary.BigEndian.Uint16(data[2*i:]))
		} else {
			pos = int(binary.BigEndian.Uint32(data[4*i:]))
		}
		if pos < prev || pos > len(enc.GlyfData) {
			return nil, &sfnt.InvalidFontError{
				SubSystem: "sfnt/loca",
				Reason:    fmt.Sprintf("glyph %d: invalid offset %d", i, pos),
			}
		}
		offs[i] = pos
		prev = pos
	}
	return offs, nil
}

// encodeLoca chooses the short format if every offset is even and at most
// maxShortOffset.
func encodeLoca(offs []int) ([]byte, int16) {
	short := offs[len(offs)-1] <= maxShortOffset
	for _, off := range offs {
		if off%2 != 0 {
			short = false
			break
		}
	}

	if short {
		data := make([]byte, 2*len(offs))
		for i, off := range offs {
			binary.BigEndian.PutUint16(data[2*i:], uint16(off/2))
		}
		return data, 0
	}
	data := make([]byte, 4*len(offs))
	for i, off := range offs {
		binary.BigEndian.PutUint32(data[4*i:], uint32(off))
	}
	return data, 1
}
