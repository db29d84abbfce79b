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

// Package hmtx has code for reading and writing the "hhea"/"hmtx" and
// "vhea"/"vmtx" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/hhea
// https://docs.microsoft.com/en-us/typography/opentype/spec/hmtx
package hmtx

// In a font with TrueType outlines, xMin and xMax values for each glyph are
// given in the 'glyf' table.  The advance width (“aw”) and left side bearing
// (“lsb”) can be derived from the glyph “phantom points”, which are computed
// by the TrueType rasterizer.
//
// The right side bearing is always derived using advance width and left side
// bearing values from the 'hmtx' table, plus bounding-box information in the
// glyph description:
//
//     rsb = aw - (lsb + xMax - xMin)

import (
	"seehuhn.de/go/instancer/sfnt"
)

// Metrics contains the per-glyph data of a "hmtx" or "vmtx" table.
// For "vmtx", Advance holds the advance heights and Bearing the top side
// bearings.
type Metrics struct {
	Advance []uint16
	Bearing []int16
}

// DecodeMetrics reads a "hmtx" or "vmtx" table.  The argument numLong is
// the number of full metric records, as given in the "hhea" or "vhea"
// table.
func DecodeMetrics(tableName string, data []byte, numLong, numGlyphs int) (*Metrics, error) {
	if numLong < 1 || numLong > numGlyphs || len(data) < 4*numLong+2*(numGlyphs-numLong) {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/" + tableName,
			Reason:    "table too short",
		}
	}

	m := &Metrics{
		Advance: make([]uint16, numGlyphs),
		Bearing: make([]int16, numGlyphs),
	}
	var prevAdvance uint16
	for i := 0; i < numGlyphs; i++ {
		if i < numLong {
			prevAdvance = uint16(data[0])<<8 | uint16(data[1])
			data = data[2:]
		}
		m.Advance[i] = prevAdvance
		m.Bearing[i] = int16(data[0])<<8 | int16(data[1])
		data = data[2:]
	}
	return m, nil
}

func (m *Metrics) numLong() int {
	numLong := len(m.Advance)
	for numLong > 1 && m.Advance[numLong-1] == m.Advance[numLong-2] {
		numLong--
	}
	return numLong
}

// Encode returns the binary form of the table, together with the number of
// full metric records to store in the "hhea" or "vhea" table.
func (m *Metrics) Encode() ([]byte, int) {
	numGlyphs := len(m.Advance)
	if len(m.Bearing) != numGlyphs {
		panic("bearing length mismatch")
	}
	numLong := m.numLong()

	buf := make([]byte, 0, 4*numLong+2*(numGlyphs-numLong))
	for i := 0; i < numGlyphs; i++ {
		if i < numLong {
			buf = append(buf, byte(m.Advance[i]>>8), byte(m.Advance[i]))
		}
		buf = append(buf, byte(m.Bearing[i]>>8), byte(m.Bearing[i]))
	}
	return buf, numLong
}
