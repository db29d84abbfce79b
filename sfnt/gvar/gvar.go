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

// Package gvar reads the "gvar" table, which holds the point deltas of the
// outlines in a variable TrueType font.
// https://learn.microsoft.com/en-us/typography/opentype/spec/gvar
package gvar

import (
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/instancer/sfnt/parser"
	"seehuhn.de/go/instancer/sfnt/tuplevar"
	"seehuhn.de/go/instancer/varmodel"
)

// Delta is the displacement of one point.  Points without an explicit delta
// have Explicit set to false; their delta is inferred by interpolation.
type Delta struct {
	vec.Vec2
	Explicit bool
}

// Variation is one tuple variation of a glyph.  Deltas has one entry per
// point of the glyph, including the four phantom points.
type Variation struct {
	Region varmodel.Region
	Deltas []Delta
}

// Info contains the decoded "gvar" table.
type Info struct {
	AxisCount int

	// Glyphs is indexed by glyph ID.  Glyphs without variations have a nil
	// entry.
	Glyphs [][]Variation
}

// Decode reads a "gvar" table.
//
// The function numPoints must return the number of points of a glyph,
// including the four phantom points.  It is only called for glyphs which
// have variation data.
func Decode(data []byte, axisCount int, numPoints func(glyph.ID) (int, error)) (*Info, error) {
	p := parser.New("gvar", data)

	major, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if major != 1 {
		return nil, p.Error("unknown table version %d", major)
	}
	err = p.Discard(2)
	if err != nil {
		return nil, err
	}
	tableAxisCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if int(tableAxisCount) != axisCount {
		return nil, p.Error("axis count %d does not match fvar (%d)",
			tableAxisCount, axisCount)
	}
	sharedTupleCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	sharedTuplesOffset, err := p.ReadUint32()
	if err != nil {
		return nil, err
	}
	glyphCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	flags, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	dataArrayOffset, err := p.ReadUint32()
	if err != nil {
		return nil, err
	}

	offsets := make([]int, int(glyphCount)+1)
	for i := range offsets {
		if flags&1 != 0 {
			o, err := p.ReadUint32()
			if err != nil {
				return nil, err
			}
			offsets[i] = int(o)
		} else {
			o, err := p.ReadUint16()
			if err != nil {
				return nil, err
			}
			offsets[i] = 2 * int(o)
		}
	}

	err = p.SeekPos(int(sharedTuplesOffset))
	if err != nil {
		return nil, err
	}
	shared := make([][]float64, sharedTupleCount)
	for i := range shared {
		shared[i], err = p.ReadF2Dot14Slice(axisCount)
		if err != nil {
			return nil, err
		}
	}

	info := &Info{
		AxisCount: axisCount,
		Glyphs:    make([][]Variation, glyphCount),
	}
	for i := 0; i < int(glyphCount); i++ {
		start := int(dataArrayOffset) + offsets[i]
		end := int(dataArrayOffset) + offsets[i+1]
		if start == end {
			continue
		}
		if start > end || end > len(data) {
			return nil, p.Error("invalid variation data offsets for glyph %d", i)
		}

		n, err := numPoints(glyph.ID(i))
		if err != nil {
			return nil, err
		}
		store := &tuplevar.Store{
			Data:         data[start:end],
			TableName:    "gvar",
			AxisCount:    axisCount,
			SharedTuples: shared,
			NumPoints:    n,
			HasY:         true,
		}
		tuples, err := store.Decode()
		if err != nil {
			return nil, err
		}
		info.Glyphs[i] = expand(tuples, n)
	}
	return info, nil
}

// expand converts tuples to per-point deltas.
func expand(tuples []tuplevar.Tuple, n int) []Variation {
	res := make([]Variation, 0, len(tuples))
	for _, t := range tuples {
		deltas := make([]Delta, n)
		if t.Points == nil {
			for j := range deltas {
				deltas[j] = Delta{
					Vec2:     vec.Vec2{X: float64(t.X[j]), Y: float64(t.Y[j])},
					Explicit: true,
				}
			}
		} else {
			for k, j := range t.Points {
				// Repeated point numbers accumulate.
				deltas[j].X += float64(t.X[k])
				deltas[j].Y += float64(t.Y[k])
				deltas[j].Explicit = true
			}
		}
		res = append(res, Variation{Region: t.Region, Deltas: deltas})
	}
	return res
}

// Encode returns the binary form of a "gvar" table.  The argument glyphs
// holds the tuple variations of each glyph, indexed by glyph ID.
// Shared tuples are not used and offsets are always written in long format.
func Encode(axisCount int, glyphs [][]tuplevar.Tuple) []byte {
	n := len(glyphs)
	headerSize := 20 + 4*(n+1)

	var body []byte
	offsets := make([]int, 0, n+1)
	for _, tuples := range glyphs {
		offsets = append(offsets, len(body))
		if len(tuples) == 0 {
			continue
		}
		body = append(body, tuplevar.Encode(nil, tuples, true)...)
		if len(body)%2 != 0 {
			body = append(body, 0)
		}
	}
	offsets = append(offsets, len(body))

	res := make([]byte, 0, headerSize+len(body))
	res = append(res,
		0, 1, 0, 0,
		byte(axisCount>>8), byte(axisCount),
		0, 0, // sharedTupleCount
		byte(headerSize>>24), byte(headerSize>>16), byte(headerSize>>8), byte(headerSize),
		byte(n>>8), byte(n),
		0, 1, // flags: long offsets
		byte(headerSize>>24), byte(headerSize>>16), byte(headerSize>>8), byte(headerSize))
	for _, o := range offsets {
		res = append(res, byte(o>>24), byte(o>>16), byte(o>>8), byte(o))
	}
	res = append(res, body...)
	return res
}
