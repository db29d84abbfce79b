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

// Package glyf implements reading and writing the "glyf" and "loca" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/glyf
// https://docs.microsoft.com/en-us/typography/opentype/spec/loca
package glyf

import "seehuhn.de/go/sfnt/glyph"

// Glyphs contains the information from a "glyf" table.
// Empty glyphs are represented by nil.
type Glyphs []*Glyph

// Encoded contains the binary data of the "glyf" and "loca" tables.
type Encoded struct {
	GlyfData   []byte
	LocaData   []byte
	LocaFormat int16
}

// Decode converts the data from the "glyf" and "loca" tables into
// a slice of Glyphs.
func Decode(enc *Encoded) (Glyphs, error) {
	offs, err := decodeLoca(enc)
	if err != nil {
		return nil, err
	}

	numGlyphs := len(offs) - 1

	gg := make([]*Glyph, numGlyphs)
	for i := range gg {
		data := enc.GlyfData[offs[i]:offs[i+1]]
		g, err := decodeGlyph(data)
		if err != nil {
			return nil, err
		}
		gg[i] = g
	}

	return gg, nil
}

// Encode converts the Glyphs to the binary form of the "glyf" and "loca"
// tables.  Glyphs are padded to even length, and the short loca format is
// used whenever the offsets allow it.
func (gg Glyphs) Encode() *Encoded {
	n := len(gg)

	var glyfData []byte
	offs := make([]int, n+1)
	for i, g := range gg {
		glyfData = g.append(glyfData)
		if len(glyfData)%2 != 0 {
			glyfData = append(glyfData, 0)
		}
		offs[i+1] = len(glyfData)
	}
	locaData, locaFormat := encodeLoca(offs)

	return &Encoded{
		GlyfData:   glyfData,
		LocaData:   locaData,
		LocaFormat: locaFormat,
	}
}

// Depth returns the maximal composite nesting depth of each glyph.
// Simple and empty glyphs have depth 0.  Component references to
// non-existent glyphs and reference cycles are reported as errors.
func (gg Glyphs) Depth() ([]int, error) {
	const (
		unvisited = iota
		active
		done
	)
	state := make([]int, len(gg))
	depth := make([]int, len(gg))

	var visit func(gid glyph.ID) error
	visit = func(gid glyph.ID) error {
		switch state[gid] {
		case done:
			return nil
		case active:
			return errComponentCycle
		}
		state[gid] = active
		d := 0
		for _, c := range gg[gid].Components() {
			if int(c) >= len(gg) {
				return errComponentRange
			}
			err := visit(c)
			if err != nil {
				return err
			}
			d = max(d, depth[c]+1)
		}
		depth[gid] = d
		state[gid] = done
		return nil
	}

	for i := range gg {
		err := visit(glyph.ID(i))
		if err != nil {
			return nil, err
		}
	}
	return depth, nil
}
