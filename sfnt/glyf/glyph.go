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
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/instancer/sfnt"
)

// Glyph represents a single glyph in a TrueType font.
type Glyph struct {
	funit.Rect16
	Data interface{} // either SimpleGlyph or CompositeGlyph
}

// CompositeGlyph is a glyph made up of other glyphs.
type CompositeGlyph struct {
	Components   []Component
	Instructions []byte
}

// Flags for composite glyph components.
const (
	FlagArg1And2AreWords      = 0x0001
	FlagArgsAreXYValues       = 0x0002
	FlagRoundXYToGrid         = 0x0004
	FlagWeHaveAScale          = 0x0008
	FlagMoreComponents        = 0x0020
	FlagWeHaveAnXAndYScale    = 0x0040
	FlagWeHaveATwoByTwo       = 0x0080
	FlagWeHaveInstructions    = 0x0100
	FlagUseMyMetrics          = 0x0200
	FlagOverlapCompound       = 0x0400
	FlagScaledComponentOffset = 0x0800
	FlagUnscaledOffset        = 0x1000
)

// encodingFlags are determined by the binary layout when a glyph is written.
const encodingFlags = FlagArg1And2AreWords | FlagMoreComponents | FlagWeHaveInstructions

// Component is a reference to another glyph, as part of a composite glyph.
type Component struct {
	// Flags holds the component flags, without the bits in encodingFlags.
	Flags      uint16
	GlyphIndex glyph.ID

	// Arg1 and Arg2 are the x and y offsets if FlagArgsAreXYValues is set.
	// Otherwise they are the point numbers in the parent and the child
	// glyph which are aligned.
	Arg1, Arg2 int

	// Transform holds the raw scale data (F2Dot14 values), if any.
	Transform []byte
}

// IsOffset returns true if the component is positioned by an x/y offset,
// rather than by point matching.
func (c *Component) IsOffset() bool {
	return c.Flags&FlagArgsAreXYValues != 0
}

// Matrix returns the 2x2 transformation matrix of the component, in the
// order xx, xy, yx, yy.
func (c *Component) Matrix() [4]float64 {
	m := [4]float64{1, 0, 0, 1}
	f2dot14 := func(i int) float64 {
		return float64(int16(uint16(c.Transform[2*i])<<8|uint16(c.Transform[2*i+1]))) / 16384
	}
	switch {
	case c.Flags&FlagWeHaveAScale != 0 && len(c.Transform) >= 2:
		m[0] = f2dot14(0)
		m[3] = m[0]
	case c.Flags&FlagWeHaveAnXAndYScale != 0 && len(c.Transform) >= 4:
		m[0] = f2dot14(0)
		m[3] = f2dot14(1)
	case c.Flags&FlagWeHaveATwoByTwo != 0 && len(c.Transform) >= 8:
		m[0] = f2dot14(0)
		m[1] = f2dot14(1)
		m[2] = f2dot14(2)
		m[3] = f2dot14(3)
	}
	return m
}

func decodeGlyph(data []byte) (*Glyph, error) {
	if len(data) == 0 {
		return nil, nil
	} else if len(data) < 10 {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/glyf",
			Reason:    "incomplete glyph header",
		}
	}

	var glyphData interface{}
	numCont := int16(data[0])<<8 | int16(data[1])
	if numCont >= 0 {
		simple, err := decodeSimpleGlyph(int(numCont), data[10:])
		if err != nil {
			return nil, err
		}
		glyphData = *simple
	} else {
		comp, err := decodeGlyphComposite(data[10:])
		if err != nil {
			return nil, err
		}
		glyphData = *comp
	}

	g := &Glyph{
		Rect16: funit.Rect16{
			LLx: funit.Int16(data[2])<<8 | funit.Int16(data[3]),
			LLy: funit.Int16(data[4])<<8 | funit.Int16(data[5]),
			URx: funit.Int16(data[6])<<8 | funit.Int16(data[7]),
			URy: funit.Int16(data[8])<<8 | funit.Int16(data[9]),
		},
		Data: glyphData,
	}
	return g, nil
}

func decodeGlyphComposite(data []byte) (*CompositeGlyph, error) {
	var components []Component
	done := false
	weHaveInstructions := false
	for !done {
		if len(data) < 4 {
			return nil, errIncompleteGlyph
		}

		flags := uint16(data[0])<<8 | uint16(data[1])
		glyphIndex := uint16(data[2])<<8 | uint16(data[3])
		data = data[4:]

		if flags&FlagWeHaveInstructions != 0 {
			weHaveInstructions = true
		}

		comp := Component{
			Flags:      flags &^ encodingFlags,
			GlyphIndex: glyph.ID(glyphIndex),
		}
		if flags&FlagArg1And2AreWords != 0 {
			if len(data) < 4 {
				return nil, errIncompleteGlyph
			}
			a1 := uint16(data[0])<<8 | uint16(data[1])
			a2 := uint16(data[2])<<8 | uint16(data[3])
			if flags&FlagArgsAreXYValues != 0 {
				comp.Arg1, comp.Arg2 = int(int16(a1)), int(int16(a2))
			} else {
				comp.Arg1, comp.Arg2 = int(a1), int(a2)
			}
			data = data[4:]
		} else {
			if len(data) < 2 {
				return nil, errIncompleteGlyph
			}
			if flags&FlagArgsAreXYValues != 0 {
				comp.Arg1, comp.Arg2 = int(int8(data[0])), int(int8(data[1]))
			} else {
				comp.Arg1, comp.Arg2 = int(data[0]), int(data[1])
			}
			data = data[2:]
		}

		skip := 0
		if flags&FlagWeHaveAScale != 0 {
			skip = 2
		} else if flags&FlagWeHaveAnXAndYScale != 0 {
			skip = 4
		} else if flags&FlagWeHaveATwoByTwo != 0 {
			skip = 8
		}
		if len(data) < skip {
			return nil, errIncompleteGlyph
		}
		if skip > 0 {
			comp.Transform = data[:skip]
		}
		data = data[skip:]

		components = append(components, comp)

		done = flags&FlagMoreComponents == 0
	}

	if weHaveInstructions && len(data) >= 2 {
		L := int(data[0])<<8 | int(data[1])
		data = data[2:]
		if len(data) > L {
			data = data[:L]
		}
	} else {
		data = nil
	}

	res := &CompositeGlyph{
		Components:   components,
		Instructions: data,
	}
	return res, nil
}

func (g *Glyph) append(buf []byte) []byte {
	if g == nil {
		return buf
	}

	var numContours int16
	switch g0 := g.Data.(type) {
	case SimpleGlyph:
		numContours = int16(len(g0.Contours))
	case CompositeGlyph:
		numContours = -1
	default:
		panic("unexpected glyph type")
	}

	buf = append(buf,
		byte(numContours>>8),
		byte(numContours),
		byte(g.LLx>>8),
		byte(g.LLx),
		byte(g.LLy>>8),
		byte(g.LLy),
		byte(g.URx>>8),
		byte(g.URx),
		byte(g.URy>>8),
		byte(g.URy))

	switch d := g.Data.(type) {
	case SimpleGlyph:
		buf = d.append(buf)
	case CompositeGlyph:
		buf = d.append(buf)
	}

	for len(buf)%glyfAlign != 0 {
		buf = append(buf, 0)
	}

	return buf
}

func (d CompositeGlyph) append(buf []byte) []byte {
	for i, comp := range d.Components {
		flags := comp.Flags &^ encodingFlags
		if i < len(d.Components)-1 {
			flags |= FlagMoreComponents
		} else if d.Instructions != nil {
			flags |= FlagWeHaveInstructions
		}
		words := false
		if flags&FlagArgsAreXYValues != 0 {
			words = !fitsInt8(comp.Arg1) || !fitsInt8(comp.Arg2)
		} else {
			words = comp.Arg1 > 255 || comp.Arg2 > 255
		}
		if words {
			flags |= FlagArg1And2AreWords
		}

		buf = append(buf,
			byte(flags>>8), byte(flags),
			byte(comp.GlyphIndex>>8), byte(comp.GlyphIndex))
		if words {
			buf = append(buf,
				byte(comp.Arg1>>8), byte(comp.Arg1),
				byte(comp.Arg2>>8), byte(comp.Arg2))
		} else {
			buf = append(buf, byte(comp.Arg1), byte(comp.Arg2))
		}
		buf = append(buf, comp.Transform...)
	}
	if d.Instructions != nil {
		L := len(d.Instructions)
		buf = append(buf, byte(L>>8), byte(L))
		buf = append(buf, d.Instructions...)
	}
	return buf
}

func fitsInt8(x int) bool {
	return x >= -128 && x <= 127
}

// Components returns the glyph indices of all components of a composite
// glyph.  For simple glyphs, nil is returned.
func (g *Glyph) Components() []glyph.ID {
	if g == nil {
		return nil
	}
	d, ok := g.Data.(CompositeGlyph)
	if !ok {
		return nil
	}
	res := make([]glyph.ID, len(d.Components))
	for i, comp := range d.Components {
		res[i] = comp.GlyphIndex
	}
	return res
}

// NumPoints returns the number of entries of the glyph in a "gvar" table,
// not counting the phantom points: the number of outline points for simple
// glyphs, the number of components for composite glyphs.
func (g *Glyph) NumPoints() int {
	if g == nil {
		return 0
	}
	switch d := g.Data.(type) {
	case SimpleGlyph:
		n := 0
		for _, c := range d.Contours {
			n += len(c)
		}
		return n
	case CompositeGlyph:
		return len(d.Components)
	default:
		return 0
	}
}

const glyfAlign = 2

var errIncompleteGlyph = &sfnt.InvalidFontError{
	SubSystem: "sfnt/glyf",
	Reason:    "incomplete glyph",
}

var errComponentCycle = &sfnt.InvalidFontError{
	SubSystem: "sfnt/glyf",
	Reason:    "composite glyph references itself",
}

var errComponentRange = &sfnt.InvalidFontError{
	SubSystem: "sfnt/glyf",
	Reason:    "component glyph index out of range",
}
