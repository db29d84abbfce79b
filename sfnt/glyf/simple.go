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

	"seehuhn.de/go/instancer/sfnt"
)

// SimpleGlyph is a glyph given by its outline contours.
type SimpleGlyph struct {
	Contours     []Contour
	Instructions []byte

	// Overlap records the OVERLAP_SIMPLE flag of the first point.
	Overlap bool
}

// A Point is a point in a glyph outline
type Point struct {
	X, Y    funit.Int16
	OnCurve bool
}

// A Contour describes a connected part of a glyph outline.
type Contour []Point

const (
	flagOnCurve       = 0x01
	flagXShort        = 0x02
	flagYShort        = 0x04
	flagRepeat        = 0x08
	flagXSameOrPos    = 0x10
	flagYSameOrPos    = 0x20
	flagOverlapSimple = 0x40
)

func decodeSimpleGlyph(numContours int, buf []byte) (*SimpleGlyph, error) {
	if numContours == 0 {
		// Some fonts use a zero-contour header for empty glyphs.
		return &SimpleGlyph{}, nil
	}
	if len(buf) < 2*numContours+2 {
		return nil, errInvalidGlyphData
	}
	endPtsOfContours := make([]int, numContours)
	prev := -1
	for i := 0; i < numContours; i++ {
		end := int(buf[2*i])<<8 | int(buf[2*i+1])
		if end <= prev {
			return nil, errInvalidGlyphData
		}
		endPtsOfContours[i] = end
		prev = end
	}
	buf = buf[2*numContours:]
	numPoints := endPtsOfContours[numContours-1] + 1

	instructionLength := int(buf[0])<<8 | int(buf[1])
	if len(buf) < 2+instructionLength {
		return nil, errInvalidGlyphData
	}
	var instructions []byte
	if instructionLength > 0 {
		instructions = buf[2 : 2+instructionLength]
	}
	buf = buf[2+instructionLength:]

	// decode the flags
	ff := make([]byte, numPoints)
	i := 0
	for i < numPoints {
		if len(buf) < 1 {
			return nil, errInvalidGlyphData
		}
		flags := buf[0]
		buf = buf[1:]
		ff[i] = flags
		i++
		if flags&flagRepeat != 0 {
			if len(buf) < 1 {
				return nil, errInvalidGlyphData
			}
			count := buf[0]
			buf = buf[1:]
			for count > 0 && i < numPoints {
				ff[i] = flags
				i++
				count--
			}
		}
	}

	// decode the x-coordinates
	xx := make([]funit.Int16, numPoints)
	var x funit.Int16
	for i, flags := range ff {
		if flags&flagXShort != 0 {
			if len(buf) < 1 {
				return nil, errInvalidGlyphData
			}
			dx := funit.Int16(buf[0])
			buf = buf[1:]
			if flags&flagXSameOrPos != 0 {
				x += dx
			} else {
				x -= dx
			}
		} else if flags&flagXSameOrPos == 0 {
			if len(buf) < 2 {
				return nil, errInvalidGlyphData
			}
			dx := funit.Int16(buf[0])<<8 | funit.Int16(buf[1])
			buf = buf[2:]
			x += dx
		}
		xx[i] = x
	}

	// decode the y-coordinates
	yy := make([]funit.Int16, numPoints)
	var y funit.Int16
	for i, flags := range ff {
		if flags&flagYShort != 0 {
			if len(buf) < 1 {
				return nil, errInvalidGlyphData
			}
			dy := funit.Int16(buf[0])
			buf = buf[1:]
			if flags&flagYSameOrPos != 0 {
				y += dy
			} else {
				y -= dy
			}
		} else if flags&flagYSameOrPos == 0 {
			if len(buf) < 2 {
				return nil, errInvalidGlyphData
			}
			dy := funit.Int16(buf[0])<<8 | funit.Int16(buf[1])
			buf = buf[2:]
			y += dy
		}
		yy[i] = y
	}

	cc := make([]Contour, numContours)
	start := 0
	for i := 0; i < numContours; i++ {
		end := endPtsOfContours[i] + 1
		pp := make([]Point, end-start)
		for j := start; j < end; j++ {
			pp[j-start] = Point{xx[j], yy[j], ff[j]&flagOnCurve != 0}
		}
		start = end

		cc[i] = pp
	}

	res := &SimpleGlyph{
		Contours:     cc,
		Instructions: instructions,
		Overlap:      ff[0]&flagOverlapSimple != 0,
	}
	return res, nil
}

func (d SimpleGlyph) append(buf []byte) []byte {
	end := -1
	for _, c := range d.Contours {
		end += len(c)
		buf = append(buf, byte(end>>8), byte(end))
	}
	L := len(d.Instructions)
	buf = append(buf, byte(L>>8), byte(L))
	buf = append(buf, d.Instructions...)

	var ff []byte
	var xData, yData []byte
	var prevX, prevY funit.Int16
	for _, c := range d.Contours {
		for _, p := range c {
			var flags byte
			if p.OnCurve {
				flags |= flagOnCurve
			}
			if len(ff) == 0 && d.Overlap {
				flags |= flagOverlapSimple
			}

			dx := int(p.X) - int(prevX)
			switch {
			case dx == 0:
				flags |= flagXSameOrPos
			case dx > 0 && dx < 256:
				flags |= flagXShort | flagXSameOrPos
				xData = append(xData, byte(dx))
			case dx < 0 && dx > -256:
				flags |= flagXShort
				xData = append(xData, byte(-dx))
			default:
				xData = append(xData, byte(uint16(dx)>>8), byte(dx))
			}

			dy := int(p.Y) - int(prevY)
			switch {
			case dy == 0:
				flags |= flagYSameOrPos
			case dy > 0 && dy < 256:
				flags |= flagYShort | flagYSameOrPos
				yData = append(yData, byte(dy))
			case dy < 0 && dy > -256:
				flags |= flagYShort
				yData = append(yData, byte(-dy))
			default:
				yData = append(yData, byte(uint16(dy)>>8), byte(dy))
			}

			ff = append(ff, flags)
			prevX, prevY = p.X, p.Y
		}
	}

	for i := 0; i < len(ff); {
		flags := ff[i]
		run := 1
		for i+run < len(ff) && ff[i+run] == flags && run < 256 {
			run++
		}
		if run > 1 {
			buf = append(buf, flags|flagRepeat, byte(run-1))
		} else {
			buf = append(buf, flags)
		}
		i += run
	}
	buf = append(buf, xData...)
	buf = append(buf, yData...)
	return buf
}

var errInvalidGlyphData = &sfnt.InvalidFontError{
	SubSystem: "sfnt/glyf",
	Reason:    "invalid glyph data",
}
