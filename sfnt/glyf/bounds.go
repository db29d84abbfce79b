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
	"math"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"
)

// maxComponentDepth limits the recursion when resolving composite glyphs.
const maxComponentDepth = 64

// Coordinates returns the outline points of a glyph, with all components
// of composite glyphs resolved.
func (gg Glyphs) Coordinates(gid glyph.ID) []vec.Vec2 {
	return gg.coordinates(gid, 0)
}

func (gg Glyphs) coordinates(gid glyph.ID, depth int) []vec.Vec2 {
	if int(gid) >= len(gg) || depth > maxComponentDepth {
		return nil
	}
	g := gg[gid]
	if g == nil {
		return nil
	}

	switch d := g.Data.(type) {
	case SimpleGlyph:
		var res []vec.Vec2
		for _, c := range d.Contours {
			for _, p := range c {
				res = append(res, vec.Vec2{X: float64(p.X), Y: float64(p.Y)})
			}
		}
		return res

	case CompositeGlyph:
		var res []vec.Vec2
		for _, comp := range d.Components {
			pts := gg.coordinates(comp.GlyphIndex, depth+1)

			var move vec.Vec2
			if comp.IsOffset() {
				move = vec.Vec2{X: float64(comp.Arg1), Y: float64(comp.Arg2)}
			} else if comp.Arg1 < len(res) && comp.Arg2 < len(pts) {
				move = vec.Vec2{
					X: res[comp.Arg1].X - pts[comp.Arg2].X,
					Y: res[comp.Arg1].Y - pts[comp.Arg2].Y,
				}
			}

			m := comp.Matrix()
			scaledOffset := comp.Flags&FlagScaledComponentOffset != 0 &&
				comp.Flags&FlagUnscaledOffset == 0
			for _, p := range pts {
				if scaledOffset {
					p.X += move.X
					p.Y += move.Y
				}
				p = vec.Vec2{
					X: p.X*m[0] + p.Y*m[2],
					Y: p.X*m[1] + p.Y*m[3],
				}
				if !scaledOffset {
					p.X += move.X
					p.Y += move.Y
				}
				res = append(res, p)
			}
		}
		return res
	}
	return nil
}

// Bounds computes the bounding box of a glyph from its outline.
// Points are rounded to integers first.  Glyphs without points have an
// all-zero bounding box.
func (gg Glyphs) Bounds(gid glyph.ID) funit.Rect16 {
	pts := gg.Coordinates(gid)
	if len(pts) == 0 {
		return funit.Rect16{}
	}
	xMin, yMin := math.Inf(1), math.Inf(1)
	xMax, yMax := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		x, y := math.Round(p.X), math.Round(p.Y)
		xMin = min(xMin, x)
		xMax = max(xMax, x)
		yMin = min(yMin, y)
		yMax = max(yMax, y)
	}
	return funit.Rect16{
		LLx: funit.Int16(xMin),
		LLy: funit.Int16(yMin),
		URx: funit.Int16(xMax),
		URy: funit.Int16(yMax),
	}
}
