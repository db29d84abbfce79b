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

package instancer

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/glyf"
	"seehuhn.de/go/instancer/sfnt/gvar"
	"seehuhn.de/go/instancer/sfnt/head"
	"seehuhn.de/go/instancer/sfnt/hmtx"
	"seehuhn.de/go/instancer/sfnt/maxp"
	"seehuhn.de/go/instancer/sfnt/post"
	"seehuhn.de/go/instancer/varmodel"
)

// outlineInstancer applies the "gvar" point deltas to the TrueType outlines
// and updates the glyph metrics from the phantom points.
type outlineInstancer struct{}

// numPhantom is the number of phantom points appended to every glyph.
const numPhantom = 4

// outlines holds the decoded tables of the outline stage.
type outlines struct {
	loc varmodel.Normalized

	orig glyf.Glyphs // the glyphs before instancing
	out  glyf.Glyphs // instanced glyphs; glyphs of earlier wavefronts are final
	vars [][]gvar.Variation

	hmtx *hmtx.Metrics
	vmtx *hmtx.Metrics // nil if the font has no vertical metrics
}

func (outlineInstancer) instantiate(c *context) error {
	f := c.font
	if !f.Has("glyf", "loca", "head", "hhea", "hmtx") {
		return &sfnt.InvalidFontError{
			SubSystem: "sfnt/instancer",
			Reason:    "gvar table without TrueType outlines",
		}
	}

	headInfo, err := head.Decode(f.Tables["head"])
	if err != nil {
		return err
	}
	gg, err := glyf.Decode(&glyf.Encoded{
		GlyfData:   f.Tables["glyf"],
		LocaData:   f.Tables["loca"],
		LocaFormat: headInfo.IndexToLocFormat,
	})
	if err != nil {
		return err
	}
	numGlyphs := len(gg)
	if data, ok := f.Tables["maxp"]; ok {
		maxpInfo, err := maxp.Decode(data)
		if err != nil {
			return err
		}
		if maxpInfo.NumGlyphs != numGlyphs {
			return &sfnt.InvalidFontError{
				SubSystem: "sfnt/instancer",
				Reason: fmt.Sprintf("maxp lists %d glyphs, glyf has %d",
					maxpInfo.NumGlyphs, numGlyphs),
			}
		}
	}

	hhea, err := hmtx.DecodeHeader("hhea", f.Tables["hhea"])
	if err != nil {
		return err
	}
	hm, err := hmtx.DecodeMetrics("hmtx", f.Tables["hmtx"], int(hhea.NumLongMetrics), numGlyphs)
	if err != nil {
		return err
	}
	var vhea *hmtx.Header
	var vm *hmtx.Metrics
	if f.Has("vhea", "vmtx") {
		vhea, err = hmtx.DecodeHeader("vhea", f.Tables["vhea"])
		if err != nil {
			return err
		}
		vm, err = hmtx.DecodeMetrics("vmtx", f.Tables["vmtx"], int(vhea.NumLongMetrics), numGlyphs)
		if err != nil {
			return err
		}
	}

	gvarInfo, err := gvar.Decode(f.Tables["gvar"], c.axisCount(), func(gid glyph.ID) (int, error) {
		if int(gid) >= numGlyphs {
			return 0, &sfnt.InvalidFontError{
				SubSystem: "sfnt/gvar",
				Reason:    fmt.Sprintf("variations for non-existent glyph %d", gid),
			}
		}
		return gg[gid].NumPoints() + numPhantom, nil
	})
	if err != nil {
		return err
	}

	var postInfo *post.Info
	if data, ok := f.Tables["post"]; ok {
		postInfo, err = post.Decode(data)
		if err != nil {
			return err
		}
	}

	depth, err := gg.Depth()
	if err != nil {
		return err
	}

	o := &outlines{
		loc:  c.loc,
		orig: gg,
		out:  make(glyf.Glyphs, numGlyphs),
		vars: gvarInfo.Glyphs,
		hmtx: hm,
		vmtx: vm,
	}
	copy(o.out, gg)

	for _, wave := range wavefronts(depth, postInfo) {
		err := o.run(wave, c.opts.Workers)
		if err != nil {
			return err
		}
	}

	enc := o.out.Encode()
	headInfo.IndexToLocFormat = enc.LocaFormat
	bbox := fontBBox(o.out)
	tracer().Debugf("font bounding box %v -> %v", headInfo.FontBBox(), bbox)
	headInfo.SetFontBBox(bbox)

	hExtent := make([]funit.Int16, numGlyphs)
	vExtent := make([]funit.Int16, numGlyphs)
	empty := make([]bool, numGlyphs)
	for gid, g := range o.out {
		if g == nil || g.NumPoints() == 0 {
			empty[gid] = true
			continue
		}
		hExtent[gid] = g.URx - g.LLx
		vExtent[gid] = g.URy - g.LLy
	}

	hhea.Update(hm, hExtent, empty)
	hmtxData, _ := hm.Encode()
	if vm != nil {
		vhea.Update(vm, vExtent, empty)
		vmtxData, _ := vm.Encode()
		f.Tables["vhea"] = vhea.Encode()
		f.Tables["vmtx"] = vmtxData
	}
	f.Tables["glyf"] = enc.GlyfData
	f.Tables["loca"] = enc.LocaData
	f.Tables["head"] = headInfo.Encode()
	f.Tables["hhea"] = hhea.Encode()
	f.Tables["hmtx"] = hmtxData
	return nil
}

// wavefronts groups the glyphs by composite nesting depth.  Within a
// wavefront, glyphs are ordered by name.
func wavefronts(depth []int, names *post.Info) [][]glyph.ID {
	var res [][]glyph.ID
	for gid, d := range depth {
		for len(res) <= d {
			res = append(res, nil)
		}
		res[d] = append(res[d], glyph.ID(gid))
	}
	for _, wave := range res {
		sort.SliceStable(wave, func(i, j int) bool {
			return names.GlyphName(int(wave[i])) < names.GlyphName(int(wave[j]))
		})
	}
	return res
}

// run instances all glyphs of one wavefront.  The glyphs of a wavefront do
// not reference each other, so they can be processed concurrently.
func (o *outlines) run(wave []glyph.ID, workers int) error {
	if workers < 2 || len(wave) < 2 {
		for _, gid := range wave {
			err := o.instanceGlyph(gid)
			if err != nil {
				return err
			}
		}
		return nil
	}

	errs := make([]error, len(wave))
	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(workers, len(wave)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				errs[i] = o.instanceGlyph(wave[i])
			}
		}()
	}
	for i := range wave {
		next <- i
	}
	close(next)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// instanceGlyph computes the outline and metrics of a glyph at the target
// location.  Only the entries for gid in o.out, o.hmtx and o.vmtx are
// written.
func (o *outlines) instanceGlyph(gid glyph.ID) error {
	g := o.orig[gid]
	vars := o.vars[gid]

	if len(vars) == 0 {
		// Composite glyphs may still change their bounding box, since
		// their components may have moved.
		if len(g.Components()) == 0 {
			return nil
		}
		g2 := &glyf.Glyph{Data: g.Data}
		o.out[gid] = g2
		g2.Rect16 = o.out.Bounds(gid)
		return o.setBearings(gid, g2, o.phantomPoints(gid, g))
	}

	coords, ends := glyphVector(g)
	coords = append(coords, o.phantomPoints(gid, g)...)
	for i := len(coords) - numPhantom; i < len(coords); i++ {
		ends = append(ends, i)
	}

	acc := make([]vec.Vec2, len(coords))
	for _, v := range vars {
		s := v.Region.Scalar(o.loc)
		if s == 0 {
			continue
		}
		if len(v.Deltas) != len(coords) {
			return &sfnt.InvalidFontError{
				SubSystem: "sfnt/gvar",
				Reason: fmt.Sprintf("glyph %d: %d deltas for %d points",
					gid, len(v.Deltas), len(coords)),
			}
		}
		deltas := inferDeltas(v.Deltas, coords, ends)
		for i, d := range deltas {
			acc[i].X += s * d.X
			acc[i].Y += s * d.Y
		}
	}
	for i := range coords {
		coords[i].X += acc[i].X
		coords[i].Y += acc[i].Y
	}

	n := len(coords) - numPhantom
	var g2 *glyf.Glyph
	var data interface{}
	if g != nil {
		data = g.Data
	}
	switch d := data.(type) {
	case glyf.SimpleGlyph:
		contours := make([]glyf.Contour, len(d.Contours))
		k := 0
		for i, cc := range d.Contours {
			contours[i] = make(glyf.Contour, len(cc))
			for j, p := range cc {
				x, err := toInt16(coords[k].X)
				if err != nil {
					return fmt.Errorf("glyph %d: %w", gid, err)
				}
				y, err := toInt16(coords[k].Y)
				if err != nil {
					return fmt.Errorf("glyph %d: %w", gid, err)
				}
				contours[i][j] = glyf.Point{X: x, Y: y, OnCurve: p.OnCurve}
				k++
			}
		}
		d.Contours = contours
		g2 = &glyf.Glyph{Data: d}
	case glyf.CompositeGlyph:
		comps := make([]glyf.Component, len(d.Components))
		copy(comps, d.Components)
		for i := range comps {
			if !comps[i].IsOffset() {
				continue
			}
			comps[i].Arg1 = int(math.Round(coords[i].X))
			comps[i].Arg2 = int(math.Round(coords[i].Y))
			if !fitsInt16(comps[i].Arg1) || !fitsInt16(comps[i].Arg2) {
				return &sfnt.InvalidFontError{
					SubSystem: "sfnt/glyf",
					Reason:    fmt.Sprintf("glyph %d: component offset out of range", gid),
				}
			}
		}
		d.Components = comps
		g2 = &glyf.Glyph{Data: d}
	}
	o.out[gid] = g2
	if g2 != nil {
		g2.Rect16 = o.out.Bounds(gid)
	}

	return o.setBearings(gid, g2, coords[n:])
}

// glyphVector returns the points of a glyph which carry deltas in the
// "gvar" table, together with the index of the last point of every contour.
// For composite glyphs, every component is a contour consisting of its
// offset.  Components positioned by point matching use (0, 0).
func glyphVector(g *glyf.Glyph) ([]vec.Vec2, []int) {
	var coords []vec.Vec2
	var ends []int
	if g == nil {
		return nil, nil
	}
	switch d := g.Data.(type) {
	case glyf.SimpleGlyph:
		for _, cc := range d.Contours {
			for _, p := range cc {
				coords = append(coords, vec.Vec2{X: float64(p.X), Y: float64(p.Y)})
			}
			ends = append(ends, len(coords)-1)
		}
	case glyf.CompositeGlyph:
		for _, comp := range d.Components {
			var p vec.Vec2
			if comp.IsOffset() {
				p = vec.Vec2{X: float64(comp.Arg1), Y: float64(comp.Arg2)}
			}
			coords = append(coords, p)
			ends = append(ends, len(coords)-1)
		}
	}
	return coords, ends
}

// phantomPoints returns the four phantom points of a glyph: the left and
// right side bearing points, followed by the top and bottom points.
func (o *outlines) phantomPoints(gid glyph.ID, g *glyf.Glyph) []vec.Vec2 {
	var bbox funit.Rect16
	if g != nil {
		bbox = g.Rect16
	}
	left := float64(bbox.LLx) - float64(o.hmtx.Bearing[gid])
	right := left + float64(o.hmtx.Advance[gid])

	top, bottom := float64(bbox.URy), float64(bbox.LLy)
	if o.vmtx != nil {
		top = float64(bbox.URy) + float64(o.vmtx.Bearing[gid])
		bottom = top - float64(o.vmtx.Advance[gid])
	}
	return []vec.Vec2{{X: left}, {X: right}, {Y: top}, {Y: bottom}}
}

// setBearings updates the glyph metrics from the instanced phantom points.
func (o *outlines) setBearings(gid glyph.ID, g *glyf.Glyph, pp []vec.Vec2) error {
	var bbox funit.Rect16
	if g != nil {
		bbox = g.Rect16
	}

	o.hmtx.Advance[gid] = toUint16(pp[1].X - pp[0].X)
	lsb := int(bbox.LLx) - int(math.Round(pp[0].X))
	if !fitsInt16(lsb) {
		return &sfnt.InvalidFontError{
			SubSystem: "sfnt/hmtx",
			Reason:    fmt.Sprintf("glyph %d: left side bearing out of range", gid),
		}
	}
	o.hmtx.Bearing[gid] = int16(lsb)

	if o.vmtx != nil {
		o.vmtx.Advance[gid] = toUint16(pp[2].Y - pp[3].Y)
		tsb := int(math.Round(pp[2].Y)) - int(bbox.URy)
		if !fitsInt16(tsb) {
			return &sfnt.InvalidFontError{
				SubSystem: "sfnt/vmtx",
				Reason:    fmt.Sprintf("glyph %d: top side bearing out of range", gid),
			}
		}
		o.vmtx.Bearing[gid] = int16(tsb)
	}
	return nil
}

// fontBBox returns the union of all non-empty glyph bounding boxes.
func fontBBox(gg glyf.Glyphs) funit.Rect16 {
	var res funit.Rect16
	first := true
	for _, g := range gg {
		if g == nil || g.NumPoints() == 0 {
			continue
		}
		if first {
			res = g.Rect16
			first = false
			continue
		}
		res.LLx = min(res.LLx, g.LLx)
		res.LLy = min(res.LLy, g.LLy)
		res.URx = max(res.URx, g.URx)
		res.URy = max(res.URy, g.URy)
	}
	return res
}

// toUint16 rounds an advance to the range of an unsigned 16-bit value.
// Negative advances become 0.
func toUint16(x float64) uint16 {
	return uint16(varmodel.Clamp(math.Round(x), 0, math.MaxUint16))
}

func toInt16(x float64) (funit.Int16, error) {
	v := math.Round(x)
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, &sfnt.InvalidFontError{
			SubSystem: "sfnt/glyf",
			Reason:    fmt.Sprintf("coordinate %g out of range", x),
		}
	}
	return funit.Int16(v), nil
}

func fitsInt16(x int) bool {
	return x >= math.MinInt16 && x <= math.MaxInt16
}
