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
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/postscript/funit"
)

func testGlyphs() Glyphs {
	square := &Glyph{
		Rect16: funit.Rect16{LLx: 10, LLy: 0, URx: 510, URy: 700},
		Data: SimpleGlyph{
			Contours: []Contour{
				{
					{X: 10, Y: 0, OnCurve: true},
					{X: 510, Y: 0, OnCurve: true},
					{X: 510, Y: 700, OnCurve: true},
					{X: 10, Y: 700, OnCurve: true},
				},
				{
					{X: 100, Y: 100, OnCurve: true},
					{X: 300, Y: 400, OnCurve: false},
					{X: 400, Y: 100, OnCurve: true},
				},
			},
			Instructions: []byte{0xB0, 0x01},
		},
	}
	accent := &Glyph{
		Rect16: funit.Rect16{LLx: 0, LLy: 0, URx: 100, URy: 50},
		Data: SimpleGlyph{
			Contours: []Contour{
				{
					{X: 0, Y: 0, OnCurve: true},
					{X: 100, Y: 0, OnCurve: true},
					{X: 50, Y: 50, OnCurve: true},
				},
			},
		},
	}
	composite := &Glyph{
		Rect16: funit.Rect16{LLx: 10, LLy: 0, URx: 510, URy: 1050},
		Data: CompositeGlyph{
			Components: []Component{
				{Flags: FlagArgsAreXYValues, GlyphIndex: 1},
				{Flags: FlagArgsAreXYValues, GlyphIndex: 2, Arg1: 200, Arg2: 1000},
			},
		},
	}
	nested := &Glyph{
		Data: CompositeGlyph{
			Components: []Component{
				{Flags: FlagArgsAreXYValues | FlagWeHaveAScale, GlyphIndex: 3,
					Arg1: -5, Arg2: 7, Transform: []byte{0x20, 0x00}},
			},
			Instructions: []byte{},
		},
	}
	return Glyphs{nil, square, accent, composite, nested}
}

func TestRoundTrip(t *testing.T) {
	gg := testGlyphs()
	enc := gg.Encode()
	if enc.LocaFormat != 0 {
		t.Errorf("loca format %d, expected 0", enc.LocaFormat)
	}
	gg2, err := Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(gg, gg2); d != "" {
		t.Error(d)
	}
}

func TestLocaFormat(t *testing.T) {
	for _, test := range []struct {
		offs   []int
		format int16
	}{
		{[]int{0, 10, maxShortOffset}, 0},
		{[]int{0, 10, maxShortOffset + 2}, 1},
		{[]int{0, 11, 20}, 1},
	} {
		data, format := encodeLoca(test.offs)
		if format != test.format {
			t.Errorf("%v: got format %d, expected %d", test.offs, format, test.format)
			continue
		}
		enc := &Encoded{
			GlyfData:   make([]byte, test.offs[len(test.offs)-1]),
			LocaData:   data,
			LocaFormat: format,
		}
		offs, err := decodeLoca(enc)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(test.offs, offs); d != "" {
			t.Errorf("%v: %s", test.offs, d)
		}
	}
}

func TestEvenGlyphs(t *testing.T) {
	enc := testGlyphs().Encode()
	offs, err := decodeLoca(enc)
	if err != nil {
		t.Fatal(err)
	}
	for i, off := range offs {
		if off%2 != 0 {
			t.Errorf("glyph %d starts at odd offset %d", i, off)
		}
	}
}

func TestLongLoca(t *testing.T) {
	offs := []int{0, 10, 2 * 0x10000}
	data, format := encodeLoca(offs)
	if format != 1 {
		t.Fatalf("loca format %d, expected 1", format)
	}
	enc := &Encoded{
		GlyfData:   make([]byte, 2*0x10000),
		LocaData:   data,
		LocaFormat: format,
	}
	offs2, err := decodeLoca(enc)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(offs, offs2); d != "" {
		t.Error(d)
	}
}

func TestDepth(t *testing.T) {
	depth, err := testGlyphs().Depth()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]int{0, 0, 0, 1, 2}, depth); d != "" {
		t.Error(d)
	}
}

func TestDepthCycle(t *testing.T) {
	gg := Glyphs{
		{Data: CompositeGlyph{Components: []Component{{GlyphIndex: 1}}}},
		{Data: CompositeGlyph{Components: []Component{{GlyphIndex: 0}}}},
	}
	_, err := gg.Depth()
	if err == nil {
		t.Error("cycle not detected")
	}
}

func TestNumPoints(t *testing.T) {
	gg := testGlyphs()
	for i, want := range []int{0, 7, 3, 2, 1} {
		if got := gg[i].NumPoints(); got != want {
			t.Errorf("glyph %d: %d points, expected %d", i, got, want)
		}
	}
}

func TestBounds(t *testing.T) {
	gg := testGlyphs()

	got := gg.Bounds(3)
	want := funit.Rect16{LLx: 10, LLy: 0, URx: 510, URy: 1050}
	if got != want {
		t.Errorf("composite bounds %v, expected %v", got, want)
	}

	// glyph 4 scales glyph 3 by one half, then moves it by (-5, 7)
	got = gg.Bounds(4)
	want = funit.Rect16{LLx: 0, LLy: 7, URx: 250, URy: 532}
	if got != want {
		t.Errorf("scaled bounds %v, expected %v", got, want)
	}

	if gg.Bounds(0) != (funit.Rect16{}) {
		t.Error("empty glyph has non-zero bounds")
	}
}

func TestPointMatching(t *testing.T) {
	gg := testGlyphs()
	gg = append(gg, &Glyph{
		Data: CompositeGlyph{
			Components: []Component{
				{Flags: FlagArgsAreXYValues, GlyphIndex: 2},
				// align point 0 of the second accent with point 2 of the first
				{GlyphIndex: 2, Arg1: 2, Arg2: 0},
			},
		},
	})
	pts := gg.Coordinates(5)
	if len(pts) != 6 {
		t.Fatalf("got %d points, expected 6", len(pts))
	}
	if pts[3] != (vec.Vec2{X: 50, Y: 50}) {
		t.Errorf("matched point at %v, expected (50, 50)", pts[3])
	}
}

func FuzzGlyf(f *testing.F) {
	enc := testGlyphs().Encode()
	f.Add(enc.GlyfData, enc.LocaData, enc.LocaFormat)

	f.Fuzz(func(t *testing.T, glyfData, locaData []byte, locaFormat int16) {
		enc := &Encoded{
			GlyfData:   glyfData,
			LocaData:   locaData,
			LocaFormat: locaFormat,
		}
		info, err := Decode(enc)
		if err != nil {
			return
		}

		enc2 := info.Encode()

		info2, err := Decode(enc2)
		if err != nil {
			t.Fatal(err)
		}

		if d := cmp.Diff(info, info2); d != "" {
			t.Error(d)
		}
	})
}
