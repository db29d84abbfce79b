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
	"testing"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/cvar"
	"seehuhn.de/go/instancer/sfnt/cvt"
	"seehuhn.de/go/instancer/sfnt/fvar"
	"seehuhn.de/go/instancer/sfnt/glyf"
	"seehuhn.de/go/instancer/sfnt/gvar"
	"seehuhn.de/go/instancer/sfnt/head"
	"seehuhn.de/go/instancer/sfnt/hmtx"
	"seehuhn.de/go/instancer/sfnt/mvar"
	"seehuhn.de/go/instancer/sfnt/name"
	"seehuhn.de/go/instancer/sfnt/post"
	"seehuhn.de/go/instancer/sfnt/tuplevar"
	"seehuhn.de/go/instancer/sfnt/varstore"
	"seehuhn.de/go/instancer/varmodel"
)

// makeTestFont returns a variable TrueType font with a single weight axis
// (100, 400, 900) and three glyphs:
//
//	0: .notdef, empty
//	1: A, the square (100, 0)-(500, 700), advance 600
//	2: B, a composite of A, shifted by (50, 0), advance 700
//
// At wght=900, A is 100 units wider.  At wght=100, the right edge of A
// moves left by 50 units while the advance stays the same.
func makeTestFont(t *testing.T) *sfnt.Font {
	t.Helper()

	square := &glyf.Glyph{
		Rect16: funit.Rect16{LLx: 100, LLy: 0, URx: 500, URy: 700},
		Data: glyf.SimpleGlyph{
			Contours: []glyf.Contour{{
				{X: 100, Y: 0, OnCurve: true},
				{X: 500, Y: 0, OnCurve: true},
				{X: 500, Y: 700, OnCurve: true},
				{X: 100, Y: 700, OnCurve: true},
			}},
		},
	}
	composite := &glyf.Glyph{
		Rect16: funit.Rect16{LLx: 150, LLy: 0, URx: 550, URy: 700},
		Data: glyf.CompositeGlyph{
			Components: []glyf.Component{{
				Flags:      glyf.FlagArgsAreXYValues,
				GlyphIndex: 1,
				Arg1:       50,
			}},
		},
	}
	gg := glyf.Glyphs{nil, square, composite}
	enc := gg.Encode()

	headInfo := &head.Info{
		Version:          0x00010000,
		MagicNumber:      0x5F0F3CF5,
		Flags:            0x0003,
		UnitsPerEm:       1000,
		IndexToLocFormat: enc.LocaFormat,
	}
	headInfo.SetFontBBox(funit.Rect16{LLx: 100, LLy: 0, URx: 550, URy: 700})

	m := &hmtx.Metrics{
		Advance: []uint16{500, 600, 700},
		Bearing: []int16{0, 100, 150},
	}
	hhea := &hmtx.Header{
		Version:        0x00010000,
		Ascent:         800,
		Descent:        -200,
		CaretSlopeRise: 1,
	}
	hhea.Update(m, []funit.Int16{0, 400, 400}, []bool{true, false, false})
	hmtxData, _ := m.Encode()

	postInfo := &post.Info{
		UnderlinePosition:  -100,
		UnderlineThickness: 50,
		Names:              []string{".notdef", "A", "B"},
	}

	names := &name.Table{
		Records: []name.Record{
			{PlatformID: name.PlatformWindows, EncodingID: 1, LanguageID: 0x0409, NameID: name.IDFamily, Value: utf16("Test")},
			{PlatformID: name.PlatformWindows, EncodingID: 1, LanguageID: 0x0409, NameID: name.IDSubfamily, Value: utf16("Regular")},
			{PlatformID: name.PlatformWindows, EncodingID: 1, LanguageID: 0x0409, NameID: 256, Value: utf16("Weight")},
			{PlatformID: name.PlatformWindows, EncodingID: 1, LanguageID: 0x0409, NameID: 257, Value: utf16("Bold")},
			{PlatformID: name.PlatformWindows, EncodingID: 1, LanguageID: 0x0409, NameID: 258, Value: utf16("Test-Bold")},
			{PlatformID: name.PlatformWindows, EncodingID: 1, LanguageID: 0x0409, NameID: 259, Value: utf16("Logo")},
		},
	}

	fvarInfo := &fvar.Info{
		Axes: []fvar.Axis{{
			Axis:       varmodel.Axis{Tag: "wght", Min: 100, Default: 400, Max: 900},
			AxisNameID: 256,
		}},
		Instances: []fvar.Instance{{
			SubfamilyNameID:  257,
			Coordinates:      []float64{700},
			PostScriptNameID: 258,
		}},
	}

	gvarData := gvar.Encode(1, testGlyphVariations())

	cvarData := cvar.Encode([]tuplevar.Tuple{{
		Region: varmodel.PeakRegion([]float64{1}),
		X:      []int16{10, -4},
	}})

	mvarInfo := &mvar.Info{
		Records: []mvar.Record{
			{Tag: "xhgt", VarIdx: 0},
			{Tag: "undo", VarIdx: 1},
			{Tag: "zzzz", VarIdx: 0},
		},
		Store: &varstore.Store{
			Regions: []varmodel.Region{varmodel.PeakRegion([]float64{1})},
			Data: []*varstore.ItemData{{
				RegionIndices: []int{0},
				Deltas:        [][]int32{{20}, {-1}},
			}},
		},
	}

	return &sfnt.Font{
		ScalerType: sfnt.ScalerTypeTrueType,
		Tables: map[string][]byte{
			"cmap": testCmap(),
			"cvar": cvarData,
			"cvt ": cvt.Table{10, 20}.Encode(),
			"fvar": fvarInfo.Encode(),
			"glyf": enc.GlyfData,
			"gvar": gvarData,
			"head": headInfo.Encode(),
			"hhea": hhea.Encode(),
			"hmtx": hmtxData,
			"loca": enc.LocaData,
			"maxp": testMaxp(len(gg)),
			"MVAR": mvarInfo.Encode(),
			"name": names.Encode(),
			"OS/2": testOS2(),
			"post": postInfo.Encode(),
		},
	}
}

// testGlyphVariations returns the "gvar" tuples of the test font, one
// slice per glyph.  Each glyph has four phantom points after its outline
// points or component offsets.
func testGlyphVariations() [][]tuplevar.Tuple {
	return [][]tuplevar.Tuple{
		nil,
		{
			{
				Region: varmodel.PeakRegion([]float64{1}),
				X:      []int16{0, 100, 100, 0, 0, 100, 0, 0},
				Y:      []int16{0, 0, 0, 0, 0, 0, 0, 0},
			},
			{
				Region: varmodel.PeakRegion([]float64{-1}),
				Points: []int{1, 2},
				X:      []int16{-50, -50},
				Y:      []int16{0, 0},
			},
		},
		nil,
	}
}

// testCmap returns a "cmap" table which maps A and B to glyphs 1 and 2.
func testCmap() []byte {
	return []byte{
		0, 0, 0, 1, // version, numTables
		0, 3, 0, 1, 0, 0, 0, 12, // platform 3, encoding 1, offset

		0, 4, 0, 32, 0, 0, // format 4, length, language
		0, 4, 0, 4, 0, 1, 0, 0, // segCountX2, searchRange, entrySelector, rangeShift
		0x00, 0x42, 0xFF, 0xFF, // endCode
		0, 0, // reservedPad
		0x00, 0x41, 0xFF, 0xFF, // startCode
		0xFF, 0xC0, 0x00, 0x01, // idDelta
		0, 0, 0, 0, // idRangeOffset
	}
}

// testOS2 returns a version 4 "OS/2" table with weight class 400, width
// class 5 and an x-height of 500.
func testOS2() []byte {
	data := make([]byte, 96)
	data[1] = 4
	data[4], data[5] = 0x01, 0x90 // usWeightClass
	data[7] = 5                   // usWidthClass
	data[86], data[87] = 0x01, 0xF4
	return data
}

// testMaxp returns a version 1.0 "maxp" table for numGlyphs glyphs.  The
// limits fit the glyphs of makeTestFont.
func testMaxp(numGlyphs int) []byte {
	return []byte{
		0x00, 0x01, 0x00, 0x00, byte(numGlyphs >> 8), byte(numGlyphs),
		0, 4, // maxPoints
		0, 1, // maxContours
		0, 4, // maxCompositePoints
		0, 1, // maxCompositeContours
		0, 2, // maxZones
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 1, // maxComponentElements
		0, 1, // maxComponentDepth
	}
}

func utf16(s string) []byte {
	var res []byte
	for _, r := range s {
		res = append(res, byte(r>>8), byte(r))
	}
	return res
}
