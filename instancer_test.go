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
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/image/font"
	xsfnt "golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/cvt"
	"seehuhn.de/go/instancer/sfnt/glyf"
	"seehuhn.de/go/instancer/sfnt/gvar"
	"seehuhn.de/go/instancer/sfnt/head"
	"seehuhn.de/go/instancer/sfnt/hmtx"
	"seehuhn.de/go/instancer/sfnt/name"
	"seehuhn.de/go/instancer/sfnt/table"
	"seehuhn.de/go/instancer/sfnt/tuplevar"
	"seehuhn.de/go/instancer/varmodel"
)

// instanceMetrics returns the bounding boxes, advance widths and left side
// bearings of all glyphs.
func instanceMetrics(t *testing.T, f *sfnt.Font) ([]funit.Rect16, *hmtx.Metrics) {
	t.Helper()

	headInfo, err := head.Decode(f.Tables["head"])
	if err != nil {
		t.Fatal(err)
	}
	gg, err := glyf.Decode(&glyf.Encoded{
		GlyfData:   f.Tables["glyf"],
		LocaData:   f.Tables["loca"],
		LocaFormat: headInfo.IndexToLocFormat,
	})
	if err != nil {
		t.Fatal(err)
	}
	boxes := make([]funit.Rect16, len(gg))
	for i, g := range gg {
		if g != nil {
			boxes[i] = g.Rect16
		}
	}

	hhea, err := hmtx.DecodeHeader("hhea", f.Tables["hhea"])
	if err != nil {
		t.Fatal(err)
	}
	m, err := hmtx.DecodeMetrics("hmtx", f.Tables["hmtx"], int(hhea.NumLongMetrics), len(gg))
	if err != nil {
		t.Fatal(err)
	}
	return boxes, m
}

func TestInstantiate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "sfnt.instancer")
	defer teardown()

	for _, workers := range []int{1, 4} {
		f := makeTestFont(t)
		err := Instantiate(f, varmodel.Location{"wght": 650}, &Options{Workers: workers})
		if err != nil {
			t.Fatal(err)
		}

		boxes, m := instanceMetrics(t, f)
		expectedBoxes := []funit.Rect16{
			{},
			{LLx: 100, LLy: 0, URx: 550, URy: 700},
			{LLx: 150, LLy: 0, URx: 600, URy: 700},
		}
		if d := cmp.Diff(expectedBoxes, boxes); d != "" {
			t.Errorf("bounding boxes (-want +got):\n%s", d)
		}
		expectedMetrics := &hmtx.Metrics{
			Advance: []uint16{500, 650, 700},
			Bearing: []int16{0, 100, 150},
		}
		if d := cmp.Diff(expectedMetrics, m); d != "" {
			t.Errorf("metrics (-want +got):\n%s", d)
		}

		headInfo, err := head.Decode(f.Tables["head"])
		if err != nil {
			t.Fatal(err)
		}
		expectedBBox := funit.Rect16{LLx: 100, LLy: 0, URx: 600, URy: 700}
		if bbox := headInfo.FontBBox(); bbox != expectedBBox {
			t.Errorf("font bbox: got %v, expected %v", bbox, expectedBBox)
		}

		values, err := cvt.Decode(f.Tables["cvt "])
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(cvt.Table{15, 18}, values); d != "" {
			t.Errorf("cvt (-want +got):\n%s", d)
		}

		xHeight, _ := table.Field{Table: "OS/2", Offset: 86, Kind: table.Int16}.Get(f.Tables["OS/2"])
		if xHeight != 510 {
			t.Errorf("x-height: got %g, expected 510", xHeight)
		}
		underline, _ := table.Field{Table: "post", Offset: 8, Kind: table.Int16}.Get(f.Tables["post"])
		if underline != -101 {
			t.Errorf("underline position: got %g, expected -101", underline)
		}
		weight, _ := table.OS2WeightClass.Get(f.Tables["OS/2"])
		if weight != 650 {
			t.Errorf("weight class: got %g, expected 650", weight)
		}
		width, _ := table.OS2WidthClass.Get(f.Tables["OS/2"])
		if width != 5 {
			t.Errorf("width class: got %g, expected 5", width)
		}

		for _, tag := range variationTables {
			if _, ok := f.Tables[tag]; ok {
				t.Errorf("table %q not removed", tag)
			}
		}

		names, err := name.Decode(f.Tables["name"])
		if err != nil {
			t.Fatal(err)
		}
		var ids []name.ID
		for _, rec := range names.Records {
			ids = append(ids, rec.NameID)
		}
		if d := cmp.Diff([]name.ID{1, 2, 259}, ids); d != "" {
			t.Errorf("name IDs (-want +got):\n%s", d)
		}
	}
}

// TestInstantiateComposite checks that component offsets and the phantom
// points of composite glyphs are varied.
func TestInstantiateComposite(t *testing.T) {
	f := makeTestFont(t)
	tuples := testGlyphVariations()
	tuples[2] = []tuplevar.Tuple{{
		Region: varmodel.PeakRegion([]float64{1}),
		Points: []int{0, 2}, // the component offset and the right phantom point
		X:      []int16{40, 20},
		Y:      []int16{10, 0},
	}}
	f.Tables["gvar"] = gvar.Encode(1, tuples)

	err := Instantiate(f, varmodel.Location{"wght": 650}, nil)
	if err != nil {
		t.Fatal(err)
	}

	headInfo, err := head.Decode(f.Tables["head"])
	if err != nil {
		t.Fatal(err)
	}
	gg, err := glyf.Decode(&glyf.Encoded{
		GlyfData:   f.Tables["glyf"],
		LocaData:   f.Tables["loca"],
		LocaFormat: headInfo.IndexToLocFormat,
	})
	if err != nil {
		t.Fatal(err)
	}
	comp, ok := gg[2].Data.(glyf.CompositeGlyph)
	if !ok || len(comp.Components) != 1 {
		t.Fatalf("glyph 2 is not a composite with one component: %v", gg[2].Data)
	}
	if c := comp.Components[0]; c.Arg1 != 70 || c.Arg2 != 5 {
		t.Errorf("component offset: got (%d, %d), expected (70, 5)", c.Arg1, c.Arg2)
	}

	boxes, m := instanceMetrics(t, f)
	expectedBox := funit.Rect16{LLx: 170, LLy: 5, URx: 620, URy: 705}
	if boxes[2] != expectedBox {
		t.Errorf("composite bbox: got %v, expected %v", boxes[2], expectedBox)
	}
	expectedMetrics := &hmtx.Metrics{
		Advance: []uint16{500, 650, 710},
		Bearing: []int16{0, 100, 170},
	}
	if d := cmp.Diff(expectedMetrics, m); d != "" {
		t.Errorf("metrics (-want +got):\n%s", d)
	}
	expectedBBox := funit.Rect16{LLx: 100, LLy: 0, URx: 620, URy: 705}
	if bbox := headInfo.FontBBox(); bbox != expectedBBox {
		t.Errorf("font bbox: got %v, expected %v", bbox, expectedBBox)
	}
}

func TestInstantiateMin(t *testing.T) {
	f := makeTestFont(t)
	err := Instantiate(f, varmodel.Location{"wght": 20}, nil)
	if err != nil {
		t.Fatal(err)
	}

	boxes, m := instanceMetrics(t, f)
	expectedBoxes := []funit.Rect16{
		{},
		{LLx: 50, LLy: 0, URx: 450, URy: 700},
		{LLx: 100, LLy: 0, URx: 500, URy: 700},
	}
	if d := cmp.Diff(expectedBoxes, boxes); d != "" {
		t.Errorf("bounding boxes (-want +got):\n%s", d)
	}
	expectedMetrics := &hmtx.Metrics{
		Advance: []uint16{500, 600, 700},
		Bearing: []int16{0, 50, 100},
	}
	if d := cmp.Diff(expectedMetrics, m); d != "" {
		t.Errorf("metrics (-want +got):\n%s", d)
	}

	// the weight class uses the requested value, not the clamped one
	weight, _ := table.OS2WeightClass.Get(f.Tables["OS/2"])
	if weight != 20 {
		t.Errorf("weight class: got %g, expected 20", weight)
	}
}

// At the default location, only the variation tables and the
// variation-only names go away.
func TestInstantiateDefault(t *testing.T) {
	orig := makeTestFont(t)
	f := orig.Clone()
	err := Instantiate(f, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, tag := range []string{"cvt ", "glyf", "hmtx", "OS/2", "post"} {
		if !bytes.Equal(orig.Tables[tag], f.Tables[tag]) {
			t.Errorf("table %q changed", tag)
		}
	}
	boxes, m := instanceMetrics(t, f)
	origBoxes, origMetrics := instanceMetrics(t, orig)
	if d := cmp.Diff(origBoxes, boxes); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff(origMetrics, m); d != "" {
		t.Error(d)
	}
}

func TestUnknownAxis(t *testing.T) {
	a := makeTestFont(t)
	b := makeTestFont(t)
	err := Instantiate(a, varmodel.Location{"wght": 650}, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = Instantiate(b, varmodel.Location{"wght": 650, "XHGT": 3}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(a.Tables, b.Tables); d != "" {
		t.Error(d)
	}
}

func TestNotVariable(t *testing.T) {
	f := makeTestFont(t)
	delete(f.Tables, "fvar")
	err := Instantiate(f, varmodel.Location{"wght": 650}, nil)
	if !sfnt.IsUnsupported(err) {
		t.Errorf("expected NotSupportedError, got %v", err)
	}
}

// A failing stage must leave the font unchanged.
func TestAtomic(t *testing.T) {
	f := makeTestFont(t)
	f.Tables["cvar"] = []byte{0, 1}
	orig := f.Clone()

	err := Instantiate(f, varmodel.Location{"wght": 650}, nil)
	if err == nil {
		t.Fatal("corrupt cvar table not detected")
	}
	if d := cmp.Diff(orig, f); d != "" {
		t.Errorf("font modified (-want +got):\n%s", d)
	}
}

type recordingMerger struct {
	loc varmodel.Normalized
	err error
}

func (m *recordingMerger) Instantiate(f *sfnt.Font, loc varmodel.Normalized) error {
	if _, ok := f.Tables["fvar"]; !ok {
		return errors.New("variation tables removed before layout merge")
	}
	m.loc = loc
	return m.err
}

func TestLayoutMerger(t *testing.T) {
	gdefData := []byte{0, 1, 0, 3, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 18}

	f := makeTestFont(t)
	f.Tables["GDEF"] = gdefData
	err := Instantiate(f, varmodel.Location{"wght": 650}, nil)
	if !sfnt.IsUnsupported(err) {
		t.Errorf("expected NotSupportedError, got %v", err)
	}
	if _, ok := f.Tables["gvar"]; !ok {
		t.Error("font modified")
	}

	merger := &recordingMerger{}
	err = Instantiate(f, varmodel.Location{"wght": 650}, &Options{Layout: merger})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(varmodel.Normalized{0.5}, merger.loc); d != "" {
		t.Error(d)
	}

	f = makeTestFont(t)
	f.Tables["GDEF"] = gdefData
	merger = &recordingMerger{err: errors.New("boom")}
	err = Instantiate(f, varmodel.Location{"wght": 650}, &Options{Layout: merger})
	if err == nil {
		t.Error("merger error not reported")
	}
}

// The instanced font must be readable by an independent sfnt parser.
func TestReadable(t *testing.T) {
	f := makeTestFont(t)
	err := Instantiate(f, varmodel.Location{"wght": 650}, nil)
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	_, err = f.Write(buf)
	if err != nil {
		t.Fatal(err)
	}

	xf, err := xsfnt.Parse(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if n := xf.NumGlyphs(); n != 3 {
		t.Errorf("got %d glyphs, expected 3", n)
	}
	var b xsfnt.Buffer
	adv, err := xf.GlyphAdvance(&b, 1, fixed.I(1000), font.HintingNone)
	if err != nil {
		t.Fatal(err)
	}
	if adv != fixed.I(650) {
		t.Errorf("advance: got %v, expected 650", adv)
	}
	gid, err := xf.GlyphIndex(&b, 'B')
	if err != nil || gid != 2 {
		t.Errorf("glyph index of B: %d %v", gid, err)
	}

	g, err := sfnt.Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(f.TableTags(), g.TableTags()); d != "" {
		t.Error(d)
	}
}
