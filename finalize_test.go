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

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/fvar"
	"seehuhn.de/go/instancer/sfnt/name"
	"seehuhn.de/go/instancer/sfnt/table"
	"seehuhn.de/go/instancer/varmodel"
)

func TestWidthClass(t *testing.T) {
	cases := []struct {
		wdth     float64
		expected int
	}{
		{10, 1},
		{50, 1},
		{56.25, 2},
		{62.5, 2},
		{85, 4},
		{87.5, 4},
		{100, 5},
		{106.25, 6},
		{175, 9},
		{200, 9},
		{1000, 9},
	}
	for _, c := range cases {
		if got := widthClass(c.wdth); got != c.expected {
			t.Errorf("widthClass(%g) = %d, expected %d", c.wdth, got, c.expected)
		}
	}
}

func TestUnusedNames(t *testing.T) {
	info := &fvar.Info{
		Axes: []fvar.Axis{{AxisNameID: 256}, {AxisNameID: 257}},
		Instances: []fvar.Instance{
			{SubfamilyNameID: 258, PostScriptNameID: 259},
			{SubfamilyNameID: uint16(name.IDSubfamily), PostScriptNameID: fvar.NoName},
		},
	}
	ids := unusedNames(info)
	for _, id := range []name.ID{256, 257, 258, 259, name.IDSubfamily} {
		if !ids[id] {
			t.Errorf("name ID %d not listed", id)
		}
	}
	if ids[fvar.NoName] {
		t.Error("NoName listed")
	}
}

func TestFinalizeStyle(t *testing.T) {
	post := make([]byte, 32)
	post[1] = 3
	cases := []struct {
		user          varmodel.Location
		weight, width float64
		italic        float64
	}{
		{varmodel.Location{"wght": 140}, 140, 5, 0},
		{varmodel.Location{"wght": 0.2, "wdth": 85}, 1, 4, 0},
		{varmodel.Location{"wght": 5000, "slnt": -12}, 1000, 5, -12},
		{varmodel.Location{"slnt": 140}, 400, 5, 90},
	}
	for _, c := range cases {
		f := &sfnt.Font{Tables: map[string][]byte{
			"OS/2": testOS2(),
			"post": append([]byte(nil), post...),
			"fvar": {},
			"STAT": {},
		}}
		ctx := &context{font: f, fvar: &fvar.Info{}, user: c.user}
		err := finalize(ctx)
		if err != nil {
			t.Fatal(err)
		}

		if v, _ := table.OS2WeightClass.Get(f.Tables["OS/2"]); v != c.weight {
			t.Errorf("%v: weight class %g, expected %g", c.user, v, c.weight)
		}
		if v, _ := table.OS2WidthClass.Get(f.Tables["OS/2"]); v != c.width {
			t.Errorf("%v: width class %g, expected %g", c.user, v, c.width)
		}
		if v, _ := table.PostItalicAngle.Get(f.Tables["post"]); v != c.italic {
			t.Errorf("%v: italic angle %g, expected %g", c.user, v, c.italic)
		}
		if f.Has("fvar") || f.Has("STAT") {
			t.Errorf("%v: variation tables not removed", c.user)
		}
	}
}
