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

package hvar

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/instancer/sfnt/varstore"
	"seehuhn.de/go/instancer/varmodel"
)

func testInfo(m varstore.IndexMap) *Info {
	return &Info{
		Store: &varstore.Store{
			Regions: []varmodel.Region{{{Start: 0, Peak: 1, End: 1}}},
			Data: []*varstore.ItemData{
				{RegionIndices: []int{0}, Deltas: [][]int32{{0}, {40}, {-10}}},
			},
		},
		AdvanceMap: m,
	}
}

func TestRoundTrip(t *testing.T) {
	for _, m := range []varstore.IndexMap{nil, {2, 1, 0}} {
		info := testInfo(m)
		info2, err := Decode("HVAR", info.Encode(), 1)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(info, info2); d != "" {
			t.Error(d)
		}
	}
}

func TestAdvanceDelta(t *testing.T) {
	in := func(info *Info) *varstore.Instancer {
		return varstore.NewInstancer(info.Store, varmodel.Normalized{0.5})
	}

	info := testInfo(nil)
	d, err := info.AdvanceDelta(in(info), 1)
	if err != nil {
		t.Fatal(err)
	}
	if d != 20 {
		t.Errorf("implicit mapping: got %g, expected 20", d)
	}

	info = testInfo(varstore.IndexMap{2, 1, 0})
	d, err = info.AdvanceDelta(in(info), 0)
	if err != nil {
		t.Fatal(err)
	}
	if d != -5 {
		t.Errorf("explicit mapping: got %g, expected -5", d)
	}

	info = testInfo(nil)
	if _, err := info.AdvanceDelta(in(info), 7); err == nil {
		t.Error("out of range glyph accepted")
	}
}
