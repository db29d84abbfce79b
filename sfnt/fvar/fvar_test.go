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

package fvar

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/instancer/varmodel"
)

func testInfo() *Info {
	return &Info{
		Axes: []Axis{
			{Axis: varmodel.Axis{Tag: "wght", Min: 100, Default: 400, Max: 900}, AxisNameID: 256},
			{Axis: varmodel.Axis{Tag: "wdth", Min: 62.5, Default: 100, Max: 100}, Flags: 1, AxisNameID: 257},
		},
		Instances: []Instance{
			{SubfamilyNameID: 258, Coordinates: []float64{700, 100}, PostScriptNameID: 259},
			{SubfamilyNameID: 260, Coordinates: []float64{400, 75}, PostScriptNameID: NoName},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	info := testInfo()
	info2, err := Decode(info.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(info, info2); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff([]string{"wght", "wdth"}, info2.Tags()); d != "" {
		t.Error(d)
	}
	axes := info2.AxisList()
	if axes[1].Min != 62.5 || axes[0].Max != 900 {
		t.Errorf("wrong axis list %v", axes)
	}
}

func TestDuplicateAxis(t *testing.T) {
	info := testInfo()
	info.Axes[1].Tag = "wght"
	_, err := Decode(info.Encode())
	if err == nil {
		t.Error("duplicate axis accepted")
	}
}

func TestNoPostScriptNames(t *testing.T) {
	info := testInfo()
	data := info.Encode()

	// Shrink the instance records to the size without PostScript name IDs.
	n := len(info.Axes)
	short := append([]byte(nil), data[:16+20*n]...)
	short[15] = byte(4*n + 4)
	recSize := 4*n + 6
	for i := range info.Instances {
		start := 16 + 20*n + i*recSize
		short = append(short, data[start:start+recSize-2]...)
	}

	info2, err := Decode(short)
	if err != nil {
		t.Fatal(err)
	}
	for i, inst := range info2.Instances {
		if inst.PostScriptNameID != NoName {
			t.Errorf("instance %d: PostScript name ID %d", i, inst.PostScriptNameID)
		}
		if d := cmp.Diff(info.Instances[i].Coordinates, inst.Coordinates); d != "" {
			t.Error(d)
		}
	}
}
