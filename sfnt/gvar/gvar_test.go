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

package gvar

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/instancer/sfnt/tuplevar"
	"seehuhn.de/go/instancer/varmodel"
)

func TestRoundTrip(t *testing.T) {
	region := varmodel.PeakRegion([]float64{1, 0})
	data := Encode(2, [][]tuplevar.Tuple{
		nil,
		{{
			Region: region,
			Points: []int{0, 2},
			X:      []int16{10, -10},
			Y:      []int16{0, 5},
		}},
		nil,
	})

	var asked []glyph.ID
	info, err := Decode(data, 2, func(gid glyph.ID) (int, error) {
		asked = append(asked, gid)
		return 5, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]glyph.ID{1}, asked); d != "" {
		t.Errorf("numPoints calls (-want +got):\n%s", d)
	}

	expected := [][]Variation{
		nil,
		{{
			Region: region,
			Deltas: []Delta{
				{Vec2: vec.Vec2{X: 10}, Explicit: true},
				{},
				{Vec2: vec.Vec2{X: -10, Y: 5}, Explicit: true},
				{},
				{},
			},
		}},
		nil,
	}
	if d := cmp.Diff(expected, info.Glyphs); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestAxisCount(t *testing.T) {
	data := Encode(2, [][]tuplevar.Tuple{nil})
	_, err := Decode(data, 1, func(glyph.ID) (int, error) { return 0, nil })
	if err == nil {
		t.Error("axis count mismatch not detected")
	}
}

func TestAllPoints(t *testing.T) {
	data := Encode(1, [][]tuplevar.Tuple{{{
		Region: varmodel.PeakRegion([]float64{-1}),
		X:      []int16{1, 2, 3, 4},
		Y:      []int16{-1, -2, -3, -4},
	}}})
	info, err := Decode(data, 1, func(glyph.ID) (int, error) { return 4, nil })
	if err != nil {
		t.Fatal(err)
	}
	for i, d := range info.Glyphs[0][0].Deltas {
		if !d.Explicit || d.X != float64(i+1) || d.Y != -float64(i+1) {
			t.Errorf("point %d: got %v", i, d)
		}
	}
}
