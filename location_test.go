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
	"math"
	"testing"

	"seehuhn.de/go/instancer/sfnt/avar"
	"seehuhn.de/go/instancer/varmodel"
)

func TestResolveLocation(t *testing.T) {
	axes := []varmodel.Axis{
		{Tag: "wght", Min: 100, Default: 400, Max: 900},
		{Tag: "wdth", Min: 75, Default: 100, Max: 100},
	}
	segments := avar.Info{
		"wdth": {{From: -1, To: -1}, {From: -0.4, To: -0.3}, {From: 0, To: 0}, {From: 1, To: 1}},
	}

	cases := []struct {
		loc      varmodel.Location
		expected varmodel.Normalized
	}{
		{nil, varmodel.Normalized{0, 0}},
		{varmodel.Location{"wght": 400}, varmodel.Normalized{0, 0}},
		{varmodel.Location{"wght": 900}, varmodel.Normalized{1, 0}},
		{varmodel.Location{"wght": 2000}, varmodel.Normalized{1, 0}},
		{varmodel.Location{"wght": 650, "wdth": 75}, varmodel.Normalized{0.5, -1}},
		{varmodel.Location{"wdth": 90}, varmodel.Normalized{0, -0.3}},
		{varmodel.Location{"wdth": 120}, varmodel.Normalized{0, 0}},
		{varmodel.Location{"opsz": 12}, varmodel.Normalized{0, 0}},
	}
	for _, c := range cases {
		got := resolveLocation(axes, segments, c.loc)
		if len(got) != len(c.expected) {
			t.Fatalf("%v: got %v", c.loc, got)
		}
		for i := range got {
			if math.Abs(got[i]-c.expected[i]) > 1.0/16384 {
				t.Errorf("%v: got %v, expected %v", c.loc, got, c.expected)
				break
			}
		}
	}
}

// Normalized coordinates are multiples of 1/16384.
func TestResolveLocationQuantized(t *testing.T) {
	axes := []varmodel.Axis{{Tag: "wght", Min: 100, Default: 400, Max: 900}}
	got := resolveLocation(axes, nil, varmodel.Location{"wght": 140})
	x := got[0] * 16384
	if x != math.Round(x) {
		t.Errorf("%g is not quantized", got[0])
	}
	if math.Abs(got[0]+0.8667) > 1e-3 {
		t.Errorf("got %g, expected -0.867", got[0])
	}
}
