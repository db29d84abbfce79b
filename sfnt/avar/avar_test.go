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

package avar

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTrip(t *testing.T) {
	tags := []string{"wght", "wdth", "opsz"}
	info := Info{
		"wght": {{From: -1, To: -1}, {From: 0, To: 0}, {From: 0.5, To: 0.25}, {From: 1, To: 1}},
		"opsz": {{From: -1, To: -1}, {From: 0, To: 0}, {From: 1, To: 1}},
	}
	info2, err := Decode(info.Encode(tags), tags)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(info, info2); d != "" {
		t.Error(d)
	}
}

func TestErrors(t *testing.T) {
	tags := []string{"wght"}
	unsorted := Info{"wght": {{From: 0.5, To: 0.5}, {From: 0, To: 0}}}
	if _, err := Decode(unsorted.Encode(tags), tags); err == nil {
		t.Error("unsorted segment map accepted")
	}

	data := Info{}.Encode(tags)
	if _, err := Decode(data, []string{"wght", "wdth"}); err == nil {
		t.Error("axis count mismatch not detected")
	}

	data[1] = 2
	if _, err := Decode(data, tags); err == nil {
		t.Error("version 2 accepted")
	}
}
