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

package name

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func utf16(s string) []byte {
	var res []byte
	for _, r := range s {
		res = append(res, byte(r>>8), byte(r))
	}
	return res
}

func testTable() *Table {
	return &Table{
		Records: []Record{
			{PlatformMacintosh, 0, 0, IDFamily, []byte("Test Sans")},
			{PlatformWindows, 1, 0x0407, 257, utf16("Fett")},
			{PlatformWindows, 1, 0x0409, IDFamily, utf16("Test Sans")},
			{PlatformWindows, 1, 0x0409, IDSubfamily, utf16("Regular")},
			{PlatformWindows, 1, 0x0409, 256, utf16("Weight")},
			{PlatformWindows, 1, 0x0409, 257, utf16("Bold")},
			{PlatformWindows, 1, 0x0409, 258, utf16("Width")},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, t1 := range []*Table{
		testTable(),
		{
			Records:  []Record{{PlatformWindows, 1, 0x8000, IDFamily, utf16("X")}},
			LangTags: [][]byte{utf16("en-CA")},
		},
	} {
		data := t1.Encode()
		t2, err := Decode(data)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(t1, t2); d != "" {
			t.Error(d)
		}
	}
}

func TestRemove(t *testing.T) {
	tab := testTable()
	n := tab.Remove(map[ID]bool{IDSubfamily: true, 256: true, 257: true})
	if n != 3 {
		t.Errorf("removed %d records, expected 3", n)
	}
	var ids []ID
	for _, rec := range tab.Records {
		ids = append(ids, rec.NameID)
	}
	if d := cmp.Diff([]ID{1, 1, 2, 258}, ids); d != "" {
		t.Error(d)
	}
}

func TestFind(t *testing.T) {
	tab := testTable()
	if s := tab.Find(257); s != "Bold" {
		t.Errorf("got %q", s)
	}
	if s := tab.Find(IDFamily); s != "Test Sans" {
		t.Errorf("got %q", s)
	}
	if s := tab.Find(999); s != "" {
		t.Errorf("got %q", s)
	}
}

func TestMacRoman(t *testing.T) {
	rec := &Record{PlatformID: PlatformMacintosh, Value: []byte{'C', 'a', 'f', 0x8E}}
	s, ok := rec.String()
	if !ok || s != "Café" {
		t.Errorf("got %q %t", s, ok)
	}
}
