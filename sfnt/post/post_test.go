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

package post

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNames(t *testing.T) {
	info := &Info{
		ItalicAngle:        -12.5,
		UnderlinePosition:  -100,
		UnderlineThickness: 50,
		Names:              []string{".notdef", "A", "A.alt", "uni0416", "A.alt"},
	}
	data := info.Encode()
	info2, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(info, info2); d != "" {
		t.Fatal(d)
	}

	if name := info2.GlyphName(2); name != "A.alt" {
		t.Errorf("glyph 2 is %q", name)
	}
	if name := info2.GlyphName(42); name != "glyph00042" {
		t.Errorf("glyph 42 is %q", name)
	}
}

func TestVersion1(t *testing.T) {
	info := &Info{Names: append([]string(nil), macRoman...)}
	data := info.Encode()
	if len(data) != postEncLength {
		t.Errorf("expected a version 1 table of %d bytes, got %d", postEncLength, len(data))
	}
	info2, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if info2.GlyphName(36) != "A" {
		t.Errorf("glyph 36 is %q", info2.GlyphName(36))
	}
}

func FuzzPost(f *testing.F) {
	f.Add((&Info{
		ItalicAngle:        -9,
		UnderlinePosition:  -50,
		UnderlineThickness: 10,
	}).Encode())
	f.Add((&Info{
		Names: []string{".notdef", "space", "x.sc"},
	}).Encode())

	f.Fuzz(func(t *testing.T, in []byte) {
		i1, err := Decode(in)
		if err != nil {
			return
		}

		buf := i1.Encode()
		i2, err := Decode(buf)
		if err != nil {
			t.Fatal(err)
		}

		if d := cmp.Diff(i1, i2); d != "" {
			t.Fatal(d)
		}
	})
}
