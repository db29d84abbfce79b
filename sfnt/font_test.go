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

package sfnt

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testFont() *Font {
	head := make([]byte, 54)
	head[1] = 1
	copy(head[12:16], []byte{0x5F, 0x0F, 0x3C, 0xF5})
	return &Font{
		ScalerType: ScalerTypeTrueType,
		Tables: map[string][]byte{
			"head": head,
			"maxp": {0, 0, 0x50, 0, 0, 1},
			"name": {0, 0, 0, 0, 0, 6},
			"cvt ": {0, 1, 0, 2, 0, 3},
		},
	}
}

func TestWriteRead(t *testing.T) {
	f := testFont()
	buf := &bytes.Buffer{}
	_, err := f.Write(buf)
	if err != nil {
		t.Fatal(err)
	}

	if sum := checksum(buf.Bytes()); sum != 0xB1B0AFBA {
		t.Errorf("file checksum %08x", sum)
	}

	f2, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if f2.ScalerType != f.ScalerType {
		t.Errorf("scaler type %08x", f2.ScalerType)
	}
	if d := cmp.Diff(f.TableTags(), f2.TableTags()); d != "" {
		t.Error(d)
	}
	for _, tag := range []string{"maxp", "name", "cvt "} {
		if !bytes.Equal(f.Tables[tag], f2.Tables[tag]) {
			t.Errorf("table %q changed", tag)
		}
	}
}

func TestWriteSkipsNil(t *testing.T) {
	f := testFont()
	f.Tables["DSIG"] = nil
	buf := &bytes.Buffer{}
	_, err := f.Write(buf)
	if err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if numTables := int(data[4])<<8 | int(data[5]); numTables != 4 {
		t.Errorf("directory lists %d tables, expected 4", numTables)
	}
	f2, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if f2.Has("DSIG") {
		t.Error("nil table was written")
	}
}

func TestInvalidHeader(t *testing.T) {
	for _, data := range [][]byte{
		{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},          // no tables
		{'w', 'O', 'F', 'F', 0, 1, 0, 0, 0, 0, 0, 0}, // WOFF
		{0, 1, 0},
	} {
		_, err := Read(bytes.NewReader(data))
		if err == nil {
			t.Errorf("%q: missing error", data)
		}
	}
}

func TestCloneDelete(t *testing.T) {
	f := testFont()
	g := f.Clone()
	g.Tables["cvt "][0] = 0xFF
	if f.Tables["cvt "][0] != 0 {
		t.Error("clone shares table data")
	}

	removed := g.Delete("cvt ", "gvar", "name")
	if d := cmp.Diff([]string{"cvt ", "name"}, removed); d != "" {
		t.Error(d)
	}
	if g.Has("name") || !g.Has("head", "maxp") || !f.Has("name") {
		t.Error("wrong tables after Delete")
	}
}

func TestErrors(t *testing.T) {
	var err error = &NotSupportedError{SubSystem: "sfnt/test", Feature: "frobnication"}
	if !IsUnsupported(err) || IsInvalid(err) {
		t.Error("NotSupportedError misclassified")
	}
	err = &InvalidFontError{SubSystem: "sfnt/test", Reason: "broken"}
	if IsUnsupported(err) || !IsInvalid(err) {
		t.Error("InvalidFontError misclassified")
	}
}
