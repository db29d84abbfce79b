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

// Package cvt reads and writes the "cvt " table, the control values used by
// TrueType instructions.
// https://learn.microsoft.com/en-us/typography/opentype/spec/cvt
package cvt

import (
	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/instancer/sfnt"
)

// Table holds the control values.
type Table []funit.Int16

// Decode reads a "cvt " table.
func Decode(data []byte) (Table, error) {
	if len(data)%2 != 0 {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/cvt",
			Reason:    "odd table length",
		}
	}
	res := make(Table, len(data)/2)
	for i := range res {
		res[i] = funit.Int16(uint16(data[2*i])<<8 | uint16(data[2*i+1]))
	}
	return res, nil
}

// Encode returns the binary form of the table.
func (t Table) Encode() []byte {
	res := make([]byte, 2*len(t))
	for i, v := range t {
		res[2*i] = byte(uint16(v) >> 8)
		res[2*i+1] = byte(v)
	}
	return res
}
