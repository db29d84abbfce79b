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

// Package gdef inspects the "GDEF" table for variation data.
// https://learn.microsoft.com/en-us/typography/opentype/spec/gdef
package gdef

import (
	"seehuhn.de/go/instancer/sfnt/parser"
)

// HasVariations reports whether a "GDEF" table contains an item variation
// store, i.e. whether the layout tables of the font carry variation data.
func HasVariations(data []byte) (bool, error) {
	p := parser.New("GDEF", data)
	major, err := p.ReadUint16()
	if err != nil {
		return false, err
	}
	minor, err := p.ReadUint16()
	if err != nil {
		return false, err
	}
	if major != 1 {
		return false, p.Error("unknown table version %d.%d", major, minor)
	}
	if minor < 3 {
		return false, nil
	}
	err = p.SeekPos(14)
	if err != nil {
		return false, err
	}
	offset, err := p.ReadUint32()
	if err != nil {
		return false, err
	}
	return offset != 0, nil
}
