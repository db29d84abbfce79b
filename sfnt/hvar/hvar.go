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

// Package hvar reads the "HVAR" and "VVAR" tables, which hold the
// variations of advance widths and heights.
// https://learn.microsoft.com/en-us/typography/opentype/spec/hvar
package hvar

import (
	"fmt"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/parser"
	"seehuhn.de/go/instancer/sfnt/varstore"
)

// Info contains the advance variation data of an "HVAR" or "VVAR" table.
// Side bearing mappings are not decoded.
type Info struct {
	Store *varstore.Store

	// AdvanceMap maps glyph IDs to variation indices.  If AdvanceMap is nil,
	// glyph i uses item i of the first item variation data subtable.
	AdvanceMap varstore.IndexMap
}

// Decode reads an "HVAR" or "VVAR" table.
func Decode(tableName string, data []byte, axisCount int) (*Info, error) {
	p := parser.New(tableName, data)
	major, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if major != 1 {
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/" + tableName,
			Feature:   fmt.Sprintf("table version %d", major),
		}
	}
	err = p.Discard(2)
	if err != nil {
		return nil, err
	}
	storeOffset, err := p.ReadUint32()
	if err != nil {
		return nil, err
	}
	advanceOffset, err := p.ReadUint32()
	if err != nil {
		return nil, err
	}

	if storeOffset == 0 || int(storeOffset) >= len(data) {
		return nil, p.Error("invalid item variation store offset %d", storeOffset)
	}
	info := &Info{}
	info.Store, err = varstore.Decode(tableName, data[storeOffset:], axisCount)
	if err != nil {
		return nil, err
	}
	if advanceOffset != 0 {
		if int(advanceOffset) >= len(data) {
			return nil, p.Error("invalid advance mapping offset %d", advanceOffset)
		}
		info.AdvanceMap, err = varstore.DecodeIndexMap(tableName, data[advanceOffset:])
		if err != nil {
			return nil, err
		}
	}
	return info, nil
}

// AdvanceDelta returns the interpolated advance delta for a glyph.
func (info *Info) AdvanceDelta(in *varstore.Instancer, gid glyph.ID) (float64, error) {
	return in.Value(info.AdvanceMap.Get(int(gid)))
}

// Encode returns the binary form of an "HVAR" table without side bearing
// mappings.
func (info *Info) Encode() []byte {
	headerLen := 20
	store := info.Store.Encode()
	var advanceOffset int
	if info.AdvanceMap != nil {
		advanceOffset = headerLen + len(store)
	}
	res := []byte{
		0, 1, 0, 0,
		0, 0, 0, byte(headerLen),
		byte(advanceOffset >> 24), byte(advanceOffset >> 16),
		byte(advanceOffset >> 8), byte(advanceOffset),
		0, 0, 0, 0,
		0, 0, 0, 0,
	}
	res = append(res, store...)
	if info.AdvanceMap != nil {
		res = append(res, info.AdvanceMap.Encode()...)
	}
	return res
}
