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

// Package mvar reads the "MVAR" table, which holds the variations of
// global font metrics stored in other tables.
// https://learn.microsoft.com/en-us/typography/opentype/spec/mvar
package mvar

import (
	"fmt"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/parser"
	"seehuhn.de/go/instancer/sfnt/varstore"
)

// Record associates a metric tag with a variation index.
type Record struct {
	Tag    string
	VarIdx uint32
}

// Info contains the decoded "MVAR" table.
type Info struct {
	Records []Record
	Store   *varstore.Store // nil if the table has no variation store
}

// Decode reads an "MVAR" table.
func Decode(data []byte, axisCount int) (*Info, error) {
	p := parser.New("MVAR", data)
	major, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if major != 1 {
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/MVAR",
			Feature:   fmt.Sprintf("table version %d", major),
		}
	}
	err = p.Discard(4) // minor version, reserved
	if err != nil {
		return nil, err
	}
	recordSize, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	recordCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	storeOffset, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if recordCount > 0 && recordSize < 8 {
		return nil, p.Error("invalid value record size %d", recordSize)
	}

	info := &Info{}
	for i := 0; i < int(recordCount); i++ {
		err = p.SeekPos(12 + i*int(recordSize))
		if err != nil {
			return nil, err
		}
		tag, err := p.ReadTag()
		if err != nil {
			return nil, err
		}
		outer, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		inner, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		info.Records = append(info.Records, Record{
			Tag:    tag,
			VarIdx: uint32(outer)<<16 | uint32(inner),
		})
	}

	if storeOffset != 0 {
		if int(storeOffset) > len(data) {
			return nil, p.Error("item variation store offset out of range")
		}
		info.Store, err = varstore.Decode("MVAR", data[storeOffset:], axisCount)
		if err != nil {
			return nil, err
		}
	}
	return info, nil
}

// Encode returns the binary form of the table.
func (info *Info) Encode() []byte {
	n := len(info.Records)
	storeOffset := 12 + 8*n
	if info.Store == nil {
		storeOffset = 0
	}
	res := []byte{
		0, 1, 0, 0, 0, 0,
		0, 8,
		byte(n >> 8), byte(n),
		byte(storeOffset >> 8), byte(storeOffset),
	}
	for _, rec := range info.Records {
		res = append(res, rec.Tag...)
		res = append(res,
			byte(rec.VarIdx>>24), byte(rec.VarIdx>>16),
			byte(rec.VarIdx>>8), byte(rec.VarIdx))
	}
	if info.Store != nil {
		res = append(res, info.Store.Encode()...)
	}
	return res
}
