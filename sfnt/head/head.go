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

// Package head reads and writes the "head" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/head
package head

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/instancer/sfnt"
)

// Info contains the fields of the "head" table.  Decoding and encoding is
// lossless, apart from the checksum adjustment which is recomputed when the
// font is written.
type Info struct {
	Version            uint32
	FontRevision       uint32
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64
	Modified           int64

	XMin int16
	YMin int16
	XMax int16
	YMax int16

	MacStyle uint16

	LowestRecPPEM     uint16
	FontDirectionHint int16

	IndexToLocFormat int16
	GlyphDataFormat  int16
}

const headLength = 54

// Decode reads a "head" table.
func Decode(data []byte) (*Info, error) {
	if len(data) < headLength {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/head",
			Reason:    "table too short",
		}
	}
	info := &Info{}
	err := binary.Read(bytes.NewReader(data), binary.BigEndian, info)
	if err != nil {
		return nil, err
	}

	if info.Version>>16 != 1 {
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/head",
			Feature:   fmt.Sprintf("table version %08x", info.Version),
		}
	}
	if info.MagicNumber != 0x5F0F3CF5 {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/head",
			Reason:    fmt.Sprintf("invalid magic number %08x", info.MagicNumber),
		}
	}
	return info, nil
}

// Encode returns the binary representation of the head table.
func (info *Info) Encode() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, headLength))
	_ = binary.Write(buf, binary.BigEndian, info)
	return buf.Bytes()
}

// FontBBox returns the bounding box of all glyphs.
func (info *Info) FontBBox() funit.Rect16 {
	return funit.Rect16{
		LLx: funit.Int16(info.XMin),
		LLy: funit.Int16(info.YMin),
		URx: funit.Int16(info.XMax),
		URy: funit.Int16(info.YMax),
	}
}

// SetFontBBox sets the bounding box of all glyphs.
func (info *Info) SetFontBBox(bbox funit.Rect16) {
	info.XMin = int16(bbox.LLx)
	info.YMin = int16(bbox.LLy)
	info.XMax = int16(bbox.URx)
	info.YMax = int16(bbox.URy)
}
