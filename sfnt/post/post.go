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

// Package post has code for reading and writing the "post" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/post
package post

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/parser"
)

// Info contains information from the "post" table.
type Info struct {
	ItalicAngle        float64     // Italic angle in degrees
	UnderlinePosition  funit.Int16 // Underline position (negative)
	UnderlineThickness funit.Int16 // Underline thickness
	IsFixedPitch       bool

	Names []string // can be nil
}

// Decode reads a "post" table.
func Decode(data []byte) (*Info, error) {
	post := &postEnc{}
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, post); err != nil {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/post",
			Reason:    "table too short",
		}
	}

	info := &Info{
		ItalicAngle:        float64(post.ItalicAngle) / 65536,
		UnderlinePosition:  post.UnderlinePosition,
		UnderlineThickness: post.UnderlineThickness,
		IsFixedPitch:       post.IsFixedPitch != 0,
	}

	switch post.Version {
	case 0x00010000:
		info.Names = append([]string(nil), macRoman...)

	case 0x00020000:
		p := parser.New("post", data)
		err := p.SeekPos(postEncLength)
		if err != nil {
			return nil, err
		}
		numGlyphs, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		index := make([]int, numGlyphs)
		numStrings := 0
		nMac := len(macRoman)
		for i := range index {
			idx, err := p.ReadUint16()
			if err != nil {
				return nil, err
			}
			index[i] = int(idx)
			numStrings = max(numStrings, int(idx)-nMac+1)
		}

		names := make([]string, numStrings)
		for i := range names {
			l, err := p.ReadUint8()
			if err != nil {
				return nil, err
			}
			buf, err := p.ReadBytes(int(l))
			if err != nil {
				return nil, err
			}
			names[i] = string(buf)
		}

		info.Names = make([]string, numGlyphs)
		for i, idx := range index {
			if idx < nMac {
				info.Names[i] = macRoman[idx]
			} else {
				info.Names[i] = names[idx-nMac]
			}
		}

	case 0x00030000:
		// pass

	default:
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/post",
			Feature:   fmt.Sprintf("table version %08x", post.Version),
		}
	}

	return info, nil
}

// Encode encodes the "post" table.
func (info *Info) Encode() []byte {
	var version uint32
	if info.Names == nil {
		version = 0x00030000
	} else if isMacRoman(info.Names) {
		version = 0x00010000
	} else {
		version = 0x00020000
	}

	header := &postEnc{
		Version:            version,
		ItalicAngle:        int32(math.Round(info.ItalicAngle * 65536)),
		UnderlinePosition:  info.UnderlinePosition,
		UnderlineThickness: info.UnderlineThickness,
	}
	if info.IsFixedPitch {
		header.IsFixedPitch = 1
	}
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.BigEndian, header)

	if version == 0x00020000 {
		numGlyphs := len(info.Names)
		buf.Write([]byte{byte(numGlyphs >> 8), byte(numGlyphs)})

		mac := make(map[string]int, len(macRoman))
		for i, name := range macRoman {
			mac[name] = i
		}
		var stringData []byte
		numStrings := 0

		for _, name := range info.Names {
			idx, ok := mac[name]
			if !ok {
				idx = len(macRoman) + numStrings
				stringData = append(stringData, byte(len(name)))
				stringData = append(stringData, name...)
				numStrings++
			}
			buf.Write([]byte{byte(idx >> 8), byte(idx)})
		}
		buf.Write(stringData)
	}

	return buf.Bytes()
}

// GlyphName returns the name of glyph gid, or a generated name of the form
// "glyph00042" if the table has no names for the glyph.
func (info *Info) GlyphName(gid int) string {
	if info != nil && gid < len(info.Names) && info.Names[gid] != "" {
		return info.Names[gid]
	}
	return fmt.Sprintf("glyph%05d", gid)
}

type postEnc struct {
	Version            uint32
	ItalicAngle        int32
	UnderlinePosition  funit.Int16
	UnderlineThickness funit.Int16
	IsFixedPitch       uint32
	MinMemType42       uint32
	MaxMemType42       uint32
	MinMemType1        uint32
	MaxMemType1        uint32
}

const postEncLength = 32
