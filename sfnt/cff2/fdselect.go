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

package cff2

import (
	"fmt"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/parser"
)

// readFDSelect reads an FDSelect structure in format 0, 3 or 4.
func readFDSelect(p *parser.Parser, nGlyphs, nFontDicts int) ([]uint16, error) {
	format, err := p.ReadUint8()
	if err != nil {
		return nil, err
	}

	res := make([]uint16, nGlyphs)
	switch format {
	case 0:
		buf, err := p.ReadBytes(nGlyphs)
		if err != nil {
			return nil, err
		}
		for i, fd := range buf {
			if int(fd) >= nFontDicts {
				return nil, p.Error("FDSelect out of range")
			}
			res[i] = uint16(fd)
		}
		return res, nil

	case 3, 4:
		var nRanges int
		if format == 3 {
			n, err := p.ReadUint16()
			nRanges = int(n)
			if err != nil {
				return nil, err
			}
		} else {
			n, err := p.ReadUint32()
			nRanges = int(n)
			if err != nil {
				return nil, err
			}
		}
		if nRanges == 0 || nRanges > nGlyphs {
			return nil, p.Error("invalid number of FDSelect ranges")
		}

		readRange := func() (int, int, error) {
			if format == 3 {
				first, err := p.ReadUint16()
				if err != nil {
					return 0, 0, err
				}
				fd, err := p.ReadUint8()
				return int(first), int(fd), err
			}
			first, err := p.ReadUint32()
			if err != nil {
				return 0, 0, err
			}
			fd, err := p.ReadUint16()
			return int(first), int(fd), err
		}

		first, fd, err := readRange()
		if err != nil {
			return nil, err
		}
		if first != 0 {
			return nil, p.Error("FDSelect does not start at glyph 0")
		}
		for i := 0; i < nRanges; i++ {
			var next, nextFD int
			if i < nRanges-1 {
				next, nextFD, err = readRange()
			} else if format == 3 {
				var sentinel uint16
				sentinel, err = p.ReadUint16()
				next = int(sentinel)
			} else {
				var sentinel uint32
				sentinel, err = p.ReadUint32()
				next = int(sentinel)
			}
			if err != nil {
				return nil, err
			}
			if next <= first || next > nGlyphs || fd >= nFontDicts {
				return nil, p.Error("invalid FDSelect range")
			}
			for gid := first; gid < next; gid++ {
				res[gid] = uint16(fd)
			}
			if i == nRanges-1 && next != nGlyphs {
				return nil, p.Error("wrong FDSelect sentinel")
			}
			first, fd = next, nextFD
		}
		return res, nil

	default:
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/cff2",
			Feature:   fmt.Sprintf("FDSelect format %d", format),
		}
	}
}

// encodeFDSelect writes format 3, or format 4 for fonts with more than
// 65535 glyphs or font dicts.
func encodeFDSelect(fdSelect []uint16) []byte {
	nGlyphs := len(fdSelect)
	long := nGlyphs > 0xFFFF
	for _, fd := range fdSelect {
		if fd > 0xFF {
			long = true
		}
	}

	var buf []byte
	if long {
		buf = []byte{4, 0, 0, 0, 0}
	} else {
		buf = []byte{3, 0, 0}
	}
	nSeg := 0
	for i, fd := range fdSelect {
		if i > 0 && fd == fdSelect[i-1] {
			continue
		}
		if long {
			buf = append(buf, byte(i>>24), byte(i>>16), byte(i>>8), byte(i), byte(fd>>8), byte(fd))
		} else {
			buf = append(buf, byte(i>>8), byte(i), byte(fd))
		}
		nSeg++
	}
	if long {
		buf = append(buf, byte(nGlyphs>>24), byte(nGlyphs>>16), byte(nGlyphs>>8), byte(nGlyphs))
		buf[1], buf[2], buf[3], buf[4] = byte(nSeg>>24), byte(nSeg>>16), byte(nSeg>>8), byte(nSeg)
	} else {
		buf = append(buf, byte(nGlyphs>>8), byte(nGlyphs))
		buf[1], buf[2] = byte(nSeg>>8), byte(nSeg)
	}
	return buf
}
