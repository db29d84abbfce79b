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

package varstore

import (
	"fmt"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/parser"
)

// IndexMap is a decoded delta-set index map.  Entry i gives the variation
// index (outer<<16 | inner) for item i.
type IndexMap []uint32

// DecodeIndexMap reads a delta-set index map.  The argument data must start
// at the beginning of the map.
func DecodeIndexMap(tableName string, data []byte) (IndexMap, error) {
	p := parser.New(tableName, data)
	format, err := p.ReadUint8()
	if err != nil {
		return nil, err
	}
	entryFormat, err := p.ReadUint8()
	if err != nil {
		return nil, err
	}
	var mapCount int
	switch format {
	case 0:
		n, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		mapCount = int(n)
	case 1:
		n, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		mapCount = int(n)
	default:
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/" + tableName,
			Feature:   fmt.Sprintf("delta-set index map format %d", format),
		}
	}

	entrySize := int(entryFormat&0x30)>>4 + 1
	innerBits := int(entryFormat&0x0F) + 1
	if mapCount*entrySize > p.Size()-p.Pos() {
		return nil, p.Error("delta-set index map too short")
	}

	m := make(IndexMap, mapCount)
	for i := range m {
		buf, err := p.ReadBytes(entrySize)
		if err != nil {
			return nil, err
		}
		var entry uint32
		for _, b := range buf {
			entry = entry<<8 | uint32(b)
		}
		outer := entry >> innerBits
		inner := entry & (1<<innerBits - 1)
		m[i] = outer<<16 | inner
	}
	return m, nil
}

// Get returns the variation index for item i.  Items beyond the end of the
// map use the last entry.  A nil map is the identity mapping onto the first
// item variation data subtable.
func (m IndexMap) Get(i int) uint32 {
	if m == nil {
		return uint32(i)
	}
	if len(m) == 0 {
		return NoVariation
	}
	if i >= len(m) {
		i = len(m) - 1
	}
	return m[i]
}

// Encode returns the binary form of the map, using format 1 with 4-byte
// entries and 16 inner index bits.
func (m IndexMap) Encode() []byte {
	res := []byte{1, 0x3F, 0, 0, 0, 0}
	putUint32(res[2:], uint32(len(m)))
	for _, v := range m {
		res = append(res, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return res
}
