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
	"seehuhn.de/go/instancer/sfnt/parser"
)

// readIndex reads a CFF2 INDEX, which has a 32-bit count.
func readIndex(p *parser.Parser) ([][]byte, error) {
	count, err := p.ReadUint32()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	offSize, err := p.ReadUint8()
	if err != nil {
		return nil, err
	}
	if offSize < 1 || offSize > 4 {
		return nil, p.Error("invalid INDEX offset size %d", offSize)
	}
	if int64(count+1)*int64(offSize) > int64(p.Size()-p.Pos()) {
		return nil, p.Error("INDEX count %d too large", count)
	}

	offsets := make([]uint32, count+1)
	prevOffset := uint32(1)
	for i := range offsets {
		blob, err := p.ReadBytes(int(offSize))
		if err != nil {
			return nil, err
		}
		var offs uint32
		for _, x := range blob {
			offs = offs<<8 + uint32(x)
		}
		if offs < prevOffset {
			return nil, p.Error("invalid INDEX offsets")
		}
		offsets[i] = offs - 1
		prevOffset = offs
	}

	buf, err := p.ReadBytes(int(offsets[count]))
	if err != nil {
		return nil, err
	}

	res := make([][]byte, count)
	for i := range res {
		res[i] = buf[offsets[i]:offsets[i+1]:offsets[i+1]]
	}
	return res, nil
}

// appendIndex appends the binary form of a CFF2 INDEX to buf.
func appendIndex(buf []byte, data [][]byte) []byte {
	count := len(data)
	buf = append(buf, byte(count>>24), byte(count>>16), byte(count>>8), byte(count))
	if count == 0 {
		return buf
	}

	bodyLength := 0
	for _, blob := range data {
		bodyLength += len(blob)
	}
	offSize := offsetSize(bodyLength)
	buf = append(buf, byte(offSize))

	pos := uint32(1)
	for i := 0; i <= count; i++ {
		for j := offSize - 1; j >= 0; j-- {
			buf = append(buf, byte(pos>>(8*j)))
		}
		if i < count {
			pos += uint32(len(data[i]))
		}
	}
	for _, blob := range data {
		buf = append(buf, blob...)
	}
	return buf
}

func offsetSize(bodyLength int) int {
	offSize := 1
	for offSize < 4 && bodyLength+1 >= 1<<(8*offSize) {
		offSize++
	}
	return offSize
}

// indexLength returns the size of an INDEX with count elements and the
// given total data length.
func indexLength(count, bodyLength int) int {
	if count == 0 {
		return 4
	}
	return 4 + 1 + (count+1)*offsetSize(bodyLength) + bodyLength
}
