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

// Package varstore reads item variation stores and delta-set index maps,
// the variation data format used by MVAR, HVAR, VVAR, GDEF and CFF2.
// https://learn.microsoft.com/en-us/typography/opentype/spec/otvarcommonformats#item-variation-store
package varstore

import (
	"fmt"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/parser"
	"seehuhn.de/go/instancer/varmodel"
)

// Store is a decoded item variation store.
type Store struct {
	Regions []varmodel.Region
	Data    []*ItemData
}

// ItemData holds one item variation data subtable.
type ItemData struct {
	// RegionIndices lists the regions the deltas refer to.
	RegionIndices []int

	// Deltas has one row per item; each row has one value per entry of
	// RegionIndices.
	Deltas [][]int32
}

// NoVariation is the variation index which marks a value without variation
// data.
const NoVariation = 0xFFFFFFFF

// Decode reads an item variation store.  The argument data must start at
// the beginning of the store.  The number of axes in the region list must
// match axisCount.
func Decode(tableName string, data []byte, axisCount int) (*Store, error) {
	p := parser.New(tableName, data)

	format, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if format != 1 {
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/" + tableName,
			Feature:   fmt.Sprintf("item variation store format %d", format),
		}
	}
	regionListOffset, err := p.ReadUint32()
	if err != nil {
		return nil, err
	}
	dataCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	dataOffsets := make([]uint32, dataCount)
	for i := range dataOffsets {
		dataOffsets[i], err = p.ReadUint32()
		if err != nil {
			return nil, err
		}
	}

	s := &Store{}

	err = p.SeekPos(int(regionListOffset))
	if err != nil {
		return nil, err
	}
	regionAxisCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	regionCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if int(regionAxisCount) != axisCount && regionCount > 0 {
		return nil, p.Error("region list has %d axes, expected %d",
			regionAxisCount, axisCount)
	}
	s.Regions = make([]varmodel.Region, regionCount)
	for i := range s.Regions {
		r := make(varmodel.Region, regionAxisCount)
		for j := range r {
			v, err := p.ReadF2Dot14Slice(3)
			if err != nil {
				return nil, err
			}
			r[j] = varmodel.Support{Start: v[0], Peak: v[1], End: v[2]}
		}
		s.Regions[i] = r
	}

	for _, offs := range dataOffsets {
		err = p.SeekPos(int(offs))
		if err != nil {
			return nil, err
		}
		d, err := decodeItemData(p, len(s.Regions))
		if err != nil {
			return nil, err
		}
		s.Data = append(s.Data, d)
	}

	return s, nil
}

func decodeItemData(p *parser.Parser, numRegions int) (*ItemData, error) {
	itemCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	wordDeltaCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	regionIndexCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	longWords := wordDeltaCount&0x8000 != 0
	wordCount := int(wordDeltaCount & 0x7FFF)
	if wordCount > int(regionIndexCount) {
		return nil, p.Error("invalid word delta count %d", wordCount)
	}

	d := &ItemData{
		RegionIndices: make([]int, regionIndexCount),
		Deltas:        make([][]int32, itemCount),
	}
	for i := range d.RegionIndices {
		idx, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		if int(idx) >= numRegions {
			return nil, p.Error("region index %d out of range", idx)
		}
		d.RegionIndices[i] = int(idx)
	}

	for i := range d.Deltas {
		row := make([]int32, regionIndexCount)
		for j := range row {
			var v int32
			switch {
			case j < wordCount && longWords:
				v, err = p.ReadInt32()
			case j < wordCount || longWords:
				var x int16
				x, err = p.ReadInt16()
				v = int32(x)
			default:
				var x int8
				x, err = p.ReadInt8()
				v = int32(x)
			}
			if err != nil {
				return nil, err
			}
			row[j] = v
		}
		d.Deltas[i] = row
	}
	return d, nil
}

// Encode returns the binary form of the store.  Deltas are written as
// 16-bit values, or as 32-bit values if needed.
func (s *Store) Encode() []byte {
	axisCount := 0
	if len(s.Regions) > 0 {
		axisCount = len(s.Regions[0])
	}

	headerLen := 8 + 4*len(s.Data)
	regionList := []byte{
		byte(axisCount >> 8), byte(axisCount),
		byte(len(s.Regions) >> 8), byte(len(s.Regions)),
	}
	for _, r := range s.Regions {
		for _, sup := range r {
			regionList = appendF2Dot14(regionList, sup.Start)
			regionList = appendF2Dot14(regionList, sup.Peak)
			regionList = appendF2Dot14(regionList, sup.End)
		}
	}

	res := make([]byte, headerLen, headerLen+len(regionList))
	res[1] = 1
	putUint32(res[2:], uint32(headerLen))
	res[6], res[7] = byte(len(s.Data)>>8), byte(len(s.Data))
	res = append(res, regionList...)

	for i, d := range s.Data {
		putUint32(res[8+4*i:], uint32(len(res)))

		long := false
		for _, row := range d.Deltas {
			for _, v := range row {
				if v < -32768 || v > 32767 {
					long = true
				}
			}
		}
		n := len(d.RegionIndices)
		wordDeltaCount := n
		if long {
			wordDeltaCount |= 0x8000
		}
		res = append(res,
			byte(len(d.Deltas)>>8), byte(len(d.Deltas)),
			byte(wordDeltaCount>>8), byte(wordDeltaCount),
			byte(n>>8), byte(n))
		for _, idx := range d.RegionIndices {
			res = append(res, byte(idx>>8), byte(idx))
		}
		for _, row := range d.Deltas {
			for _, v := range row {
				if long {
					res = append(res, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
				} else {
					res = append(res, byte(v>>8), byte(v))
				}
			}
		}
	}
	return res
}

func putUint32(b []byte, x uint32) {
	b[0], b[1], b[2], b[3] = byte(x>>24), byte(x>>16), byte(x>>8), byte(x)
}
