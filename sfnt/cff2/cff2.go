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

// Package cff2 reads and writes "CFF2" tables, the variable version of the
// Compact Font Format.
// https://learn.microsoft.com/en-us/typography/opentype/spec/cff2
package cff2

import (
	"fmt"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/parser"
	"seehuhn.de/go/instancer/sfnt/varstore"
)

// Font is a decoded "CFF2" table.
type Font struct {
	// TopDict holds the top DICT entries other than the offsets to
	// CharStrings, FDArray, FDSelect and the variation store.
	TopDict Dict

	GlobalSubrs [][]byte
	CharStrings [][]byte
	FontDicts   []*FontDict

	// FDSelect gives the font dict index for every glyph.  FDSelect is
	// nil if the font has no FDSelect structure, in which case all glyphs
	// use font dict 0.
	FDSelect []uint16

	// VStore is the item variation store of the font, or nil.
	VStore *varstore.Store
}

// FontDict is one element of the FDArray, together with its Private DICT
// and local subroutines.
type FontDict struct {
	Dict    Dict // without the Private entry
	Private Dict // without the Subrs and vsindex entries
	VSIndex int  // the vsindex declared in the Private DICT
	Subrs   [][]byte
}

// FDIndex returns the index of the font dict used by glyph gid.
func (f *Font) FDIndex(gid int) int {
	if f.FDSelect == nil || gid >= len(f.FDSelect) {
		return 0
	}
	return int(f.FDSelect[gid])
}

// Decode reads a "CFF2" table.  The argument axisCount is the number of
// axes in the "fvar" table.
func Decode(data []byte, axisCount int) (*Font, error) {
	p := parser.New("CFF2", data)
	major, err := p.ReadUint8()
	if err != nil {
		return nil, err
	}
	if major != 2 {
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/cff2",
			Feature:   fmt.Sprintf("CFF version %d", major),
		}
	}
	err = p.Discard(1)
	if err != nil {
		return nil, err
	}
	headerSize, err := p.ReadUint8()
	if err != nil {
		return nil, err
	}
	topDictLength, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	topEnd := int(headerSize) + int(topDictLength)
	if headerSize < 5 || topEnd > len(data) {
		return nil, p.Error("invalid header")
	}

	topDict, _, err := decodeDict(data[headerSize:topEnd], nil)
	if err != nil {
		return nil, err
	}

	f := &Font{}

	err = p.SeekPos(topEnd)
	if err != nil {
		return nil, err
	}
	f.GlobalSubrs, err = readIndex(p)
	if err != nil {
		return nil, err
	}

	if offs, ok := topDict.getInt(OpVStore); ok {
		err = p.SeekPos(offs)
		if err != nil {
			return nil, err
		}
		length, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		if offs+2+int(length) > len(data) {
			return nil, p.Error("variation store too short")
		}
		f.VStore, err = varstore.Decode("CFF2", data[offs+2:offs+2+int(length)], axisCount)
		if err != nil {
			return nil, err
		}
	}
	numRegions := regionCounter(f.VStore)

	offs, ok := topDict.getInt(OpCharStrings)
	if !ok {
		return nil, p.Error("missing CharStrings")
	}
	err = p.SeekPos(offs)
	if err != nil {
		return nil, err
	}
	f.CharStrings, err = readIndex(p)
	if err != nil {
		return nil, err
	}
	if len(f.CharStrings) == 0 {
		return nil, p.Error("no glyphs")
	}

	offs, ok = topDict.getInt(OpFDArray)
	if !ok {
		return nil, p.Error("missing FDArray")
	}
	err = p.SeekPos(offs)
	if err != nil {
		return nil, err
	}
	fdArray, err := readIndex(p)
	if err != nil {
		return nil, err
	}
	if len(fdArray) == 0 {
		return nil, p.Error("empty FDArray")
	}
	for _, buf := range fdArray {
		fd, err := decodeFontDict(p, data, buf, numRegions)
		if err != nil {
			return nil, err
		}
		f.FontDicts = append(f.FontDicts, fd)
	}

	if offs, ok := topDict.getInt(OpFDSelect); ok {
		err = p.SeekPos(offs)
		if err != nil {
			return nil, err
		}
		f.FDSelect, err = readFDSelect(p, len(f.CharStrings), len(f.FontDicts))
		if err != nil {
			return nil, err
		}
	} else if len(f.FontDicts) > 1 {
		return nil, p.Error("missing FDSelect")
	}

	f.TopDict = topDict.Delete(OpCharStrings, OpFDArray, OpFDSelect, OpVStore)
	return f, nil
}

func decodeFontDict(p *parser.Parser, data, buf []byte, numRegions func(int) (int, error)) (*FontDict, error) {
	dict, _, err := decodeDict(buf, nil)
	if err != nil {
		return nil, err
	}
	size, offs, ok := dict.getPair(OpPrivate)
	if !ok {
		return nil, p.Error("missing Private DICT")
	}
	if size < 0 || offs < 0 || offs+size > len(data) {
		return nil, p.Error("invalid Private DICT location")
	}
	private, vsindex, err := decodeDict(data[offs:offs+size], numRegions)
	if err != nil {
		return nil, err
	}

	fd := &FontDict{
		Dict:    dict.Delete(OpPrivate),
		Private: private.Delete(OpSubrs),
		VSIndex: vsindex,
	}
	if subrsOffs, ok := private.getInt(OpSubrs); ok {
		err = p.SeekPos(offs + subrsOffs)
		if err != nil {
			return nil, err
		}
		fd.Subrs, err = readIndex(p)
		if err != nil {
			return nil, err
		}
	}
	return fd, nil
}

// Encode returns the binary form of the table.  The variation store is
// written only if f.VStore is not nil.
func (f *Font) Encode() []byte {
	topDict := f.TopDict.encode()
	topLen := len(topDict) + 6 + 7 // CharStrings, FDArray
	if f.FDSelect != nil {
		topLen += 7
	}
	if f.VStore != nil {
		topLen += 6
	}

	pos := 5 + topLen
	gsubrs := appendIndex(nil, f.GlobalSubrs)
	pos += len(gsubrs)

	var vstore []byte
	vstoreOffs := pos
	if f.VStore != nil {
		store := f.VStore.Encode()
		vstore = append([]byte{byte(len(store) >> 8), byte(len(store))}, store...)
		pos += len(vstore)
	}

	charStringsOffs := pos
	charStrings := appendIndex(nil, f.CharStrings)
	pos += len(charStrings)

	fdSelectOffs := pos
	var fdSelect []byte
	if f.FDSelect != nil {
		fdSelect = encodeFDSelect(f.FDSelect)
		pos += len(fdSelect)
	}

	// The size of the FDArray does not depend on the private DICT offsets,
	// since these are written with fixed width.
	privates := make([][]byte, len(f.FontDicts))
	subrs := make([][]byte, len(f.FontDicts))
	fontDicts := make([][]byte, len(f.FontDicts))
	for i, fd := range f.FontDicts {
		privates[i] = fd.Private.encode()
		if fd.Subrs != nil {
			subrs[i] = appendIndex(nil, fd.Subrs)
			privates[i] = appendInt32(privates[i], int32(len(privates[i])+6))
			privates[i] = appendOp(privates[i], OpSubrs)
		}
		fontDicts[i] = fd.Dict.encode()
	}
	fdArrayOffs := pos
	body := 0
	for _, d := range fontDicts {
		body += len(d) + 11 // Private operands and operator
	}
	fdArrayLen := indexLength(len(fontDicts), body)
	pos += fdArrayLen

	for i := range fontDicts {
		fontDicts[i] = appendInt32(fontDicts[i], int32(len(privates[i])))
		fontDicts[i] = appendInt32(fontDicts[i], int32(pos))
		fontDicts[i] = appendOp(fontDicts[i], OpPrivate)
		pos += len(privates[i]) + len(subrs[i])
	}

	res := make([]byte, 0, pos)
	res = append(res, 2, 0, 5, byte(topLen>>8), byte(topLen))
	res = append(res, topDict...)
	res = appendInt32(res, int32(charStringsOffs))
	res = appendOp(res, OpCharStrings)
	res = appendInt32(res, int32(fdArrayOffs))
	res = appendOp(res, OpFDArray)
	if f.FDSelect != nil {
		res = appendInt32(res, int32(fdSelectOffs))
		res = appendOp(res, OpFDSelect)
	}
	if f.VStore != nil {
		res = appendInt32(res, int32(vstoreOffs))
		res = appendOp(res, OpVStore)
	}
	res = append(res, gsubrs...)
	res = append(res, vstore...)
	res = append(res, charStrings...)
	res = append(res, fdSelect...)
	res = appendIndex(res, fontDicts)
	for i := range privates {
		res = append(res, privates[i]...)
		res = append(res, subrs[i]...)
	}
	return res
}

func regionCounter(s *varstore.Store) func(int) (int, error) {
	if s == nil {
		return nil
	}
	return func(vsindex int) (int, error) {
		if vsindex < 0 || vsindex >= len(s.Data) {
			return 0, &sfnt.InvalidFontError{
				SubSystem: "sfnt/cff2",
				Reason:    fmt.Sprintf("invalid vsindex %d", vsindex),
			}
		}
		return len(s.Data[vsindex].RegionIndices), nil
	}
}

var errCorruptDict = &sfnt.InvalidFontError{
	SubSystem: "sfnt/cff2",
	Reason:    "corrupt DICT",
}
