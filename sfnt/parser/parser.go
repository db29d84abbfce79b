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

// Package parser allows to read binary data from sfnt tables.
package parser

import (
	"fmt"

	"seehuhn.de/go/instancer/sfnt"
)

// Parser reads big-endian values from the data of a single sfnt table.
// All reads are bounds checked; errors report the table name and the
// offset of the failing read.
type Parser struct {
	tableName string
	data      []byte
	pos       int
	lastRead  int
}

// New allocates a new Parser.
func New(tableName string, data []byte) *Parser {
	return &Parser{
		tableName: tableName,
		data:      data,
	}
}

// Size returns the total length of the table data.
func (p *Parser) Size() int {
	return len(p.data)
}

// Pos returns the current reading position.
func (p *Parser) Pos() int {
	return p.pos
}

// SeekPos changes the reading position.
func (p *Parser) SeekPos(pos int) error {
	if pos < 0 || pos > len(p.data) {
		p.lastRead = pos
		return p.Error("seek to %d beyond end of table (length %d)", pos, len(p.data))
	}
	p.pos = pos
	return nil
}

// Discard skips the next n bytes of input.
func (p *Parser) Discard(n int) error {
	if n < 0 {
		panic("negative discard")
	}
	return p.SeekPos(p.pos + n)
}

// ReadBytes reads n bytes, starting at the current position.  The returned
// slice points into the table data and must not be modified by the caller.
func (p *Parser) ReadBytes(n int) ([]byte, error) {
	p.lastRead = p.pos
	if n < 0 || p.pos+n > len(p.data) {
		return nil, p.Error("unexpected end of table")
	}
	res := p.data[p.pos : p.pos+n]
	p.pos += n
	return res, nil
}

// ReadUint8 reads a single uint8 value from the current position.
func (p *Parser) ReadUint8() (uint8, error) {
	buf, err := p.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadInt8 reads a single int8 value from the current position.
func (p *Parser) ReadInt8() (int8, error) {
	val, err := p.ReadUint8()
	return int8(val), err
}

// ReadUint16 reads a single uint16 value from the current position.
func (p *Parser) ReadUint16() (uint16, error) {
	buf, err := p.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

// ReadInt16 reads a single int16 value from the current position.
func (p *Parser) ReadInt16() (int16, error) {
	val, err := p.ReadUint16()
	return int16(val), err
}

// ReadUint32 reads a single uint32 value from the current position.
func (p *Parser) ReadUint32() (uint32, error) {
	buf, err := p.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), nil
}

// ReadInt32 reads a single int32 value from the current position.
func (p *Parser) ReadInt32() (int32, error) {
	val, err := p.ReadUint32()
	return int32(val), err
}

// ReadTag reads a four-byte table or axis tag.
func (p *Parser) ReadTag() (string, error) {
	buf, err := p.ReadBytes(4)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadFixed reads a 16.16 fixed point number.
func (p *Parser) ReadFixed() (float64, error) {
	val, err := p.ReadInt32()
	return float64(val) / 65536, err
}

// ReadF2Dot14 reads a 2.14 fixed point number.
func (p *Parser) ReadF2Dot14() (float64, error) {
	val, err := p.ReadInt16()
	return float64(val) / 16384, err
}

// ReadF2Dot14Slice reads n consecutive 2.14 fixed point numbers.
func (p *Parser) ReadF2Dot14Slice(n int) ([]float64, error) {
	res := make([]float64, n)
	for i := range res {
		val, err := p.ReadF2Dot14()
		if err != nil {
			return nil, err
		}
		res[i] = val
	}
	return res, nil
}

// Error returns an InvalidFontError which describes a problem at the
// position of the last read.
func (p *Parser) Error(format string, a ...interface{}) error {
	tableName := p.tableName
	if tableName == "" {
		tableName = "header"
	}
	return &sfnt.InvalidFontError{
		SubSystem: "sfnt/" + tableName,
		Reason:    fmt.Sprintf("%+d: ", p.lastRead) + fmt.Sprintf(format, a...),
	}
}
