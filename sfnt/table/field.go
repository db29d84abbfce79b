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

// Package table gives access to individual fixed-position fields of sfnt
// tables, without decoding the whole table.
package table

import (
	"fmt"
	"math"

	"seehuhn.de/go/instancer/sfnt"
)

// Kind describes the binary representation of a field.
type Kind int

// These are the supported field kinds.
const (
	Int16  Kind = iota // FWORD, SHORT
	Uint16             // UFWORD, USHORT
	Fixed              // 16.16 fixed point number
)

// Size returns the number of bytes occupied by a field of this kind.
func (k Kind) Size() int {
	if k == Fixed {
		return 4
	}
	return 2
}

// Field describes a field at a fixed byte offset inside a table.
type Field struct {
	Table  string
	Name   string
	Offset int
	Kind   Kind
}

func (f Field) check(data []byte) error {
	if f.Offset+f.Kind.Size() > len(data) {
		return &sfnt.InvalidFontError{
			SubSystem: "sfnt/" + f.Table,
			Reason:    fmt.Sprintf("table too short for field %s", f.Name),
		}
	}
	return nil
}

// Get reads the value of the field from the table data.
func (f Field) Get(data []byte) (float64, error) {
	err := f.check(data)
	if err != nil {
		return 0, err
	}
	b := data[f.Offset:]
	switch f.Kind {
	case Int16:
		return float64(int16(uint16(b[0])<<8 | uint16(b[1]))), nil
	case Uint16:
		return float64(uint16(b[0])<<8 | uint16(b[1])), nil
	default:
		v := int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
		return float64(v) / 65536, nil
	}
}

// Set stores a new value in the table data.  Values are rounded to the
// precision of the field.  Values outside the range of the field give an
// error and leave data unchanged.
func (f Field) Set(data []byte, value float64) error {
	err := f.check(data)
	if err != nil {
		return err
	}

	var lo, hi, scale float64
	switch f.Kind {
	case Int16:
		lo, hi, scale = math.MinInt16, math.MaxInt16, 1
	case Uint16:
		lo, hi, scale = 0, math.MaxUint16, 1
	default:
		lo, hi, scale = math.MinInt32, math.MaxInt32, 65536
	}
	v := math.Round(value * scale)
	if v < lo || v > hi || math.IsNaN(v) {
		return &sfnt.InvalidFontError{
			SubSystem: "sfnt/" + f.Table,
			Reason:    fmt.Sprintf("value %g out of range for field %s", value, f.Name),
		}
	}

	b := data[f.Offset:]
	if f.Kind == Fixed {
		x := uint32(int32(v))
		b[0], b[1], b[2], b[3] = byte(x>>24), byte(x>>16), byte(x>>8), byte(x)
	} else {
		x := uint16(int32(v))
		b[0], b[1] = byte(x>>8), byte(x)
	}
	return nil
}

// Fields which are updated when a variable font is instantiated.
var (
	OS2WeightClass  = Field{"OS/2", "usWeightClass", 4, Uint16}
	OS2WidthClass   = Field{"OS/2", "usWidthClass", 6, Uint16}
	PostItalicAngle = Field{"post", "italicAngle", 4, Fixed}
)
