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
	"math"
	"strconv"
)

// Op is a DICT operator.  Two-byte operators are stored as 0x0C00 | b1.
type Op uint16

// DICT operators used in CFF2 fonts.
const (
	OpBlueValues       Op = 0x0006
	OpOtherBlues       Op = 0x0007
	OpFamilyBlues      Op = 0x0008
	OpFamilyOtherBlues Op = 0x0009
	OpStdHW            Op = 0x000A
	OpStdVW            Op = 0x000B
	OpCharStrings      Op = 0x0011
	OpPrivate          Op = 0x0012
	OpSubrs            Op = 0x0013
	OpVSIndex          Op = 0x0016
	OpBlend            Op = 0x0017
	OpVStore           Op = 0x0018

	OpFontMatrix      Op = 0x0C07
	OpBlueScale       Op = 0x0C09
	OpBlueShift       Op = 0x0C0A
	OpBlueFuzz        Op = 0x0C0B
	OpStemSnapH       Op = 0x0C0C
	OpStemSnapV       Op = 0x0C0D
	OpLanguageGroup   Op = 0x0C11
	OpExpansionFactor Op = 0x0C12
	OpFDArray         Op = 0x0C24
	OpFDSelect        Op = 0x0C25
)

func (op Op) String() string {
	switch op {
	case OpBlueValues:
		return "BlueValues"
	case OpOtherBlues:
		return "OtherBlues"
	case OpFamilyBlues:
		return "FamilyBlues"
	case OpFamilyOtherBlues:
		return "FamilyOtherBlues"
	case OpStdHW:
		return "StdHW"
	case OpStdVW:
		return "StdVW"
	case OpBlueScale:
		return "BlueScale"
	case OpBlueShift:
		return "BlueShift"
	case OpBlueFuzz:
		return "BlueFuzz"
	case OpStemSnapH:
		return "StemSnapH"
	case OpStemSnapV:
		return "StemSnapV"
	case OpVSIndex:
		return "vsindex"
	}
	if op < 256 {
		return strconv.Itoa(int(op))
	}
	return fmt.Sprintf("%d %d", op>>8, op&0xff)
}

// Operand is a DICT operand.
type Operand struct {
	Value float64
	Real  bool // encoded as a real number

	// Deltas holds the blend deltas of the operand, one per region of the
	// active item variation data subtable.  Deltas is nil for operands
	// which are not blended.
	Deltas []float64
}

// Entry is one operator of a DICT together with its operands.
type Entry struct {
	Op   Op
	Args []Operand

	// VSIndex is the item variation data index in effect for the blended
	// operands of this entry.  It is 0 for entries without blends.
	VSIndex int
}

// IsBlended reports whether any operand of the entry has blend deltas.
func (e *Entry) IsBlended() bool {
	for _, a := range e.Args {
		if a.Deltas != nil {
			return true
		}
	}
	return false
}

// Dict is a decoded DICT.  The order of entries is preserved.
type Dict []Entry

// Get returns the entry for op, or nil if op is not present.
func (d Dict) Get(op Op) *Entry {
	for i := range d {
		if d[i].Op == op {
			return &d[i]
		}
	}
	return nil
}

// Delete returns the dict with all entries for the given operators removed.
func (d Dict) Delete(ops ...Op) Dict {
	res := d[:0:0]
	for _, e := range d {
		keep := true
		for _, op := range ops {
			if e.Op == op {
				keep = false
				break
			}
		}
		if keep {
			res = append(res, e)
		}
	}
	return res
}

func (d Dict) getInt(op Op) (int, bool) {
	e := d.Get(op)
	if e == nil || len(e.Args) != 1 || e.Args[0].Real {
		return 0, false
	}
	return int(e.Args[0].Value), true
}

func (d Dict) getPair(op Op) (int, int, bool) {
	e := d.Get(op)
	if e == nil || len(e.Args) != 2 || e.Args[0].Real || e.Args[1].Real {
		return 0, 0, false
	}
	return int(e.Args[0].Value), int(e.Args[1].Value), true
}

// decodeDict reads a DICT.  The function numRegions gives the number of
// regions for a vsindex; if it is nil, the blend operator is rejected.
// The second return value is the last vsindex set in the dict, or 0.
func decodeDict(buf []byte, numRegions func(vsindex int) (int, error)) (Dict, int, error) {
	var res Dict
	var stack []Operand
	vsindex := 0

	for len(buf) > 0 {
		b0 := buf[0]
		switch {
		case b0 == 12:
			if len(buf) < 2 {
				return nil, 0, errCorruptDict
			}
			res = appendEntry(res, 0x0C00|Op(buf[1]), stack, vsindex)
			stack = nil
			buf = buf[2:]
		case b0 == byte(OpVSIndex):
			if len(stack) != 1 || stack[0].Real {
				return nil, 0, errCorruptDict
			}
			vsindex = int(stack[0].Value)
			stack = nil
			buf = buf[1:]
		case b0 == byte(OpBlend):
			if numRegions == nil || len(stack) < 1 {
				return nil, 0, errCorruptDict
			}
			n := int(stack[len(stack)-1].Value)
			stack = stack[:len(stack)-1]
			k, err := numRegions(vsindex)
			if err != nil {
				return nil, 0, err
			}
			if n < 0 || n*(k+1) > len(stack) {
				return nil, 0, errCorruptDict
			}
			base := len(stack) - n*(k+1)
			deltas := stack[base+n:]
			for i := 0; i < n; i++ {
				d := make([]float64, k)
				for j := range d {
					d[j] = deltas[i*k+j].Value
				}
				stack[base+i].Deltas = d
			}
			stack = stack[:base+n]
			buf = buf[1:]
		case b0 <= 24:
			res = appendEntry(res, Op(b0), stack, vsindex)
			stack = nil
			buf = buf[1:]
		case b0 <= 27:
			return nil, 0, errCorruptDict
		case b0 == 28:
			if len(buf) < 3 {
				return nil, 0, errCorruptDict
			}
			x := int16(uint16(buf[1])<<8 + uint16(buf[2]))
			stack = append(stack, Operand{Value: float64(x)})
			buf = buf[3:]
		case b0 == 29:
			if len(buf) < 5 {
				return nil, 0, errCorruptDict
			}
			x := int32(uint32(buf[1])<<24 + uint32(buf[2])<<16 + uint32(buf[3])<<8 + uint32(buf[4]))
			stack = append(stack, Operand{Value: float64(x)})
			buf = buf[5:]
		case b0 == 30:
			tmp, x, err := decodeFloat(buf[1:])
			if err != nil {
				return nil, 0, err
			}
			stack = append(stack, Operand{Value: x, Real: true})
			buf = tmp
		case b0 == 31:
			return nil, 0, errCorruptDict
		case b0 <= 246:
			stack = append(stack, Operand{Value: float64(int(b0) - 139)})
			buf = buf[1:]
		case b0 <= 250:
			if len(buf) < 2 {
				return nil, 0, errCorruptDict
			}
			x := (int(b0)-247)*256 + int(buf[1]) + 108
			stack = append(stack, Operand{Value: float64(x)})
			buf = buf[2:]
		case b0 <= 254:
			if len(buf) < 2 {
				return nil, 0, errCorruptDict
			}
			x := -(int(b0)-251)*256 - int(buf[1]) - 108
			stack = append(stack, Operand{Value: float64(x)})
			buf = buf[2:]
		default:
			return nil, 0, errCorruptDict
		}
	}

	if len(stack) > 0 {
		return nil, 0, errCorruptDict
	}
	return res, vsindex, nil
}

func appendEntry(d Dict, op Op, args []Operand, vsindex int) Dict {
	e := Entry{Op: op, Args: args}
	if e.IsBlended() {
		e.VSIndex = vsindex
	}
	return append(d, e)
}

// decodeFloat decodes a real number, without the leading 0x1e.
func decodeFloat(buf []byte) ([]byte, float64, error) {
	var s []byte

	first := true
	var next byte
	for {
		var nibble byte
		if first {
			if len(buf) == 0 {
				return nil, 0, errCorruptDict
			}
			next, buf = buf[0], buf[1:]
			nibble = next >> 4
			next = next & 15
			first = false
		} else {
			nibble = next
			first = true
		}

		switch nibble {
		case 0x0a:
			s = append(s, '.')
		case 0xb:
			s = append(s, 'e')
		case 0xc:
			s = append(s, 'e', '-')
		case 0xd:
			return nil, 0, errCorruptDict
		case 0xe:
			s = append(s, '-')
		case 0xf:
			x, err := strconv.ParseFloat(string(s), 64)
			if err != nil {
				return nil, 0, errCorruptDict
			}
			return buf, x, nil
		default:
			s = append(s, '0'+nibble)
		}
	}
}

// encode returns the binary form of the dict.  Blended operands are
// written with their deltas, followed by a blend operator.
func (d Dict) encode() []byte {
	var res []byte
	vsindex := 0
	for _, e := range d {
		if e.IsBlended() && e.VSIndex != vsindex {
			res = appendInt(res, e.VSIndex)
			res = append(res, byte(OpVSIndex))
			vsindex = e.VSIndex
		}
		res = appendArgs(res, e.Args)
		res = appendOp(res, e.Op)
	}
	return res
}

func appendArgs(res []byte, args []Operand) []byte {
	for i := 0; i < len(args); {
		if args[i].Deltas == nil {
			res = appendNumber(res, args[i])
			i++
			continue
		}
		j := i
		for j < len(args) && args[j].Deltas != nil && len(args[j].Deltas) == len(args[i].Deltas) {
			j++
		}
		for _, a := range args[i:j] {
			res = appendNumber(res, Operand{Value: a.Value, Real: a.Real})
		}
		for _, a := range args[i:j] {
			for _, delta := range a.Deltas {
				res = appendNumber(res, Operand{Value: delta, Real: delta != math.Trunc(delta)})
			}
		}
		res = appendInt(res, j-i)
		res = append(res, byte(OpBlend))
		i = j
	}
	return res
}

func appendOp(res []byte, op Op) []byte {
	if op > 255 {
		res = append(res, 12)
	}
	return append(res, byte(op))
}

func appendNumber(res []byte, a Operand) []byte {
	if !a.Real && a.Value == math.Trunc(a.Value) &&
		a.Value >= math.MinInt32 && a.Value <= math.MaxInt32 {
		return appendInt(res, int(a.Value))
	}
	return appendReal(res, a.Value)
}

func appendInt(res []byte, a int) []byte {
	switch {
	case a >= -107 && a <= 107:
		return append(res, byte(a+139))
	case a >= 108 && a <= 1131:
		a -= 108
		return append(res, byte(a>>8+247), byte(a))
	case a >= -1131 && a <= -108:
		a = -108 - a
		return append(res, byte(a>>8+251), byte(a))
	case a >= -32768 && a <= 32767:
		return append(res, 28, byte(a>>8), byte(a))
	default:
		return appendInt32(res, int32(a))
	}
}

// appendInt32 writes a in the fixed-size five byte format, which is used for
// offsets.
func appendInt32(res []byte, a int32) []byte {
	return append(res, 29, byte(a>>24), byte(a>>16), byte(a>>8), byte(a))
}

func appendReal(res []byte, x float64) []byte {
	s := strconv.FormatFloat(x, 'g', -1, 64)
	var nibbles []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			nibbles = append(nibbles, c-'0')
		case c == '.':
			nibbles = append(nibbles, 0x0a)
		case c == 'e':
			if i+1 < len(s) && s[i+1] == '-' {
				nibbles = append(nibbles, 0x0c)
				i++
			} else {
				nibbles = append(nibbles, 0x0b)
				if i+1 < len(s) && s[i+1] == '+' {
					i++
				}
			}
		case c == '-':
			nibbles = append(nibbles, 0x0e)
		}
	}
	nibbles = append(nibbles, 0x0f)
	if len(nibbles)%2 != 0 {
		nibbles = append(nibbles, 0x0f)
	}

	res = append(res, 30)
	for i := 0; i < len(nibbles); i += 2 {
		res = append(res, nibbles[i]<<4|nibbles[i+1])
	}
	return res
}
