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

	"seehuhn.de/go/instancer/sfnt"
)

// CSOp is a charstring operator.  Two-byte operators are stored as
// 0x0C00 | b1.
type CSOp uint16

// Charstring operators which need special treatment.  All other operators
// clear the argument stack.
const (
	CSHStem    CSOp = 1
	CSVStem    CSOp = 3
	CSCallSubr CSOp = 10
	CSVSIndex  CSOp = 15
	CSBlend    CSOp = 16
	CSHStemHM  CSOp = 18
	CSHintMask CSOp = 19
	CSCntrMask CSOp = 20
	CSVStemHM  CSOp = 23
	CSCallGSub CSOp = 29

	// CSNumber marks tokens which are operands.
	CSNumber CSOp = 0xFFFF
)

// Token is an operand or an operator of a charstring.
type Token struct {
	Op    CSOp
	Value float64 // the operand value, if Op is CSNumber
	Mask  []byte  // the mask bytes of hintmask and cntrmask operators
}

func (t Token) String() string {
	if t.Op == CSNumber {
		return fmt.Sprintf("%g", t.Value)
	}
	if t.Op > 255 {
		return fmt.Sprintf("op12.%d", t.Op&0xFF)
	}
	return fmt.Sprintf("op%d", t.Op)
}

// readToken reads the token starting at code[pos] and returns the position
// after it.  The argument maskLen is the number of mask bytes following a
// hintmask or cntrmask operator.
func readToken(code []byte, pos, maskLen int) (Token, int, error) {
	b0 := code[pos]
	switch {
	case b0 == 12:
		if pos+1 >= len(code) {
			return Token{}, 0, errIncompleteCharstring
		}
		return Token{Op: 0x0C00 | CSOp(code[pos+1])}, pos + 2, nil

	case b0 == byte(CSHintMask) || b0 == byte(CSCntrMask):
		end := pos + 1 + maskLen
		if end > len(code) {
			return Token{}, 0, errIncompleteCharstring
		}
		return Token{Op: CSOp(b0), Mask: code[pos+1 : end : end]}, end, nil

	case b0 == 28:
		if pos+2 >= len(code) {
			return Token{}, 0, errIncompleteCharstring
		}
		x := int16(uint16(code[pos+1])<<8 | uint16(code[pos+2]))
		return Token{Op: CSNumber, Value: float64(x)}, pos + 3, nil

	case b0 < 32:
		return Token{Op: CSOp(b0)}, pos + 1, nil

	case b0 <= 246:
		return Token{Op: CSNumber, Value: float64(int(b0) - 139)}, pos + 1, nil

	case b0 <= 250:
		if pos+1 >= len(code) {
			return Token{}, 0, errIncompleteCharstring
		}
		x := (int(b0)-247)*256 + int(code[pos+1]) + 108
		return Token{Op: CSNumber, Value: float64(x)}, pos + 2, nil

	case b0 <= 254:
		if pos+1 >= len(code) {
			return Token{}, 0, errIncompleteCharstring
		}
		x := -(int(b0)-251)*256 - int(code[pos+1]) - 108
		return Token{Op: CSNumber, Value: float64(x)}, pos + 2, nil

	default: // 255, 16.16 fixed point
		if pos+4 >= len(code) {
			return Token{}, 0, errIncompleteCharstring
		}
		x := int32(uint32(code[pos+1])<<24 | uint32(code[pos+2])<<16 |
			uint32(code[pos+3])<<8 | uint32(code[pos+4]))
		return Token{Op: CSNumber, Value: float64(x) / 65536}, pos + 5, nil
	}
}

// EncodeTokens returns the binary form of a charstring.
func EncodeTokens(tokens []Token) []byte {
	var res []byte
	for _, t := range tokens {
		switch {
		case t.Op == CSNumber:
			res = appendCSNumber(res, t.Value)
		case t.Op > 255:
			res = append(res, 12, byte(t.Op))
		default:
			res = append(res, byte(t.Op))
			res = append(res, t.Mask...)
		}
	}
	return res
}

func appendCSNumber(res []byte, x float64) []byte {
	if x == math.Trunc(x) && x >= -32768 && x <= 32767 {
		a := int(x)
		switch {
		case a >= -107 && a <= 107:
			return append(res, byte(a+139))
		case a >= 108 && a <= 1131:
			a -= 108
			return append(res, byte(a>>8+247), byte(a))
		case a >= -1131 && a <= -108:
			a = -108 - a
			return append(res, byte(a>>8+251), byte(a))
		default:
			return append(res, 28, byte(a>>8), byte(a))
		}
	}
	v := int32(math.Round(x * 65536))
	return append(res, 255, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// subrBias returns the bias which is added to subroutine numbers.
func subrBias(nSubrs int) int {
	switch {
	case nSubrs < 1240:
		return 107
	case nSubrs < 33900:
		return 1131
	default:
		return 32768
	}
}

var (
	errIncompleteCharstring = &sfnt.InvalidFontError{
		SubSystem: "sfnt/cff2",
		Reason:    "incomplete charstring",
	}
	errStackUnderflow = &sfnt.InvalidFontError{
		SubSystem: "sfnt/cff2",
		Reason:    "charstring argument stack underflow",
	}
	errStackOverflow = &sfnt.InvalidFontError{
		SubSystem: "sfnt/cff2",
		Reason:    "charstring argument stack overflow",
	}
	errCallDepth = &sfnt.InvalidFontError{
		SubSystem: "sfnt/cff2",
		Reason:    "maximum subroutine call depth exceeded",
	}
)
