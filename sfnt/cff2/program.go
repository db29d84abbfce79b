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
)

const (
	maxStack     = 513
	maxCallDepth = 10
)

// Program is a charstring or a subroutine.
type Program struct {
	Code []byte

	// Tokens is the tokenized form of Code, or nil if the program was not
	// reached from any charstring and could not be tokenized on its own.
	Tokens []Token

	// VSIndex is the vsindex in effect at the start of the program.  For
	// charstrings and local subroutines this is the vsindex of the
	// Private DICT, for global subroutines it is 0.
	VSIndex int
}

// HasBlend reports whether the program uses the blend or vsindex
// operators.
func (p *Program) HasBlend() bool {
	for _, t := range p.Tokens {
		if t.Op == CSBlend || t.Op == CSVSIndex {
			return true
		}
	}
	return false
}

// usesBlend reports whether the program contains a blend operator.
func (p *Program) usesBlend() bool {
	for _, t := range p.Tokens {
		if t.Op == CSBlend {
			return true
		}
	}
	return false
}

// checkSubrVSIndex fails if a subroutine with blends is called while a
// vsindex different from the one it is resolved with is in effect.  Each
// subroutine is resolved only once, so such calls cannot be represented.
func checkSubrVSIndex(p *Program, vsindex int) error {
	if p.Tokens == nil || p.VSIndex == vsindex || !p.usesBlend() {
		return nil
	}
	return &sfnt.NotSupportedError{
		SubSystem: "sfnt/cff2",
		Feature: fmt.Sprintf("subroutine with blends called with vsindex %d instead of %d",
			vsindex, p.VSIndex),
	}
}

// Programs holds the tokenized charstrings and subroutines of a font.
type Programs struct {
	CharStrings []*Program
	GlobalSubrs []*Program
	LocalSubrs  [][]*Program // indexed by font dict
}

// Programs tokenizes all charstrings of the font.  The number of mask bytes
// after each hintmask and cntrmask operator depends on the stem hints seen
// so far, so the charstrings are executed far enough to track the argument
// stack and the stem count, following subroutine calls.
func (f *Font) Programs() (*Programs, error) {
	res := &Programs{
		CharStrings: make([]*Program, len(f.CharStrings)),
		GlobalSubrs: make([]*Program, len(f.GlobalSubrs)),
		LocalSubrs:  make([][]*Program, len(f.FontDicts)),
	}
	for i, code := range f.GlobalSubrs {
		res.GlobalSubrs[i] = &Program{Code: code}
	}
	for i, fd := range f.FontDicts {
		local := make([]*Program, len(fd.Subrs))
		for j, code := range fd.Subrs {
			local[j] = &Program{Code: code, VSIndex: fd.VSIndex}
		}
		res.LocalSubrs[i] = local
	}

	numRegions := regionCounter(f.VStore)
	for gid, code := range f.CharStrings {
		fd := f.FDIndex(gid)
		if fd >= len(f.FontDicts) {
			return nil, &sfnt.InvalidFontError{
				SubSystem: "sfnt/cff2",
				Reason:    fmt.Sprintf("glyph %d: invalid font dict %d", gid, fd),
			}
		}
		p := &Program{Code: code, VSIndex: f.FontDicts[fd].VSIndex}
		ip := &interp{
			numRegions: numRegions,
			global:     res.GlobalSubrs,
			local:      res.LocalSubrs[fd],
		}
		err := ip.exec(p, 0)
		if err != nil {
			return nil, fmt.Errorf("glyph %d: %w", gid, err)
		}
		res.CharStrings[gid] = p
	}

	// Subroutines which are never called are tokenized without context.
	tryUnused := func(subrs, local []*Program) {
		for _, p := range subrs {
			if p.Tokens != nil || len(p.Code) == 0 {
				continue
			}
			ip := &interp{numRegions: numRegions, global: res.GlobalSubrs, local: local}
			if ip.exec(p, 0) != nil {
				p.Tokens = nil
			}
		}
	}
	for _, local := range res.LocalSubrs {
		tryUnused(local, local)
	}
	tryUnused(res.GlobalSubrs, nil)

	return res, nil
}

type interp struct {
	numRegions func(vsindex int) (int, error)
	global     []*Program
	local      []*Program

	stack []float64
	stems int
}

func (ip *interp) exec(p *Program, depth int) error {
	if depth > maxCallDepth {
		return errCallDepth
	}

	decode := p.Tokens == nil
	vsindex := p.VSIndex
	var tokens []Token
	pos, i := 0, 0
	for {
		var tok Token
		if decode {
			if pos >= len(p.Code) {
				break
			}
			var err error
			maskLen := (ip.stems + len(ip.stack)/2 + 7) / 8
			tok, pos, err = readToken(p.Code, pos, maskLen)
			if err != nil {
				return err
			}
			tokens = append(tokens, tok)
		} else {
			if i >= len(p.Tokens) {
				break
			}
			tok = p.Tokens[i]
			i++
		}

		switch tok.Op {
		case CSNumber:
			if len(ip.stack) >= maxStack {
				return errStackOverflow
			}
			ip.stack = append(ip.stack, tok.Value)

		case CSHStem, CSVStem, CSHStemHM, CSVStemHM:
			ip.stems += len(ip.stack) / 2
			ip.stack = ip.stack[:0]

		case CSHintMask, CSCntrMask:
			// Operands before the first hintmask are implicit vstem hints.
			ip.stems += len(ip.stack) / 2
			ip.stack = ip.stack[:0]
			if len(tok.Mask) != (ip.stems+7)/8 {
				return &sfnt.NotSupportedError{
					SubSystem: "sfnt/cff2",
					Feature:   "subroutines called with different stem counts",
				}
			}

		case CSVSIndex:
			if len(ip.stack) < 1 {
				return errStackUnderflow
			}
			vsindex = int(ip.stack[len(ip.stack)-1])
			ip.stack = ip.stack[:0]

		case CSBlend:
			if len(ip.stack) < 1 {
				return errStackUnderflow
			}
			if ip.numRegions == nil {
				return &sfnt.InvalidFontError{
					SubSystem: "sfnt/cff2",
					Reason:    "blend operator without variation store",
				}
			}
			n := int(ip.stack[len(ip.stack)-1])
			ip.stack = ip.stack[:len(ip.stack)-1]
			k, err := ip.numRegions(vsindex)
			if err != nil {
				return err
			}
			if n < 0 || n*(k+1) > len(ip.stack) {
				return errStackUnderflow
			}
			ip.stack = ip.stack[:len(ip.stack)-n*k]

		case CSCallSubr, CSCallGSub:
			if len(ip.stack) < 1 {
				return errStackUnderflow
			}
			subrs := ip.local
			if tok.Op == CSCallGSub {
				subrs = ip.global
			}
			idx := int(ip.stack[len(ip.stack)-1]) + subrBias(len(subrs))
			ip.stack = ip.stack[:len(ip.stack)-1]
			if idx < 0 || idx >= len(subrs) {
				return &sfnt.InvalidFontError{
					SubSystem: "sfnt/cff2",
					Reason:    fmt.Sprintf("invalid subroutine index %d", idx),
				}
			}
			callee := subrs[idx]
			err := checkSubrVSIndex(callee, vsindex)
			if err != nil {
				return err
			}
			err = ip.exec(callee, depth+1)
			if err != nil {
				return err
			}
			err = checkSubrVSIndex(callee, vsindex)
			if err != nil {
				return err
			}

		default:
			ip.stack = ip.stack[:0]
		}
	}

	if decode {
		if tokens == nil {
			tokens = []Token{}
		}
		p.Tokens = tokens
	}
	return nil
}
