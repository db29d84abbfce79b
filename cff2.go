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

package instancer

import (
	"fmt"
	"math"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/cff2"
	"seehuhn.de/go/instancer/sfnt/varstore"
)

// hintingDataInstancer resolves the blends in the Private DICTs and the
// charstrings of a "CFF2" table.  The result is a CFF2 table without
// variation store.
type hintingDataInstancer struct{}

func (hintingDataInstancer) instantiate(c *context) error {
	font, err := cff2.Decode(c.font.Tables["CFF2"], c.axisCount())
	if err != nil {
		return err
	}
	if font.VStore == nil {
		tracer().Infof("CFF2 table without variation store")
		return nil
	}
	progs, err := font.Programs()
	if err != nil {
		return err
	}
	in := varstore.NewInstancer(font.VStore, c.loc)

	for i, fd := range font.FontDicts {
		fd.Private, err = resolvePrivate(fd.Private, in)
		if err != nil {
			return fmt.Errorf("font dict %d: %w", i, err)
		}
		fd.VSIndex = 0
	}

	err = resolvePrograms(progs.CharStrings, font.CharStrings, in)
	if err != nil {
		return fmt.Errorf("CharStrings: %w", err)
	}
	err = resolvePrograms(progs.GlobalSubrs, font.GlobalSubrs, in)
	if err != nil {
		return fmt.Errorf("global subroutines: %w", err)
	}
	for i, fd := range font.FontDicts {
		err = resolvePrograms(progs.LocalSubrs[i], fd.Subrs, in)
		if err != nil {
			return fmt.Errorf("font dict %d: subroutines: %w", i, err)
		}
	}

	font.VStore = nil
	c.font.Tables["CFF2"] = font.Encode()
	return nil
}

// resolvePrograms replaces every program of progs which uses blends by its
// resolved form, storing the new code in the corresponding slot of code.
func resolvePrograms(progs []*cff2.Program, code [][]byte, in *varstore.Instancer) error {
	for i, p := range progs {
		if p.Tokens == nil {
			tracer().Debugf("program %d not reached, kept unchanged", i)
			continue
		}
		// A stray vsindex must go as well, since the output has no
		// variation store.
		if !p.HasBlend() {
			continue
		}
		tokens, err := resolveBlends(p.Tokens, p.VSIndex, in)
		if err != nil {
			return fmt.Errorf("%d: %w", i, err)
		}
		code[i] = cff2.EncodeTokens(tokens)
	}
	return nil
}

// resolveBlends returns a copy of the charstring with every blend replaced
// by its resolved operands and every vsindex operator removed.  A blend of
// K operands with M masters is preceded by K·M operand tokens and the
// count K; these are replaced by the K resolved operands.
func resolveBlends(tokens []cff2.Token, vsindex int, in *varstore.Instancer) ([]cff2.Token, error) {
	res := make([]cff2.Token, 0, len(tokens))
	last := 0 // first token which is not yet copied to res
	for i, t := range tokens {
		switch t.Op {
		case cff2.CSVSIndex:
			if i == last || tokens[i-1].Op != cff2.CSNumber {
				return nil, errBlendUnderflow
			}
			vsindex = int(tokens[i-1].Value)
			res = append(res, tokens[last:i-1]...)
			last = i + 1

		case cff2.CSBlend:
			if i == last || tokens[i-1].Op != cff2.CSNumber {
				return nil, errBlendUnderflow
			}
			k := int(tokens[i-1].Value)
			numRegions, err := in.NumRegions(vsindex)
			if err != nil {
				return nil, err
			}
			numMasters := numRegions + 1
			argi := i - (k*numMasters + 1)
			if k < 0 || argi < last {
				return nil, errBlendUnderflow
			}
			for _, arg := range tokens[argi : i-1] {
				if arg.Op != cff2.CSNumber {
					return nil, errBlendUnderflow
				}
			}

			res = append(res, tokens[last:argi]...)
			deltaPos := argi + k
			for j := 0; j < k; j++ {
				deltas := make([]float64, numRegions)
				for r := range deltas {
					deltas[r] = tokens[deltaPos].Value
					deltaPos++
				}
				d, err := in.Interpolate(vsindex, deltas)
				if err != nil {
					return nil, err
				}
				arg := tokens[argi+j]
				arg.Value += math.Round(d)
				res = append(res, arg)
			}
			last = i + 1
		}
	}
	return append(res, tokens[last:]...), nil
}

// resolvePrivate resolves the blended entries of a Private DICT.
//
// Array valued entries such as BlueValues store every element as the
// difference to the previous absolute value.  Resolving each difference
// by itself and keeping the relative encoding gives the same absolute
// values as accumulating the resolved elements.
func resolvePrivate(private cff2.Dict, in *varstore.Instancer) (cff2.Dict, error) {
	res := make(cff2.Dict, 0, len(private))
	for _, e := range private {
		if !e.IsBlended() {
			res = append(res, e)
			continue
		}

		args := make([]cff2.Operand, len(e.Args))
		for i, a := range e.Args {
			v, err := resolveOperand(a, e.VSIndex, in)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", e.Op, err)
			}
			args[i] = cff2.Operand{Value: v, Real: a.Real}
		}
		res = append(res, cff2.Entry{Op: e.Op, Args: args})
	}
	return res, nil
}

// resolveOperand returns base + round(interpolated deltas).
func resolveOperand(a cff2.Operand, vsindex int, in *varstore.Instancer) (float64, error) {
	if a.Deltas == nil {
		return a.Value, nil
	}
	d, err := in.Interpolate(vsindex, a.Deltas)
	if err != nil {
		return 0, err
	}
	return a.Value + math.Round(d), nil
}

var errBlendUnderflow = &sfnt.InvalidFontError{
	SubSystem: "sfnt/cff2",
	Reason:    "blend operator without enough operands",
}
