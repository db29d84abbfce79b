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

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/cvar"
	"seehuhn.de/go/instancer/sfnt/cvt"
	"seehuhn.de/go/instancer/varmodel"
)

// controlValueInstancer applies the "cvar" deltas to the control value
// table.
type controlValueInstancer struct{}

func (controlValueInstancer) instantiate(c *context) error {
	data, ok := c.font.Tables["cvt "]
	if !ok {
		tracer().Infof("cvar table without cvt table, skipped")
		return nil
	}
	values, err := cvt.Decode(data)
	if err != nil {
		return err
	}
	vars, err := cvar.Decode(c.font.Tables["cvar"], c.axisCount(), len(values))
	if err != nil {
		return err
	}

	res, err := instanceControlValues(values, vars, c.loc)
	if err != nil {
		return err
	}
	c.font.Tables["cvt "] = res.Encode()
	return nil
}

// instanceControlValues adds the rounded sum of the scaled deltas to every
// control value with variation data.
func instanceControlValues(values cvt.Table, vars []cvar.Variation, loc varmodel.Normalized) (cvt.Table, error) {
	sum := make(map[int]float64)
	for _, v := range vars {
		s := v.Region.Scalar(loc)
		if s == 0 {
			continue
		}
		for idx, delta := range v.Deltas {
			if idx < 0 || idx >= len(values) {
				return nil, &sfnt.InvalidFontError{
					SubSystem: "sfnt/cvar",
					Reason:    fmt.Sprintf("delta for non-existent control value %d", idx),
				}
			}
			sum[idx] += s * delta
		}
	}

	res := make(cvt.Table, len(values))
	copy(res, values)
	for idx, delta := range sum {
		v := int(values[idx]) + int(math.Round(delta))
		if !fitsInt16(v) {
			return nil, &sfnt.InvalidFontError{
				SubSystem: "sfnt/cvar",
				Reason:    fmt.Sprintf("control value %d out of range", idx),
			}
		}
		res[idx] = funit.Int16(v)
	}
	return res, nil
}
