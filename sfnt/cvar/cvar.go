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

// Package cvar reads the "cvar" table, which holds the variations of the
// control value table.
// https://learn.microsoft.com/en-us/typography/opentype/spec/cvar
package cvar

import (
	"seehuhn.de/go/instancer/sfnt/parser"
	"seehuhn.de/go/instancer/sfnt/tuplevar"
	"seehuhn.de/go/instancer/varmodel"
)

// Variation is one tuple variation of the control value table.
// Deltas maps CVT indices to deltas.  Values without an entry do not change.
type Variation struct {
	Region varmodel.Region
	Deltas map[int]float64
}

// Decode reads a "cvar" table.  The argument numCVT is the number of entries
// in the "cvt " table.
func Decode(data []byte, axisCount, numCVT int) ([]Variation, error) {
	p := parser.New("cvar", data)
	major, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if major != 1 {
		return nil, p.Error("unknown table version %d", major)
	}

	store := &tuplevar.Store{
		Data:      data,
		HeaderPos: 4,
		TableName: "cvar",
		AxisCount: axisCount,
		NumPoints: numCVT,
	}
	tuples, err := store.Decode()
	if err != nil {
		return nil, err
	}

	res := make([]Variation, 0, len(tuples))
	for _, t := range tuples {
		deltas := make(map[int]float64, len(t.X))
		for k, d := range t.X {
			idx := k
			if t.Points != nil {
				idx = t.Points[k]
			}
			deltas[idx] += float64(d)
		}
		res = append(res, Variation{Region: t.Region, Deltas: deltas})
	}
	return res, nil
}

// Encode returns the binary form of a "cvar" table.
func Encode(tuples []tuplevar.Tuple) []byte {
	return tuplevar.Encode([]byte{0, 1, 0, 0}, tuples, false)
}
