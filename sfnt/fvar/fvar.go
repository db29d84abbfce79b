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

// Package fvar reads the "fvar" table, which lists the design axes and the
// named instances of a variable font.
// https://learn.microsoft.com/en-us/typography/opentype/spec/fvar
package fvar

import (
	"fmt"
	"math"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/parser"
	"seehuhn.de/go/instancer/varmodel"
)

// Info contains information from the "fvar" table.
type Info struct {
	Axes      []Axis
	Instances []Instance
}

// Axis is a variation axis record.
type Axis struct {
	varmodel.Axis
	Flags      uint16
	AxisNameID uint16
}

// Instance is a named instance record.
type Instance struct {
	SubfamilyNameID uint16
	Flags           uint16
	Coordinates     []float64

	// PostScriptNameID is NoName if the record has no PostScript name.
	PostScriptNameID uint16
}

// NoName is used for PostScriptNameID if no name is given.
const NoName = 0xFFFF

// Decode reads an "fvar" table.
func Decode(data []byte) (*Info, error) {
	p := parser.New("fvar", data)

	major, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if major != 1 {
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/fvar",
			Feature:   fmt.Sprintf("table version %d", major),
		}
	}
	err = p.Discard(2) // minor version
	if err != nil {
		return nil, err
	}
	axesArrayOffset, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	err = p.Discard(2) // reserved
	if err != nil {
		return nil, err
	}
	axisCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	axisSize, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	instanceCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	instanceSize, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if axisSize < 20 {
		return nil, p.Error("invalid axis record size %d", axisSize)
	}
	n := int(axisCount)
	hasPSName := int(instanceSize) >= 4*n+6
	if int(instanceSize) < 4*n+4 {
		return nil, p.Error("invalid instance record size %d", instanceSize)
	}

	info := &Info{}
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		err = p.SeekPos(int(axesArrayOffset) + i*int(axisSize))
		if err != nil {
			return nil, err
		}
		tag, err := p.ReadTag()
		if err != nil {
			return nil, err
		}
		if seen[tag] {
			return nil, p.Error("duplicate axis %q", tag)
		}
		seen[tag] = true

		var vals [3]float64
		for j := range vals {
			vals[j], err = p.ReadFixed()
			if err != nil {
				return nil, err
			}
		}
		flags, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		nameID, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		info.Axes = append(info.Axes, Axis{
			Axis: varmodel.Axis{
				Tag:     tag,
				Min:     min(vals[0], vals[1]),
				Default: vals[1],
				Max:     max(vals[1], vals[2]),
			},
			Flags:      flags,
			AxisNameID: nameID,
		})
	}

	instBase := int(axesArrayOffset) + n*int(axisSize)
	for i := 0; i < int(instanceCount); i++ {
		err = p.SeekPos(instBase + i*int(instanceSize))
		if err != nil {
			return nil, err
		}
		subfamily, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		flags, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		coords := make([]float64, n)
		for j := range coords {
			coords[j], err = p.ReadFixed()
			if err != nil {
				return nil, err
			}
		}
		psName := uint16(NoName)
		if hasPSName {
			psName, err = p.ReadUint16()
			if err != nil {
				return nil, err
			}
		}
		info.Instances = append(info.Instances, Instance{
			SubfamilyNameID:  subfamily,
			Flags:            flags,
			Coordinates:      coords,
			PostScriptNameID: psName,
		})
	}

	return info, nil
}

// AxisList returns the variation axes without the additional fvar data.
func (info *Info) AxisList() []varmodel.Axis {
	res := make([]varmodel.Axis, len(info.Axes))
	for i, a := range info.Axes {
		res[i] = a.Axis
	}
	return res
}

// Tags returns the axis tags, in axis order.
func (info *Info) Tags() []string {
	res := make([]string, len(info.Axes))
	for i, a := range info.Axes {
		res[i] = a.Tag
	}
	return res
}

// Encode returns the binary form of the "fvar" table.
// Instance records are written with a PostScript name field.
func (info *Info) Encode() []byte {
	n := len(info.Axes)
	axisSize := 20
	instanceSize := 4*n + 6
	res := make([]byte, 16, 16+n*axisSize+len(info.Instances)*instanceSize)
	res[1] = 1
	res[5] = 16
	res[6], res[7] = 0, 2
	res[8], res[9] = byte(n>>8), byte(n)
	res[11] = byte(axisSize)
	k := len(info.Instances)
	res[12], res[13] = byte(k>>8), byte(k)
	res[14], res[15] = byte(instanceSize>>8), byte(instanceSize)

	for _, a := range info.Axes {
		res = append(res, a.Tag...)
		res = appendFixed(res, a.Min)
		res = appendFixed(res, a.Default)
		res = appendFixed(res, a.Max)
		res = append(res, byte(a.Flags>>8), byte(a.Flags),
			byte(a.AxisNameID>>8), byte(a.AxisNameID))
	}
	for _, inst := range info.Instances {
		res = append(res, byte(inst.SubfamilyNameID>>8), byte(inst.SubfamilyNameID),
			byte(inst.Flags>>8), byte(inst.Flags))
		for j := 0; j < n; j++ {
			var x float64
			if j < len(inst.Coordinates) {
				x = inst.Coordinates[j]
			}
			res = appendFixed(res, x)
		}
		res = append(res, byte(inst.PostScriptNameID>>8), byte(inst.PostScriptNameID))
	}
	return res
}

func appendFixed(buf []byte, x float64) []byte {
	v := uint32(int32(math.Round(x * 65536)))
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
