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

// Package tuplevar decodes the tuple variation store format shared by the
// "gvar" and "cvar" tables.
// https://learn.microsoft.com/en-us/typography/opentype/spec/otvarcommonformats#tuple-variation-store
package tuplevar

import (
	"seehuhn.de/go/instancer/sfnt/parser"
	"seehuhn.de/go/instancer/varmodel"
)

// Tuple is one tuple variation: the deltas contributed by a single region.
type Tuple struct {
	Region varmodel.Region

	// Points lists the indices of the points which have explicit deltas.
	// If Points is nil, the tuple has deltas for all points.
	Points []int

	// X contains one delta per entry of Points (or per point, if Points
	// is nil).  For "cvar" tables, X holds the control value deltas.
	X []int16

	// Y is like X, for the y-coordinates.  Y is nil for "cvar" tables.
	Y []int16
}

// Store describes the layout of a tuple variation store.
type Store struct {
	// Data is the byte range which contains the store.  The dataOffset
	// field of the store is relative to the start of Data.
	Data []byte

	// HeaderPos is the offset of the tupleVariationCount field in Data.
	HeaderPos int

	// TableName is used in error messages.
	TableName string

	AxisCount    int
	SharedTuples [][]float64

	// NumPoints is the number of points (or control values) the deltas apply to.
	NumPoints int

	// HasY is true if the store has separate x and y deltas.
	HasY bool
}

const (
	sharedPointNumbers  = 0x8000
	tupleCountMask      = 0x0FFF
	embeddedPeakTuple   = 0x8000
	intermediateRegion  = 0x4000
	privatePointNumbers = 0x2000
	tupleIndexMask      = 0x0FFF
)

type header struct {
	dataSize      int
	region        varmodel.Region
	privatePoints bool
}

// Decode reads all tuple variations of the store.
func (s *Store) Decode() ([]Tuple, error) {
	p := parser.New(s.TableName, s.Data)
	err := p.SeekPos(s.HeaderPos)
	if err != nil {
		return nil, err
	}

	countWord, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	dataOffset, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	count := int(countWord & tupleCountMask)

	headers := make([]header, count)
	for i := range headers {
		size, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		tupleIndex, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}

		var peak []float64
		if tupleIndex&embeddedPeakTuple != 0 {
			peak, err = p.ReadF2Dot14Slice(s.AxisCount)
			if err != nil {
				return nil, err
			}
		} else {
			idx := int(tupleIndex & tupleIndexMask)
			if idx >= len(s.SharedTuples) {
				return nil, p.Error("shared tuple index %d out of range", idx)
			}
			peak = s.SharedTuples[idx]
		}

		var region varmodel.Region
		if tupleIndex&intermediateRegion != 0 {
			start, err := p.ReadF2Dot14Slice(s.AxisCount)
			if err != nil {
				return nil, err
			}
			end, err := p.ReadF2Dot14Slice(s.AxisCount)
			if err != nil {
				return nil, err
			}
			region = varmodel.IntermediateRegion(start, peak, end)
		} else {
			region = varmodel.PeakRegion(peak)
		}

		headers[i] = header{
			dataSize:      int(size),
			region:        region,
			privatePoints: tupleIndex&privatePointNumbers != 0,
		}
	}

	err = p.SeekPos(int(dataOffset))
	if err != nil {
		return nil, err
	}
	var shared []int
	if countWord&sharedPointNumbers != 0 {
		shared, err = s.readPoints(p)
		if err != nil {
			return nil, err
		}
	}

	res := make([]Tuple, 0, count)
	for _, h := range headers {
		start := p.Pos()
		end := start + h.dataSize
		if end > p.Size() {
			return nil, p.Error("tuple variation data extends beyond end of table")
		}

		points := shared
		if h.privatePoints {
			points, err = s.readPoints(p)
			if err != nil {
				return nil, err
			}
		}
		n := s.NumPoints
		if points != nil {
			n = len(points)
		}

		t := Tuple{
			Region: h.region,
			Points: points,
		}
		t.X, err = readDeltas(p, n)
		if err != nil {
			return nil, err
		}
		if s.HasY {
			t.Y, err = readDeltas(p, n)
			if err != nil {
				return nil, err
			}
		}
		if p.Pos() > end {
			return nil, p.Error("tuple variation data exceeds its declared size")
		}
		err = p.SeekPos(end)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, nil
}

// readPoints reads packed point numbers.  A nil result means "all points".
func (s *Store) readPoints(p *parser.Parser) ([]int, error) {
	b0, err := p.ReadUint8()
	if err != nil {
		return nil, err
	}
	if b0 == 0 {
		return nil, nil
	}
	count := int(b0)
	if b0&0x80 != 0 {
		b1, err := p.ReadUint8()
		if err != nil {
			return nil, err
		}
		count = int(b0&0x7F)<<8 | int(b1)
	}

	points := make([]int, 0, count)
	point := 0
	for len(points) < count {
		control, err := p.ReadUint8()
		if err != nil {
			return nil, err
		}
		run := int(control&0x7F) + 1
		for j := 0; j < run && len(points) < count; j++ {
			var delta int
			if control&0x80 != 0 {
				v, err := p.ReadUint16()
				if err != nil {
					return nil, err
				}
				delta = int(v)
			} else {
				v, err := p.ReadUint8()
				if err != nil {
					return nil, err
				}
				delta = int(v)
			}
			point += delta
			if point >= s.NumPoints {
				return nil, p.Error("point number %d out of range (%d points)",
					point, s.NumPoints)
			}
			points = append(points, point)
		}
	}
	return points, nil
}

// readDeltas reads n packed deltas.
func readDeltas(p *parser.Parser, n int) ([]int16, error) {
	res := make([]int16, 0, n)
	for len(res) < n {
		control, err := p.ReadUint8()
		if err != nil {
			return nil, err
		}
		run := int(control&0x3F) + 1
		if len(res)+run > n {
			return nil, p.Error("delta run exceeds point count")
		}
		switch {
		case control&0x80 != 0: // DELTAS_ARE_ZERO
			for j := 0; j < run; j++ {
				res = append(res, 0)
			}
		case control&0x40 != 0: // DELTAS_ARE_WORDS
			for j := 0; j < run; j++ {
				v, err := p.ReadInt16()
				if err != nil {
					return nil, err
				}
				res = append(res, v)
			}
		default:
			for j := 0; j < run; j++ {
				v, err := p.ReadInt8()
				if err != nil {
					return nil, err
				}
				res = append(res, int16(v))
			}
		}
	}
	return res, nil
}
