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

package tuplevar

import (
	"math"

	"seehuhn.de/go/instancer/varmodel"
)

// Encode returns the binary form of a tuple variation store.  The output
// starts with prefix, followed by the store header; the dataOffset field is
// relative to the start of the output.  Peak tuples are always embedded and
// point numbers are always private.
func Encode(prefix []byte, tuples []Tuple, hasY bool) []byte {
	var headers, body []byte
	for _, t := range tuples {
		var data []byte
		if t.Points != nil {
			data = appendPoints(data, t.Points)
		}
		data = appendDeltas(data, t.X)
		if hasY {
			data = appendDeltas(data, t.Y)
		}
		body = append(body, data...)

		tupleIndex := uint16(embeddedPeakTuple)
		intermediate := !isPeakRegion(t.Region)
		if intermediate {
			tupleIndex |= intermediateRegion
		}
		if t.Points != nil {
			tupleIndex |= privatePointNumbers
		}
		headers = append(headers, byte(len(data)>>8), byte(len(data)),
			byte(tupleIndex>>8), byte(tupleIndex))
		for _, s := range t.Region {
			headers = appendF2Dot14(headers, s.Peak)
		}
		if intermediate {
			for _, s := range t.Region {
				headers = appendF2Dot14(headers, s.Start)
			}
			for _, s := range t.Region {
				headers = appendF2Dot14(headers, s.End)
			}
		}
	}

	dataOffset := len(prefix) + 4 + len(headers)
	res := make([]byte, 0, dataOffset+len(body))
	res = append(res, prefix...)
	res = append(res, byte(len(tuples)>>8), byte(len(tuples)),
		byte(dataOffset>>8), byte(dataOffset))
	res = append(res, headers...)
	res = append(res, body...)
	return res
}

func isPeakRegion(r varmodel.Region) bool {
	for _, s := range r {
		if s.Start != min(s.Peak, 0) || s.End != max(s.Peak, 0) {
			return false
		}
	}
	return true
}

func appendPoints(buf []byte, points []int) []byte {
	n := len(points)
	if n < 128 {
		buf = append(buf, byte(n))
	} else {
		buf = append(buf, byte(n>>8)|0x80, byte(n))
	}

	prev := 0
	for i := 0; i < n; {
		words := false
		run := 0
		for i+run < n && run < 128 {
			d := points[i+run] - prev
			if run > 0 && words != (d > 255) {
				break
			}
			words = d > 255
			prev = points[i+run]
			run++
		}
		control := byte(run - 1)
		if words {
			control |= 0x80
		}
		buf = append(buf, control)
		p := 0
		if i > 0 {
			p = points[i-1]
		}
		for j := i; j < i+run; j++ {
			d := points[j] - p
			if words {
				buf = append(buf, byte(d>>8), byte(d))
			} else {
				buf = append(buf, byte(d))
			}
			p = points[j]
		}
		i += run
	}
	return buf
}

func appendDeltas(buf []byte, deltas []int16) []byte {
	n := len(deltas)
	for i := 0; i < n; {
		kind := deltaKind(deltas[i])
		run := 1
		for i+run < n && run < 64 && deltaKind(deltas[i+run]) == kind {
			run++
		}
		switch kind {
		case 0:
			buf = append(buf, 0x80|byte(run-1))
		case 1:
			buf = append(buf, byte(run-1))
			for _, d := range deltas[i : i+run] {
				buf = append(buf, byte(int8(d)))
			}
		default:
			buf = append(buf, 0x40|byte(run-1))
			for _, d := range deltas[i : i+run] {
				buf = append(buf, byte(uint16(d)>>8), byte(d))
			}
		}
		i += run
	}
	return buf
}

func deltaKind(d int16) int {
	switch {
	case d == 0:
		return 0
	case d >= -128 && d <= 127:
		return 1
	default:
		return 2
	}
}

func appendF2Dot14(buf []byte, x float64) []byte {
	v := uint16(int16(math.Round(x * 16384)))
	return append(buf, byte(v>>8), byte(v))
}
