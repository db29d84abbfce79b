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

package hmtx

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/postscript/funit"
)

func TestMetricsRoundTrip(t *testing.T) {
	m := &Metrics{
		Advance: []uint16{500, 600, 700, 700, 700},
		Bearing: []int16{0, 10, -20, 30, 40},
	}
	data, numLong := m.Encode()
	if numLong != 3 {
		t.Errorf("numLong = %d, expected 3", numLong)
	}
	if len(data) != 4*3+2*2 {
		t.Errorf("got %d bytes", len(data))
	}
	m2, err := DecodeMetrics("hmtx", data, numLong, len(m.Advance))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(m, m2); d != "" {
		t.Error(d)
	}

	_, err = DecodeMetrics("hmtx", data[:10], numLong, len(m.Advance))
	if err == nil {
		t.Error("short table accepted")
	}
}

func TestHeaderUpdate(t *testing.T) {
	h := &Header{
		Version: 0x00010000,
		Ascent:  800,
		Descent: -200,
	}
	m := &Metrics{
		Advance: []uint16{500, 600, 700},
		Bearing: []int16{0, 50, -10},
	}
	extent := []funit.Int16{0, 400, 730}
	h.Update(m, extent, []bool{true, false, false})

	expected := &Header{
		Version:            0x00010000,
		Ascent:             800,
		Descent:            -200,
		AdvanceMax:         700,
		MinLeadingBearing:  -10,
		MinTrailingBearing: -20,
		MaxExtent:          720,
		NumLongMetrics:     3,
	}
	if d := cmp.Diff(expected, h); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	h2, err := DecodeHeader("hhea", h.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(h, h2); d != "" {
		t.Error(d)
	}

	// without extents, the bearing fields are kept
	m.Advance[2] = 900
	h.Update(m, nil, nil)
	if h.AdvanceMax != 900 || h.MinLeadingBearing != -10 {
		t.Errorf("got %+v", h)
	}
}
