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
	"bytes"
	"encoding/binary"
	"fmt"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/instancer/sfnt"
)

// Header contains the fields of a "hhea" or "vhea" table.  Both tables
// share the same binary layout; for "vhea" the bearings refer to the top
// and bottom edges of the glyphs.
type Header struct {
	Version uint32

	Ascent  int16
	Descent int16
	LineGap int16

	AdvanceMax         uint16
	MinLeadingBearing  int16
	MinTrailingBearing int16
	MaxExtent          int16

	CaretSlopeRise int16
	CaretSlopeRun  int16
	CaretOffset    int16

	Reserved         [4]int16
	MetricDataFormat int16
	NumLongMetrics   uint16
}

const headerLength = 36

// DecodeHeader reads a "hhea" or "vhea" table.
func DecodeHeader(tableName string, data []byte) (*Header, error) {
	if len(data) < headerLength {
		return nil, &sfnt.InvalidFontError{
			SubSystem: "sfnt/" + tableName,
			Reason:    "table too short",
		}
	}
	h := &Header{}
	err := binary.Read(bytes.NewReader(data), binary.BigEndian, h)
	if err != nil {
		return nil, err
	}
	if h.Version>>16 != 1 {
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/" + tableName,
			Feature:   fmt.Sprintf("table version %08x", h.Version),
		}
	}
	if h.MetricDataFormat != 0 {
		return nil, &sfnt.NotSupportedError{
			SubSystem: "sfnt/" + tableName,
			Feature:   fmt.Sprintf("metric data format %d", h.MetricDataFormat),
		}
	}
	return h, nil
}

// Encode returns the binary form of the header.
func (h *Header) Encode() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, headerLength))
	_ = binary.Write(buf, binary.BigEndian, h)
	return buf.Bytes()
}

// Update recomputes the summary fields of the header from the glyph
// metrics.  The argument extent gives, per glyph, the size of the bounding
// box in the layout direction; glyphs with empty[i] set are skipped when
// computing the bearing fields.  If extent is nil, only AdvanceMax and
// NumLongMetrics are updated.
func (h *Header) Update(m *Metrics, extent []funit.Int16, empty []bool) {
	h.AdvanceMax = 0
	for _, a := range m.Advance {
		h.AdvanceMax = max(h.AdvanceMax, a)
	}
	h.NumLongMetrics = uint16(m.numLong())

	if extent == nil {
		return
	}
	first := true
	for i, ext := range extent {
		if empty[i] {
			continue
		}
		lead := m.Bearing[i]
		e := int(lead) + int(ext)
		trail := int(m.Advance[i]) - e
		if first {
			h.MinLeadingBearing = lead
			h.MinTrailingBearing = int16(trail)
			h.MaxExtent = int16(e)
			first = false
			continue
		}
		h.MinLeadingBearing = min(h.MinLeadingBearing, lead)
		h.MinTrailingBearing = min(h.MinTrailingBearing, int16(trail))
		h.MaxExtent = max(h.MaxExtent, int16(e))
	}
}
