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
	"math"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/instancer/sfnt/hmtx"
	"seehuhn.de/go/instancer/sfnt/hvar"
	"seehuhn.de/go/instancer/sfnt/maxp"
	"seehuhn.de/go/instancer/sfnt/mvar"
	"seehuhn.de/go/instancer/sfnt/table"
	"seehuhn.de/go/instancer/sfnt/varstore"
)

// metricsInstancer applies the "MVAR" deltas to the global font metrics
// in "OS/2", "hhea", "vhea" and "post".
type metricsInstancer struct{}

func (metricsInstancer) instantiate(c *context) error {
	info, err := mvar.Decode(c.font.Tables["MVAR"], c.axisCount())
	if err != nil {
		return err
	}
	if info.Store == nil {
		return nil
	}
	in := varstore.NewInstancer(info.Store, c.loc)

	type update struct {
		field table.Field
		value float64
	}
	var updates []update
	for _, rec := range info.Records {
		field, ok := mvar.Metrics[rec.Tag]
		if !ok {
			tracer().Debugf("MVAR: ignoring value tag %q", rec.Tag)
			continue
		}
		data, ok := c.font.Tables[field.Table]
		if !ok {
			continue
		}
		d, err := in.Value(rec.VarIdx)
		if err != nil {
			return err
		}
		delta := math.Round(d)
		if delta == 0 {
			continue
		}
		current, err := field.Get(data)
		if err != nil {
			return err
		}
		updates = append(updates, update{field, current + delta})
	}

	for _, u := range updates {
		tracer().Debugf("MVAR: %s.%s = %g", u.field.Table, u.field.Name, u.value)
		err := u.field.Set(c.font.Tables[u.field.Table], u.value)
		if err != nil {
			return err
		}
	}
	return nil
}

// advanceInstancer applies the advance deltas of an "HVAR" or "VVAR"
// table.  For TrueType outlines the advances are already updated from the
// phantom points, so the stage only runs for CFF2 fonts.
type advanceInstancer struct {
	table   string // "HVAR" or "VVAR"
	header  string // "hhea" or "vhea"
	metrics string // "hmtx" or "vmtx"
}

func (a advanceInstancer) instantiate(c *context) error {
	f := c.font
	if f.Has("glyf") || !f.Has(a.header, a.metrics, "maxp") {
		return nil
	}

	info, err := hvar.Decode(a.table, f.Tables[a.table], c.axisCount())
	if err != nil {
		return err
	}
	maxpInfo, err := maxp.Decode(f.Tables["maxp"])
	if err != nil {
		return err
	}
	header, err := hmtx.DecodeHeader(a.header, f.Tables[a.header])
	if err != nil {
		return err
	}
	m, err := hmtx.DecodeMetrics(a.metrics, f.Tables[a.metrics], int(header.NumLongMetrics), maxpInfo.NumGlyphs)
	if err != nil {
		return err
	}

	in := varstore.NewInstancer(info.Store, c.loc)
	for gid := range m.Advance {
		d, err := info.AdvanceDelta(in, glyph.ID(gid))
		if err != nil {
			return err
		}
		m.Advance[gid] = toUint16(float64(m.Advance[gid]) + math.Round(d))
	}

	header.Update(m, nil, nil)
	data, _ := m.Encode()
	f.Tables[a.metrics] = data
	f.Tables[a.header] = header.Encode()
	return nil
}
