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

	"seehuhn.de/go/instancer/sfnt/fvar"
	"seehuhn.de/go/instancer/sfnt/name"
	"seehuhn.de/go/instancer/sfnt/table"
	"seehuhn.de/go/instancer/varmodel"
)

// variationTables are removed from the font after instancing.
var variationTables = []string{
	"avar", "cvar", "fvar", "gvar", "HVAR", "MVAR", "VVAR", "STAT",
}

// widthClassPercents gives the nominal widths of the OS/2 width classes
// 1 to 9, in percent of the normal width.
var widthClassPercents = [9]float64{50, 62.5, 75, 87.5, 100, 112.5, 125, 150, 200}

// widthClassLimits holds the midpoints between consecutive entries of
// widthClassPercents.
var widthClassLimits = func() [8]float64 {
	var res [8]float64
	for i := range res {
		res[i] = (widthClassPercents[i] + widthClassPercents[i+1]) / 2
	}
	return res
}()

// finalize updates the style fields and the name table of the instanced
// font, and removes all variation tables.
func finalize(c *context) error {
	f := c.font

	if data, ok := f.Tables["name"]; ok {
		t, err := name.Decode(data)
		if err != nil {
			return err
		}
		unused := unusedNames(c.fvar)
		for i := range t.Records {
			rec := &t.Records[i]
			if rec.NameID < name.FirstFontSpecific || !unused[rec.NameID] {
				continue
			}
			s, _ := rec.String()
			tracer().Debugf("removing name %d [%s]: %q", rec.NameID, rec.Language(), s)
		}
		n := t.Remove(unused)
		if n > 0 {
			tracer().Infof("removed %d name records", n)
			f.Tables["name"] = t.Encode()
		}
	}

	if os2, ok := f.Tables["OS/2"]; ok {
		if v, ok := c.user["wght"]; ok {
			err := table.OS2WeightClass.Set(os2, math.Round(varmodel.Clamp(v, 1, 1000)))
			if err != nil {
				return err
			}
		}
		if v, ok := c.user["wdth"]; ok {
			err := table.OS2WidthClass.Set(os2, float64(widthClass(v)))
			if err != nil {
				return err
			}
		}
	}

	if v, ok := c.user["slnt"]; ok {
		if data, ok := f.Tables["post"]; ok {
			err := table.PostItalicAngle.Set(data, varmodel.Clamp(v, -90, 90))
			if err != nil {
				return err
			}
		}
	}

	removed := f.Delete(variationTables...)
	tracer().Infof("removed tables %v", removed)
	return nil
}

// unusedNames returns the name IDs which are only meaningful in a variable
// font: the axis names, and the names of the named instances.
func unusedNames(info *fvar.Info) map[name.ID]bool {
	ids := make(map[name.ID]bool)
	for _, a := range info.Axes {
		ids[name.ID(a.AxisNameID)] = true
	}
	for _, inst := range info.Instances {
		ids[name.ID(inst.SubfamilyNameID)] = true
		if inst.PostScriptNameID != fvar.NoName {
			ids[name.ID(inst.PostScriptNameID)] = true
		}
	}
	return ids
}

// widthClass returns the OS/2 width class for a width axis value.
func widthClass(wdth float64) int {
	for i, limit := range widthClassLimits {
		if limit > wdth {
			return i + 1
		}
	}
	return len(widthClassPercents)
}
