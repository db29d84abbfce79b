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

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/avar"
	"seehuhn.de/go/instancer/sfnt/fvar"
	"seehuhn.de/go/instancer/sfnt/gdef"
	"seehuhn.de/go/instancer/varmodel"
)

// Options control the instantiation of a font.
// A nil *Options is equivalent to the zero value.
type Options struct {
	// Workers is the number of goroutines used to instance glyph outlines.
	// Values smaller than 2 process all glyphs sequentially.
	Workers int

	// Layout, if set, pins the variations of the layout tables.  It is
	// required for fonts where "GDEF" carries an item variation store.
	Layout LayoutMerger
}

// context is shared by all stages of one instantiation.
type context struct {
	font *sfnt.Font
	opts *Options

	fvar *fvar.Info
	user varmodel.Location
	loc  varmodel.Normalized
}

func (c *context) axisCount() int {
	return len(c.fvar.Axes)
}

// A stage instances the variation data of one table kind.  Stages operate
// on a working copy of the font, so that a failing stage leaves the
// caller's font untouched.
type stage interface {
	instantiate(c *context) error
}

// stages lists the stages in the order they are run, keyed by the table
// which holds their variation data.  Stages whose table is absent are
// skipped.
var stages = []struct {
	tag string
	stage
}{
	{"gvar", outlineInstancer{}},
	{"cvar", controlValueInstancer{}},
	{"CFF2", hintingDataInstancer{}},
	{"MVAR", metricsInstancer{}},
	{"HVAR", advanceInstancer{table: "HVAR", header: "hhea", metrics: "hmtx"}},
	{"VVAR", advanceInstancer{table: "VVAR", header: "vhea", metrics: "vmtx"}},
}

// Instantiate pins the variable font f at the design space location loc,
// given in user space coordinates.  Axes which are not mentioned in loc stay
// at their default value; tags which are not axes of the font are ignored.
//
// On success, f is modified in place and no longer contains any variation
// tables.  If an error is returned, f is unchanged.
func Instantiate(f *sfnt.Font, loc varmodel.Location, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}

	fvarData, ok := f.Tables["fvar"]
	if !ok {
		return &sfnt.NotSupportedError{
			SubSystem: "sfnt/instancer",
			Feature:   "fonts without fvar table",
		}
	}
	fvarInfo, err := fvar.Decode(fvarData)
	if err != nil {
		return err
	}

	var segments avar.Info
	if data, ok := f.Tables["avar"]; ok {
		segments, err = avar.Decode(data, fvarInfo.Tags())
		if err != nil {
			return err
		}
	}

	hasLayoutVariations := false
	if data, ok := f.Tables["GDEF"]; ok {
		hasLayoutVariations, err = gdef.HasVariations(data)
		if err != nil {
			return err
		}
	}
	if hasLayoutVariations && opts.Layout == nil {
		return &sfnt.NotSupportedError{
			SubSystem: "sfnt/instancer",
			Feature:   "layout variations without a layout merger",
		}
	}

	c := &context{
		font: f.Clone(),
		opts: opts,
		fvar: fvarInfo,
		user: loc,
		loc:  resolveLocation(fvarInfo.AxisList(), segments, loc),
	}
	tracer().Infof("normalized location %v", c.loc)

	for _, s := range stages {
		if _, ok := c.font.Tables[s.tag]; !ok {
			continue
		}
		tracer().Infof("instancing %q", s.tag)
		err := s.instantiate(c)
		if err != nil {
			return fmt.Errorf("%s: %w", s.tag, err)
		}
	}

	if hasLayoutVariations {
		tracer().Infof("instancing layout tables")
		err := opts.Layout.Instantiate(c.font, c.loc)
		if err != nil {
			return fmt.Errorf("layout: %w", err)
		}
	}

	err = finalize(c)
	if err != nil {
		return err
	}

	f.ScalerType = c.font.ScalerType
	f.Tables = c.font.Tables
	return nil
}
