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

package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/sfnt/name"
	"seehuhn.de/go/instancer/varmodel"
)

// parseLocation parses axis assignments of the form TAG=value.  Tags have
// 1 to 4 characters and are padded with spaces.
func parseLocation(args []string) (varmodel.Location, error) {
	loc := make(varmodel.Location, len(args))
	for _, arg := range args {
		tag, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid axis assignment %q, expected TAG=value", arg)
		}
		if len(tag) < 1 || len(tag) > 4 {
			return nil, fmt.Errorf("invalid axis tag %q", tag)
		}
		x, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for axis %q: %q", tag, value)
		}
		loc[fmt.Sprintf("%-4s", tag)] = x
	}
	return loc, nil
}

// outputName returns the default output file name for an input font,
// "NAME-instance.EXT".
func outputName(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "-instance" + ext
}

// fontName returns the family and subfamily name of a font, for messages.
// The result is "" if the font has no usable name table.
func fontName(f *sfnt.Font) string {
	data, ok := f.Tables["name"]
	if !ok {
		return ""
	}
	t, err := name.Decode(data)
	if err != nil {
		return ""
	}
	family := t.Find(name.IDFamily)
	if family == "" {
		return ""
	}
	if sub := t.Find(name.IDSubfamily); sub != "" {
		family += " " + sub
	}
	return family
}
