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
	"seehuhn.de/go/instancer/sfnt"
	"seehuhn.de/go/instancer/varmodel"
)

// LayoutMerger pins the variations of the layout tables ("GDEF", "GPOS",
// "GSUB") at a location.
//
// Instantiate is only called for fonts where "GDEF" carries an item
// variation store, after all other variation data has been instanced.
// The argument loc gives the normalized location, aligned with the axes
// of the "fvar" table.  The merger must not remove the variation tables;
// this is done once it returns.
type LayoutMerger interface {
	Instantiate(f *sfnt.Font, loc varmodel.Normalized) error
}
