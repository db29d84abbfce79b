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

// Package instancer converts variable OpenType fonts into static fonts.
//
// A variable font describes a continuous design space, spanned by axes like
// weight or width.  [Instantiate] pins such a font at one location of the
// design space: outlines, hinting data, control values and global metrics
// are interpolated for this location, the style fields in "OS/2" and
// "post" are updated, and all tables describing the variations are
// removed.  The result is an ordinary static font.
//
// Both TrueType ("glyf"/"gvar") and CFF2 outlines are supported.  The
// variations of the layout tables are handled by an optional
// [LayoutMerger].
package instancer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'sfnt.instancer'.
func tracer() tracing.Trace {
	return tracing.Select("sfnt.instancer")
}
