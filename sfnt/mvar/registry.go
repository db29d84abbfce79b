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

package mvar

import "seehuhn.de/go/instancer/sfnt/table"

// Metrics maps the value tags of the "MVAR" table to the fields they
// modify.  Tags not listed here are ignored.
var Metrics = map[string]table.Field{
	"hasc": {Table: "OS/2", Name: "sTypoAscender", Offset: 68, Kind: table.Int16},
	"hdsc": {Table: "OS/2", Name: "sTypoDescender", Offset: 70, Kind: table.Int16},
	"hlgp": {Table: "OS/2", Name: "sTypoLineGap", Offset: 72, Kind: table.Int16},
	"hcla": {Table: "OS/2", Name: "usWinAscent", Offset: 74, Kind: table.Uint16},
	"hcld": {Table: "OS/2", Name: "usWinDescent", Offset: 76, Kind: table.Uint16},
	"xhgt": {Table: "OS/2", Name: "sxHeight", Offset: 86, Kind: table.Int16},
	"cpht": {Table: "OS/2", Name: "sCapHeight", Offset: 88, Kind: table.Int16},
	"sbxs": {Table: "OS/2", Name: "ySubscriptXSize", Offset: 10, Kind: table.Int16},
	"sbys": {Table: "OS/2", Name: "ySubscriptYSize", Offset: 12, Kind: table.Int16},
	"sbxo": {Table: "OS/2", Name: "ySubscriptXOffset", Offset: 14, Kind: table.Int16},
	"sbyo": {Table: "OS/2", Name: "ySubscriptYOffset", Offset: 16, Kind: table.Int16},
	"spxs": {Table: "OS/2", Name: "ySuperscriptXSize", Offset: 18, Kind: table.Int16},
	"spys": {Table: "OS/2", Name: "ySuperscriptYSize", Offset: 20, Kind: table.Int16},
	"spxo": {Table: "OS/2", Name: "ySuperscriptXOffset", Offset: 22, Kind: table.Int16},
	"spyo": {Table: "OS/2", Name: "ySuperscriptYOffset", Offset: 24, Kind: table.Int16},
	"strs": {Table: "OS/2", Name: "yStrikeoutSize", Offset: 26, Kind: table.Int16},
	"stro": {Table: "OS/2", Name: "yStrikeoutPosition", Offset: 28, Kind: table.Int16},

	"hcrs": {Table: "hhea", Name: "caretSlopeRise", Offset: 18, Kind: table.Int16},
	"hcrn": {Table: "hhea", Name: "caretSlopeRun", Offset: 20, Kind: table.Int16},
	"hcof": {Table: "hhea", Name: "caretOffset", Offset: 22, Kind: table.Int16},

	"vasc": {Table: "vhea", Name: "ascent", Offset: 4, Kind: table.Int16},
	"vdsc": {Table: "vhea", Name: "descent", Offset: 6, Kind: table.Int16},
	"vlgp": {Table: "vhea", Name: "lineGap", Offset: 8, Kind: table.Int16},
	"vcrs": {Table: "vhea", Name: "caretSlopeRise", Offset: 18, Kind: table.Int16},
	"vcrn": {Table: "vhea", Name: "caretSlopeRun", Offset: 20, Kind: table.Int16},
	"vcof": {Table: "vhea", Name: "caretOffset", Offset: 22, Kind: table.Int16},

	"unds": {Table: "post", Name: "underlineThickness", Offset: 10, Kind: table.Int16},
	"undo": {Table: "post", Name: "underlinePosition", Offset: 8, Kind: table.Int16},
}
