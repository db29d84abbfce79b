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

// Package name reads and writes the "name" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/name
//
// The table is handled at the level of individual name records, so that
// records can be removed without touching any of the others.
package name

import (
	"sort"

	"seehuhn.de/go/instancer/sfnt"
)

// ID is a name identifier.  IDs below 256 have predefined meanings; IDs
// from 256 onwards are font-specific and are referenced from other tables.
type ID uint16

// Some predefined name IDs.
const (
	IDFamily            ID = 1
	IDSubfamily         ID = 2
	IDFullName          ID = 4
	IDPostScriptName    ID = 6
	IDTypographicFamily ID = 16
	IDTypographicSub    ID = 17
	IDVarPSNamePrefix   ID = 25

	// FirstFontSpecific is the first name ID which is not predefined.
	FirstFontSpecific ID = 256
)

// Record is a single name record.  Value holds the encoded string.
type Record struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     ID
	Value      []byte
}

// Table contains the records of a "name" table.
type Table struct {
	Records []Record

	// LangTags holds the encoded language-tag strings of a version 1 table.
	// Language IDs 0x8000 and above refer to these.
	LangTags [][]byte
}

// Decode reads a "name" table.
func Decode(data []byte) (*Table, error) {
	if len(data) < 6 {
		return nil, errMalformedNames
	}
	version := uint16(data[0])<<8 | uint16(data[1])
	numRec := int(data[2])<<8 | int(data[3])
	storageOffset := int(data[4])<<8 | int(data[5])

	if version > 1 {
		return nil, errMalformedNames
	}

	recBase := 6
	endOfHeader := recBase + 12*numRec
	if endOfHeader > len(data) {
		return nil, errMalformedNames
	}

	numLang := 0
	if version > 0 {
		if endOfHeader+2 > len(data) {
			return nil, errMalformedNames
		}
		numLang = int(data[endOfHeader])<<8 | int(data[endOfHeader+1])
		endOfHeader += 2 + numLang*4
	}
	if storageOffset > len(data) || endOfHeader > len(data) {
		return nil, errMalformedNames
	}

	getString := func(pos int) ([]byte, error) {
		length := int(data[pos])<<8 | int(data[pos+1])
		offset := int(data[pos+2])<<8 | int(data[pos+3])
		start := storageOffset + offset
		if start+length > len(data) {
			return nil, errMalformedNames
		}
		return data[start : start+length], nil
	}

	t := &Table{}
	for i := 0; i < numRec; i++ {
		pos := recBase + i*12
		value, err := getString(pos + 8)
		if err != nil {
			return nil, err
		}
		t.Records = append(t.Records, Record{
			PlatformID: uint16(data[pos])<<8 | uint16(data[pos+1]),
			EncodingID: uint16(data[pos+2])<<8 | uint16(data[pos+3]),
			LanguageID: uint16(data[pos+4])<<8 | uint16(data[pos+5]),
			NameID:     ID(data[pos+6])<<8 | ID(data[pos+7]),
			Value:      value,
		})
	}
	for i := 0; i < numLang; i++ {
		pos := recBase + 12*numRec + 2 + 4*i
		value, err := getString(pos)
		if err != nil {
			return nil, err
		}
		t.LangTags = append(t.LangTags, value)
	}

	return t, nil
}

// Encode returns the binary form of the table.  Records are sorted by
// platform, encoding, language and name ID.  Identical strings are stored
// only once.
func (t *Table) Encode() []byte {
	records := make([]Record, len(t.Records))
	copy(records, t.Records)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].PlatformID != records[j].PlatformID {
			return records[i].PlatformID < records[j].PlatformID
		}
		if records[i].EncodingID != records[j].EncodingID {
			return records[i].EncodingID < records[j].EncodingID
		}
		if records[i].LanguageID != records[j].LanguageID {
			return records[i].LanguageID < records[j].LanguageID
		}
		return records[i].NameID < records[j].NameID
	})

	var version uint16
	if len(t.LangTags) > 0 {
		version = 1
	}

	b := newNameBuilder()
	numRec := len(records)
	startOfRecords := 6
	startOfStrings := startOfRecords + numRec*12
	if version > 0 {
		startOfStrings += 2 + 4*len(t.LangTags)
	}
	res := make([]byte, startOfStrings)
	res[1] = byte(version)
	res[2] = byte(numRec >> 8)
	res[3] = byte(numRec)
	res[4] = byte(startOfStrings >> 8)
	res[5] = byte(startOfStrings)
	for i, rec := range records {
		offset, length := b.Add(rec.Value)
		base := startOfRecords + i*12
		res[base] = byte(rec.PlatformID >> 8)
		res[base+1] = byte(rec.PlatformID)
		res[base+2] = byte(rec.EncodingID >> 8)
		res[base+3] = byte(rec.EncodingID)
		res[base+4] = byte(rec.LanguageID >> 8)
		res[base+5] = byte(rec.LanguageID)
		res[base+6] = byte(rec.NameID >> 8)
		res[base+7] = byte(rec.NameID)
		res[base+8] = byte(length >> 8)
		res[base+9] = byte(length)
		res[base+10] = byte(offset >> 8)
		res[base+11] = byte(offset)
	}
	if version > 0 {
		base := startOfRecords + numRec*12
		n := len(t.LangTags)
		res[base], res[base+1] = byte(n>>8), byte(n)
		for i, tag := range t.LangTags {
			offset, length := b.Add(tag)
			pos := base + 2 + 4*i
			res[pos] = byte(length >> 8)
			res[pos+1] = byte(length)
			res[pos+2] = byte(offset >> 8)
			res[pos+3] = byte(offset)
		}
	}

	return append(res, b.data...)
}

// Remove deletes all records whose name ID is contained in ids and returns
// the number of records removed.  Predefined name IDs (below 256) are never
// removed.
func (t *Table) Remove(ids map[ID]bool) int {
	kept := t.Records[:0]
	removed := 0
	for _, rec := range t.Records {
		if rec.NameID >= FirstFontSpecific && ids[rec.NameID] {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	t.Records = kept
	return removed
}

type nameBuilder struct {
	data []byte
	idx  map[string]uint16
}

func newNameBuilder() *nameBuilder {
	return &nameBuilder{
		idx: make(map[string]uint16),
	}
}

func (nb *nameBuilder) Add(b []byte) (offs, length uint16) {
	key := string(b)
	if idx, ok := nb.idx[key]; ok {
		return idx, uint16(len(b))
	}
	idx := uint16(len(nb.data))
	nb.idx[key] = idx
	nb.data = append(nb.data, b...)
	return idx, uint16(len(b))
}

var errMalformedNames = &sfnt.InvalidFontError{
	SubSystem: "sfnt/name",
	Reason:    "malformed name table",
}
