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

// Package sfnt reads and writes the container structure of sfnt font files.
//
// A Font holds the raw bytes of every table found in the file.  The
// subpackages of this package decode and encode the individual tables
// needed to instantiate variable fonts.
package sfnt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// Scaler types for the sfnt file header.
const (
	ScalerTypeTrueType = 0x00010000
	ScalerTypeCFF      = 0x4F54544F // "OTTO"
	ScalerTypeApple    = 0x74727565 // "true"
)

// Font is an sfnt font file, given as a collection of tables.
type Font struct {
	ScalerType uint32
	Tables     map[string][]byte
}

// Read reads all tables of an sfnt font file.
func Read(r io.ReaderAt) (*Font, error) {
	var buf [16]byte
	_, err := r.ReadAt(buf[:12], 0)
	if err != nil {
		return nil, err
	}
	scalerType := binary.BigEndian.Uint32(buf[0:4])
	numTables := int(binary.BigEndian.Uint16(buf[4:6]))

	if scalerType != ScalerTypeTrueType &&
		scalerType != ScalerTypeCFF &&
		scalerType != ScalerTypeApple {
		return nil, &NotSupportedError{
			SubSystem: "sfnt",
			Feature:   fmt.Sprintf("scaler type 0x%x", scalerType),
		}
	}
	if numTables == 0 {
		return nil, errNoTables
	}
	if numTables > 280 {
		return nil, &InvalidFontError{
			SubSystem: "sfnt",
			Reason:    "too many tables",
		}
	}

	type record struct {
		tag            string
		offset, length uint32
	}
	records := make([]record, 0, numTables)
	for i := 0; i < numTables; i++ {
		_, err := r.ReadAt(buf[:], int64(12+i*16))
		if err != nil {
			return nil, err
		}
		records = append(records, record{
			tag:    string(buf[:4]),
			offset: binary.BigEndian.Uint32(buf[8:12]),
			length: binary.BigEndian.Uint32(buf[12:16]),
		})
	}

	// perform some sanity checks
	sort.Slice(records, func(i, j int) bool {
		if records[i].offset != records[j].offset {
			return records[i].offset < records[j].offset
		}
		return records[i].length < records[j].length
	})
	if records[0].offset < uint32(12+16*numTables) {
		return nil, &InvalidFontError{
			SubSystem: "sfnt",
			Reason:    "invalid table offset",
		}
	}
	for i := 1; i < len(records); i++ {
		if uint64(records[i-1].offset)+uint64(records[i-1].length) > uint64(records[i].offset) {
			return nil, &InvalidFontError{
				SubSystem: "sfnt",
				Reason:    "overlapping tables",
			}
		}
	}

	f := &Font{
		ScalerType: scalerType,
		Tables:     make(map[string][]byte, numTables),
	}
	for _, rec := range records {
		if _, dup := f.Tables[rec.tag]; dup {
			return nil, &InvalidFontError{
				SubSystem: "sfnt",
				Reason:    fmt.Sprintf("duplicate table %q", rec.tag),
			}
		}
		data := make([]byte, rec.length)
		_, err := r.ReadAt(data, int64(rec.offset))
		if err == io.EOF {
			return nil, &InvalidFontError{
				SubSystem: "sfnt",
				Reason:    fmt.Sprintf("table %q extends beyond EOF", rec.tag),
			}
		} else if err != nil {
			return nil, err
		}
		f.Tables[rec.tag] = data
	}
	return f, nil
}

// ReadFile reads an sfnt font file from disk.
func ReadFile(fname string) (*Font, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data))
}

// Write writes the font to w.
// The checksum adjustment in the "head" table is updated in place.
func (f *Font) Write(w io.Writer) (int64, error) {
	return writeTables(w, f.ScalerType, f.Tables)
}

// WriteFile writes the font to the named file.
func (f *Font) WriteFile(fname string) error {
	out, err := os.Create(fname)
	if err != nil {
		return err
	}
	_, err = f.Write(out)
	if err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Has returns true if all of the named tables are present.
func (f *Font) Has(tags ...string) bool {
	for _, tag := range tags {
		if _, ok := f.Tables[tag]; !ok {
			return false
		}
	}
	return true
}

// Delete removes the named tables from the font.
// It returns the tags of the tables which were present.
func (f *Font) Delete(tags ...string) []string {
	var removed []string
	for _, tag := range tags {
		if _, ok := f.Tables[tag]; ok {
			delete(f.Tables, tag)
			removed = append(removed, tag)
		}
	}
	return removed
}

// TableTags returns the tags of all tables in the font, sorted.
func (f *Font) TableTags() []string {
	tags := make([]string, 0, len(f.Tables))
	for tag := range f.Tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Clone returns a deep copy of the font.
func (f *Font) Clone() *Font {
	res := &Font{
		ScalerType: f.ScalerType,
		Tables:     make(map[string][]byte, len(f.Tables)),
	}
	for tag, data := range f.Tables {
		res.Tables[tag] = bytes.Clone(data)
	}
	return res
}

var errNoTables = errors.New("sfnt: no tables found")
