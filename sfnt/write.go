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

package sfnt

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/bits"
	"sort"
)

// writeTables writes an sfnt file containing the given tables.
// Tables where the data is nil are not written.
// This changes the checksum adjustment in the "head" table in place.
func writeTables(w io.Writer, scalerType uint32, tables map[string][]byte) (int64, error) {
	tableNames := make([]string, 0, len(tables))
	for name, data := range tables {
		if data != nil && len(name) == 4 && isASCII(name) {
			tableNames = append(tableNames, name)
		}
	}
	numTables := len(tableNames)

	order := ttTableOrder
	if scalerType == ScalerTypeCFF {
		order = cffTableOrder
	}
	sort.Slice(tableNames, func(i, j int) bool {
		iPrio := order[tableNames[i]]
		jPrio := order[tableNames[j]]
		if iPrio != jPrio {
			return iPrio > jPrio
		}
		return tableNames[i] < tableNames[j]
	})

	entrySelector := bits.Len(uint(numTables)) - 1
	header := &offsets{
		ScalerType:    scalerType,
		NumTables:     uint16(numTables),
		SearchRange:   1 << (entrySelector + 4),
		EntrySelector: uint16(entrySelector),
		RangeShift:    uint16(16 * (numTables - 1<<entrySelector)),
	}

	headData := tables["head"]
	if len(headData) >= 12 {
		binary.BigEndian.PutUint32(headData[8:12], 0)
	}

	var totalSum uint32
	offset := uint32(12 + 16*numTables)
	records := make([]tableRecord, numTables)
	for i, name := range tableNames {
		body := tables[name]
		length := uint32(len(body))
		sum := checksum(body)

		copy(records[i].Tag[:], name)
		records[i].CheckSum = sum
		records[i].Offset = offset
		records[i].Length = length

		totalSum += sum
		offset += 4 * ((length + 3) / 4)
	}
	sort.Slice(records, func(i, j int) bool {
		return bytes.Compare(records[i].Tag[:], records[j].Tag[:]) < 0
	})

	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.BigEndian, header)
	_ = binary.Write(buf, binary.BigEndian, records)
	headerBytes := buf.Bytes()
	totalSum += checksum(headerBytes)

	if len(headData) >= 12 {
		binary.BigEndian.PutUint32(headData[8:12], 0xB1B0AFBA-totalSum)
	}

	var totalSize int64
	n, err := w.Write(headerBytes)
	totalSize += int64(n)
	if err != nil {
		return totalSize, err
	}
	var pad [3]byte
	for _, name := range tableNames {
		n, err := w.Write(tables[name])
		totalSize += int64(n)
		if err != nil {
			return totalSize, err
		}
		if k := n % 4; k != 0 {
			l, err := w.Write(pad[:4-k])
			totalSize += int64(l)
			if err != nil {
				return totalSize, err
			}
		}
	}
	return totalSize, nil
}

// checksum computes the table checksum: the sum of all big-endian uint32
// values, with the data zero-padded to a multiple of four bytes.
func checksum(data []byte) uint32 {
	var sum uint32
	for len(data) >= 4 {
		sum += binary.BigEndian.Uint32(data)
		data = data[4:]
	}
	if len(data) > 0 {
		var last [4]byte
		copy(last[:], data)
		sum += binary.BigEndian.Uint32(last[:])
	}
	return sum
}

func isASCII(s string) bool {
	for _, c := range []byte(s) {
		if c < 32 || c > 126 {
			return false
		}
	}
	return true
}

type offsets struct {
	ScalerType    uint32
	NumTables     uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

type tableRecord struct {
	Tag      [4]byte
	CheckSum uint32
	Offset   uint32
	Length   uint32
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/recom#optimized-table-ordering
var ttTableOrder = map[string]int{
	"head": 95,
	"hhea": 90,
	"maxp": 85,
	"OS/2": 80,
	"hmtx": 75,
	"LTSH": 70,
	"VDMX": 65,
	"hdmx": 60,
	"cmap": 55,
	"fpgm": 50,
	"prep": 45,
	"cvt ": 40,
	"loca": 35,
	"glyf": 30,
	"kern": 25,
	"name": 20,
	"post": 15,
	"gasp": 10,
	"DSIG": 5,
}

var cffTableOrder = map[string]int{
	"head": 95,
	"hhea": 90,
	"maxp": 85,
	"OS/2": 80,
	"name": 75,
	"cmap": 70,
	"post": 65,
	"CFF ": 60,
	"CFF2": 60,
}
