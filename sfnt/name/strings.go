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

package name

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
)

// Platform IDs.
const (
	PlatformUnicode   = 0
	PlatformMacintosh = 1
	PlatformWindows   = 3
)

// String decodes the value of the record.  The second return value is false
// if the encoding of the record is not supported.
func (rec *Record) String() (string, bool) {
	var dec *encoding.Decoder
	switch {
	case rec.PlatformID == PlatformUnicode,
		rec.PlatformID == PlatformWindows && (rec.EncodingID == 0 || rec.EncodingID == 1 || rec.EncodingID == 10):
		dec = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	case rec.PlatformID == PlatformMacintosh && rec.EncodingID == 0:
		dec = charmap.Macintosh.NewDecoder()
	default:
		return "", false
	}
	s, err := dec.Bytes(rec.Value)
	if err != nil {
		return "", false
	}
	return string(s), true
}

// Language returns the language of the record.  language.Und is returned
// for unknown language IDs.
func (rec *Record) Language() language.Tag {
	var code string
	switch rec.PlatformID {
	case PlatformMacintosh:
		code = appleLanguage[rec.LanguageID]
	case PlatformWindows:
		code = msLanguage[rec.LanguageID]
	}
	if code == "" {
		return language.Und
	}
	return language.Make(code)
}

// Find returns the first record with the given name ID, preferring Windows
// English records.  The result is "" if no decodable record is found.
func (t *Table) Find(id ID) string {
	var fallback string
	for i := range t.Records {
		rec := &t.Records[i]
		if rec.NameID != id {
			continue
		}
		s, ok := rec.String()
		if !ok {
			continue
		}
		if rec.PlatformID == PlatformWindows && rec.LanguageID == 0x0409 {
			return s
		}
		if fallback == "" {
			fallback = s
		}
	}
	return fallback
}

// appleLanguage maps the most common Macintosh language codes to BCP 47 tags.
var appleLanguage = map[uint16]string{
	0:  "en",
	1:  "fr",
	2:  "de",
	3:  "it",
	4:  "nl",
	5:  "sv",
	6:  "es",
	7:  "da",
	8:  "pt",
	9:  "no",
	10: "he",
	11: "ja",
	12: "ar",
	13: "fi",
	14: "el",
	15: "is",
	17: "tr",
	19: "zh-Hant",
	23: "ko",
	32: "ru",
	33: "zh-Hans",
}

// msLanguage maps common Windows language IDs to BCP 47 tags.
var msLanguage = map[uint16]string{
	0x0401: "ar-SA",
	0x0404: "zh-TW",
	0x0405: "cs-CZ",
	0x0406: "da-DK",
	0x0407: "de-DE",
	0x0408: "el-GR",
	0x0409: "en-US",
	0x040A: "es-ES",
	0x040B: "fi-FI",
	0x040C: "fr-FR",
	0x040D: "he-IL",
	0x040E: "hu-HU",
	0x0410: "it-IT",
	0x0411: "ja-JP",
	0x0412: "ko-KR",
	0x0413: "nl-NL",
	0x0414: "nb-NO",
	0x0415: "pl-PL",
	0x0416: "pt-BR",
	0x0419: "ru-RU",
	0x041D: "sv-SE",
	0x041F: "tr-TR",
	0x0804: "zh-CN",
	0x0809: "en-GB",
	0x0C0A: "es-ES",
}
