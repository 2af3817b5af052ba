package ingest

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// decodeContent turns raw upload bytes into text. Source exports are
// frequently Greek-locale spreadsheets saved with inconsistent
// encodings, so decoding falls through UTF-8, ISO 8859-7 and
// Windows-1253 before substituting unmappable bytes. It never fails.
func decodeContent(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	for _, cm := range []*charmap.Charmap{charmap.ISO8859_7, charmap.Windows1253} {
		out, _, err := transform.Bytes(cm.NewDecoder(), data)
		if err == nil && utf8.Valid(out) && !strings.ContainsRune(string(out), utf8.RuneError) {
			return string(out)
		}
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
