package model

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// AsText decodes s as PDF text (as found in Info/metadata dictionaries):
// UTF-16BE with a leading FE FF byte-order mark when present, otherwise
// PDFDocEncoding. PDFDocEncoding agrees with Latin-1 for the printable
// ASCII range and most bytes metadata text actually uses, which is the
// approximation taken here rather than carrying its full glyph table.
func (s String) AsText() (string, error) {
	if len(s.Value) >= 2 && s.Value[0] == 0xFE && s.Value[1] == 0xFF {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(s.Value)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	var sb strings.Builder
	for _, b := range s.Value {
		sb.WriteRune(rune(b))
	}
	return sb.String(), nil
}
