// Package charset detects and decodes the text encodings seen in third-party
// export files. US dispatch and ad-platform exports are usually UTF-8, but
// files that passed through Excel on Windows arrive as Windows-1252 with
// smart quotes and en dashes.
package charset

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding detects the encoding of a byte buffer. Valid UTF-8 is
// always preferred; anything else is treated as Windows-1252, which decodes
// every byte and so can never fail.
func DetectEncoding(data []byte) Encoding {
	if bytes.HasPrefix(data, utf8BOM) {
		return EncodingUTF8
	}
	if utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1252
}

// Decode converts a byte buffer to a UTF-8 string, stripping a BOM when
// present. When enc is empty the encoding is detected first.
func Decode(data []byte, enc Encoding) (string, error) {
	if enc == "" {
		enc = DetectEncoding(data)
	}

	data = bytes.TrimPrefix(data, utf8BOM)

	// A file announced as Windows-1252 but actually valid UTF-8 is decoded
	// as UTF-8; double-decoding mangles every multibyte character
	if enc == EncodingUTF8 || utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
