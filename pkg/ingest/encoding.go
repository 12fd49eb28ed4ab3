package ingest

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decode sniffs the encoding of an exported report, strips any BOM and
// returns UTF-8 bytes plus the detected encoding name. Vendor portals
// export UTF-16 with BOM (Excel "Unicode Text") and Latin-1 often
// enough that rejecting non-UTF-8 input is not an option.
func decode(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return data, "utf-8", nil
	}

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[3:], "utf-8-bom", nil

	case bytes.HasPrefix(data, bomUTF16LE):
		out, err := decodeUTF16(data[2:], unicode.LittleEndian)
		if err != nil {
			return nil, "", fmt.Errorf("utf-16le decode: %w", err)
		}
		return out, "utf-16le", nil

	case bytes.HasPrefix(data, bomUTF16BE):
		out, err := decodeUTF16(data[2:], unicode.BigEndian)
		if err != nil {
			return nil, "", fmt.Errorf("utf-16be decode: %w", err)
		}
		return out, "utf-16be", nil

	case utf8.Valid(data):
		return data, "utf-8", nil

	default:
		// Last resort. Every byte sequence is valid Latin-1, so this
		// cannot fail, only mistranslate.
		out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
		if err != nil {
			return nil, "", fmt.Errorf("latin-1 decode: %w", err)
		}
		return out, "latin-1", nil
	}
}

func decodeUTF16(data []byte, endian unicode.Endianness) ([]byte, error) {
	dec := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, data)
	return out, err
}
