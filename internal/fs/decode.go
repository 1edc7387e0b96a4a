package fs

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Decoder turns raw line bytes into text. Implementations never fail;
// undecodable input degrades to replacement characters.
type Decoder interface {
	Decode(b []byte) string
}

// UTF8Decoder decodes UTF-8, substituting U+FFFD for invalid sequences.
var UTF8Decoder Decoder = utf8Decoder{}

type utf8Decoder struct{}

func (utf8Decoder) Decode(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}

// BOMLength returns how many leading bytes of a file are a byte order mark
// that line splitting should skip.
func BOMLength(enc UnicodeEncoding) int {
	switch enc {
	case EncodingUTF8BOM:
		return 3
	case EncodingUTF16LE, EncodingUTF16BE:
		return 2
	default:
		return 0
	}
}
