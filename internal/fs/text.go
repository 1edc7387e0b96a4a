package fs

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	textDetectionSampleSize      = 4096
	nonPrintableThresholdPercent = 30
)

// UnicodeEncoding identifies a byte-order-marked Unicode encoding.
type UnicodeEncoding int

const (
	EncodingUnknown UnicodeEncoding = iota
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
)

var binaryExtensions = map[string]struct{}{
	".7z":      {},
	".apk":     {},
	".avi":     {},
	".bin":     {},
	".bmp":     {},
	".bz2":     {},
	".class":   {},
	".dat":     {},
	".db":      {},
	".dll":     {},
	".doc":     {},
	".docx":    {},
	".dylib":   {},
	".exe":     {},
	".flac":    {},
	".gif":     {},
	".gz":      {},
	".ico":     {},
	".iso":     {},
	".jar":     {},
	".jpeg":    {},
	".jpg":     {},
	".mkv":     {},
	".mov":     {},
	".mp3":     {},
	".mp4":     {},
	".ogg":     {},
	".otf":     {},
	".pdf":     {},
	".png":     {},
	".ppt":     {},
	".pptx":    {},
	".psd":     {},
	".so":      {},
	".sqlite":  {},
	".sqlite3": {},
	".tar":     {},
	".tgz":     {},
	".ttf":     {},
	".wasm":    {},
	".wav":     {},
	".woff":    {},
	".woff2":   {},
	".xls":     {},
	".xlsb":    {},
	".xlsx":    {},
	".xz":      {},
	".zip":     {},
}

// IsTextFile determines if content is text or binary.
// The path (if provided) is used to short-circuit obvious binary extensions before sniffing.
func IsTextFile(path string, content []byte) bool {
	if looksBinaryByExtension(path) {
		return false
	}

	if len(content) == 0 {
		return true
	}

	sample := content
	if len(sample) > textDetectionSampleSize {
		sample = sample[:textDetectionSampleSize]
	}

	if enc := DetectUnicodeEncoding(sample); enc != EncodingUnknown {
		return true
	}

	if bytes.IndexByte(sample, 0x00) != -1 {
		return false
	}

	if utf8.Valid(sample) {
		return true
	}

	printable := 0
	nonPrintable := 0
	for _, b := range sample {
		if isCommonTextByte(b) {
			printable++
		} else {
			nonPrintable++
		}
	}

	if printable == 0 {
		return false
	}

	return nonPrintable*100/len(sample) < nonPrintableThresholdPercent
}

// TextSample describes the head of a file for choosing how to preview it.
type TextSample struct {
	IsText   bool
	Encoding UnicodeEncoding
	Size     int64
}

// SniffText reads the head of path and classifies it. UTF-16 content counts
// as text here; callers that split on the LF byte must check Encoding.
func (r *ChunkReader) SniffText(path string) (TextSample, error) {
	res, err := r.ReadChunk(path, 0, textDetectionSampleSize)
	if err != nil {
		return TextSample{}, err
	}
	return TextSample{
		IsText:   IsTextFile(path, res.Data),
		Encoding: DetectUnicodeEncoding(res.Data),
		Size:     res.TotalSize,
	}, nil
}

func looksBinaryByExtension(path string) bool {
	if path == "" {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := binaryExtensions[ext]
	return ok
}

func isCommonTextByte(b byte) bool {
	switch {
	case b == 0x09 || b == 0x0A || b == 0x0D:
		return true
	case b >= 0x20 && b <= 0x7E:
		return true
	case b == 0x1B:
		return true
	case b >= 0x80:
		return true
	default:
		return false
	}
}

// DetectUnicodeEncoding reports the byte order mark at the start of sample.
func DetectUnicodeEncoding(sample []byte) UnicodeEncoding {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return EncodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return EncodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return EncodingUTF16BE
		}
	}
	return EncodingUnknown
}
