package local

import (
	"bytes"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

const (
	// sniffSampleSize is how many leading bytes are inspected when
	// deciding whether a file is text.
	sniffSampleSize = 4096

	// nonPrintableLimitPercent is the share of non-printable bytes
	// above which a non-UTF-8 sample is treated as binary.
	nonPrintableLimitPercent = 30
)

type textEncoding int

const (
	encodingPlain textEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

// binaryExtensions lists file extensions that are never offered as
// text, regardless of content.
var binaryExtensions = map[string]struct{}{
	".7z":     {},
	".avi":    {},
	".bin":    {},
	".bmp":    {},
	".bz2":    {},
	".class":  {},
	".dll":    {},
	".doc":    {},
	".docx":   {},
	".dylib":  {},
	".exe":    {},
	".flac":   {},
	".gif":    {},
	".gz":     {},
	".ico":    {},
	".jar":    {},
	".jpeg":   {},
	".jpg":    {},
	".mkv":    {},
	".mov":    {},
	".mp3":    {},
	".mp4":    {},
	".ogg":    {},
	".otf":    {},
	".pdf":    {},
	".png":    {},
	".ppt":    {},
	".pptx":   {},
	".psd":    {},
	".so":     {},
	".sqlite": {},
	".tar":    {},
	".tgz":    {},
	".ttf":    {},
	".wasm":   {},
	".wav":    {},
	".webp":   {},
	".woff":   {},
	".woff2":  {},
	".xls":    {},
	".xlsx":   {},
	".xz":     {},
	".zip":    {},
}

// isTextSample reports whether the leading bytes of a file look like
// text. A Unicode BOM short-circuits to text; otherwise a null byte
// means binary, valid UTF-8 means text, and anything else is judged
// by its share of printable bytes.
func isTextSample(sample []byte) bool {
	if len(sample) == 0 {
		return true
	}
	if len(sample) > sniffSampleSize {
		sample = sample[:sniffSampleSize]
	}

	if detectEncoding(sample) != encodingPlain {
		return true
	}
	if bytes.IndexByte(sample, 0x00) != -1 {
		return false
	}
	if utf8.Valid(sample) {
		return true
	}

	nonPrintable := 0
	for _, b := range sample {
		if !printableByte(b) {
			nonPrintable++
		}
	}
	return nonPrintable*100/len(sample) < nonPrintableLimitPercent
}

func printableByte(b byte) bool {
	switch {
	case b == '\t' || b == '\n' || b == '\r':
		return true
	case b >= 0x20 && b <= 0x7E:
		return true
	case b >= 0x80:
		return true
	default:
		return false
	}
}

func detectEncoding(sample []byte) textEncoding {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return encodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return encodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return encodingUTF16BE
		}
	}
	return encodingPlain
}

// decodeText converts raw file bytes into a UTF-8 string, stripping a
// UTF-8 BOM and transcoding UTF-16 content.
func decodeText(raw []byte) string {
	switch detectEncoding(raw) {
	case encodingUTF8BOM:
		return string(raw[3:])
	case encodingUTF16LE:
		return decodeUTF16(raw, unicode.LittleEndian)
	case encodingUTF16BE:
		return decodeUTF16(raw, unicode.BigEndian)
	default:
		return string(raw)
	}
}

func decodeUTF16(raw []byte, endian unicode.Endianness) string {
	decoded, err := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// readHead returns up to limit bytes from the beginning of the file.
func readHead(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(io.LimitReader(f, limit))
}
