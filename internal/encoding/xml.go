package encoding

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}

	prologEncoding = regexp.MustCompile(`(?i)encoding\s*=\s*"([^"]+)"`)
)

// NormalizeXML decodes an NFSe XML payload to UTF-8. Municipal issuers are
// inconsistent about encodings: payloads arrive as UTF-8, ISO-8859-1 or
// Windows-1252, with or without a truthful prolog. The declared prolog
// charset is rewritten to UTF-8 so the stored document stays consistent
// with its bytes.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. The charset declared in the XML prolog
//  3. Valid UTF-8 passes through unchanged
//  4. Heuristic detection via chardet, falling back to Windows-1252
func NormalizeXML(data []byte) ([]byte, error) {
	decoded, err := decode(data)
	if err != nil {
		return nil, err
	}

	return rewriteProlog(decoded), nil
}

func decode(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, bomUTF8) {
		return data[len(bomUTF8):], nil
	}

	if bytes.HasPrefix(data, bomUTF16LE) {
		return decodeWith(data, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
	}

	if bytes.HasPrefix(data, bomUTF16BE) {
		return decodeWith(data, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder())
	}

	switch declaredCharset(data) {
	case "iso-8859-1", "windows-1252":
		return decodeWith(data, charmap.Windows1252.NewDecoder())
	case "utf-8":
		return data, nil
	}

	if utf8.Valid(data) {
		return data, nil
	}

	detector := chardet.NewTextDetector()

	if result, err := detector.DetectBest(data); err == nil {
		switch result.Charset {
		case "UTF-8":
			return data, nil
		case "ISO-8859-9":
			return decodeWith(data, charmap.ISO8859_9.NewDecoder())
		}
	}

	return decodeWith(data, charmap.Windows1252.NewDecoder())
}

func decodeWith(data []byte, decoder transform.Transformer) ([]byte, error) {
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), decoder))
	if err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}

	return out, nil
}

// declaredCharset returns the lowercased charset named in the XML prolog,
// or "" when the prolog is absent or carries no encoding attribute. Only
// the first line is considered: an encoding attribute deeper in the
// document is content, not a declaration.
func declaredCharset(data []byte) string {
	head := data
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}

	if !bytes.HasPrefix(bytes.TrimSpace(head), []byte("<?xml")) {
		return ""
	}

	m := prologEncoding.FindSubmatch(head)
	if m == nil {
		return ""
	}

	return string(bytes.ToLower(m[1]))
}

func rewriteProlog(data []byte) []byte {
	cs := declaredCharset(data)
	if cs == "" || cs == "utf-8" {
		return data
	}

	end := bytes.IndexByte(data, '>')
	if end < 0 {
		return data
	}

	head := prologEncoding.ReplaceAll(data[:end+1], []byte(`encoding="UTF-8"`))

	return append(head, data[end+1:]...)
}
