package har

import (
	"bytes"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sadopc/harlog/internal/protocol"
)

// DefaultCharset is assumed whenever a charset cannot be resolved from
// the headers.
const DefaultCharset = "utf-8"

// ResolveCharset extracts the charset parameter from the Content-Type
// header. A missing header, missing parameter, or malformed media type
// all resolve to utf-8; resolution never fails.
func ResolveCharset(headers protocol.Headers) string {
	contentType := headers.Get("Content-Type")
	if contentType == "" {
		return DefaultCharset
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return DefaultCharset
	}
	if charset := params["charset"]; charset != "" {
		return strings.ToLower(charset)
	}
	return DefaultCharset
}

// DecodeBody converts a raw body into text using the given charset.
// A nil or empty body yields ""; a body that is not valid under the
// charset also yields "" rather than an error, so a capture can never
// abort in-flight request handling. Unknown charsets degrade to a
// plain UTF-8 validity check.
func DecodeBody(data []byte, charset string) string {
	if len(data) == 0 {
		return ""
	}

	enc := encodingByName(charset)
	if enc == nil || enc == unicode.UTF8 {
		if !utf8.Valid(data) {
			return ""
		}
		return string(data)
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return ""
	}
	// x/text decoders substitute U+FFFD for undecodable input instead
	// of failing. A replacement rune is genuine only when the source
	// bytes actually encode U+FFFD; re-encoding settles which it was.
	if bytes.ContainsRune(decoded, utf8.RuneError) && !roundTrips(enc, decoded, data) {
		return ""
	}
	return string(decoded)
}

// roundTrips reports whether decoded re-encodes to the original bytes.
func roundTrips(enc encoding.Encoding, decoded, original []byte) bool {
	reencoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(decoded), enc.NewEncoder()))
	if err != nil {
		return false
	}
	return bytes.Equal(reencoded, original)
}

// encodingByName returns the encoding for a charset name, or nil when
// the name is unknown.
func encodingByName(name string) encoding.Encoding {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return unicode.UTF8
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case "utf-16be", "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "utf-16le", "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

	case "shift_jis", "shift-jis", "sjis", "ms_kanji":
		return japanese.ShiftJIS
	case "euc-jp", "eucjp":
		return japanese.EUCJP
	case "iso-2022-jp", "iso2022jp":
		return japanese.ISO2022JP

	case "euc-kr", "euckr":
		return korean.EUCKR

	case "gb2312", "gb-2312", "gb18030", "gb-18030":
		return simplifiedchinese.GB18030
	case "gbk":
		return simplifiedchinese.GBK
	case "big5", "big-5":
		return traditionalchinese.Big5

	case "iso-8859-1", "iso8859-1", "latin1":
		return charmap.ISO8859_1
	case "iso-8859-2", "iso8859-2", "latin2":
		return charmap.ISO8859_2
	case "iso-8859-15", "iso8859-15":
		return charmap.ISO8859_15

	case "windows-1252", "cp1252":
		return charmap.Windows1252
	case "windows-1251", "cp1251":
		return charmap.Windows1251

	default:
		return nil
	}
}
