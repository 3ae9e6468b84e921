package har

import (
	"bytes"
	"io"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sadopc/harlog/internal/protocol"
)

func TestResolveCharset(t *testing.T) {
	tests := []struct {
		name    string
		headers protocol.Headers
		want    string
	}{
		{
			name:    "no headers",
			headers: nil,
			want:    "utf-8",
		},
		{
			name:    "no content type",
			headers: protocol.Headers{{Name: "Accept", Value: "application/json"}},
			want:    "utf-8",
		},
		{
			name:    "charset param",
			headers: protocol.Headers{{Name: "Content-Type", Value: "text/html; charset=iso-8859-1"}},
			want:    "iso-8859-1",
		},
		{
			name:    "charset param uppercased",
			headers: protocol.Headers{{Name: "content-type", Value: "text/plain; charset=UTF-16LE"}},
			want:    "utf-16le",
		},
		{
			name:    "no params",
			headers: protocol.Headers{{Name: "Content-Type", Value: "application/json"}},
			want:    "utf-8",
		},
		{
			name:    "other params only",
			headers: protocol.Headers{{Name: "Content-Type", Value: "multipart/form-data; boundary=xyz"}},
			want:    "utf-8",
		},
		{
			name:    "malformed media type",
			headers: protocol.Headers{{Name: "Content-Type", Value: ";;;"}},
			want:    "utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveCharset(tt.headers); got != tt.want {
				t.Errorf("ResolveCharset() = %q, want %q", got, tt.want)
			}
		})
	}
}

func encode(t *testing.T, text string, enc transform.Transformer) []byte {
	t.Helper()
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader([]byte(text)), enc))
	if err != nil {
		t.Fatalf("encoding sample text: %v", err)
	}
	return out
}

func TestDecodeBody(t *testing.T) {
	shiftJIS := encode(t, "こんにちは", japanese.ShiftJIS.NewEncoder())
	latin1 := encode(t, "café", charmap.ISO8859_1.NewEncoder())

	utf16le := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	// A body whose text legitimately contains the replacement
	// character must survive decoding.
	utf16Replacement := encode(t, "ok�", utf16le.NewEncoder())

	tests := []struct {
		name    string
		data    []byte
		charset string
		want    string
	}{
		{name: "nil body", data: nil, charset: "utf-8", want: ""},
		{name: "empty body", data: []byte{}, charset: "utf-8", want: ""},
		{name: "utf-8 round trip", data: []byte(`{"status":"ok"}`), charset: "utf-8", want: `{"status":"ok"}`},
		{name: "invalid utf-8", data: []byte{0xff, 0xfe, 0xfd}, charset: "utf-8", want: ""},
		{name: "shift_jis round trip", data: shiftJIS, charset: "shift_jis", want: "こんにちは"},
		{name: "invalid shift_jis", data: []byte{0x82}, charset: "shift_jis", want: ""},
		{name: "latin1 round trip", data: latin1, charset: "iso-8859-1", want: "café"},
		{name: "utf-16le with genuine replacement rune", data: utf16Replacement, charset: "utf-16le", want: "ok�"},
		{name: "utf-16le unpaired surrogate", data: []byte{0x00, 0xd8}, charset: "utf-16le", want: ""},
		{name: "utf-16le truncated pair", data: []byte{0x6f, 0x00, 0x6b}, charset: "utf-16le", want: ""},
		{name: "unknown charset falls back to utf-8 check", data: []byte("plain"), charset: "klingon", want: "plain"},
		{name: "unknown charset with invalid bytes", data: []byte{0xff}, charset: "klingon", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeBody(tt.data, tt.charset); got != tt.want {
				t.Errorf("DecodeBody() = %q, want %q", got, tt.want)
			}
		})
	}
}
