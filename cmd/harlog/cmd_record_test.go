package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHeaderListSet(t *testing.T) {
	var headers headerList

	if err := headers.Set("Content-Type: application/json"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := headers.Set("X-Token:abc"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := headers.Set("no-colon-here"); err == nil {
		t.Error("expected error for malformed header")
	}
	if err := headers.Set(": empty-name"); err == nil {
		t.Error("expected error for empty header name")
	}

	if len(headers) != 2 {
		t.Fatalf("expected 2 headers, got %d", len(headers))
	}
	if headers[0].Name != "Content-Type" || headers[0].Value != "application/json" {
		t.Errorf("header 0 = %+v", headers[0])
	}
	if headers[1].Name != "X-Token" || headers[1].Value != "abc" {
		t.Errorf("header 1 = %+v", headers[1])
	}
}

func TestReadBody(t *testing.T) {
	got, err := readBody("")
	if err != nil || got != nil {
		t.Errorf("readBody(\"\") = %q, %v", got, err)
	}

	got, err = readBody(`{"a":1}`)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("literal body = %q", got)
	}

	path := filepath.Join(t.TempDir(), "body.json")
	if err := os.WriteFile(path, []byte(`{"from":"file"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = readBody("@" + path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"from":"file"}` {
		t.Errorf("file body = %q", got)
	}

	if _, err := readBody("@/nonexistent/body.json"); err == nil {
		t.Error("expected error for missing body file")
	}
}
