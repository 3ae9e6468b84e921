// Package protocol defines the request and response records exchanged
// between the HTTP transport and the capture core. The core consumes
// these as read-only snapshots of a completed exchange; it never talks
// to the network itself.
package protocol

import (
	"net/http"
	"strings"
	"time"
)

// Header is a single name/value pair. Headers are kept as an ordered
// slice rather than a map so the capture output preserves the order the
// transport produced.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header sequence.
type Headers []Header

// Get returns the value of the first header with the given name,
// matched case-insensitively, or "" if absent.
func (h Headers) Get(name string) string {
	for _, header := range h {
		if strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}
	return ""
}

// Request is a sent-request snapshot.
type Request struct {
	ID      string
	Method  string
	URL     string
	Headers Headers
	Cookies []*http.Cookie
	Body    []byte
	Timeout time.Duration
}

// Response is a received-response snapshot. Request points back at the
// request that produced it, mirroring net/http.Response.
type Response struct {
	StatusCode int
	Proto      string
	Headers    Headers
	Cookies    []*http.Cookie
	Body       []byte
	Duration   time.Duration
	Request    *Request
}
