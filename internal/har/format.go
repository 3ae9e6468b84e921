package har

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sadopc/harlog/internal/protocol"
)

// DefaultPostMimeType is assumed when a request carries a body but no
// Content-Type header. Responses get no such default: a response
// without a stated type cannot be archived faithfully.
const DefaultPostMimeType = "application/json"

var (
	// ErrMissingContentType reports a response with no Content-Type
	// header, which this archiver treats as malformed upstream data.
	ErrMissingContentType = errors.New("response has no Content-Type header")

	// ErrUnknownStatus reports a status code outside the canonical
	// reason-phrase table.
	ErrUnknownStatus = errors.New("status code has no known reason phrase")
)

// FormatHeader maps a single header or query parameter into its
// archive shape.
func FormatHeader(name, value string) NameValuePair {
	return NameValuePair{Name: name, Value: value, Comment: ""}
}

// FormatCookie maps a transport cookie into its archive shape. A
// cookie without an expiry gets an empty expires field; no timestamp
// is fabricated.
func FormatCookie(c *http.Cookie) Cookie {
	expires := ""
	if !c.Expires.IsZero() {
		expires = c.Expires.UTC().Format(time.RFC3339)
	}
	return Cookie{
		Name:    c.Name,
		Value:   c.Value,
		Path:    c.Path,
		Domain:  c.Domain,
		Expires: expires,
		Secure:  c.Secure,
		Comment: "",
	}
}

// HasHTTPOnly reports whether a cookie carries the HttpOnly flag,
// checking both the parsed field and any unparsed attribute text
// case-insensitively. The flag is informational; it is not part of the
// archived cookie record.
func HasHTTPOnly(c *http.Cookie) bool {
	if c.HttpOnly {
		return true
	}
	for _, attr := range c.Unparsed {
		name, _, _ := strings.Cut(attr, "=")
		if strings.EqualFold(strings.TrimSpace(name), "httponly") {
			return true
		}
	}
	return false
}

// FormatQuery parses the query component of a URL into ordered
// name/value pairs. Repeated keys stay repeated; nothing is merged.
// Pairs without a value are dropped, matching common query-string
// parsing behavior.
func FormatQuery(rawURL string) []NameValuePair {
	params := []NameValuePair{}
	u, err := url.Parse(rawURL)
	if err != nil {
		return params
	}
	for _, part := range strings.Split(u.RawQuery, "&") {
		name, value, _ := strings.Cut(part, "=")
		if name == "" || value == "" {
			continue
		}
		decodedName, err := url.QueryUnescape(name)
		if err != nil {
			continue
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		params = append(params, FormatHeader(decodedName, decodedValue))
	}
	return params
}

// HeaderSize computes the byte size of headers rendered as
// "Name: value" lines joined by newlines, without a trailing newline.
func HeaderSize(headers protocol.Headers) int {
	size := 0
	for i, h := range headers {
		if i > 0 {
			size++ // newline separator
		}
		size += len(h.Name) + len(": ") + len(h.Value)
	}
	return size
}

// FormatPostData builds the post-data record for a request body. The
// body is decoded with the charset resolved from the request headers.
func FormatPostData(req *protocol.Request) PostData {
	charset := ResolveCharset(req.Headers)
	mimeType := req.Headers.Get("Content-Type")
	if mimeType == "" {
		mimeType = DefaultPostMimeType
	}
	return PostData{
		MimeType: mimeType,
		Params:   []NameValuePair{},
		Text:     DecodeBody(req.Body, charset),
	}
}

// FormatRequest assembles the archive record for a sent request.
// Post data is attached only when the request carried a body.
func FormatRequest(req *protocol.Request, httpVersion string) Request {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	bodySize := -1
	if len(req.Body) > 0 {
		bodySize = len(req.Body)
	}

	out := Request{
		Method:      method,
		URL:         req.URL,
		HTTPVersion: httpVersion,
		Cookies:     formatCookies(req.Cookies),
		Headers:     formatHeaders(req.Headers),
		QueryString: FormatQuery(req.URL),
		HeadersSize: HeaderSize(req.Headers),
		BodySize:    bodySize,
		Comment:     "",
	}
	if len(req.Body) > 0 {
		postData := FormatPostData(req)
		out.PostData = &postData
	}
	return out
}

// FormatContent builds the content record for a response body. The
// media type comes straight from the Content-Type header; its absence
// is an error, not a default.
func FormatContent(resp *protocol.Response) (Content, error) {
	mimeType := resp.Headers.Get("Content-Type")
	if mimeType == "" {
		return Content{}, ErrMissingContentType
	}

	size := -1
	if len(resp.Body) > 0 {
		size = len(resp.Body)
	}

	charset := ResolveCharset(resp.Headers)
	return Content{
		Size:     size,
		MimeType: mimeType,
		Text:     DecodeBody(resp.Body, charset),
		Comment:  "",
	}, nil
}

// FormatResponse assembles the archive record for a received response.
// It fails when the status code has no canonical reason phrase or the
// response content cannot be formatted; such responses cannot be
// archived faithfully and no partial record is emitted.
func FormatResponse(resp *protocol.Response, httpVersion string) (Response, error) {
	statusText := http.StatusText(resp.StatusCode)
	if statusText == "" {
		return Response{}, fmt.Errorf("%w: %d", ErrUnknownStatus, resp.StatusCode)
	}

	content, err := FormatContent(resp)
	if err != nil {
		return Response{}, err
	}

	bodySize := -1
	if len(resp.Body) > 0 {
		bodySize = len(resp.Body)
	}

	return Response{
		Status:      resp.StatusCode,
		StatusText:  statusText,
		HTTPVersion: httpVersion,
		Cookies:     formatCookies(resp.Cookies),
		Headers:     formatHeaders(resp.Headers),
		Content:     content,
		RedirectURL: resp.Headers.Get("Location"),
		HeadersSize: HeaderSize(resp.Headers),
		BodySize:    bodySize,
		Comment:     "",
	}, nil
}

func formatHeaders(headers protocol.Headers) []NameValuePair {
	out := make([]NameValuePair, 0, len(headers))
	for _, h := range headers {
		out = append(out, FormatHeader(h.Name, h.Value))
	}
	return out
}

func formatCookies(cookies []*http.Cookie) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, FormatCookie(c))
	}
	return out
}
