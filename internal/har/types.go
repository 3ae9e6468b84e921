// Package har implements the HTTP Archive 1.2 format: the plain data
// records that serialize to a .har file, and the formatters that build
// them from a completed request/response exchange.
//
// The types in this file are pure data. Accumulating entries and
// writing archives to disk is the job of the capture package, which
// owns a Log and appends to it.
package har

// Archive is the root object of a HAR file.
type Archive struct {
	Log *Log `json:"log"`
}

// Log holds the fixed session metadata and the ordered list of
// captured entries.
type Log struct {
	Version string  `json:"version"`
	Creator Creator `json:"creator"`
	Browser Browser `json:"browser"`
	Pages   []Page  `json:"pages"`
	Entries []Entry `json:"entries"`
}

// Creator identifies the tool that produced the archive.
type Creator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Browser identifies the HTTP transport that performed the exchanges.
type Browser struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Page describes an exported page. This tool captures standalone
// exchanges, so the pages list is always empty, but the HAR schema
// requires the field to be present.
type Page struct {
	StartedDateTime string `json:"startedDateTime"`
	ID              string `json:"id"`
	Title           string `json:"title"`
	Comment         string `json:"comment"`
}

// Entry is one completed request/response exchange.
type Entry struct {
	StartedDateTime string   `json:"startedDateTime"`
	Time            float64  `json:"time"`
	Request         Request  `json:"request"`
	Response        Response `json:"response"`
	Cache           Cache    `json:"cache"`
	Timings         Timings  `json:"timings"`

	// Transport option echoes, carried for diagnostic completeness.
	Timeout *float64          `json:"_timeout"`
	Verify  bool              `json:"_verify"`
	Proxies map[string]string `json:"_proxies"`
	Stream  bool              `json:"_stream"`
	Cert    *string           `json:"_cert"`
}

// Cache records how the exchange interacted with a cache. Caching is
// never modeled here, so both fields serialize as null.
type Cache struct {
	BeforeRequest *string `json:"beforeRequest"`
	AfterRequest  *string `json:"afterRequest"`
}

// Timings breaks down the elapsed time of an exchange. Exchanges are
// sequential and non-overlapping, so the transport-measured elapsed
// time is reported as send and wait stays zero.
type Timings struct {
	Send float64 `json:"send"`
	Wait float64 `json:"wait"`
}

// Request is the request half of an entry.
type Request struct {
	Method      string          `json:"method"`
	URL         string          `json:"url"`
	HTTPVersion string          `json:"httpVersion"`
	Cookies     []Cookie        `json:"cookies"`
	Headers     []NameValuePair `json:"headers"`
	QueryString []NameValuePair `json:"queryString"`
	HeadersSize int             `json:"headersSize"`
	BodySize    int             `json:"bodySize"`
	Comment     string          `json:"comment"`
	PostData    *PostData       `json:"postData"`
}

// Response is the response half of an entry.
type Response struct {
	Status      int             `json:"status"`
	StatusText  string          `json:"statusText"`
	HTTPVersion string          `json:"httpVersion"`
	Cookies     []Cookie        `json:"cookies"`
	Headers     []NameValuePair `json:"headers"`
	Content     Content         `json:"content"`
	RedirectURL string          `json:"redirectURL"`
	HeadersSize int             `json:"headersSize"`
	BodySize    int             `json:"bodySize"`
	Comment     string          `json:"comment"`
}

// Cookie is a single cookie sent or received during the exchange.
// Expires is ISO-8601 text, or "" when the cookie has no expiry.
type Cookie struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Path    string `json:"path"`
	Domain  string `json:"domain"`
	Expires string `json:"expires"`
	Secure  bool   `json:"secure"`
	Comment string `json:"comment"`
}

// NameValuePair represents one header or query string parameter.
type NameValuePair struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Comment string `json:"comment"`
}

// PostData is the decoded request body.
type PostData struct {
	MimeType string          `json:"mimeType"`
	Params   []NameValuePair `json:"params"`
	Text     string          `json:"text"`
}

// Content is the decoded response body. Size is -1 when the response
// carried no body.
type Content struct {
	Size     int    `json:"size"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
	Comment  string `json:"comment"`
}
