// Package capture accumulates completed HTTP exchanges into a HAR log
// and persists it to disk as formatted JSON.
package capture

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/harlog/internal/har"
	"github.com/sadopc/harlog/internal/protocol"
)

// Extension is the canonical archive file extension. Save rewrites any
// other extension to this one.
const Extension = ".har"

// startedDateTimeLayout renders millisecond-precision UTC ISO-8601.
const startedDateTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrDirectoryTarget reports a save path that names a directory.
var ErrDirectoryTarget = errors.New("save path is a directory")

// Options configure a Recorder. The creator version is an explicit
// input rather than a package-level constant so embedding tools can
// report their own identity.
type Options struct {
	CreatorName    string
	CreatorVersion string
	BrowserName    string
	BrowserVersion string
}

// ExchangeOptions echo the transport settings in effect for one
// exchange. They are copied verbatim into the entry for diagnostics.
type ExchangeOptions struct {
	Timeout *float64 // seconds
	Verify  bool
	Proxies map[string]string
	Stream  bool
	Cert    *string
}

// Recorder appends completed exchanges to a HAR log, one entry per
// exchange in completion order. It has a single writer and no internal
// locking; callers whose exchanges can complete concurrently must
// serialize OnExchange themselves.
type Recorder struct {
	log       *har.Log
	createdAt time.Time
	filename  string // derived from the first captured request, memoized
}

// New creates a Recorder with an empty log and fixed session metadata.
func New(opts Options) *Recorder {
	return &Recorder{
		log: &har.Log{
			Version: "1.2",
			Creator: har.Creator{Name: opts.CreatorName, Version: opts.CreatorVersion},
			Browser: har.Browser{Name: opts.BrowserName, Version: opts.BrowserVersion},
			Pages:   []har.Page{},
			Entries: []har.Entry{},
		},
		createdAt: time.Now(),
	}
}

// OnExchange is the capture entry-point, invoked once per completed
// exchange after the response body is fully available. It appends
// exactly one entry; when the response cannot be archived faithfully
// (unknown status code, missing Content-Type) it returns an error and
// appends nothing.
func (r *Recorder) OnExchange(resp *protocol.Response, opts ExchangeOptions) error {
	if resp == nil || resp.Request == nil {
		return errors.New("exchange has no request attached")
	}

	httpVersion := resp.Proto
	if httpVersion == "" {
		httpVersion = "HTTP/1.1"
	}

	response, err := har.FormatResponse(resp, httpVersion)
	if err != nil {
		return fmt.Errorf("formatting response: %w", err)
	}

	proxies := opts.Proxies
	if proxies == nil {
		proxies = map[string]string{}
	}

	elapsed := resp.Duration.Seconds()
	entry := har.Entry{
		StartedDateTime: time.Now().UTC().Format(startedDateTimeLayout),
		Time:            elapsed,
		Request:         har.FormatRequest(resp.Request, httpVersion),
		Response:        response,
		Cache:           har.Cache{},
		Timings:         har.Timings{Send: elapsed, Wait: 0},
		Timeout:         opts.Timeout,
		Verify:          opts.Verify,
		Proxies:         proxies,
		Stream:          opts.Stream,
		Cert:            opts.Cert,
	}

	if r.filename == "" {
		r.filename = r.deriveFilename(resp.Request.URL)
	}
	r.log.Entries = append(r.log.Entries, entry)
	return nil
}

// Len returns the number of captured entries.
func (r *Recorder) Len() int {
	return len(r.log.Entries)
}

// Log returns the accumulated log.
func (r *Recorder) Log() *har.Log {
	return r.log
}

// Filename returns the derived archive filename for this session:
// the session creation timestamp plus the host of the first captured
// request. Before any capture the host part is omitted.
func (r *Recorder) Filename() string {
	if r.filename != "" {
		return r.filename
	}
	return r.createdAt.Format("2006-01-02_15-04-05") + Extension
}

func (r *Recorder) deriveFilename(rawURL string) string {
	name := r.createdAt.Format("2006-01-02_15-04-05")
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		name += "_" + u.Hostname()
	}
	return name + Extension
}

// Save serializes the log to 2-space-indented JSON at the given path,
// overwriting any existing file. A directory target fails before
// anything is written; any other extension is rewritten to .har and
// missing parent directories are created. An empty path uses the
// session's derived filename. The resolved path is returned.
func (r *Recorder) Save(path string) (string, error) {
	if path == "" {
		path = r.Filename()
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrDirectoryTarget, path)
	}

	if ext := filepath.Ext(path); ext != Extension {
		path = strings.TrimSuffix(path, ext) + Extension
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating parent directories: %w", err)
		}
	}

	data, err := json.MarshalIndent(har.Archive{Log: r.log}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding archive: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing archive: %w", err)
	}
	return path, nil
}
