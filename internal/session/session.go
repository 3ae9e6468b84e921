// Package session wires the HTTP transport to the capture recorder:
// every exchange completed through a Session is archived as one HAR
// entry, and optionally indexed in the history store.
package session

import (
	"context"
	"crypto/tls"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/harlog/internal/capture"
	"github.com/sadopc/harlog/internal/history"
	"github.com/sadopc/harlog/internal/protocol"
	httpclient "github.com/sadopc/harlog/internal/protocol/http"
)

// Config holds session settings.
type Config struct {
	CreatorName    string
	CreatorVersion string
	Timeout        time.Duration
	ProxyURL       string
	NoProxy        string
	Insecure       bool   // skip TLS verification
	CertFile       string // client certificate
	KeyFile        string
	History        *history.Store // optional exchange index
}

// Session executes requests and records each completed exchange.
type Session struct {
	client     *httpclient.Client
	recorder   *capture.Recorder
	history    *history.Store
	historyIDs []int64 // rows awaiting an archive path
	cfg        Config
}

// New creates a session with a fresh recorder.
func New(cfg Config) (*Session, error) {
	if cfg.CreatorName == "" {
		cfg.CreatorName = "harlog"
	}

	client := httpclient.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.ProxyURL != "" {
		client.SetProxy(cfg.ProxyURL, cfg.NoProxy)
	}

	tlsConfig, err := buildTLSConfig(cfg)
	if err != nil {
		return nil, err
	}
	if tlsConfig != nil {
		client.SetTLSConfig(tlsConfig)
	}

	recorder := capture.New(capture.Options{
		CreatorName:    cfg.CreatorName,
		CreatorVersion: cfg.CreatorVersion,
		BrowserName:    "net/http",
		BrowserVersion: runtime.Version(),
	})

	return &Session{
		client:   client,
		recorder: recorder,
		history:  cfg.History,
		cfg:      cfg,
	}, nil
}

func buildTLSConfig(cfg Config) (*tls.Config, error) {
	if !cfg.Insecure && cfg.CertFile == "" {
		return nil, nil
	}
	tlsConfig := &tls.Config{InsecureSkipVerify: cfg.Insecure}
	if cfg.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("loading client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}
	return tlsConfig, nil
}

// Do executes a request and captures the completed exchange. A capture
// failure is surfaced alongside the response; the exchange itself has
// already succeeded.
func (s *Session) Do(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	resp, err := s.client.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.recorder.OnExchange(resp, s.exchangeOptions(req)); err != nil {
		return resp, fmt.Errorf("capturing exchange: %w", err)
	}

	if s.history != nil {
		reqSize := int64(len(req.Body))
		respSize := int64(len(resp.Body))
		// Best effort: losing an index row never fails the exchange.
		id, err := s.history.Add(history.Entry{
			RequestID:    req.ID,
			Method:       req.Method,
			URL:          req.URL,
			StatusCode:   resp.StatusCode,
			Duration:     resp.Duration,
			RequestSize:  reqSize,
			ResponseSize: respSize,
			Timestamp:    time.Now(),
		})
		if err == nil {
			s.historyIDs = append(s.historyIDs, id)
		}
	}

	return resp, nil
}

// exchangeOptions snapshots the transport settings for one exchange.
// The proxies map is built fresh per call; entries must never share a
// mutable map.
func (s *Session) exchangeOptions(req *protocol.Request) capture.ExchangeOptions {
	opts := capture.ExchangeOptions{
		Verify:  !s.cfg.Insecure,
		Proxies: map[string]string{},
		Stream:  false,
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = s.cfg.Timeout
	}
	if timeout > 0 {
		seconds := timeout.Seconds()
		opts.Timeout = &seconds
	}

	if s.cfg.ProxyURL != "" {
		opts.Proxies["http"] = s.cfg.ProxyURL
		opts.Proxies["https"] = s.cfg.ProxyURL
	}

	if s.cfg.CertFile != "" {
		cert := s.cfg.CertFile
		opts.Cert = &cert
	}

	return opts
}

// Recorder returns the session's recorder.
func (s *Session) Recorder() *capture.Recorder {
	return s.recorder
}

// Save persists the accumulated log; an empty path uses the derived
// session filename. Indexed rows are stamped with the resolved archive
// path so the history can locate the file later.
func (s *Session) Save(path string) (string, error) {
	resolved, err := s.recorder.Save(path)
	if err != nil {
		return "", err
	}

	if s.history != nil {
		for _, id := range s.historyIDs {
			// Best effort, same as the insert.
			_ = s.history.SetArchivePath(id, resolved)
		}
	}

	return resolved, nil
}
