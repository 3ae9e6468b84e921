package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/harlog/internal/config"
	"github.com/sadopc/harlog/internal/history"
	"github.com/sadopc/harlog/internal/protocol"
	"github.com/sadopc/harlog/internal/session"
	"github.com/sadopc/harlog/pkg/version"
)

// headerList collects repeated -H flags, preserving order.
type headerList []protocol.Header

func (h *headerList) String() string {
	parts := make([]string, 0, len(*h))
	for _, header := range *h {
		parts = append(parts, header.Name+": "+header.Value)
	}
	return strings.Join(parts, ", ")
}

func (h *headerList) Set(value string) error {
	name, val, found := strings.Cut(value, ":")
	if !found || strings.TrimSpace(name) == "" {
		return fmt.Errorf("header must be in 'Name: value' form")
	}
	*h = append(*h, protocol.Header{
		Name:  strings.TrimSpace(name),
		Value: strings.TrimSpace(val),
	})
	return nil
}

func recordCmd() {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	methodFlag := fs.String("X", "GET", "Request method")
	var headers headerList
	fs.Var(&headers, "H", "Request header in 'Name: value' form (repeatable)")
	dataFlag := fs.String("d", "", "Request body (use @path to read from a file)")
	outputFlag := fs.String("o", "", "Output .har path (default: derived from session)")
	timeoutFlag := fs.Duration("timeout", 0, "Request timeout (default: from config)")
	proxyFlag := fs.String("proxy", "", "Proxy URL (http, https or socks5)")
	insecureFlag := fs.Bool("insecure", false, "Skip TLS certificate verification")
	noHistoryFlag := fs.Bool("no-history", false, "Do not index captures in the history db")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: harlog record [flags] <url> [urls...]\n\n")
		fmt.Fprintf(os.Stderr, "Execute HTTP requests and archive every exchange to a HAR file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  harlog record https://api.example.com/users\n")
		fmt.Fprintf(os.Stderr, "  harlog record -X POST -H 'Content-Type: application/json' -d '{}' https://api.example.com/users\n")
		fmt.Fprintf(os.Stderr, "  harlog record -o session.har https://a.example.com https://b.example.com\n")
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: at least one URL is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg := config.Load()
	timeout := cfg.DefaultTimeout
	if *timeoutFlag > 0 {
		timeout = *timeoutFlag
	}
	proxyURL := cfg.ProxyURL
	if *proxyFlag != "" {
		proxyURL = *proxyFlag
	}

	var store *history.Store
	if !*noHistoryFlag && cfg.HistoryPath != "" {
		var err error
		store, err = history.NewStore(cfg.HistoryPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
		} else {
			defer store.Close()
		}
	}

	sess, err := session.New(session.Config{
		CreatorName:    cfg.CreatorName,
		CreatorVersion: version.Version,
		Timeout:        timeout,
		ProxyURL:       proxyURL,
		NoProxy:        cfg.NoProxy,
		Insecure:       *insecureFlag || cfg.Insecure,
		History:        store,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	body, err := readBody(*dataFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	for _, rawURL := range fs.Args() {
		req := &protocol.Request{
			Method:  *methodFlag,
			URL:     rawURL,
			Headers: protocol.Headers(headers),
			Body:    body,
		}
		resp, err := sess.Do(ctx, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", rawURL, err)
			os.Exit(1)
		}
		fmt.Printf("%s %s -> %d (%s)\n", req.Method, rawURL, resp.StatusCode, resp.Duration.Round(time.Millisecond))
	}

	output := *outputFlag
	if output == "" && cfg.OutputDir != "" {
		output = filepath.Join(cfg.OutputDir, sess.Recorder().Filename())
	}
	path, err := sess.Save(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving archive: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved %d entries to %s\n", sess.Recorder().Len(), path)
}

// readBody resolves the -d flag: literal text, or @path file contents.
func readBody(data string) ([]byte, error) {
	if data == "" {
		return nil, nil
	}
	if strings.HasPrefix(data, "@") {
		contents, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			return nil, fmt.Errorf("reading body file: %w", err)
		}
		return contents, nil
	}
	return []byte(data), nil
}
