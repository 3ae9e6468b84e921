package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/harlog/internal/history"
	"github.com/sadopc/harlog/internal/protocol"
)

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDoCapturesExchange(t *testing.T) {
	server := newEchoServer(t)

	sess, err := New(Config{CreatorVersion: "0.1.0", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := sess.Do(context.Background(), &protocol.Request{
		Method: "GET",
		URL:    server.URL + "/users",
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}

	rec := sess.Recorder()
	if rec.Len() != 1 {
		t.Fatalf("expected 1 captured entry, got %d", rec.Len())
	}
	entry := rec.Log().Entries[0]
	if entry.Request.URL != server.URL+"/users" {
		t.Errorf("entry URL = %q", entry.Request.URL)
	}
	if entry.Response.Content.Text != `{"ok":true}` {
		t.Errorf("entry content = %q", entry.Response.Content.Text)
	}
	if entry.Timeout == nil || *entry.Timeout != 5.0 {
		t.Errorf("timeout echo = %v, want 5", entry.Timeout)
	}
	if !entry.Verify {
		t.Error("verify echo should default to true")
	}
	if entry.Proxies == nil {
		t.Error("proxies echo should be an empty map, not nil")
	}
}

func TestDoAssignsRequestID(t *testing.T) {
	server := newEchoServer(t)

	sess, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}

	req := &protocol.Request{Method: "GET", URL: server.URL}
	if _, err := sess.Do(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if req.ID == "" {
		t.Error("expected generated request ID")
	}
}

func TestDoSurfacesCaptureFailure(t *testing.T) {
	// No Content-Type: the exchange succeeds but cannot be archived.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sess, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := sess.Do(context.Background(), &protocol.Request{Method: "GET", URL: server.URL})
	if err == nil {
		t.Fatal("expected capture error")
	}
	if resp == nil {
		t.Fatal("response should still be returned")
	}
	if sess.Recorder().Len() != 0 {
		t.Error("failed capture must not append an entry")
	}
}

func TestDoRecordsHistory(t *testing.T) {
	server := newEchoServer(t)

	store, err := history.NewStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	sess, err := New(Config{History: store})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Do(context.Background(), &protocol.Request{Method: "GET", URL: server.URL}); err != nil {
		t.Fatal(err)
	}

	entries, err := store.List(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].StatusCode != 200 {
		t.Errorf("history status = %d", entries[0].StatusCode)
	}
	if entries[0].RequestID == "" {
		t.Error("history should record the request ID")
	}
}

func TestSaveStampsHistoryArchivePath(t *testing.T) {
	server := newEchoServer(t)

	store, err := history.NewStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	sess, err := New(Config{History: store})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Do(context.Background(), &protocol.Request{Method: "GET", URL: server.URL}); err != nil {
		t.Fatal(err)
	}

	entries, err := store.List(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].ArchivePath != "" {
		t.Errorf("archive path before Save = %q, want empty", entries[0].ArchivePath)
	}

	path, err := sess.Save(filepath.Join(t.TempDir(), "capture.har"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err = store.List(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].ArchivePath != path {
		t.Errorf("archive path = %q, want %q", entries[0].ArchivePath, path)
	}
}

func TestSaveWritesArchive(t *testing.T) {
	server := newEchoServer(t)

	sess, err := New(Config{CreatorVersion: "0.1.0"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Do(context.Background(), &protocol.Request{Method: "GET", URL: server.URL}); err != nil {
		t.Fatal(err)
	}

	path, err := sess.Save(filepath.Join(t.TempDir(), "capture"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasSuffix(path, ".har") {
		t.Errorf("resolved path = %q, want .har suffix", path)
	}
}
