package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inventory/internal/model"
)

func TestClient_ErrorIncludesBody(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"error":"nope"}`))
	}))
	defer s.Close()

	c := NewClient(s.URL)
	err := c.Reset(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	got := err.Error()
	if got == "" || got[len(got)-1] == '\n' {
		t.Fatalf("unexpected error string: %q", got)
	}
	if want := "405"; !strings.Contains(got, want) {
		t.Fatalf("error missing status: %q", got)
	}
	if want := `"error":"nope"`; !strings.Contains(got, want) {
		t.Fatalf("error missing body: %q", got)
	}
}

func TestClient_PropertiesReadsFallbackHeaders(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/systems/bad%20host" {
			t.Errorf("path=%q", r.URL.EscapedPath())
		}
		w.Header().Set(HeaderFallback, "yes")
		w.Header().Set(HeaderFallbackReason, "malformed-address")
		_ = json.NewEncoder(w).Encode(model.PropertySet{"error": "x"})
	}))
	defer s.Close()

	resp, err := NewClient(s.URL+"/").Properties(context.Background(), "bad host")
	if err != nil {
		t.Fatalf("Properties: %v", err)
	}
	if !resp.Fallback || resp.Reason != "malformed-address" || resp.Properties["error"] != "x" {
		t.Fatalf("resp=%+v", resp)
	}
}

func TestClient_Systems(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"hostname":"localhost","properties":{"os.name":"Linux"}}]`))
	}))
	defer s.Close()

	entries, err := NewClient(s.URL).Systems(context.Background())
	if err != nil {
		t.Fatalf("Systems: %v", err)
	}
	if len(entries) != 1 || entries[0].Hostname != "localhost" || entries[0].Properties["os.name"] != "Linux" {
		t.Fatalf("entries=%+v", entries)
	}
}
