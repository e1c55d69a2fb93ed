package resource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func TestRemote_WithQueryParameters(t *testing.T) {
	tests := []struct {
		name   string
		uri    string
		params map[string]string
		want   string
	}{
		{
			name:   "adds missing defaults",
			uri:    "http://example.com/cgi-bin/wfs?request=GetCapabilities&service=wfs",
			params: map[string]string{"service": "WFS", "request": "GetCapabilities", "ACCEPTVERSIONS": "2.0.0"},
			want:   "ACCEPTVERSIONS=2.0.0&request=GetCapabilities&service=wfs",
		},
		{
			name:   "existing parameters win case-insensitively",
			uri:    "http://example.com/wfs?VERSION=2.0.0",
			params: map[string]string{"version": "1.1.0"},
			want:   "VERSION=2.0.0",
		},
		{
			name:   "empty defaults keep query",
			uri:    "http://example.com/wfs?b=2&a=1",
			params: nil,
			want:   "a=1&b=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.uri)
			if err != nil {
				t.Fatalf("url.Parse(%q) error = %v", tt.uri, err)
			}
			r := NewRemote(u)
			got := r.WithQueryParameters(tt.params)
			if got.URI().RawQuery != tt.want {
				t.Errorf("RawQuery = %q, want %q", got.URI().RawQuery, tt.want)
			}
			if r.URI().RawQuery != u.RawQuery {
				t.Errorf("receiver RawQuery mutated to %q", r.URI().RawQuery)
			}
		})
	}
}

func TestRemote_WithQueryParametersIdempotent(t *testing.T) {
	u, _ := url.Parse("http://example.com/wfs?request=GetCapabilities")
	params := map[string]string{"service": "WFS", "ACCEPTVERSIONS": "2.0.0"}

	once := NewRemote(u).WithQueryParameters(params)
	twice := once.WithQueryParameters(params)
	if once.URI().String() != twice.URI().String() {
		t.Errorf("second merge changed URI: %q -> %q", once.URI(), twice.URI())
	}
}

func TestRemote_OpenRetriesTransientFailures(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, "<ok/>")
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	stream, err := NewRemote(u, WithClient(srv.Client()), WithRetries(4)).Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v, want nil", err)
	}
	defer stream.Close()
	body, _ := io.ReadAll(stream)
	if string(body) != "<ok/>" {
		t.Errorf("body = %q, want <ok/>", body)
	}
	if attempts != 3 {
		t.Errorf("attempts = %v, want 3", attempts)
	}
}

func TestRemote_OpenClientErrorDoesNotRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	if _, err := NewRemote(u, WithClient(srv.Client()), WithRetries(4)).Open(context.Background()); err == nil {
		t.Fatalf("Open() error = nil, want error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %v, want 1", attempts)
	}
}

func TestRemote_OpenSendsBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		user, pass, ok := req.BasicAuth()
		if !ok || user != "bob" || pass == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, "<ok/>")
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	stream, err := NewRemote(u, WithClient(srv.Client()), WithCredentials("bob", "hunter2")).Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v, want nil", err)
	}
	stream.Close()
}

func TestCached_OpenFetchesOnce(t *testing.T) {
	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fetches++
		io.WriteString(w, "<doc/>")
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	c := NewCached(NewRemote(u, WithClient(srv.Client())))

	for i := 0; i < 3; i++ {
		stream, err := c.Open(context.Background())
		if err != nil {
			t.Fatalf("Open() #%d error = %v, want nil", i, err)
		}
		body, _ := io.ReadAll(stream)
		stream.Close()
		if string(body) != "<doc/>" {
			t.Errorf("body #%d = %q, want <doc/>", i, body)
		}
	}
	if fetches != 1 {
		t.Errorf("fetches = %v, want 1", fetches)
	}
}

func TestCached_WithQueryParametersInvalidatesOnChange(t *testing.T) {
	u, _ := url.Parse("http://example.com/wfs?a=1")
	c := CachedBytes(NewRemote(u), []byte("<doc/>"))

	same := c.WithQueryParameters(map[string]string{"a": "2"})
	if same.body == nil {
		t.Errorf("unchanged URL dropped retained body")
	}
	changed := c.WithQueryParameters(map[string]string{"b": "2"})
	if changed.body != nil {
		t.Errorf("changed URL kept retained body")
	}
}

func TestLocal_OpenAndURI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.xml")
	if err := os.WriteFile(path, []byte("<doc/>"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	l := NewLocal(path)
	if l.IsDir() {
		t.Errorf("IsDir() = true, want false")
	}
	if got := l.URI().Scheme; got != "file" {
		t.Errorf("URI().Scheme = %q, want file", got)
	}
	stream, err := l.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v, want nil", err)
	}
	body, _ := io.ReadAll(stream)
	stream.Close()
	if string(body) != "<doc/>" {
		t.Errorf("body = %q, want <doc/>", body)
	}

	if _, err := NewLocal(dir).Open(context.Background()); err == nil {
		t.Errorf("Open() on directory error = nil, want error")
	}
}
