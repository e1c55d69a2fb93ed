package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spatialworks/geosniff/internal/core/config"
)

func testConfig() *config.ServiceConfig {
	cfg := config.DefaultServiceConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownGrace = 2 * time.Second
	return cfg
}

func waitForAddr(t *testing.T, srv *HTTPServer) string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if addr := srv.Addr(); addr != "" {
			return addr
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("server never bound a listener")
	return ""
}

func TestNewHTTPServer_NilChecks(t *testing.T) {
	handler := http.NewServeMux()
	if _, err := NewHTTPServer(nil, handler, zerolog.Nop()); err == nil {
		t.Error("nil cfg accepted")
	}
	if _, err := NewHTTPServer(testConfig(), nil, zerolog.Nop()); err == nil {
		t.Error("nil handler accepted")
	}
}

func TestRun_ServesAndDrains(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "pong")
	})

	srv, err := NewHTTPServer(testConfig(), mux, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHTTPServer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	addr := waitForAddr(t, srv)
	resp, err := http.Get("http://" + addr + "/ping")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("body = %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v after graceful shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRun_BindFailure(t *testing.T) {
	mux := http.NewServeMux()

	first, err := NewHTTPServer(testConfig(), mux, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHTTPServer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- first.Run(ctx) }()
	addr := waitForAddr(t, first)

	// Second server on the same port must fail fast.
	cfg := testConfig()
	if _, err := fmt.Sscanf(addr, "127.0.0.1:%d", &cfg.Port); err != nil {
		t.Fatalf("parse addr %q: %v", addr, err)
	}
	second, err := NewHTTPServer(cfg, mux, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHTTPServer: %v", err)
	}
	if err := second.Run(ctx); err == nil {
		t.Error("expected bind failure on occupied port")
	}

	cancel()
	<-done
}
