package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestHealthServer(t *testing.T) (*HealthServer, *httptest.Server) {
	t.Helper()
	h := NewHealthServer(":0", slog.New(slog.NewTextHandler(io.Discard, nil)))

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleLiveness)
	mux.HandleFunc("/health/ready", h.handleReadiness)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return h, ts
}

func getStatus(t *testing.T, url string) (int, healthResponse) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp.StatusCode, body
}

func TestHealthServer_Liveness(t *testing.T) {
	_, ts := newTestHealthServer(t)

	code, body := getStatus(t, ts.URL+"/health")
	if code != http.StatusOK {
		t.Errorf("liveness status = %d, want 200", code)
	}
	if body.Status != "ok" {
		t.Errorf("liveness body = %q, want ok", body.Status)
	}
}

func TestHealthServer_ReadinessTransitions(t *testing.T) {
	h, ts := newTestHealthServer(t)

	code, body := getStatus(t, ts.URL+"/health/ready")
	if code != http.StatusServiceUnavailable {
		t.Errorf("initial readiness = %d, want 503", code)
	}
	if body.Status != "not ready" {
		t.Errorf("initial readiness body = %q", body.Status)
	}

	h.SetReady(true)
	code, _ = getStatus(t, ts.URL+"/health/ready")
	if code != http.StatusOK {
		t.Errorf("readiness after SetReady(true) = %d, want 200", code)
	}

	h.SetReady(false)
	code, _ = getStatus(t, ts.URL+"/health/ready")
	if code != http.StatusServiceUnavailable {
		t.Errorf("readiness after SetReady(false) = %d, want 503", code)
	}
}

func TestHealthServer_GracefulShutdown(t *testing.T) {
	h := NewHealthServer("127.0.0.1:0", slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- h.Start(ctx)
	}()

	// Let the listener come up before canceling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errChan:
		if err != http.ErrServerClosed {
			t.Errorf("Start returned %v, want http.ErrServerClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
