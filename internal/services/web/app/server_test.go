package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/portico/internal/bootstrap"
	"github.com/louisbranch/portico/internal/platform/telemetry/metrics"
)

func TestHandlerUp(t *testing.T) {
	handler := NewHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/up", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "OK" {
		t.Fatalf("body = %q, want OK", rec.Body.String())
	}
}

func TestHandlerRejectsOtherMethods(t *testing.T) {
	handler := NewHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/up", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandlerMetrics(t *testing.T) {
	m := metrics.NewListener("web")
	m.ConnAccepted()
	handler := NewHandler(m)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `portico_listener_connections_accepted_total{service="web"} 1`) {
		t.Fatalf("metrics output missing accepted counter:\n%s", rec.Body.String())
	}
}

func TestHandlerWithoutMetrics(t *testing.T) {
	handler := NewHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRunServesUntilCancelled(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := NewServer(Config{BindAddr: "127.0.0.1", Port: port, ShutdownGrace: time.Second})
	runErr := make(chan error, 1)
	go func() {
		runErr <- server.ListenAndServe(ctx)
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/up", port)
	body := waitForUp(t, url)
	if body != "OK" {
		t.Fatalf("body = %q, want OK", body)
	}

	cancel()
	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
	if server.State() != bootstrap.StateStopped {
		t.Fatalf("state = %s, want stopped", server.State())
	}
}

func TestRunFailsWhenPortTaken(t *testing.T) {
	holder, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer holder.Close()

	err = Run(context.Background(), Config{BindAddr: "127.0.0.1", Port: holder.Addr().(*net.TCPAddr).Port})
	if err == nil {
		t.Fatal("expected bind error")
	}
	if !strings.Contains(err.Error(), "port in use") {
		t.Fatalf("err = %v, want port in use", err)
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func waitForUp(t *testing.T, url string) string {
	t.Helper()
	client := &http.Client{Timeout: time.Second}
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr == nil && resp.StatusCode == http.StatusOK {
				return string(body)
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", url)
	return ""
}
