package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer() *Server {
	ds := models.NewDataset([]models.Record{
		{
			OrderDate:       time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
			Category:        "Technology",
			Region:          "East",
			Sales:           decimal.NewFromInt(100),
			Profit:          decimal.NewFromInt(20),
			CustomerSegment: "Consumer",
			Discount:        decimal.Zero,
			ProductName:     "Laptop",
		},
	})
	analytics := services.NewAnalytics(ds, services.WithLogger(testLogger()))
	return NewServer(analytics, testLogger(), &TemplateHandlers{
		Dashboard: func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("dashboard"))
		},
	})
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		path   string
		status int
	}{
		{"/", http.StatusOK},
		{"/health", http.StatusOK},
		{"/admin/stats", http.StatusOK},
		{"/api/categories", http.StatusOK},
		{"/api/regions", http.StatusOK},
		{"/api/charts/line", http.StatusOK},
		{"/api/charts/unknown", http.StatusBadRequest},
		{"/charts/bar.png", http.StatusOK},
		{"/charts/heatmap.svg?colormap=Inferno", http.StatusOK},
		{"/charts/line.png?category=Toys", http.StatusNoContent},
		{"/export/scatter.xlsx", http.StatusOK},
		{"/sse/chart", http.StatusOK},
		{"/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			srv.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("GET %s: expected status %d, got %d", tt.path, tt.status, w.Code)
			}
		})
	}
}

func TestServerRejectsPost(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
}

func TestGracefulServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	httpServer := &http.Server{Handler: newTestServer()}
	gs := NewGracefulServer(httpServer, testLogger(), config.ServerConfig{ShutdownTimeout: 5 * time.Second})

	var hookCalls atomic.Int32
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		hookCalls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- gs.Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	if hookCalls.Load() != 1 {
		t.Errorf("expected shutdown hook to run once, ran %d times", hookCalls.Load())
	}
}

func TestGracefulServer_HookErrors(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	gs := NewGracefulServer(&http.Server{Handler: http.NotFoundHandler()}, testLogger(), config.ServerConfig{ShutdownTimeout: time.Second})

	errHook := errors.New("flush failed")
	gs.RegisterShutdownHook(func(ctx context.Context) error { return errHook })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := gs.Serve(ctx, ln); !errors.Is(err, errHook) {
		t.Errorf("expected hook error, got %v", err)
	}
}
