package server_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/delivery/http/server"
)

func TestStartAndShutdown(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := server.New("127.0.0.1:0", h, zap.NewNop())

	addr, err := srv.Start()
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	resp, err := http.Get("http://" + addr.String() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("status = %d, want 418", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestStartBindError(t *testing.T) {
	first := server.New("127.0.0.1:0", http.NotFoundHandler(), zap.NewNop())
	addr, err := first.Start()
	if err != nil {
		t.Fatal(err)
	}
	defer first.Shutdown(context.Background())

	second := server.New(addr.String(), http.NotFoundHandler(), zap.NewNop())
	if _, err := second.Start(); err == nil {
		t.Error("Start() error = nil on a taken port")
	}
}
