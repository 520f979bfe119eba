package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/shopadmin/internal/app/features/health"
	"go.uber.org/zap"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type response struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
	Error    string `json:"error"`
}

func serve(t *testing.T, p health.Pinger) (*httptest.ResponseRecorder, response) {
	t.Helper()
	handler := health.NewHandler(p, zap.NewNop())
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.Serve(rec, req)

	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, resp
}

func TestServe_UpstreamReachable(t *testing.T) {
	rec, resp := serve(t, pingFunc(func(context.Context) error { return nil }))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	if resp.Status != "ok" || resp.Upstream != "reachable" {
		t.Errorf("response: got %+v", resp)
	}
}

func TestServe_UpstreamDown(t *testing.T) {
	rec, resp := serve(t, pingFunc(func(context.Context) error { return errors.New("connection refused") }))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if resp.Status != "error" || resp.Upstream != "unreachable" || resp.Error != "connection refused" {
		t.Errorf("response: got %+v", resp)
	}
}

func TestServe_PingHasDeadline(t *testing.T) {
	serve(t, pingFunc(func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("ping context has no deadline")
		}
		return nil
	}))
}
