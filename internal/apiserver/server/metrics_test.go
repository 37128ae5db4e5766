package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// 注意：包级共享实例，避免 Prometheus 全局指标重复注册。
var testMetrics = NewMetrics("server_test")

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/v1/todos/todo-abc123", "/api/v1/todos/{id}"},
		{"/api/v1/backup/restore/todo-backup-x.tar.gz", "/api/v1/backup/restore/{filename}"},
		{"/api/v1/todos", "/api/v1/todos"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMetricsMiddleware_CapturesStatus(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	wrapped := testMetrics.MetricsMiddleware(inner)

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestHealth(t *testing.T) {
	h := &Handler{metrics: testMetrics}

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "{\"status\":\"ok\"}\n" {
		t.Errorf("body = %q", body)
	}
}

func TestRecordBackup(t *testing.T) {
	// 仅验证不会 panic，计数语义由 prometheus 客户端保证
	testMetrics.RecordBackup("success", 2*time.Second)
	testMetrics.RecordBackup("error", time.Second)
}
