package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestManagerReadyOnlyWhenAllComponentsReady(t *testing.T) {
	m := NewManager("database", "redis")

	if m.IsReady() {
		t.Fatalf("manager should start not ready")
	}

	m.SetReady("database", true)
	if m.IsReady() {
		t.Fatalf("one component still pending, should not be ready")
	}

	m.SetReady("redis", true)
	if !m.IsReady() {
		t.Fatalf("all components ready, manager should be ready")
	}

	m.SetReady("database", false)
	if m.IsReady() {
		t.Fatalf("component went down, manager should not be ready")
	}
}

func TestManagerWithNoComponentsIsReady(t *testing.T) {
	if !NewManager().IsReady() {
		t.Fatalf("manager with no components should be ready")
	}
}

func TestReadinessHandlerReportsComponents(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := NewManager("database")
	r := gin.New()
	r.GET("/readyz", ReadinessHandler(m))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before components ready, got %d", w.Code)
	}

	var body struct {
		Status     string          `json:"status"`
		Components map[string]bool `json:"components"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "not_ready" {
		t.Errorf("status = %q, want not_ready", body.Status)
	}
	if body.Components["database"] {
		t.Errorf("database should report not ready")
	}

	m.SetReady("database", true)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 once ready, got %d", w.Code)
	}
}

func TestLivenessHandlerAlwaysOK(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/healthz", LivenessHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
