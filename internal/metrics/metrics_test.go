package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			match := true
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					match = false
				}
			}
			if match {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestCollector_RecordAuthEvent(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthEvent("signin", "success")
	c.RecordAuthEvent("signin", "success")
	c.RecordAuthEvent("signin", "rejected")

	if v := counterValue(t, reg, "portal_auth_events_total", map[string]string{"event": "signin", "outcome": "success"}); v != 2 {
		t.Errorf("signin success = %v, want 2", v)
	}
	if v := counterValue(t, reg, "portal_auth_events_total", map[string]string{"event": "signin", "outcome": "rejected"}); v != 1 {
		t.Errorf("signin rejected = %v, want 1", v)
	}
}

func TestMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := gin.New()
	r.Use(Middleware(c))
	r.GET("/items/:id", func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(Handler(reg)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/123", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if v := counterValue(t, reg, "portal_http_requests_total", map[string]string{"route": "/items/:id", "status": "204"}); v != 1 {
		t.Errorf("route counter = %v, want 1", v)
	}
	if v := counterValue(t, reg, "portal_http_requests_total", map[string]string{"route": "unmatched", "status": "404"}); v != 1 {
		t.Errorf("unmatched counter = %v, want 1", v)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(w.Result().Body)
	if w.Code != http.StatusOK || !strings.Contains(string(body), "portal_http_request_duration_seconds") {
		t.Fatalf("expected metrics exposition, got %d", w.Code)
	}
}

func TestNop(t *testing.T) {
	rec := Nop()
	rec.RecordRequest("GET", "/", 200, time.Millisecond)
	rec.RecordAuthEvent("signin", "success")
}
