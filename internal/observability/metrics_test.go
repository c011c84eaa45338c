package observability_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inkwell-press/inkwell/internal/observability"
)

func TestMetricsMiddlewareCounts(t *testing.T) {
	m := observability.NewMetrics()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	res := httptest.NewRecorder()
	m.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := res.Body.String()

	if !strings.Contains(body, "inkwell_http_requests_total") {
		t.Fatalf("request counter missing from exposition:\n%s", body)
	}
	if !strings.Contains(body, `code="418"`) {
		t.Fatalf("status label missing from exposition:\n%s", body)
	}
}

func TestRecordAuthzDecision(t *testing.T) {
	m := observability.NewMetrics()
	m.RecordAuthzDecision("book", "create", true)
	m.RecordAuthzDecision("book", "delete", false)

	res := httptest.NewRecorder()
	m.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := res.Body.String()

	if !strings.Contains(body, `inkwell_authz_decisions_total{action="create",decision="allow",resource="book"}`) {
		t.Fatalf("allow decision missing from exposition:\n%s", body)
	}
	if !strings.Contains(body, `inkwell_authz_decisions_total{action="delete",decision="deny",resource="book"}`) {
		t.Fatalf("deny decision missing from exposition:\n%s", body)
	}
}

func TestNilMetricsSafe(t *testing.T) {
	var m *observability.Metrics
	m.RecordAuthzDecision("book", "create", true)
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
