package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vendor_insight/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the series show up with values
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObservePipeline("reprocessed")
	observability.ObserveClassification(80 * time.Millisecond)
	observability.ObserveCache("redis", "miss")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, series := range []string{
		"insight_http_requests_total",
		"insight_pipeline_runs_total",
		"insight_classification_duration_seconds",
		"insight_cache_events_total",
	} {
		if !strings.Contains(out, series) {
			t.Fatalf("expected %s in output", series)
		}
	}
}
