package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitMetricsIdempotent(t *testing.T) {
	InitMetrics()
	InitMetrics()
}

func TestHandlerExposesCollectors(t *testing.T) {
	before := testutil.ToFloat64(BlinksTotal.WithLabelValues("test"))
	BlinksTotal.WithLabelValues("test").Inc()
	if got := testutil.ToFloat64(BlinksTotal.WithLabelValues("test")); got != before+1 {
		t.Fatalf("expected counter %v, got %v", before+1, got)
	}

	srv := httptest.NewServer(Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `blinkdrone_blinks_total{source="test"}`) {
		t.Fatalf("blink counter missing from output")
	}
}
