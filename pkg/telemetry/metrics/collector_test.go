package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordDecision(t *testing.T) {
	c := NewCollector(nil, prometheus.NewRegistry())

	c.RecordDecision("local", "AUTO_LOCAL", 50*time.Microsecond, 12)
	c.RecordDecision("local", "AUTO_LOCAL", 80*time.Microsecond, 30)
	c.RecordDecision("cloud", "PRIVACY_CLOUD", 40*time.Microsecond, 5000)

	got := testutil.ToFloat64(c.decisionsTotal.WithLabelValues("local", "AUTO_LOCAL"))
	if got != 2 {
		t.Errorf("local AUTO_LOCAL count = %v, want 2", got)
	}
	got = testutil.ToFloat64(c.decisionsTotal.WithLabelValues("cloud", "PRIVACY_CLOUD"))
	if got != 1 {
		t.Errorf("cloud PRIVACY_CLOUD count = %v, want 1", got)
	}
}

func TestCollector_RecordPolicyAndErrors(t *testing.T) {
	c := NewCollector(nil, prometheus.NewRegistry())

	c.RecordPolicyMatch("no-pii-cloud", "warn")
	c.RecordPolicyMatch("no-pii-cloud", "warn")
	c.RecordBlock()
	c.RecordError("network_unavailable", time.Millisecond)
	c.RecordFallback("confirmed")

	if got := testutil.ToFloat64(c.policyMatchesTotal.WithLabelValues("no-pii-cloud", "warn")); got != 2 {
		t.Errorf("policy matches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.policyBlocksTotal); got != 1 {
		t.Errorf("blocks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.decisionErrors.WithLabelValues("network_unavailable")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.fallbacksTotal.WithLabelValues("confirmed")); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	c := NewCollector(&Config{Enabled: false}, prometheus.NewRegistry())

	c.RecordDecision("local", "AUTO_LOCAL", time.Microsecond, 1)
	c.RecordBlock()

	if got := testutil.ToFloat64(c.policyBlocksTotal); got != 0 {
		t.Errorf("disabled collector recorded blocks = %v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(nil, prometheus.NewRegistry())
	c.RecordDecision("local", "AUTO_LOCAL", time.Microsecond, 10)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if !strings.Contains(string(body), "saturn_decisions_total") {
		t.Error("exposition output missing saturn_decisions_total")
	}
}
