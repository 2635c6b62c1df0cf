package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/scores", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveAggregateOperation("Scores.Allocation.Save", "success", time.Millisecond)
	m.IncAggregateConflict("Scores.Allocation.Save")
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus on nil: %v", err)
	}
}

func TestObserveAPICountsServerErrors(t *testing.T) {
	m := New()
	m.ObserveAPI("POST", "/api/scores/calculate", "200", 20*time.Millisecond)
	m.ObserveAPI("POST", "/api/scores/calculate", "500", 30*time.Millisecond)
	m.ObserveAPI("POST", "/api/scores/calculate", "404", 30*time.Millisecond)

	if got := m.apiErrors.Value("/api/scores/calculate"); got != 1 {
		t.Fatalf("server errors: want=1 got=%v", got)
	}
	if got := m.apiRequests.Value("POST", "/api/scores/calculate", "200"); got != 1 {
		t.Fatalf("requests 200: want=1 got=%v", got)
	}
}

func TestObserveAggregateOperationDefaults(t *testing.T) {
	m := New()
	m.ObserveAggregateOperation("", "", time.Millisecond)
	m.IncAggregateConflict("Scores.Allocation.Save")
	m.IncAggregateConflict("Scores.Allocation.Save")

	if got := m.aggregateOps.Value("unknown", "unknown"); got != 1 {
		t.Fatalf("defaulted labels: want=1 got=%v", got)
	}
	if got := m.aggregateConflicts.Value("Scores.Allocation.Save"); got != 2 {
		t.Fatalf("conflicts: want=2 got=%v", got)
	}
}

func TestWritePrometheusFormat(t *testing.T) {
	m := New()
	m.ObserveAggregateOperation("Scores.Allocation.Delete", "success", 20*time.Millisecond)
	m.apiInflight.Inc()

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# TYPE bridge_aggregate_operations_total counter",
		`bridge_aggregate_operations_total{operation="Scores.Allocation.Delete",status="success"} 1.000000`,
		`bridge_aggregate_operation_duration_seconds_bucket{operation="Scores.Allocation.Delete",le="0.025"} 1`,
		`bridge_aggregate_operation_duration_seconds_bucket{operation="Scores.Allocation.Delete",le="0.01"} 0`,
		"bridge_api_inflight_requests 1.000000",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"route"}, []string{"a\"b\\c\nd"})
	want := `{route="a\"b\\c\nd"}`
	if got != want {
		t.Fatalf("labelString: want=%s got=%s", want, got)
	}
	if got := labelString([]string{"a", "b"}, []string{"x"}); got != `{a="x",b="unknown"}` {
		t.Fatalf("missing value default: got=%s", got)
	}
}

func TestParseOtelHeaders(t *testing.T) {
	h := ParseOtelHeaders(" api-key = abc , bad, =x, tenant=bridge ")
	if len(h) != 2 || h["api-key"] != "abc" || h["tenant"] != "bridge" {
		t.Fatalf("ParseOtelHeaders: got=%v", h)
	}
	if ParseOtelHeaders("") != nil {
		t.Fatalf("empty headers should be nil")
	}
}
