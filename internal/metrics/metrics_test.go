package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveRequest(OutcomeSucceeded, 150*time.Millisecond)
	r.ObserveRequest(OutcomeSucceeded, 0)
	r.ObserveRequest(OutcomeTimeout, 10*time.Second)
	r.IncStale()
	r.SetForecast(612.5, true)

	if got := testutil.ToFloat64(r.requests.WithLabelValues(OutcomeSucceeded)); got != 2 {
		t.Errorf("expected 2 succeeded, got %.0f", got)
	}
	if got := testutil.ToFloat64(r.requests.WithLabelValues(OutcomeTimeout)); got != 1 {
		t.Errorf("expected 1 timeout, got %.0f", got)
	}
	if got := testutil.ToFloat64(r.stale); got != 1 {
		t.Errorf("expected 1 stale, got %.0f", got)
	}
	if got := testutil.ToFloat64(r.lastValue); got != 612.5 {
		t.Errorf("expected last value 612.5, got %.2f", got)
	}
	if got := testutil.ToFloat64(r.anomaly); got != 1 {
		t.Errorf("expected anomaly gauge 1, got %.0f", got)
	}

	r.SetForecast(400, false)
	if got := testutil.ToFloat64(r.anomaly); got != 0 {
		t.Errorf("expected anomaly gauge 0, got %.0f", got)
	}
}
