package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for forecast requests.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeTimeout   = "timeout"
	OutcomeInvalid   = "invalid"
)

// Recorder tracks the forecast request lifecycle in Prometheus.
type Recorder struct {
	requests  *prometheus.CounterVec
	duration  prometheus.Histogram
	stale     prometheus.Counter
	lastValue prometheus.Gauge
	anomaly   prometheus.Gauge
}

// New registers the collectors on reg. Tests pass a fresh registry.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ecourban",
				Subsystem: "forecast",
				Name:      "requests_total",
				Help:      "Forecast requests by final outcome",
			},
			[]string{"outcome"},
		),
		duration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "ecourban",
				Subsystem: "forecast",
				Name:      "request_duration_seconds",
				Help:      "Duration of calls to the prediction service",
				Buckets:   prometheus.DefBuckets,
			},
		),
		stale: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "ecourban",
				Subsystem: "forecast",
				Name:      "stale_discarded_total",
				Help:      "Responses dropped because a newer request was issued or the aggregator closed",
			},
		),
		lastValue: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "ecourban",
				Subsystem: "forecast",
				Name:      "last_value_kwh",
				Help:      "Most recent applied next-hour forecast",
			},
		),
		anomaly: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "ecourban",
				Subsystem: "forecast",
				Name:      "anomaly",
				Help:      "1 when the current forecast is flagged as an anomaly",
			},
		),
	}
}

// ObserveRequest records a settled request that was applied.
func (r *Recorder) ObserveRequest(outcome string, d time.Duration) {
	r.requests.WithLabelValues(outcome).Inc()
	if d > 0 {
		r.duration.Observe(d.Seconds())
	}
}

// IncStale counts a discarded response.
func (r *Recorder) IncStale() {
	r.stale.Inc()
}

// SetForecast publishes the latest forecast and its anomaly flag.
func (r *Recorder) SetForecast(value float64, anomaly bool) {
	r.lastValue.Set(value)
	if anomaly {
		r.anomaly.Set(1)
	} else {
		r.anomaly.Set(0)
	}
}
