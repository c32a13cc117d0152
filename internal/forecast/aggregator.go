// Package forecast owns the lifecycle of the next-hour forecast request and
// turns (series, forecast) into the snapshot the dashboard reads.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"EcoUrban/internal/calculator"
	"EcoUrban/internal/metrics"
	"EcoUrban/internal/model"
	"EcoUrban/internal/predictor"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds a single call to the prediction service.
const DefaultTimeout = 10 * time.Second

// Listener is called after a settled request has been applied.
type Listener func(model.Snapshot)

// Aggregator holds exactly one request state at a time. Only the result of
// the most recently issued request is ever applied.
type Aggregator struct {
	predictor predictor.Predictor
	timeout   time.Duration
	metrics   *metrics.Recorder

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu         sync.Mutex
	series     model.EnergySeries
	state      model.RequestState
	generation uint64
	requestID  string
	updatedAt  time.Time
	cancelPrev context.CancelFunc
	closed     bool
	listeners  []Listener

	// running counts request goroutines and invalid-series notifications
	// that Close must wait for.
	running sync.WaitGroup
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithMetrics attaches a Prometheus recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// WithSeries sets the series shown before the first request.
func WithSeries(s model.EnergySeries) Option {
	return func(a *Aggregator) { a.series = s }
}

// NewAggregator creates an idle aggregator.
func NewAggregator(p predictor.Predictor, opts ...Option) *Aggregator {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Aggregator{
		predictor:  p,
		timeout:    DefaultTimeout,
		baseCtx:    ctx,
		baseCancel: cancel,
		state:      model.Idle(),
		updatedAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OnSettled registers fn to run after each applied settlement. Listeners run
// after the request's done channel is closed and must not call Close.
func (a *Aggregator) OnSettled(fn Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// RequestForecast moves to in-flight and asks the predictor for the next
// value. It never blocks on the network; the returned channel is closed when
// this request has settled, whether its result was applied or discarded.
// Listeners may still be running at that point.
func (a *Aggregator) RequestForecast(series model.EnergySeries) <-chan struct{} {
	_, done := a.Submit(series)
	return done
}

// Submit is RequestForecast that also reports the generation it issued.
// After Close it issues nothing and returns the last generation.
func (a *Aggregator) Submit(series model.EnergySeries) (uint64, <-chan struct{}) {
	done := make(chan struct{})

	a.mu.Lock()
	if a.closed {
		gen := a.generation
		a.mu.Unlock()
		close(done)
		return gen, done
	}

	a.generation++
	gen := a.generation
	a.series = series
	a.requestID = uuid.NewString()
	a.updatedAt = time.Now()
	if a.cancelPrev != nil {
		a.cancelPrev()
		a.cancelPrev = nil
	}

	a.running.Add(1)

	if err := series.Validate(); err != nil {
		a.state = model.Failed("invalid series: " + err.Error())
		snap := a.snapshotLocked()
		listeners := a.listenersLocked()
		a.mu.Unlock()

		a.observe(metrics.OutcomeInvalid, 0)
		log.Warn().Str("component", "forecast").Uint64("generation", gen).Err(err).Msg("rejected invalid series")
		close(done)
		notify(listeners, snap)
		a.running.Done()
		return gen, done
	}

	a.state = model.InFlight()
	ctx, cancel := context.WithTimeout(a.baseCtx, a.timeout)
	a.cancelPrev = cancel
	values := series.Values()
	a.mu.Unlock()

	log.Debug().Str("component", "forecast").Uint64("generation", gen).
		Str("predictor", a.predictor.Name()).Int("readings", len(values)).Msg("forecast requested")

	go func() {
		defer a.running.Done()

		start := time.Now()
		value, err := a.predictor.PredictNext(ctx, values)
		cancel()
		if err == nil && (math.IsInf(value, 0) || math.IsNaN(value)) {
			err = &predictor.DataError{Reason: fmt.Sprintf("non-finite predicted value %v", value)}
		}
		snap, listeners, applied := a.settle(gen, value, err, time.Since(start))
		close(done)
		if applied {
			notify(listeners, snap)
		}
	}()
	return gen, done
}

// settle applies a result only if gen is still the latest issued request.
// It reports whether the result was applied, with the snapshot and the
// listeners to notify.
func (a *Aggregator) settle(gen uint64, value float64, err error, elapsed time.Duration) (model.Snapshot, []Listener, bool) {
	a.mu.Lock()
	if a.closed || gen != a.generation {
		a.mu.Unlock()
		if a.metrics != nil {
			a.metrics.IncStale()
		}
		log.Debug().Str("component", "forecast").Uint64("generation", gen).Msg("discarded stale response")
		return model.Snapshot{}, nil, false
	}

	outcome := metrics.OutcomeSucceeded
	if err != nil {
		outcome = metrics.OutcomeFailed
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
		}
		a.state = model.Failed(a.failureMessage(err))
	} else {
		a.state = model.Succeeded(value)
	}
	a.updatedAt = time.Now()
	a.cancelPrev = nil
	snap := a.snapshotLocked()
	listeners := a.listenersLocked()
	a.mu.Unlock()

	a.observe(outcome, elapsed)
	if a.metrics != nil && snap.ForecastValue != nil {
		a.metrics.SetForecast(*snap.ForecastValue, snap.IsAnomaly)
	}
	if err != nil {
		log.Warn().Str("component", "forecast").Uint64("generation", gen).Err(err).Msg("forecast failed")
	} else {
		log.Info().Str("component", "forecast").Uint64("generation", gen).
			Float64("forecast_kwh", value).Bool("anomaly", snap.IsAnomaly).Msg("forecast applied")
	}
	return snap, listeners, true
}

func (a *Aggregator) failureMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("timeout after %s", a.timeout)
	}
	return err.Error()
}

func (a *Aggregator) observe(outcome string, elapsed time.Duration) {
	if a.metrics != nil {
		a.metrics.ObserveRequest(outcome, elapsed)
	}
}

// Close discards any in-flight result and turns later requests into no-ops.
// It returns once every running request and its listeners have finished,
// so nothing a listener uses is touched after Close.
func (a *Aggregator) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		a.baseCancel()
		log.Info().Str("component", "forecast").Msg("aggregator closed")
	}
	a.mu.Unlock()
	a.running.Wait()
}

// State returns the current request state.
func (a *Aggregator) State() model.RequestState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Series returns the series of the latest request.
func (a *Aggregator) Series() model.EnergySeries {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.series
}

// Snapshot returns a consistent view of request state and derived statistics.
func (a *Aggregator) Snapshot() model.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Aggregator) snapshotLocked() model.Snapshot {
	snap := model.Snapshot{
		RequestState: a.state.Phase,
		Generation:   a.generation,
		RequestID:    a.requestID,
		UpdatedAt:    a.updatedAt,
	}
	if a.state.Phase == model.PhaseFailed {
		snap.Error = a.state.Message
	}
	if v, ok := a.state.ForecastValue(); ok {
		snap.ForecastValue = &v
	}
	snap.DerivedStats = calculator.ComputeDerived(a.series.Values(), snap.ForecastValue)
	if text, ok := calculator.RecommendationText(snap.ForecastValue, snap.Average); ok {
		snap.Recommendation = &text
	}
	return snap
}

// Graph returns the actual readings followed by a "Next" point holding the
// forecast, when there is one.
func (a *Aggregator) Graph() []model.GraphPoint {
	a.mu.Lock()
	readings := a.series.Readings()
	forecast, ok := a.state.ForecastValue()
	a.mu.Unlock()

	points := make([]model.GraphPoint, 0, len(readings)+1)
	for _, r := range readings {
		v := r.Value
		points = append(points, model.GraphPoint{Time: r.Label, Actual: &v})
	}
	if ok {
		points = append(points, model.GraphPoint{Time: "Next", Predicted: &forecast})
	}
	return points
}

func (a *Aggregator) listenersLocked() []Listener {
	out := make([]Listener, len(a.listeners))
	copy(out, a.listeners)
	return out
}

func notify(listeners []Listener, snap model.Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}
