package predictor

import (
	"context"
	"time"

	"EcoUrban/internal/calculator"
)

// naiveWindow is the number of trailing hours the mock averages.
const naiveWindow = 3

// MockPredictor returns controllable results for development and testing.
// With Value and Err unset it predicts the mean of the last three readings.
type MockPredictor struct {
	Value float64
	Err   error
	Delay time.Duration
}

func (m *MockPredictor) Name() string { return "mock" }

func (m *MockPredictor) PredictNext(ctx context.Context, values []float64) (float64, error) {
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return 0, &TransportError{Err: ctx.Err()}
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return 0, m.Err
	}
	if m.Value != 0 {
		return m.Value, nil
	}
	window := naiveWindow
	if len(values) < window {
		window = len(values)
	}
	v, err := calculator.CalculateSMA(values, window)
	if err != nil {
		return 0, &DataError{Reason: err.Error()}
	}
	return v, nil
}
