package predictor

import "context"

// Predictor forecasts the next hourly energy value from recent readings.
type Predictor interface {
	PredictNext(ctx context.Context, values []float64) (float64, error)
	Name() string
}
