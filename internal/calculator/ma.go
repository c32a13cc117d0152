package calculator

import (
	"errors"

	"EcoUrban/internal/model"
)

// ErrEmptySeries is returned when there are no readings to aggregate.
var ErrEmptySeries = model.ErrEmptySeries

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// CalculateAverage returns the arithmetic mean of the whole series.
func CalculateAverage(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	return CalculateSMA(values, len(values))
}

// LastValue returns the most recent reading.
func LastValue(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	return values[len(values)-1], nil
}
