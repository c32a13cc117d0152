package calculator

import (
	"errors"
	"math"

	"EcoUrban/internal/model"
)

// AnomalyFactor is how far above the trailing average a forecast must be
// to count as an anomaly.
const AnomalyFactor = 1.3

const (
	HighDemandText = "High energy demand expected — consider reducing load."
	LowDemandText  = "Low demand period — good opportunity for energy saving."
)

// ErrZeroCurrent is returned when a saving ratio would divide by zero.
var ErrZeroCurrent = errors.New("current reading is zero")

// CalculateSavingPercent returns (current - forecast) / current * 100.
// A positive result means the next hour is expected to use less energy.
func CalculateSavingPercent(current, forecast float64) (float64, error) {
	if current == 0 {
		return 0, ErrZeroCurrent
	}
	return (current - forecast) / current * 100, nil
}

// IsAnomaly reports whether forecast is strictly above average * AnomalyFactor.
func IsAnomaly(forecast, average float64) bool {
	return forecast > average*AnomalyFactor
}

// ComputeDerived derives the dashboard statistics from the series values and
// an optional forecast. Each field is nil when its inputs are missing or the
// result overflows to a non-finite number.
func ComputeDerived(values []float64, forecast *float64) model.DerivedStats {
	var out model.DerivedStats

	if avg, err := CalculateAverage(values); err == nil && isFinite(avg) {
		out.Average = &avg
	}
	if cur, err := LastValue(values); err == nil && isFinite(cur) {
		out.Current = &cur
	}
	if forecast == nil || !isFinite(*forecast) {
		return out
	}
	if out.Current != nil {
		if pct, err := CalculateSavingPercent(*out.Current, *forecast); err == nil && isFinite(pct) {
			out.SavingPercent = &pct
		}
	}
	if out.Average != nil {
		out.IsAnomaly = IsAnomaly(*forecast, *out.Average)
	}
	return out
}

// RecommendationText picks the advice shown next to the forecast.
// Equal values fall in the low demand branch.
func RecommendationText(forecast, average *float64) (string, bool) {
	if forecast == nil || average == nil {
		return "", false
	}
	if *forecast > *average {
		return HighDemandText, true
	}
	return LowDemandText, true
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
