package model

import "time"

// DerivedStats are recomputed from (series, forecast) on every read.
// Nil pointers mean the value is undefined for the current inputs.
type DerivedStats struct {
	Average       *float64 `json:"average"`
	Current       *float64 `json:"current"`
	SavingPercent *float64 `json:"saving_percent"`
	IsAnomaly     bool     `json:"is_anomaly"`
}

// Snapshot is the read-only view handed to presentation collaborators.
type Snapshot struct {
	RequestState  RequestPhase `json:"request_state"`
	Error         string       `json:"error,omitempty"`
	ForecastValue *float64     `json:"forecast_value"`
	DerivedStats
	Recommendation *string   `json:"recommendation"`
	Generation     uint64    `json:"generation"`
	RequestID      string    `json:"request_id,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GraphPoint is one x-axis entry of the actual-vs-predicted chart.
type GraphPoint struct {
	Time      string   `json:"time"`
	Actual    *float64 `json:"actual"`
	Predicted *float64 `json:"predicted"`
}
