package recorder

import (
	"time"

	"EcoUrban/internal/model"
)

// ForecastEvent is one applied forecast settlement.
type ForecastEvent struct {
	Timestamp     time.Time
	RequestID     string
	Generation    uint64
	State         model.RequestPhase
	Forecast      *float64
	Average       *float64
	Current       *float64
	SavingPercent *float64
	IsAnomaly     bool
	Error         string
}

// EventFromSnapshot flattens a snapshot into a history row.
func EventFromSnapshot(s model.Snapshot) *ForecastEvent {
	return &ForecastEvent{
		Timestamp:     s.UpdatedAt,
		RequestID:     s.RequestID,
		Generation:    s.Generation,
		State:         s.RequestState,
		Forecast:      s.ForecastValue,
		Average:       s.Average,
		Current:       s.Current,
		SavingPercent: s.SavingPercent,
		IsAnomaly:     s.IsAnomaly,
		Error:         s.Error,
	}
}

// Recorder persists forecast history for later analysis.
type Recorder interface {
	RecordForecast(evt *ForecastEvent) error
	Recent(limit int) ([]ForecastEvent, error)
	Close() error
}
