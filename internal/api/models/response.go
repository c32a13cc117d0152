package models

import (
	"time"

	"EcoUrban/internal/model"
)

// RefreshResponse acknowledges an issued forecast request
type RefreshResponse struct {
	Generation uint64 `json:"generation"`
}

// GraphResponse is the chart data for the dashboard
type GraphResponse struct {
	Points []model.GraphPoint `json:"points"`
}

// DerivedResponse holds statistics for a caller-supplied series
type DerivedResponse struct {
	model.DerivedStats
	Recommendation *string `json:"recommendation"`
}

// HistoryItem is one recorded forecast settlement
type HistoryItem struct {
	Timestamp     time.Time          `json:"timestamp"`
	RequestID     string             `json:"request_id,omitempty"`
	Generation    uint64             `json:"generation"`
	State         model.RequestPhase `json:"request_state"`
	Forecast      *float64           `json:"forecast_value"`
	Average       *float64           `json:"average"`
	Current       *float64           `json:"current"`
	SavingPercent *float64           `json:"saving_percent"`
	IsAnomaly     bool               `json:"is_anomaly"`
	Error         string             `json:"error,omitempty"`
}

// HistoryResponse lists recorded forecasts, newest first
type HistoryResponse struct {
	Items []HistoryItem `json:"items"`
}

// SeriesResponse is the session energy series
type SeriesResponse struct {
	Readings []model.Reading `json:"readings"`
}

// SectorsResponse is the per-sector consumption table
type SectorsResponse struct {
	Optimized bool                `json:"optimized"`
	Sectors   []model.SectorUsage `json:"sectors"`
}

// AlertsResponse lists city alerts
type AlertsResponse struct {
	Alerts []model.CityAlert `json:"alerts"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewError builds an error envelope.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}
