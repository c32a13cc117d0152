package models

// DerivedRequest asks for statistics over an arbitrary series.
type DerivedRequest struct {
	Values   []float64 `json:"values" validate:"required,min=1,max=1000"`
	Forecast *float64  `json:"forecast"`
}

// HistoryQuery pages through recorded forecasts.
type HistoryQuery struct {
	Limit int `form:"limit" default:"24" validate:"gte=1,lte=500"`
}

// RefreshQuery controls whether POST /forecast/refresh waits for settlement.
type RefreshQuery struct {
	Wait bool `form:"wait"`
}

// SectorsQuery selects the baseline or optimized sector table.
type SectorsQuery struct {
	Optimized bool `form:"optimized"`
}
