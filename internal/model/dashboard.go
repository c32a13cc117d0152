package model

// SectorUsage is the daily consumption of one municipal sector.
type SectorUsage struct {
	Sector string  `json:"sector"`
	KWh    float64 `json:"kwh"`
}

// AlertLevel classifies a city alert.
type AlertLevel string

const (
	AlertWarning AlertLevel = "warning"
	AlertInfo    AlertLevel = "info"
	AlertSuccess AlertLevel = "success"
)

// CityAlert is one entry of the city alerts feed.
type CityAlert struct {
	ID      int        `json:"id"`
	Message string     `json:"message"`
	Time    string     `json:"time"`
	Type    AlertLevel `json:"type"`
}
