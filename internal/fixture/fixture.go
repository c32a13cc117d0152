// Package fixture holds the static tables the dashboard shows next to the
// live forecast. Callers receive copies, so the tables are never mutated.
package fixture

import (
	"fmt"
	"os"

	"EcoUrban/internal/model"

	"gopkg.in/yaml.v3"
)

// Labels follow model.RelativeHourLabel, with an ASCII hyphen.
var sampleSeries = []model.Reading{
	{Label: "-23h", Value: 420},
	{Label: "-22h", Value: 410},
	{Label: "-21h", Value: 395},
	{Label: "-20h", Value: 380},
	{Label: "-19h", Value: 360},
	{Label: "-18h", Value: 350},
	{Label: "-17h", Value: 340},
	{Label: "-16h", Value: 365},
	{Label: "-15h", Value: 390},
	{Label: "-14h", Value: 430},
	{Label: "-13h", Value: 470},
	{Label: "-12h", Value: 520},
	{Label: "-11h", Value: 560},
	{Label: "-10h", Value: 600},
	{Label: "-9h", Value: 640},
	{Label: "-8h", Value: 690},
	{Label: "-7h", Value: 730},
	{Label: "-6h", Value: 760},
	{Label: "-5h", Value: 720},
	{Label: "-4h", Value: 680},
	{Label: "-3h", Value: 640},
	{Label: "-2h", Value: 600},
	{Label: "-1h", Value: 560},
	{Label: "Now", Value: 530},
}

var sectorBaseline = []model.SectorUsage{
	{Sector: "Street Lighting", KWh: 45200},
	{Sector: "Traffic Signals", KWh: 28100},
	{Sector: "HVAC", KWh: 51290},
}

var sectorOptimized = []model.SectorUsage{
	{Sector: "Street Lighting", KWh: 36100},
	{Sector: "Traffic Signals", KWh: 22400},
	{Sector: "HVAC", KWh: 39740},
}

var cityAlerts = []model.CityAlert{
	{ID: 1, Message: "High energy spike detected in Sector 5", Time: "Just now", Type: model.AlertWarning},
	{ID: 2, Message: "Traffic signal optimization recommended", Time: "2 min ago", Type: model.AlertInfo},
	{ID: 3, Message: "HVAC load shifted to off-peak hours", Time: "5 min ago", Type: model.AlertSuccess},
}

// SampleSeries returns the built-in last-24-hours series.
func SampleSeries() model.EnergySeries {
	return model.NewEnergySeries(sampleSeries)
}

// Sectors returns the per-sector usage, optimized or baseline.
func Sectors(optimized bool) []model.SectorUsage {
	src := sectorBaseline
	if optimized {
		src = sectorOptimized
	}
	out := make([]model.SectorUsage, len(src))
	copy(out, src)
	return out
}

// Alerts returns the city alerts feed.
func Alerts() []model.CityAlert {
	out := make([]model.CityAlert, len(cityAlerts))
	copy(out, cityAlerts)
	return out
}

type seriesFile struct {
	Readings []model.Reading `yaml:"readings"`
}

// LoadSeries reads a series from a YAML file of the form
//
//	readings:
//	  - {label: "-23h", value: 420}
//
// Readings must be ordered oldest first.
func LoadSeries(path string) (model.EnergySeries, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.EnergySeries{}, fmt.Errorf("read series: %w", err)
	}
	var f seriesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return model.EnergySeries{}, fmt.Errorf("parse series: %w", err)
	}
	s := model.NewEnergySeries(f.Readings)
	if err := s.Validate(); err != nil {
		return model.EnergySeries{}, fmt.Errorf("series %s: %w", path, err)
	}
	return s, nil
}
