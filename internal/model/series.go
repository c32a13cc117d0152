package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptySeries is returned when an operation needs at least one reading.
var ErrEmptySeries = errors.New("energy series is empty")

// Reading is one hourly energy value with its display label.
type Reading struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// EnergySeries is an ordered, oldest-first sequence of hourly readings.
// It is immutable once built; accessors hand out copies.
type EnergySeries struct {
	readings []Reading
}

// NewEnergySeries copies readings into a new series.
func NewEnergySeries(readings []Reading) EnergySeries {
	cp := make([]Reading, len(readings))
	copy(cp, readings)
	return EnergySeries{readings: cp}
}

// SeriesFromValues builds a series with relative hour labels ("-23h" ... "Now").
func SeriesFromValues(values []float64) EnergySeries {
	readings := make([]Reading, len(values))
	for i, v := range values {
		readings[i] = Reading{Label: RelativeHourLabel(len(values) - 1 - i), Value: v}
	}
	return EnergySeries{readings: readings}
}

// RelativeHourLabel returns "Now" for 0 and "-Nh" otherwise.
func RelativeHourLabel(hoursAgo int) string {
	if hoursAgo == 0 {
		return "Now"
	}
	return fmt.Sprintf("-%dh", hoursAgo)
}

func (s EnergySeries) Len() int { return len(s.readings) }

// Readings returns a copy of the readings.
func (s EnergySeries) Readings() []Reading {
	cp := make([]Reading, len(s.readings))
	copy(cp, s.readings)
	return cp
}

// Values returns the numeric readings, oldest first.
func (s EnergySeries) Values() []float64 {
	out := make([]float64, len(s.readings))
	for i, r := range s.readings {
		out[i] = r.Value
	}
	return out
}

// Labels returns the display labels, oldest first.
func (s EnergySeries) Labels() []string {
	out := make([]string, len(s.readings))
	for i, r := range s.readings {
		out[i] = r.Label
	}
	return out
}

// Validate checks the series is non-empty and every value is finite.
func (s EnergySeries) Validate() error {
	if len(s.readings) == 0 {
		return ErrEmptySeries
	}
	for i, r := range s.readings {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return fmt.Errorf("reading %d (%s) is not a finite number", i, r.Label)
		}
	}
	return nil
}
