package model

import (
	"errors"
	"math"
	"testing"
)

func TestEnergySeries_Immutable(t *testing.T) {
	src := []Reading{{Label: "-1h", Value: 10}, {Label: "Now", Value: 20}}
	s := NewEnergySeries(src)
	src[0].Value = 99
	if s.Values()[0] != 10 {
		t.Error("series shares storage with its input")
	}
	vals := s.Values()
	vals[1] = 0
	if s.Values()[1] != 20 {
		t.Error("series shares storage with Values()")
	}
}

func TestEnergySeries_Validate(t *testing.T) {
	if err := NewEnergySeries(nil).Validate(); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}
	if err := SeriesFromValues([]float64{1, math.NaN()}).Validate(); err == nil {
		t.Error("expected error for NaN reading")
	}
	if err := SeriesFromValues([]float64{1, math.Inf(1)}).Validate(); err == nil {
		t.Error("expected error for infinite reading")
	}
	if err := SeriesFromValues([]float64{1, 2}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSeriesFromValues_Labels(t *testing.T) {
	s := SeriesFromValues([]float64{1, 2, 3})
	labels := s.Labels()
	want := []string{"-2h", "-1h", "Now"}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label %d: expected %q, got %q", i, want[i], labels[i])
		}
	}
}

func TestRequestState_ForecastValue(t *testing.T) {
	if _, ok := Idle().ForecastValue(); ok {
		t.Error("idle state should have no forecast")
	}
	if _, ok := Failed("boom").ForecastValue(); ok {
		t.Error("failed state should have no forecast")
	}
	v, ok := Succeeded(42).ForecastValue()
	if !ok || v != 42 {
		t.Errorf("expected 42, got %v %v", v, ok)
	}
}
