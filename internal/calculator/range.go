package calculator

import (
	"math"
)

// CalculateRange returns the highest and lowest readings of the series.
func CalculateRange(values []float64) (high, low float64, err error) {
	if len(values) == 0 {
		return 0, 0, ErrEmptySeries
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, v := range values {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return high, low, nil
}

// PeakIndex returns the position of the highest reading (first one on ties).
func PeakIndex(values []float64) (int, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	idx := 0
	for i, v := range values {
		if v > values[idx] {
			idx = i
		}
	}
	return idx, nil
}
