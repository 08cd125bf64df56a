package calculator

import (
	"errors"
	"math"
)

// Extremes returns the highest and lowest value in the series.
func Extremes(values []float64) (high, low float64, err error) {
	if len(values) == 0 {
		return 0, 0, errors.New("no values provided")
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

// Change returns the last value minus the one before it.
func Change(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, errors.New("need at least two values")
	}
	n := len(values)
	return values[n-1] - values[n-2], nil
}

// Position returns where current sits within [low, high], from 0.0 to 1.0.
func Position(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
