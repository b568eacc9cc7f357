package calculator

import (
	"errors"
	"math"

	"StockDash/internal/model"
)

// SessionRange scans a history window and returns its high and low,
// skipping bars whose extremes are unavailable.
func SessionRange(bars []model.Bar) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	found := false
	for _, b := range bars {
		if !model.Available(b.High) || !model.Available(b.Low) {
			continue
		}
		found = true
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	if !found {
		return 0, 0, errors.New("no bars with usable high/low")
	}
	return high, low, nil
}

// TotalVolume sums bar volumes across a history window, ignoring
// unavailable values.
func TotalVolume(bars []model.Bar) float64 {
	total := 0.0
	for _, b := range bars {
		if model.Available(b.Volume) {
			total += b.Volume
		}
	}
	return total
}
