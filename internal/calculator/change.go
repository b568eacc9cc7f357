package calculator

import "StockDash/internal/model"

// ChangePercent returns the percentage move from prev to curr.
// The result is unavailable when either input is unavailable or when
// prev is zero (explicit divide-by-zero guard).
func ChangePercent(curr, prev float64) float64 {
	if !model.Available(curr) || !model.Available(prev) || prev == 0 {
		return model.Unavailable()
	}
	return (curr - prev) / prev * 100
}

// Change returns the absolute move from prev to curr, unavailable under
// the same missing-input condition as ChangePercent.
func Change(curr, prev float64) float64 {
	if !model.Available(curr) || !model.Available(prev) {
		return model.Unavailable()
	}
	return curr - prev
}
