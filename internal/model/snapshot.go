package model

import (
	"encoding/json"
	"time"
)

// TickerStats combines a quote with its derived change metrics and
// session stats for one watchlist entry.
type TickerStats struct {
	Quote     Quote
	Change    float64
	ChangePct float64
	DayHigh   float64
	DayLow    float64
	Volume    float64
	BarCount  int
}

// RefreshSnapshot is the result of one complete refresh cycle.
// Warning is set instead of Stats when the watchlist parsed empty.
type RefreshSnapshot struct {
	At       time.Time
	Mode     ChartMode
	Warning  string
	Stats    []TickerStats
	Elapsed  time.Duration
}

func (s TickerStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Quote     Quote    `json:"quote"`
		Change    *float64 `json:"change"`
		ChangePct *float64 `json:"change_pct"`
		DayHigh   *float64 `json:"day_high"`
		DayLow    *float64 `json:"day_low"`
		Volume    *float64 `json:"volume"`
		BarCount  int      `json:"bar_count"`
	}{
		Quote:     s.Quote,
		Change:    nullable(s.Change),
		ChangePct: nullable(s.ChangePct),
		DayHigh:   nullable(s.DayHigh),
		DayLow:    nullable(s.DayLow),
		Volume:    nullable(s.Volume),
		BarCount:  s.BarCount,
	})
}

func (s RefreshSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		At        time.Time     `json:"at"`
		Mode      ChartMode     `json:"mode"`
		Warning   string        `json:"warning,omitempty"`
		Stats     []TickerStats `json:"stats"`
		ElapsedMS int64         `json:"elapsed_ms"`
	}{s.At, s.Mode, s.Warning, s.Stats, s.Elapsed.Milliseconds()})
}
