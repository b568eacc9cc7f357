package model

import (
	"encoding/json"
	"math"
	"time"
)

// Unavailable is the sentinel for a numeric field the provider did not return.
func Unavailable() float64 { return math.NaN() }

// Available reports whether v carries a real value.
func Available(v float64) bool { return !math.IsNaN(v) }

// Quote is a point-in-time snapshot for a single ticker.
// Numeric fields may independently be unavailable; a Quote is never mutated,
// only superseded by a newer one for the same symbol.
type Quote struct {
	Symbol    string
	LastPrice float64
	Open      float64
	PrevClose float64
	Currency  string
	Exchange  string
	FetchedAt time.Time
}

// EmptyQuote returns a Quote with every numeric field unavailable.
// It is the designated fallback when no data could be fetched at all.
func EmptyQuote(symbol string) Quote {
	return Quote{
		Symbol:    symbol,
		LastPrice: Unavailable(),
		Open:      Unavailable(),
		PrevClose: Unavailable(),
		FetchedAt: time.Now(),
	}
}

// Bar represents a single OHLCV candlestick.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// HistorySeries holds an intraday window of bars for one symbol,
// ordered by ascending timestamp. Empty Bars signals "no data"
// (market closed, unknown symbol), which is not an error.
type HistorySeries struct {
	Symbol    string
	Range     string
	Interval  string
	Bars      []Bar
	FetchedAt time.Time
}

// Empty reports whether the series carries no bars.
func (h HistorySeries) Empty() bool { return len(h.Bars) == 0 }

// nullable converts an unavailable value to nil so encoding/json emits null
// instead of erroring on NaN.
func nullable(v float64) *float64 {
	if !Available(v) {
		return nil
	}
	return &v
}

func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Symbol    string    `json:"symbol"`
		LastPrice *float64  `json:"last_price"`
		Open      *float64  `json:"open"`
		PrevClose *float64  `json:"prev_close"`
		Currency  string    `json:"currency"`
		Exchange  string    `json:"exchange"`
		FetchedAt time.Time `json:"fetched_at"`
	}{
		Symbol:    q.Symbol,
		LastPrice: nullable(q.LastPrice),
		Open:      nullable(q.Open),
		PrevClose: nullable(q.PrevClose),
		Currency:  q.Currency,
		Exchange:  q.Exchange,
		FetchedAt: q.FetchedAt,
	})
}

func (b Bar) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Time   time.Time `json:"time"`
		Open   *float64  `json:"open"`
		High   *float64  `json:"high"`
		Low    *float64  `json:"low"`
		Close  *float64  `json:"close"`
		Volume *float64  `json:"volume"`
	}{
		Time:   b.Time,
		Open:   nullable(b.Open),
		High:   nullable(b.High),
		Low:    nullable(b.Low),
		Close:  nullable(b.Close),
		Volume: nullable(b.Volume),
	})
}

func (h HistorySeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Symbol    string    `json:"symbol"`
		Range     string    `json:"range"`
		Interval  string    `json:"interval"`
		Bars      []Bar     `json:"bars"`
		FetchedAt time.Time `json:"fetched_at"`
	}{h.Symbol, h.Range, h.Interval, h.Bars, h.FetchedAt})
}
