package collector

import (
	"errors"
	"sync"
	"testing"
	"time"

	"StockDash/internal/model"
)

// testClock mirrors the cache package's injectable clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestCollector_QuoteCacheHit(t *testing.T) {
	clock := newTestClock()
	mock := &MockFetcher{}
	col := NewCollector(mock, 15*time.Second, 30*time.Second, clock.Now)

	col.Quote("AAPL")
	clock.Advance(5 * time.Second)
	col.Quote("AAPL")

	if mock.QuoteCalls != 1 {
		t.Errorf("expected one upstream quote call within TTL, got %d", mock.QuoteCalls)
	}
}

func TestCollector_QuoteEmptyOnFirstFailure(t *testing.T) {
	mock := &MockFetcher{QuoteErr: errors.New("connection refused")}
	col := NewCollector(mock, 15*time.Second, 30*time.Second, nil)

	q := col.Quote("AAPL")
	if q.Symbol != "AAPL" {
		t.Errorf("expected symbol carried through, got %q", q.Symbol)
	}
	if model.Available(q.LastPrice) || model.Available(q.Open) || model.Available(q.PrevClose) {
		t.Error("expected all numeric fields unavailable when no prior entry exists")
	}
}

func TestCollector_QuoteStaleFallback(t *testing.T) {
	clock := newTestClock()
	mock := &MockFetcher{}
	col := NewCollector(mock, 15*time.Second, 30*time.Second, clock.Now)

	first := col.Quote("MSFT")
	clock.Advance(time.Minute)
	mock.QuoteErr = errors.New("upstream down")

	stale := col.Quote("MSFT")
	if stale.LastPrice != first.LastPrice || !stale.FetchedAt.Equal(first.FetchedAt) {
		t.Error("expected the prior entry returned unchanged on failed refresh")
	}
}

func TestCollector_ModeSwitchKeepsBothWindows(t *testing.T) {
	mock := &MockFetcher{}
	col := NewCollector(mock, 15*time.Second, 30*time.Second, nil)

	col.HistoryFor("AAPL", model.ModeLine)
	col.HistoryFor("AAPL", model.ModeCandlestick)
	col.HistoryFor("AAPL", model.ModeLine)

	if mock.HistoryCalls != 2 {
		t.Errorf("expected one fetch per mode, got %d", mock.HistoryCalls)
	}
	if col.History.Len() != 2 {
		t.Errorf("expected both windows cached, got %d entries", col.History.Len())
	}
}

func TestCollector_Stats(t *testing.T) {
	now := time.Now()
	mock := &MockFetcher{
		QuoteData: map[string]model.Quote{
			"AAPL": {Symbol: "AAPL", LastPrice: 110, Open: 102, PrevClose: 100, Currency: "USD", FetchedAt: now},
		},
		SeriesData: map[string]model.HistorySeries{
			"AAPL": {
				Symbol: "AAPL", Range: "1d", Interval: "1m",
				Bars: []model.Bar{
					{Time: now, Open: 102, High: 111, Low: 101, Close: 110, Volume: 500},
					{Time: now.Add(time.Minute), Open: 110, High: 112, Low: 109, Close: 110, Volume: 700},
				},
				FetchedAt: now,
			},
		},
	}
	col := NewCollector(mock, 15*time.Second, 30*time.Second, nil)

	stats := col.Stats("AAPL", model.ModeLine)
	if stats.Change != 10 {
		t.Errorf("expected change 10, got %v", stats.Change)
	}
	if stats.ChangePct != 10 {
		t.Errorf("expected change pct 10, got %v", stats.ChangePct)
	}
	if stats.DayHigh != 112 || stats.DayLow != 101 {
		t.Errorf("expected session range 112/101, got %v/%v", stats.DayHigh, stats.DayLow)
	}
	if stats.Volume != 1200 {
		t.Errorf("expected volume 1200, got %v", stats.Volume)
	}
	if stats.BarCount != 2 {
		t.Errorf("expected 2 bars, got %d", stats.BarCount)
	}
}

func TestCollector_StatsWithUnavailableQuote(t *testing.T) {
	mock := &MockFetcher{
		QuoteData: map[string]model.Quote{
			"XXXX": model.EmptyQuote("XXXX"),
		},
		SeriesData: map[string]model.HistorySeries{
			"XXXX": {Symbol: "XXXX", Range: "1d", Interval: "1m"},
		},
	}
	col := NewCollector(mock, 15*time.Second, 30*time.Second, nil)

	stats := col.Stats("XXXX", model.ModeLine)
	if model.Available(stats.Change) || model.Available(stats.ChangePct) {
		t.Error("expected undefined change metrics for unavailable quote")
	}
	if model.Available(stats.DayHigh) || model.Available(stats.Volume) {
		t.Error("expected undefined session stats for empty history")
	}
	if stats.BarCount != 0 {
		t.Errorf("expected empty series, got %d bars", stats.BarCount)
	}
}
