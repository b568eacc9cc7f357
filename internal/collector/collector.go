package collector

import (
	"fmt"
	"log"
	"math"
	"time"

	"StockDash/internal/cache"
	"StockDash/internal/calculator"
	"StockDash/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	QuoteData    map[string]model.Quote
	SeriesData   map[string]model.HistorySeries
	QuoteErr     error
	HistoryErr   error
	QuoteCalls   int
	HistoryCalls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuote(symbol string) (model.Quote, error) {
	m.QuoteCalls++
	if m.QuoteErr != nil {
		return model.Quote{}, m.QuoteErr
	}
	if q, ok := m.QuoteData[symbol]; ok {
		return q, nil
	}
	return generateMockQuote(symbol), nil
}

func (m *MockFetcher) FetchHistory(symbol, rng, interval string) (model.HistorySeries, error) {
	m.HistoryCalls++
	if m.HistoryErr != nil {
		return model.HistorySeries{}, m.HistoryErr
	}
	if s, ok := m.SeriesData[symbol]; ok {
		return s, nil
	}
	return model.HistorySeries{
		Symbol:    symbol,
		Range:     rng,
		Interval:  interval,
		Bars:      generateMockBars(100, 30),
		FetchedAt: time.Now(),
	}, nil
}

func generateMockQuote(symbol string) model.Quote {
	return model.Quote{
		Symbol:    symbol,
		LastPrice: 101,
		Open:      100.5,
		PrevClose: 100,
		Currency:  "USD",
		Exchange:  "NMS",
		FetchedAt: time.Now(),
	}
}

func generateMockBars(basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Time:   time.Now().Add(-time.Duration(count-i) * time.Minute),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 10000,
		}
	}
	return bars
}

// Collector fronts the upstream fetcher with the two freshness caches.
// Its read methods never return errors: a failed refresh degrades to the
// last known good value, or to the designated empty value when nothing
// was ever fetched for the key.
type Collector struct {
	Fetcher Fetcher
	Quotes  *cache.Cache[model.Quote]
	History *cache.Cache[model.HistorySeries]
}

// NewCollector creates a Collector with independent TTLs per cache.
// Quote TTL is shorter than history TTL: quotes are cheap to refresh and
// more volatile.
func NewCollector(fetcher Fetcher, quoteTTL, historyTTL time.Duration, clock cache.Clock) *Collector {
	return &Collector{
		Fetcher: fetcher,
		Quotes:  cache.New[model.Quote](quoteTTL, clock),
		History: cache.New[model.HistorySeries](historyTTL, clock),
	}
}

func historyKey(symbol, rng, interval string) string {
	return fmt.Sprintf("%s|%s|%s", symbol, rng, interval)
}

// Quote returns the cached or freshly fetched quote for symbol.
func (c *Collector) Quote(symbol string) model.Quote {
	q, err := c.Quotes.GetOrFetch(symbol, func() (model.Quote, error) {
		return c.Fetcher.FetchQuote(symbol)
	})
	if err != nil {
		log.Printf("[WARN] quote %s unavailable: %v", symbol, err)
		return model.EmptyQuote(symbol)
	}
	return q
}

// HistoryFor returns the cached or freshly fetched window for the chart
// mode. The cache key includes range and interval, so switching modes never
// evicts the other mode's entry.
func (c *Collector) HistoryFor(symbol string, mode model.ChartMode) model.HistorySeries {
	rng, interval := mode.Window()
	s, err := c.History.GetOrFetch(historyKey(symbol, rng, interval), func() (model.HistorySeries, error) {
		return c.Fetcher.FetchHistory(symbol, rng, interval)
	})
	if err != nil {
		log.Printf("[WARN] history %s %s/%s unavailable: %v", symbol, rng, interval, err)
		return model.HistorySeries{Symbol: symbol, Range: rng, Interval: interval, FetchedAt: time.Now()}
	}
	return s
}

// Stats assembles the full per-ticker view for one refresh cycle: the quote,
// its change metrics against previous close, and session range/volume from
// the history window.
func (c *Collector) Stats(symbol string, mode model.ChartMode) model.TickerStats {
	q := c.Quote(symbol)
	series := c.HistoryFor(symbol, mode)

	stats := model.TickerStats{
		Quote:     q,
		Change:    calculator.Change(q.LastPrice, q.PrevClose),
		ChangePct: calculator.ChangePercent(q.LastPrice, q.PrevClose),
		DayHigh:   model.Unavailable(),
		DayLow:    model.Unavailable(),
		Volume:    model.Unavailable(),
		BarCount:  len(series.Bars),
	}
	if high, low, err := calculator.SessionRange(series.Bars); err == nil {
		stats.DayHigh = high
		stats.DayLow = low
	}
	if vol := calculator.TotalVolume(series.Bars); !series.Empty() && !math.IsNaN(vol) {
		stats.Volume = vol
	}
	return stats
}

// SweepCaches evicts entries expired longer than grace from both caches.
func (c *Collector) SweepCaches(grace time.Duration) int {
	return c.Quotes.Sweep(grace) + c.History.Sweep(grace)
}
