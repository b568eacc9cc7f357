package collector

import "StockDash/internal/model"

// Fetcher defines the interface for retrieving market data from an
// upstream provider. Implementations report transport and parse problems
// as errors; the cache layer above converts those into stale fallback or
// empty values, so errors never reach presentation code.
type Fetcher interface {
	FetchQuote(symbol string) (model.Quote, error)
	FetchHistory(symbol, rng, interval string) (model.HistorySeries, error)
	Name() string
}
