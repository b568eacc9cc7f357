package recorder

import "StockDash/internal/model"

// CycleRecord summarizes one refresh cycle.
type CycleRecord struct {
	DurationMS int64
	Tickers    int
	Mode       string
	Warning    string
}

// QuoteRecord is one observed quote with its derived change metrics.
type QuoteRecord struct {
	Stats model.TickerStats
}

// Recorder persists observed quotes and cycle stats for later analysis.
type Recorder interface {
	RecordCycle(rec *CycleRecord) error
	RecordQuotes(recs []QuoteRecord) error
	Close() error
}
