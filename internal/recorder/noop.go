package recorder

// NoopRecorder discards all records. Used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordCycle(*CycleRecord) error { return nil }

func (n *NoopRecorder) RecordQuotes([]QuoteRecord) error { return nil }

func (n *NoopRecorder) Close() error { return nil }
