package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockDash/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the refresh loop's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quote_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			last_price  REAL,
			open        REAL,
			prev_close  REAL,
			change      REAL,
			change_pct  REAL,
			day_high    REAL,
			day_low     REAL,
			volume      REAL,
			currency    TEXT,
			exchange    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quote_ts ON quote_snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_quote_symbol ON quote_snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS refresh_cycles (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			duration_ms INTEGER,
			tickers     INTEGER,
			mode        TEXT,
			warning     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycle_ts ON refresh_cycles(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullNum maps an unavailable value to SQL NULL.
func nullNum(v float64) any {
	if !model.Available(v) {
		return nil
	}
	return v
}

func (r *SQLiteRecorder) RecordCycle(rec *CycleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refresh_cycles
		(timestamp, duration_ms, tickers, mode, warning)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), rec.DurationMS, rec.Tickers, rec.Mode, rec.Warning,
	)
	return err
}

func (r *SQLiteRecorder) RecordQuotes(recs []QuoteRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	now := time.Now().Unix()
	for _, rec := range recs {
		s := rec.Stats
		q := s.Quote
		if _, err := tx.Exec(`INSERT INTO quote_snapshots
			(timestamp, symbol, last_price, open, prev_close, change, change_pct,
			 day_high, day_low, volume, currency, exchange)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			now, q.Symbol, nullNum(q.LastPrice), nullNum(q.Open), nullNum(q.PrevClose),
			nullNum(s.Change), nullNum(s.ChangePct),
			nullNum(s.DayHigh), nullNum(s.DayLow), nullNum(s.Volume),
			q.Currency, q.Exchange,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert quote %s: %w", q.Symbol, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
