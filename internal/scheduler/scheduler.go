package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"StockDash/internal/collector"
	"StockDash/internal/model"
	"StockDash/internal/recorder"
	"StockDash/internal/settings"
	"StockDash/internal/watchlist"

	"github.com/robfig/cron/v3"
)

// State is the scheduler's refresh-loop state.
type State string

const (
	StateIdle       State = "idle"
	StateRefreshing State = "refreshing"
)

// Publisher receives each completed snapshot (the WebSocket hub in
// production; a capture func in tests).
type Publisher func(*model.RefreshSnapshot)

// Scheduler drives the fixed-interval refresh cycle. The next tick is armed
// after a cycle renders, so the effective cadence is interval plus cycle
// time rather than a drift-corrected period.
type Scheduler struct {
	Collector *collector.Collector
	Settings  *settings.Manager
	Recorder  recorder.Recorder
	Publish   Publisher
	Cron      *cron.Cron
	Ctx       context.Context

	mu    sync.RWMutex
	state State
	last  *model.RefreshSnapshot

	done chan struct{}
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, set *settings.Manager, rec recorder.Recorder, pub Publisher) *Scheduler {
	return &Scheduler{
		Collector: col,
		Settings:  set,
		Recorder:  rec,
		Publish:   pub,
		Cron:      cron.New(cron.WithSeconds()),
		Ctx:       ctx,
		state:     StateIdle,
		done:      make(chan struct{}),
	}
}

// RegisterJanitor schedules the periodic cache sweep.
func (s *Scheduler) RegisterJanitor(sweepCron string, grace time.Duration) error {
	if _, err := s.Cron.AddFunc(sweepCron, func() {
		if n := s.Collector.SweepCaches(grace); n > 0 {
			log.Printf("[INFO] cache sweep evicted %d entries", n)
		}
	}); err != nil {
		return fmt.Errorf("register cache sweep: %w", err)
	}
	return nil
}

// Start launches the refresh loop and the cron janitor. The first cycle
// runs immediately.
func (s *Scheduler) Start() {
	s.Cron.Start()
	go s.loop()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron janitor and waits for the refresh loop to exit.
// The context passed to NewScheduler must already be cancelled.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	<-s.done
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) loop() {
	defer close(s.done)
	for {
		s.RunCycleNow()

		interval := time.Duration(s.Settings.Snapshot().RefreshSec) * time.Second
		select {
		case <-s.Ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// RunCycleNow executes one refresh cycle synchronously and returns its
// snapshot (also retained as the latest and handed to the publisher).
func (s *Scheduler) RunCycleNow() *model.RefreshSnapshot {
	s.setState(StateRefreshing)
	defer s.setState(StateIdle)

	start := time.Now()
	st := s.Settings.Snapshot()
	mode := model.ParseChartMode(st.ChartMode)
	symbols := watchlist.Parse(st.WatchlistInput)

	snap := &model.RefreshSnapshot{At: start, Mode: mode}
	if len(symbols) == 0 {
		snap.Warning = "watchlist is empty: enter at least one valid ticker"
		snap.Elapsed = time.Since(start)
		log.Printf("[WARN] %s", snap.Warning)
		s.finishCycle(snap)
		return snap
	}

	// Sequential per ticker; the caches dedupe against concurrent API reads.
	stats := make([]model.TickerStats, 0, len(symbols))
	for _, sym := range symbols {
		stats = append(stats, s.Collector.Stats(sym, mode))
	}
	snap.Stats = stats
	snap.Elapsed = time.Since(start)
	log.Printf("[INFO] refresh cycle done: %d tickers, mode=%s, took %v", len(stats), mode, snap.Elapsed)

	quotes := make([]recorder.QuoteRecord, len(stats))
	for i, ts := range stats {
		quotes[i] = recorder.QuoteRecord{Stats: ts}
	}
	if err := s.Recorder.RecordQuotes(quotes); err != nil {
		log.Printf("[ERROR] record quotes: %v", err)
	}

	s.finishCycle(snap)
	return snap
}

func (s *Scheduler) finishCycle(snap *model.RefreshSnapshot) {
	if err := s.Recorder.RecordCycle(&recorder.CycleRecord{
		DurationMS: snap.Elapsed.Milliseconds(),
		Tickers:    len(snap.Stats),
		Mode:       string(snap.Mode),
		Warning:    snap.Warning,
	}); err != nil {
		log.Printf("[ERROR] record cycle: %v", err)
	}

	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()

	if s.Publish != nil {
		s.Publish(snap)
	}
}

// CurrentState returns the loop state for the status API.
func (s *Scheduler) CurrentState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LastSnapshot returns the most recent completed snapshot, or nil before
// the first cycle finishes.
func (s *Scheduler) LastSnapshot() *model.RefreshSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Scheduler) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
