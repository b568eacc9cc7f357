package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockDash/internal/collector"
	"StockDash/internal/config"
	"StockDash/internal/model"
	"StockDash/internal/recorder"
	"StockDash/internal/scheduler"
	"StockDash/internal/server"
	"StockDash/internal/settings"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockDash starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Market timezone for bar timestamps
	loc, err := time.LoadLocation(cfg.DataSource.Timezone)
	if err != nil {
		log.Printf("[WARN] load timezone %q failed, using fixed EST: %v", cfg.DataSource.Timezone, err)
		loc = time.FixedZone("EST", -5*3600)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewProviderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, loc)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy, loc)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init collector with TTL-bounded caches
	col := collector.NewCollector(fetcher,
		time.Duration(cfg.Cache.QuoteTTLSec)*time.Second,
		time.Duration(cfg.Cache.HistoryTTLSec)*time.Second,
		nil)

	// Init settings manager
	set, err := settings.NewManager(cfg.Watchlist.StateFile, model.Settings{
		WatchlistInput: cfg.Watchlist.Default,
		RefreshSec:     cfg.Refresh.IntervalSec,
		ChartMode:      cfg.Refresh.ChartMode,
	})
	if err != nil {
		log.Fatalf("[FATAL] init settings manager: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init WebSocket hub and scheduler
	hub := server.NewHub()
	sched := scheduler.NewScheduler(ctx, col, set, rec, hub.BroadcastSnapshot)
	grace := time.Duration(cfg.Cache.SweepGraceMin) * time.Minute
	if err := sched.RegisterJanitor(cfg.Cache.SweepCron, grace); err != nil {
		log.Fatalf("[FATAL] register cache janitor: %v", err)
	}
	sched.Start()

	// HTTP API
	srv := server.New(ctx, sched, col, set, hub)
	go func() {
		log.Printf("[INFO] HTTP server listening on %s", cfg.Server.ListenAddr)
		if err := srv.Run(cfg.Server.ListenAddr); err != nil {
			log.Fatalf("[FATAL] HTTP server: %v", err)
		}
	}()

	log.Println("[INFO] StockDash is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	sched.Stop()
	log.Println("[INFO] StockDash stopped")
}
