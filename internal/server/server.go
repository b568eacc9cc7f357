package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"StockDash/internal/chart"
	"StockDash/internal/collector"
	"StockDash/internal/model"
	"StockDash/internal/scheduler"
	"StockDash/internal/settings"
	"StockDash/internal/watchlist"
)

// Server exposes the dashboard API consumed by the presentation layer.
// All reads go through the collector's caches, so a dead upstream degrades
// to last-known-good data instead of request failures.
type Server struct {
	engine    *gin.Engine
	scheduler *scheduler.Scheduler
	collector *collector.Collector
	settings  *settings.Manager
	hub       *Hub
	ctx       context.Context
}

// New creates a Server and registers all routes.
func New(ctx context.Context, sched *scheduler.Scheduler, col *collector.Collector, set *settings.Manager, hub *Hub) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine:    gin.New(),
		scheduler: sched,
		collector: col,
		settings:  set,
		hub:       hub,
		ctx:       ctx,
	}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	s.engine.GET("/ws", s.handleWS)

	api := s.engine.Group("/api")
	{
		api.GET("/dashboard", s.getDashboard)
		api.GET("/quotes/:symbol", s.getQuote)
		api.GET("/history/:symbol", s.getHistory)
		api.GET("/chart/:symbol", s.getChart)
		api.GET("/chart/:symbol/volume", s.getVolumeChart)
		api.GET("/status", s.getStatus)
		api.GET("/settings", s.getSettings)
		api.PUT("/settings", s.putSettings)
	}
	return s
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

// getDashboard returns the latest completed refresh snapshot.
// GET /api/dashboard
func (s *Server) getDashboard(c *gin.Context) {
	snap := s.scheduler.LastSnapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "first refresh cycle not finished yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// getQuote returns stats for a single symbol, serving the cache and
// fetching only when the entry expired.
// GET /api/quotes/:symbol
func (s *Server) getQuote(c *gin.Context) {
	symbol := normalizeSymbol(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}
	mode := model.ParseChartMode(c.DefaultQuery("mode", s.settings.Snapshot().ChartMode))
	c.JSON(http.StatusOK, gin.H{"data": s.collector.Stats(symbol, mode)})
}

// getHistory returns the bar window for a symbol.
// GET /api/history/:symbol?mode=line|candlestick
func (s *Server) getHistory(c *gin.Context) {
	symbol := normalizeSymbol(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}
	mode := model.ParseChartMode(c.DefaultQuery("mode", s.settings.Snapshot().ChartMode))
	c.JSON(http.StatusOK, gin.H{"data": s.collector.HistoryFor(symbol, mode)})
}

// getChart renders the price chart as PNG.
// GET /api/chart/:symbol?mode=line|candlestick
func (s *Server) getChart(c *gin.Context) {
	symbol := normalizeSymbol(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}
	mode := model.ParseChartMode(c.DefaultQuery("mode", s.settings.Snapshot().ChartMode))
	series := s.collector.HistoryFor(symbol, mode)
	img, err := chart.PricePNG(series)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no chart data (market closed or invalid ticker)"})
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

// getVolumeChart renders the volume bars as PNG.
// GET /api/chart/:symbol/volume
func (s *Server) getVolumeChart(c *gin.Context) {
	symbol := normalizeSymbol(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}
	mode := model.ParseChartMode(c.DefaultQuery("mode", s.settings.Snapshot().ChartMode))
	series := s.collector.HistoryFor(symbol, mode)
	img, err := chart.VolumePNG(series)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no volume data"})
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

// getStatus reports the scheduler state for the presentation layer.
// GET /api/status
func (s *Server) getStatus(c *gin.Context) {
	resp := gin.H{
		"state":      s.scheduler.CurrentState(),
		"ws_clients": s.hub.ClientCount(),
		"source":     s.collector.Fetcher.Name(),
	}
	if snap := s.scheduler.LastSnapshot(); snap != nil {
		resp["last_refresh"] = snap.At
		resp["last_elapsed_ms"] = snap.Elapsed.Milliseconds()
		if snap.Warning != "" {
			resp["warning"] = snap.Warning
		}
	}
	c.JSON(http.StatusOK, resp)
}

// getSettings returns the current user controls.
// GET /api/settings
func (s *Server) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.settings.Snapshot()})
}

// putSettings updates watchlist input, refresh interval, or chart mode.
// Fields omitted from the body stay unchanged.
// PUT /api/settings
func (s *Server) putSettings(c *gin.Context) {
	var req struct {
		Watchlist  *string `json:"watchlist"`
		RefreshSec *int    `json:"refresh_sec"`
		ChartMode  *string `json:"chart_mode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.RefreshSec != nil {
		if err := s.settings.SetRefresh(*req.RefreshSec); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.ChartMode != nil {
		if err := s.settings.SetChartMode(*req.ChartMode); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Watchlist != nil {
		s.settings.SetWatchlist(*req.Watchlist)
	}
	c.JSON(http.StatusOK, gin.H{"data": s.settings.Snapshot()})
}

func (s *Server) handleWS(c *gin.Context) {
	s.hub.Serve(s.ctx, c.Writer, c.Request)
}

// normalizeSymbol applies the watchlist parsing rules to a single symbol.
func normalizeSymbol(raw string) string {
	symbols := watchlist.Parse(raw)
	if len(symbols) == 0 {
		return ""
	}
	return symbols[0]
}
