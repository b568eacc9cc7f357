package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockDash/internal/collector"
	"StockDash/internal/model"
	"StockDash/internal/recorder"
	"StockDash/internal/scheduler"
	"StockDash/internal/settings"
)

func newTestServer(t *testing.T) (*Server, *scheduler.Scheduler) {
	t.Helper()
	set, err := settings.NewManager("", model.Settings{
		WatchlistInput: "AAPL,MSFT",
		RefreshSec:     10,
		ChartMode:      string(model.ModeLine),
	})
	if err != nil {
		t.Fatalf("settings manager: %v", err)
	}
	col := collector.NewCollector(&collector.MockFetcher{}, 15*time.Second, 30*time.Second, nil)
	sched := scheduler.NewScheduler(context.Background(), col, set, recorder.NewNoopRecorder(), nil)
	return New(context.Background(), sched, col, set, NewHub()), sched
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	if w := doRequest(t, s, "GET", "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestGetDashboard_BeforeFirstCycle(t *testing.T) {
	s, _ := newTestServer(t)
	if w := doRequest(t, s, "GET", "/api/dashboard", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before the first cycle, got %d", w.Code)
	}
}

func TestGetDashboard(t *testing.T) {
	s, sched := newTestServer(t)
	sched.RunCycleNow()

	w := doRequest(t, s, "GET", "/api/dashboard", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Stats []json.RawMessage `json:"stats"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.Stats) != 2 {
		t.Errorf("expected 2 stats rows, got %d", len(resp.Data.Stats))
	}
}

func TestGetQuote(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "GET", "/api/quotes/aapl", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Data struct {
			Quote struct {
				Symbol    string   `json:"symbol"`
				LastPrice *float64 `json:"last_price"`
			} `json:"quote"`
			ChangePct *float64 `json:"change_pct"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Quote.Symbol != "AAPL" {
		t.Errorf("expected symbol normalized to AAPL, got %q", resp.Data.Quote.Symbol)
	}
	if resp.Data.Quote.LastPrice == nil || resp.Data.ChangePct == nil {
		t.Error("expected available quote fields from mock fetcher")
	}
}

func TestGetHistory(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "GET", "/api/history/AAPL?mode=candlestick", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Data struct {
			Range    string            `json:"range"`
			Interval string            `json:"interval"`
			Bars     []json.RawMessage `json:"bars"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Range != "5d" || resp.Data.Interval != "5m" {
		t.Errorf("candlestick mode should map to 5d/5m, got %s/%s", resp.Data.Range, resp.Data.Interval)
	}
	if len(resp.Data.Bars) == 0 {
		t.Error("expected bars from mock fetcher")
	}
}

func TestGetChart(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "GET", "/api/chart/AAPL", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
}

func TestPutSettings(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "PUT", "/api/settings",
		`{"watchlist": "nvda, amd", "refresh_sec": 30, "chart_mode": "candlestick"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	st := s.settings.Snapshot()
	if st.WatchlistInput != "nvda, amd" || st.RefreshSec != 30 || st.ChartMode != "candlestick" {
		t.Errorf("settings not applied: %+v", st)
	}
}

func TestPutSettings_Invalid(t *testing.T) {
	s, _ := newTestServer(t)
	cases := []string{
		`{"refresh_sec": 2}`,
		`{"refresh_sec": 600}`,
		`{"chart_mode": "pie"}`,
		`not json`,
	}
	for _, body := range cases {
		if w := doRequest(t, s, "PUT", "/api/settings", body); w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestGetStatus(t *testing.T) {
	s, sched := newTestServer(t)
	sched.RunCycleNow()

	w := doRequest(t, s, "GET", "/api/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["state"] != string(scheduler.StateIdle) {
		t.Errorf("expected idle state, got %v", resp["state"])
	}
	if resp["source"] != "mock" {
		t.Errorf("expected mock source, got %v", resp["source"])
	}
	if _, ok := resp["last_refresh"]; !ok {
		t.Error("expected last_refresh after a completed cycle")
	}
}
