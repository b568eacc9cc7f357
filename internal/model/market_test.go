package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestQuoteMarshal_UnavailableFieldsAreNull(t *testing.T) {
	q := EmptyQuote("AAPL")
	q.FetchedAt = time.Date(2026, 3, 2, 15, 4, 0, 0, time.UTC)

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal empty quote: %v", err)
	}
	out := string(data)
	for _, field := range []string{`"last_price":null`, `"open":null`, `"prev_close":null`} {
		if !strings.Contains(out, field) {
			t.Errorf("expected %s in %s", field, out)
		}
	}
}

func TestQuoteMarshal_AvailableFields(t *testing.T) {
	q := Quote{Symbol: "MSFT", LastPrice: 430.5, Open: 428, PrevClose: 425, Currency: "USD"}
	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal quote: %v", err)
	}
	if !strings.Contains(string(data), `"last_price":430.5`) {
		t.Errorf("expected numeric last_price, got %s", data)
	}
}

func TestChartModeWindow(t *testing.T) {
	if rng, itv := ModeLine.Window(); rng != "1d" || itv != "1m" {
		t.Errorf("line window = %s/%s", rng, itv)
	}
	if rng, itv := ModeCandlestick.Window(); rng != "5d" || itv != "5m" {
		t.Errorf("candlestick window = %s/%s", rng, itv)
	}
	if ParseChartMode("bogus") != ModeLine {
		t.Error("unknown mode should fall back to line")
	}
}
