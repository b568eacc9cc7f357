package chart

import (
	"bytes"
	"testing"
	"time"

	"StockDash/internal/model"
)

func sampleSeries(n int) model.HistorySeries {
	base := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := range bars {
		p := 100 + float64(i)*0.25
		bars[i] = model.Bar{
			Time:   base.Add(time.Duration(i) * time.Minute),
			Open:   p - 0.1,
			High:   p + 0.2,
			Low:    p - 0.2,
			Close:  p,
			Volume: float64(1000 + i*10),
		}
	}
	return model.HistorySeries{Symbol: "AAPL", Range: "1d", Interval: "1m", Bars: bars}
}

func TestPricePNG(t *testing.T) {
	img, err := PricePNG(sampleSeries(30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Error("expected PNG output")
	}
}

func TestPricePNG_SkipsUnavailableCloses(t *testing.T) {
	series := sampleSeries(10)
	series.Bars[3].Close = model.Unavailable()
	if _, err := PricePNG(series); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPricePNG_EmptySeries(t *testing.T) {
	if _, err := PricePNG(model.HistorySeries{Symbol: "ZZZZ"}); err == nil {
		t.Error("expected error for empty series")
	}
}

func TestVolumePNG(t *testing.T) {
	img, err := VolumePNG(sampleSeries(30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Error("expected PNG output")
	}
}

func TestVolumePNG_NoVolume(t *testing.T) {
	series := sampleSeries(5)
	for i := range series.Bars {
		series.Bars[i].Volume = model.Unavailable()
	}
	if _, err := VolumePNG(series); err == nil {
		t.Error("expected error when no bar carries volume")
	}
}
