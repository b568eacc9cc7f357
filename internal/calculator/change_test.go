package calculator

import (
	"testing"
	"time"

	"StockDash/internal/model"
)

func TestChangePercent(t *testing.T) {
	tests := []struct {
		name string
		curr float64
		prev float64
		want float64
	}{
		{"up ten percent", 110, 100, 10.0},
		{"down", 90, 100, -10.0},
		{"flat", 100, 100, 0},
		{"negative base", 50, -100, -150},
	}
	for _, tt := range tests {
		got := ChangePercent(tt.curr, tt.prev)
		if got != tt.want {
			t.Errorf("%s: ChangePercent(%v, %v) = %v, want %v", tt.name, tt.curr, tt.prev, got, tt.want)
		}
	}
}

func TestChangePercent_Undefined(t *testing.T) {
	cases := []struct {
		name string
		curr float64
		prev float64
	}{
		{"zero base", 90, 0},
		{"curr unavailable", model.Unavailable(), 100},
		{"prev unavailable", 110, model.Unavailable()},
		{"both unavailable", model.Unavailable(), model.Unavailable()},
	}
	for _, tt := range cases {
		if got := ChangePercent(tt.curr, tt.prev); model.Available(got) {
			t.Errorf("%s: expected unavailable result, got %v", tt.name, got)
		}
	}
}

func TestChange(t *testing.T) {
	if got := Change(110, 100); got != 10 {
		t.Errorf("Change(110, 100) = %v, want 10", got)
	}
	if got := Change(model.Unavailable(), 100); model.Available(got) {
		t.Errorf("expected unavailable result, got %v", got)
	}
	if got := Change(110, model.Unavailable()); model.Available(got) {
		t.Errorf("expected unavailable result, got %v", got)
	}
}

func TestSessionRange(t *testing.T) {
	now := time.Now()
	bars := []model.Bar{
		{Time: now, High: 102, Low: 99},
		{Time: now.Add(time.Minute), High: model.Unavailable(), Low: model.Unavailable()},
		{Time: now.Add(2 * time.Minute), High: 105, Low: 101},
		{Time: now.Add(3 * time.Minute), High: 103, Low: 98},
	}
	high, low, err := SessionRange(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 105 || low != 98 {
		t.Errorf("expected range 105/98, got %v/%v", high, low)
	}
}

func TestSessionRange_NoBars(t *testing.T) {
	if _, _, err := SessionRange(nil); err == nil {
		t.Error("expected error for empty input")
	}
	onlyGaps := []model.Bar{{High: model.Unavailable(), Low: model.Unavailable()}}
	if _, _, err := SessionRange(onlyGaps); err == nil {
		t.Error("expected error when no bar has usable extremes")
	}
}

func TestTotalVolume(t *testing.T) {
	bars := []model.Bar{
		{Volume: 1000},
		{Volume: model.Unavailable()},
		{Volume: 2500},
	}
	if got := TotalVolume(bars); got != 3500 {
		t.Errorf("TotalVolume = %v, want 3500", got)
	}
}
