package model

import "time"

// Settings holds the user-facing dashboard controls.
type Settings struct {
	WatchlistInput string    `json:"watchlist_input"`
	RefreshSec     int       `json:"refresh_sec"`
	ChartMode      string    `json:"chart_mode"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Refresh interval bounds in seconds.
const (
	MinRefreshSec = 5
	MaxRefreshSec = 60
)
