package model

// ChartMode selects which history window the dashboard displays.
type ChartMode string

const (
	ModeLine        ChartMode = "line"
	ModeCandlestick ChartMode = "candlestick"
)

// ParseChartMode maps user input to a mode, falling back to line.
func ParseChartMode(s string) ChartMode {
	if ChartMode(s) == ModeCandlestick {
		return ModeCandlestick
	}
	return ModeLine
}

// ValidChartMode reports whether s names a known mode.
func ValidChartMode(s string) bool {
	m := ChartMode(s)
	return m == ModeLine || m == ModeCandlestick
}

// Window returns the (range, interval) pair the mode fetches.
// Line shows one day of 1-minute bars, candlestick five days of 5-minute bars.
func (m ChartMode) Window() (rng, interval string) {
	if m == ModeCandlestick {
		return "5d", "5m"
	}
	return "1d", "1m"
}
