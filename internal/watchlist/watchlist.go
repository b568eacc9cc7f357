package watchlist

import "strings"

// Parse converts comma-separated user input into an ordered list of unique,
// upper-cased ticker symbols. Empty entries are discarded and duplicates
// collapse to their first occurrence. An empty result is a valid warning
// state for the caller, not an error.
func Parse(input string) []string {
	parts := strings.Split(input, ",")
	symbols := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		s := strings.ToUpper(strings.TrimSpace(p))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, s)
	}
	return symbols
}
