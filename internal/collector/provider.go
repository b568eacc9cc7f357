package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockDash/internal/model"
)

// ProviderFetcher implements Fetcher against a generic market-data REST API
// (self-hosted gateways exposing the same quote/bars shape).
type ProviderFetcher struct {
	BaseURL  string
	APIKey   string
	Client   *http.Client
	Location *time.Location
}

// NewProviderFetcher creates a new fetcher with optional proxy support.
func NewProviderFetcher(baseURL, apiKey, proxyURL string, loc *time.Location) *ProviderFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &ProviderFetcher{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Client:   &http.Client{Timeout: 10 * time.Second, Transport: transport},
		Location: loc,
	}
}

func (f *ProviderFetcher) Name() string { return "provider" }

// provBar is the expected JSON shape for one bar. Nullable fields mirror
// providers that pad gaps with null.
type provBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *int64   `json:"volume"`
}

type provQuote struct {
	LastPrice *float64 `json:"last_price"`
	Open      *float64 `json:"open"`
	PrevClose *float64 `json:"prev_close"`
	Currency  string   `json:"currency"`
	Exchange  string   `json:"exchange"`
}

func (f *ProviderFetcher) get(endpoint string, out any) error {
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("provider fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("provider: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("provider decode: %w", err)
	}
	return nil
}

func (f *ProviderFetcher) FetchQuote(symbol string) (model.Quote, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	var pq provQuote
	if err := f.get(endpoint, &pq); err != nil {
		return model.Quote{}, err
	}
	q := model.EmptyQuote(symbol)
	q.LastPrice = optFloat(pq.LastPrice)
	q.Open = optFloat(pq.Open)
	q.PrevClose = optFloat(pq.PrevClose)
	q.Currency = pq.Currency
	q.Exchange = pq.Exchange
	return q, nil
}

func (f *ProviderFetcher) FetchHistory(symbol, rng, interval string) (model.HistorySeries, error) {
	series := model.HistorySeries{
		Symbol:    symbol,
		Range:     rng,
		Interval:  interval,
		FetchedAt: time.Now(),
	}
	endpoint := fmt.Sprintf("%s/api/v1/bars?symbol=%s&range=%s&interval=%s",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(rng), url.QueryEscape(interval))
	var raw []provBar
	if err := f.get(endpoint, &raw); err != nil {
		return series, err
	}

	bars := make([]model.Bar, 0, len(raw))
	for _, rb := range raw {
		o, h, l, c := optFloat(rb.Open), optFloat(rb.High), optFloat(rb.Low), optFloat(rb.Close)
		if !model.Available(o) && !model.Available(h) && !model.Available(l) && !model.Available(c) {
			continue
		}
		bars = append(bars, model.Bar{
			Time:   time.Unix(rb.Timestamp, 0).UTC().In(f.Location),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: optVolume(rb.Volume),
		})
	}

	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	series.Bars = bars
	return series, nil
}
