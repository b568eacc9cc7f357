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

// YahooFetcher implements Fetcher using Yahoo Finance public chart API.
type YahooFetcher struct {
	Client    *http.Client
	Location  *time.Location
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher. All history
// timestamps are normalized into loc.
func NewYahooFetcher(proxyURL string, loc *time.Location) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
		Location: loc,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
// Price arrays are nullable: Yahoo pads gaps with JSON null.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string   `json:"currency"`
				ExchangeName       string   `json:"exchangeName"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func optFloat(v *float64) float64 {
	if v == nil {
		return model.Unavailable()
	}
	return *v
}

func optVolume(v *int64) float64 {
	if v == nil {
		return model.Unavailable()
	}
	return float64(*v)
}

func (f *YahooFetcher) fetchChart(symbol, interval, rng string) (*yahooChart, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=%s&range=%s",
		url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	return &chart, nil
}

// FetchHistory retrieves an intraday OHLCV window. Epoch timestamps carry no
// zone and are taken as UTC instants, then converted into the configured
// exchange timezone. An empty result set is a legitimate "no data" state and
// returns an empty series rather than an error.
func (f *YahooFetcher) FetchHistory(symbol, rng, interval string) (model.HistorySeries, error) {
	series := model.HistorySeries{
		Symbol:    symbol,
		Range:     rng,
		Interval:  interval,
		FetchedAt: time.Now(),
	}

	chart, err := f.fetchChart(symbol, interval, rng)
	if err != nil {
		return series, err
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return series, nil
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return series, nil
	}
	quote := result.Indicators.Quote[0]

	at := func(arr []*float64, i int) float64 {
		if i >= len(arr) {
			return model.Unavailable()
		}
		return optFloat(arr[i])
	}

	bars := make([]model.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if !model.Available(o) && !model.Available(h) && !model.Available(l) && !model.Available(c) {
			continue // skip null bars (halts, holidays)
		}
		vol := model.Unavailable()
		if i < len(quote.Volume) {
			vol = optVolume(quote.Volume[i])
		}
		bars = append(bars, model.Bar{
			Time:   time.Unix(ts, 0).UTC().In(f.Location),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: vol,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	series.Bars = bars
	return series, nil
}

// FetchQuote builds a quote from the one-day chart: last price and previous
// close come from the chart meta, the session open from the first bar.
// Fields missing upstream stay individually unavailable.
func (f *YahooFetcher) FetchQuote(symbol string) (model.Quote, error) {
	chart, err := f.fetchChart(symbol, "1d", "1d")
	if err != nil {
		return model.Quote{}, err
	}

	q := model.EmptyQuote(symbol)
	if len(chart.Chart.Result) == 0 {
		return q, nil
	}
	result := chart.Chart.Result[0]
	q.LastPrice = optFloat(result.Meta.RegularMarketPrice)
	q.PrevClose = optFloat(result.Meta.ChartPreviousClose)
	q.Currency = result.Meta.Currency
	q.Exchange = result.Meta.ExchangeName

	if len(result.Indicators.Quote) > 0 {
		for _, o := range result.Indicators.Quote[0].Open {
			if o != nil {
				q.Open = *o
				break
			}
		}
	}
	return q, nil
}
