package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"portfoliotracker/internal/quote"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	// The chart endpoint rejects requests with empty or default user agents.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	upstreamName = "Yahoo Finance"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yahoo_test -destination=mock_http_client_test.go -source=yahoo.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches quotes from the Yahoo Finance v8 chart API.
type Client struct {
	// baseURL is the base URL for the chart API.
	baseURL string
	// httpClient performs the outbound requests.
	httpClient HTTPClient
	// userAgent is sent with every chart request.
	userAgent string
}

// Option is a configuration option for the chart API client.
type Option func(*Client)

// WithBaseURL sets the base URL for the chart API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client used for chart requests.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// New creates a chart API client.
func New(options ...Option) *Client {
	var client = &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		userAgent:  defaultUserAgent,
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// Name reports the upstream's display name.
func (c *Client) Name() string { return upstreamName }

// Normalize maps a user-supplied ticker to the identifier the chart API
// expects: bare BIST tickers get the ".IS" exchange suffix, tickers that
// already carry a suffix pass through verbatim.
func Normalize(symbol string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + ".IS"
}

// chartResponse models the subset of the chart envelope we read. Optional
// fields are pointers so absence decodes deterministically instead of being
// discovered by walking untyped maps.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta chartMeta `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

type chartMeta struct {
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	ChartPreviousClose *float64 `json:"chartPreviousClose"`
	PreviousClose      *float64 `json:"previousClose"`
	Currency           string   `json:"currency"`
	ShortName          string   `json:"shortName"`
}

// Fetch resolves one ticker through the chart endpoint, requesting one day
// of 1-day-interval data. The returned Quote keeps the caller's original,
// unnormalized symbol.
func (c *Client) Fetch(ctx context.Context, symbol string) (quote.Quote, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(Normalize(symbol)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return quote.Quote{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return quote.Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return quote.Quote{}, &quote.UpstreamError{Upstream: upstreamName, Code: resp.StatusCode}
	}

	var body chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return quote.Quote{}, fmt.Errorf("decode: %w", err)
	}

	// An absent or empty result array is an empty meta, not a failure.
	var meta chartMeta
	if len(body.Chart.Result) > 0 {
		meta = body.Chart.Result[0].Meta
	}
	if meta.RegularMarketPrice == nil {
		return quote.Quote{}, &quote.NotFoundError{Symbol: symbol}
	}

	previousClose := meta.ChartPreviousClose
	if previousClose == nil {
		previousClose = meta.PreviousClose
	}
	currency := meta.Currency
	if currency == "" {
		currency = "TRY"
	}
	name := meta.ShortName
	if name == "" {
		name = symbol
	}

	return quote.Quote{
		Symbol:        symbol,
		Price:         *meta.RegularMarketPrice,
		PreviousClose: previousClose,
		Currency:      currency,
		Name:          name,
	}, nil
}
