// Package market is the CoinGecko client. All calls share one HTTP
// client with a per-attempt timeout and a bounded retry budget; rate
// limits and timeouts are the only retryable failures.
package market

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigFastest

var (
	// ErrUnavailable means the provider could not be reached within the
	// retry budget. Callers should tell the user to try again later.
	ErrUnavailable = errors.New("market data unavailable")

	// ErrNotFound means the provider answered but the identifier does
	// not exist. Not retryable.
	ErrNotFound = errors.New("coin not found")
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"

	maxSearchResults = 5
	gainersPool      = 50
	gainersTop       = 5
)

// Snapshot is a point-in-time price record for one coin. Fields the
// provider omits stay zero; formatting tolerates that.
type Snapshot struct {
	USD       float64
	Local     float64
	Change24h float64
	MarketCap float64
	Volume24h float64
}

// Coin is one entry of a /coins/markets listing.
type Coin struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"current_price"`
	MarketCap float64 `json:"market_cap"`
	Change24h float64 `json:"price_change_percentage_24h"`
	Change1h  float64 `json:"price_change_percentage_1h_in_currency"`
}

// SearchResult is one hit of a free-text coin search.
type SearchResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL       string
	LocalCurrency string        // secondary quote currency, e.g. "try"
	Timeout       time.Duration // per attempt
	Retries       int
}

// Client talks to the CoinGecko API.
type Client struct {
	base    string
	local   string
	retries int
	http    *http.Client

	sleep func(time.Duration) // swapped out in tests
}

// New returns a client with the configured timeout and retry budget.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.LocalCurrency == "" {
		opts.LocalCurrency = "try"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retries == 0 {
		opts.Retries = 3
	}
	return &Client{
		base:    opts.BaseURL,
		local:   opts.LocalCurrency,
		retries: opts.Retries,
		http:    &http.Client{Timeout: opts.Timeout},
		sleep:   time.Sleep,
	}
}

// LocalCurrency returns the configured secondary quote currency.
func (c *Client) LocalCurrency() string {
	return c.local
}

// get fetches path and decodes the JSON response into v.
// 429 backs off 2^attempt seconds, a timeout backs off one second,
// anything else fails immediately.
func (c *Client) get(ctx context.Context, path string, params url.Values, v interface{}) error {
	u := c.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	for attempt := 0; attempt < c.retries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if isTimeout(err) {
				logrus.WithField("path", path).Warnf("request timeout on attempt %d", attempt+1)
				c.sleep(time.Second)
				continue
			}
			logrus.WithField("path", path).WithError(err).Warn("request failed")
			return ErrUnavailable
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			wait := time.Duration(1<<attempt) * time.Second
			logrus.WithField("path", path).Warnf("rate limited, backing off %s", wait)
			c.sleep(wait)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			logrus.WithFields(logrus.Fields{"path": path, "status": resp.StatusCode}).Warn("request failed")
			return ErrUnavailable
		}

		err = json.NewDecoder(resp.Body).Decode(v)
		resp.Body.Close()
		if err != nil {
			logrus.WithField("path", path).WithError(err).Warn("bad response body")
			return ErrUnavailable
		}
		return nil
	}

	return ErrUnavailable
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// Snapshot fetches the current quote for one coin in USD and the local
// currency, with 24h change, market cap and volume.
func (c *Client) Snapshot(ctx context.Context, id string) (*Snapshot, error) {
	params := url.Values{
		"ids":                 {id},
		"vs_currencies":       {"usd," + c.local},
		"include_24hr_change": {"true"},
		"include_market_cap":  {"true"},
		"include_24hr_vol":    {"true"},
	}

	var out map[string]map[string]float64
	if err := c.get(ctx, "/simple/price", params, &out); err != nil {
		return nil, err
	}

	data, ok := out[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &Snapshot{
		USD:       data["usd"],
		Local:     data[c.local],
		Change24h: data["usd_24h_change"],
		MarketCap: data["usd_market_cap"],
		Volume24h: data["usd_24h_vol"],
	}, nil
}

// Markets fetches the top coins by market cap descending. window
// optionally requests an extra change percentage column, e.g. "1h".
func (c *Client) Markets(ctx context.Context, limit int, window string) ([]Coin, error) {
	params := url.Values{
		"vs_currency": {"usd"},
		"order":       {"market_cap_desc"},
		"per_page":    {strconv.Itoa(limit)},
		"page":        {"1"},
		"sparkline":   {"false"},
	}
	if window != "" {
		params.Set("price_change_percentage", window)
	}

	var out []Coin
	if err := c.get(ctx, "/coins/markets", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search runs a free-text coin search, returning at most five hits.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var out struct {
		Coins []SearchResult `json:"coins"`
	}
	if err := c.get(ctx, "/search", url.Values{"query": {query}}, &out); err != nil {
		return nil, err
	}
	if len(out.Coins) > maxSearchResults {
		out.Coins = out.Coins[:maxSearchResults]
	}
	return out.Coins, nil
}

// TopGainers fetches the top 50 coins by market cap and reorders them
// client-side by 1h change descending, keeping the best five. The 1h
// column is only present when requested via the window parameter.
func (c *Client) TopGainers(ctx context.Context) ([]Coin, error) {
	coins, err := c.Markets(ctx, gainersPool, "1h")
	if err != nil {
		return nil, err
	}

	sort.SliceStable(coins, func(i, j int) bool {
		return coins[i].Change1h > coins[j].Change1h
	})
	if len(coins) > gainersTop {
		coins = coins[:gainersTop]
	}
	return coins, nil
}
