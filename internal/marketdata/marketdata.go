package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Response is the envelope returned by exchange JSON endpoints:
// a "data" list of loosely-typed records. Anything that is not JSON,
// or any transport error, degrades to an empty Response.
type Response struct {
	Data []map[string]any `json:"data"`
}

// Client talks to market-data JSON endpoints that gate their API
// behind a session cookie: a preliminary GET against the site root
// acquires cookies before the real request is made.
type Client struct {
	http        *http.Client
	homepageURL string
	warmedUp    bool
}

// NewClient builds a client with a cookie jar and request timeout.
// homepageURL is the page visited once to establish the session;
// empty means no handshake is needed.
func NewClient(homepageURL string, timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		homepageURL: homepageURL,
	}
}

// FetchData fetches one endpoint and returns its data records.
// All failures are logged and return an empty Response, never an error:
// a dead market-data source contributes zero items to the run.
func (c *Client) FetchData(ctx context.Context, url string) Response {
	if c.homepageURL != "" && !c.warmedUp {
		if err := c.warmUp(ctx); err != nil {
			slog.Warn("market data session handshake failed", "url", c.homepageURL, "error", err)
			return Response{}
		}
		c.warmedUp = true
	}

	body, err := c.get(ctx, url, "application/json")
	if err != nil {
		slog.Warn("market data fetch failed", "url", url, "error", err)
		return Response{}
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		slog.Warn("market data response is not JSON", "url", url, "error", err)
		return Response{}
	}

	slog.Info("fetched market data", "url", url, "records", len(resp.Data))
	return resp
}

func (c *Client) warmUp(ctx context.Context) error {
	_, err := c.get(ctx, c.homepageURL, "text/html")
	return err
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", accept)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	buf, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return buf, nil
}
