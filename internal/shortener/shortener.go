// Package shortener wraps the short.io link shortening API.
// Shortening is cosmetic: every failure path hands back the original
// URL so a dead shortener never breaks a digest.
package shortener

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"newsdigest/internal/retry"
)

const shortioEndpoint = "https://api.short.io/links"

// Client shortens URLs through a short.io custom domain.
// A client with no API key is a valid disabled client: Shorten becomes
// an identity function.
type Client struct {
	apiKey   string
	domain   string
	endpoint string
	http     *http.Client
	pause    time.Duration // pacing between calls, third-party rate limit
}

func NewClient(apiKey, domain string, timeout, pause time.Duration) *Client {
	return &Client{
		apiKey:   apiKey,
		domain:   domain,
		endpoint: shortioEndpoint,
		http:     &http.Client{Timeout: timeout},
		pause:    pause,
	}
}

// Shorten returns a shortened URL, or the input unchanged when the
// shortener is disabled, the URL is already short (<30 chars), or the
// API fails after two attempts.
func (c *Client) Shorten(ctx context.Context, longURL string) string {
	if longURL == "" || len(longURL) < 30 {
		return longURL
	}
	if c == nil || c.apiKey == "" {
		return longURL
	}

	if c.pause > 0 {
		time.Sleep(c.pause)
	}

	var short string
	err := retry.WithRetry(ctx, retry.Config{MaxAttempts: 2, Delay: time.Second}, func() error {
		s, err := c.shortenOnce(ctx, longURL)
		if err != nil {
			return err
		}
		short = s
		return nil
	})
	if err != nil {
		slog.Warn("link shortening failed, using original", "error", err)
		return longURL
	}

	slog.Debug("shortened URL", "from", longURL, "to", short)
	return short
}

func (c *Client) shortenOnce(ctx context.Context, longURL string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"originalURL": longURL,
		"domain":      c.domain,
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("short.io request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("short.io error %s: %s", resp.Status, snippet)
	}

	var parsed struct {
		ShortURL string `json:"shortURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode short.io response: %w", err)
	}
	if parsed.ShortURL == "" {
		return "", fmt.Errorf("short.io returned empty shortURL")
	}
	return parsed.ShortURL, nil
}
