package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"newsdigest/internal/metrics"
	"newsdigest/internal/news"
)

// Fetcher downloads and parses RSS/Atom feeds. A fetch failure for one
// URL degrades to an empty contribution from that source; it never
// fails the run.
type Fetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewFetcher builds a fetcher with a per-request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		parser:  gofeed.NewParser(),
		timeout: timeout,
	}
}

// Fetch returns up to limit items from one feed URL. Missing fields
// default to empty strings; errors are logged and yield an empty list.
func (f *Fetcher) Fetch(ctx context.Context, url string, limit int) []news.Item {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		slog.Warn("rss fetch failed", "url", url, "error", err)
		metrics.Global.IncrementFeedsFailed()
		return nil
	}

	entries := parsed.Items
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	items := make([]news.Item, 0, len(entries))
	for _, e := range entries {
		summary := e.Description
		if summary == "" {
			summary = e.Content
		}
		it := news.Item{
			Title:   e.Title,
			Link:    e.Link,
			Summary: summary,
		}
		if e.PublishedParsed != nil {
			it.Published = *e.PublishedParsed
		}
		items = append(items, it)
	}

	slog.Info("fetched rss feed", "url", url, "items", len(items))
	return items
}
