// Package render turns categorized news buckets into the digest text
// body and slices oversized bodies into transport-sized chunks.
package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsdigest/internal/news"
)

// IST is the fixed display timezone for digest headers and artifact
// names. A fixed offset avoids a tzdata dependency on minimal images.
var IST = time.FixedZone("IST", 5*3600+30*60)

// LinkShortener is the optional link-shortening collaborator.
// Implementations must be pass-through on failure.
type LinkShortener interface {
	Shorten(ctx context.Context, longURL string) string
}

// Renderer composes the digest message body.
type Renderer struct {
	Title         string // digest headline, e.g. "Market Digest"
	MaxLen        int    // hard cap on the rendered body, in bytes
	MaxPerSection int    // per-category item cap
	Shortener     LinkShortener // nil disables shortening
	Now           func() time.Time
}

// Build renders the header plus one section per non-empty category, in
// the given category order. If the assembled text exceeds MaxLen it is
// truncated at exactly MaxLen bytes; the cut may land mid-word or
// mid-link. That is the documented contract, not an accident.
func (r *Renderer) Build(ctx context.Context, buckets map[string][]news.Item, order []string) string {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s\n\n", r.Title, now.In(IST).Format("02 Jan 2006"))

	sections := 0
	for _, category := range order {
		items := buckets[category]
		if len(items) == 0 {
			continue
		}
		if r.MaxPerSection > 0 && len(items) > r.MaxPerSection {
			items = items[:r.MaxPerSection]
		}

		if sections > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "📌 %s\n\n", category)
		for _, it := range items {
			b.WriteString(r.formatItem(ctx, it))
		}
		sections++
	}

	text := b.String()
	if r.MaxLen > 0 && len(text) > r.MaxLen {
		text = text[:r.MaxLen]
	}
	return text
}

// formatItem renders one bullet line. Items whose cleaned title is
// empty render as nothing at all.
func (r *Renderer) formatItem(ctx context.Context, it news.Item) string {
	title := strings.TrimSpace(news.CleanText(it.Title))
	if title == "" {
		return ""
	}

	link := it.Link
	if link != "" && r.Shortener != nil {
		link = r.Shortener.Shorten(ctx, link)
	}

	if link == "" {
		return fmt.Sprintf("• %s\n\n", title)
	}
	return fmt.Sprintf("• %s\n  %s\n\n", title, link)
}

// Chunk splits a body into ordered transport-sized pieces. Each chunk
// greedily consumes up to limit bytes; when more text remains, the cut
// prefers the nearest newline before the hard limit, as long as it is
// more than 50 bytes past the chunk start. The boundary newline itself
// is dropped.
func Chunk(s string, limit int) []string {
	if limit <= 0 || len(s) <= limit {
		return []string{s}
	}

	var chunks []string
	start := 0
	for start < len(s) {
		end := start + limit
		if end >= len(s) {
			chunks = append(chunks, s[start:])
			break
		}

		cut := end
		dropNewline := false
		if nl := strings.LastIndex(s[start:end], "\n"); nl > 50 {
			cut = start + nl
			dropNewline = true
		}

		chunks = append(chunks, s[start:cut])
		start = cut
		if dropNewline {
			start++
		}
	}
	return chunks
}
