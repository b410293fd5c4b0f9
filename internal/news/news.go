package news

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Item represents a single collected news item. Items are immutable
// once fetched; the pipeline owns the slice for the duration of one run.
type Item struct {
	Title     string
	Link      string
	Summary   string
	Published time.Time

	Category string
}

// Fingerprint returns the stable identity hash for an item:
// sha1 over title + "|" + link. Missing fields count as empty strings,
// so two items with no title and no link collide and only the first
// one survives deduplication.
func (it Item) Fingerprint() string {
	h := sha1.New()
	h.Write([]byte(it.Title + "|" + it.Link))
	return hex.EncodeToString(h.Sum(nil))
}

// Deduplicate filters out items whose fingerprint was already seen,
// preserving the original relative order. First occurrence wins.
func Deduplicate(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))

	for _, it := range items {
		fp := it.Fingerprint()
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, it)
	}
	return out
}

var reEntity = regexp.MustCompile(`&[a-zA-Z0-9#]+;`)

// CleanText strips HTML tags and entities from feed-supplied text and
// collapses runs of whitespace into single spaces.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}

	text := raw
	if strings.ContainsAny(raw, "<>") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
			text = doc.Text()
		}
	}
	text = reEntity.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// FilterRecent keeps items published within maxAge. Items without a
// known publish time pass through: absence of a timestamp is not a
// reason to drop breaking news.
func FilterRecent(items []Item, maxAge time.Duration, now time.Time) []Item {
	if maxAge <= 0 {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Published.IsZero() || now.Sub(it.Published) < maxAge {
			out = append(out, it)
		}
	}
	return out
}
