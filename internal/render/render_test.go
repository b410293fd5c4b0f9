package render

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"newsdigest/internal/news"
)

func fixedNow() time.Time {
	return time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
}

func TestBuild_SectionsAndOrder(t *testing.T) {
	r := &Renderer{Title: "📰 Market Digest", Now: fixedNow}
	buckets := map[string][]news.Item{
		"Global Macro":    {{Title: "Fed holds rates", Link: "https://a.example/1"}},
		"Domestic Market": {{Title: "Nifty at record", Link: "https://b.example/2"}},
		"World Events":    {},
	}

	got := r.Build(context.Background(), buckets, []string{"Global Macro", "Domestic Market", "World Events"})

	if !strings.HasPrefix(got, "📰 Market Digest — 10 Feb 2026\n\n") {
		t.Errorf("header wrong: %q", got[:minInt(len(got), 60)])
	}
	if strings.Contains(got, "World Events") {
		t.Error("empty sections must be omitted")
	}
	macro := strings.Index(got, "📌 Global Macro")
	domestic := strings.Index(got, "📌 Domestic Market")
	if macro < 0 || domestic < 0 || macro > domestic {
		t.Errorf("section order wrong: macro=%d domestic=%d", macro, domestic)
	}
	if !strings.Contains(got, "• Fed holds rates\n  https://a.example/1\n\n") {
		t.Errorf("bullet format wrong:\n%s", got)
	}
}

func TestBuild_PerSectionCap(t *testing.T) {
	items := make([]news.Item, 8)
	for i := range items {
		items[i] = news.Item{Title: fmt.Sprintf("story %d", i)}
	}
	r := &Renderer{Title: "Digest", MaxPerSection: 5, Now: fixedNow}

	got := r.Build(context.Background(), map[string][]news.Item{"News": items}, []string{"News"})
	if n := strings.Count(got, "• "); n != 5 {
		t.Errorf("expected 5 bullets, got %d", n)
	}
}

func TestBuild_HardTruncationAtMaxLen(t *testing.T) {
	items := make([]news.Item, 20)
	for i := range items {
		items[i] = news.Item{Title: fmt.Sprintf("story %d", i), Link: "https://example.com/a/very/long/path/" + strings.Repeat("x", 40)}
	}
	r := &Renderer{Title: "Digest", MaxLen: 100, Now: fixedNow}

	got := r.Build(context.Background(), map[string][]news.Item{"News": items}, []string{"News"})
	if len(got) != 100 {
		t.Fatalf("body must be cut at exactly MaxLen bytes, got %d", len(got))
	}
}

func TestBuild_SkipsEmptyTitles(t *testing.T) {
	r := &Renderer{Title: "Digest", Now: fixedNow}
	buckets := map[string][]news.Item{
		"News": {
			{Title: "   ", Link: "https://a.example"},
			{Title: "real story"},
		},
	}

	got := r.Build(context.Background(), buckets, []string{"News"})
	if n := strings.Count(got, "• "); n != 1 {
		t.Errorf("blank titles must render as nothing, got %d bullets", n)
	}
	if !strings.Contains(got, "• real story\n\n") {
		t.Errorf("linkless item format wrong:\n%s", got)
	}
}

type staticShortener struct{ url string }

func (s staticShortener) Shorten(ctx context.Context, longURL string) string { return s.url }

func TestBuild_UsesShortener(t *testing.T) {
	r := &Renderer{Title: "Digest", Shortener: staticShortener{url: "https://sho.rt/ab"}, Now: fixedNow}
	buckets := map[string][]news.Item{
		"News": {{Title: "story", Link: "https://example.com/very/long/original/url"}},
	}

	got := r.Build(context.Background(), buckets, []string{"News"})
	if !strings.Contains(got, "https://sho.rt/ab") {
		t.Error("shortened link missing from body")
	}
	if strings.Contains(got, "original/url") {
		t.Error("original link should have been replaced")
	}
}

func TestChunk_ShortBodySingleChunk(t *testing.T) {
	body := "fits in one message"
	chunks := Chunk(body, 3900)
	if len(chunks) != 1 || chunks[0] != body {
		t.Fatalf("short body must be one untouched chunk, got %v", chunks)
	}
}

func TestChunk_SplitsAtNewlines(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 90; i++ {
		fmt.Fprintf(&b, "line %02d %s\n", i, strings.Repeat("y", 90))
	}
	body := b.String() // ~9000 bytes, newline-rich

	chunks := Chunk(body, 3900)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 3900 {
			t.Errorf("chunk %d exceeds limit: %d bytes", i, len(c))
		}
		if len(c) == 0 {
			t.Errorf("chunk %d is empty", i)
		}
	}

	// Every cut landed on a newline, so rejoining with the dropped
	// separators reconstructs the original.
	if strings.Join(chunks, "\n") != body {
		t.Error("rejoined chunks do not reconstruct the body")
	}
}

func TestChunk_NoNewlineFallsBackToHardCut(t *testing.T) {
	body := strings.Repeat("z", 250)
	chunks := Chunk(body, 100)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if strings.Join(chunks, "") != body {
		t.Error("hard cuts must not lose bytes")
	}
}

func TestChunk_IgnoresEarlyNewline(t *testing.T) {
	// The only newline sits within the first 50 bytes of the chunk, so
	// the splitter must ignore it and cut at the hard limit instead.
	body := strings.Repeat("a", 20) + "\n" + strings.Repeat("b", 200)
	chunks := Chunk(body, 100)
	if len(chunks[0]) != 100 {
		t.Errorf("early newline must not become the cut point, first chunk is %d bytes", len(chunks[0]))
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
