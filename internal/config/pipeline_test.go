package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writePipeline(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPipeline(t *testing.T) {
	path := writePipeline(t, `
title: "📰 Market Digest"
fallback_category: "World Events"
corporate_category: "Corporate Action"
rank_focus: "retail equity investors"

feeds:
  - "https://news.google.com/rss/search?q=stock+market"
  - "https://feeds.reuters.com/reuters/businessNews"

market_homepage: "https://www.nseindia.com/"
market_endpoints:
  - name: "NSE Block Deal"
    url: "https://www.nseindia.com/api/block-deal"
    link: "https://www.nseindia.com/market-data/block-deal-watch"

categories:
  - category: "Global Macro"
    keywords: ["fed", "inflation"]
  - category: "Corporate Action"
    keywords: ["block deal", "dividend"]
`)

	p, err := LoadPipeline(path)
	if err != nil {
		t.Fatalf("LoadPipeline: %v", err)
	}
	if p.Title != "📰 Market Digest" || len(p.Feeds) != 2 {
		t.Errorf("basic fields wrong: %+v", p)
	}
	if len(p.MarketEndpoints) != 1 || p.MarketEndpoints[0].Name != "NSE Block Deal" {
		t.Errorf("market endpoints wrong: %+v", p.MarketEndpoints)
	}
	if len(p.Categories) != 2 || p.Categories[1].Keywords[0] != "block deal" {
		t.Errorf("category rules wrong: %+v", p.Categories)
	}
}

func TestLoadPipeline_Defaults(t *testing.T) {
	path := writePipeline(t, `
feeds:
  - "https://example.com/rss"
`)

	p, err := LoadPipeline(path)
	if err != nil {
		t.Fatalf("LoadPipeline: %v", err)
	}
	if p.Title != "News Digest" {
		t.Errorf("default title not applied: %q", p.Title)
	}
	if p.FallbackCategory != "World Events" {
		t.Errorf("default fallback not applied: %q", p.FallbackCategory)
	}
}

func TestLoadPipeline_RejectsSourcelessConfig(t *testing.T) {
	path := writePipeline(t, `title: "Empty"`)
	if _, err := LoadPipeline(path); err == nil {
		t.Fatal("a pipeline without any source must be rejected")
	}
}

func TestValidate(t *testing.T) {
	good := &Config{TelegramMax: 3900, RankTopN: 10, RankMaxInput: 30, ItemsPerFeed: 10}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"chunk limit too small", func(c *Config) { c.TelegramMax = 50 }},
		{"zero top-n", func(c *Config) { c.RankTopN = 0 }},
		{"max input below top-n", func(c *Config) { c.RankMaxInput = 5 }},
		{"zero items per feed", func(c *Config) { c.ItemsPerFeed = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := *good
			tc.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
