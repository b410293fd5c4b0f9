package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"newsdigest/internal/news"
)

// MarketEndpoint is one structured JSON data source, e.g. an exchange
// block-deals API.
type MarketEndpoint struct {
	Name string `yaml:"name"` // title prefix for synthetic items
	URL  string `yaml:"url"`
	Link string `yaml:"link"` // link attached to synthetic items
}

// Pipeline is the data half of the digest configuration: which feeds
// to read, how to categorize, and what to call the result. Historical
// script variants (market digest, AI digest, breaking news) are all
// expressions of this one structure.
type Pipeline struct {
	Title             string           `yaml:"title"`
	FallbackCategory  string           `yaml:"fallback_category"`
	CorporateCategory string           `yaml:"corporate_category"` // counted separately in run status
	RankFocus         string           `yaml:"rank_focus"`
	Feeds             []string         `yaml:"feeds"`
	MarketHomepage    string           `yaml:"market_homepage"` // session handshake page, empty = none
	MarketEndpoints   []MarketEndpoint `yaml:"market_endpoints"`
	Categories        []news.Rule      `yaml:"categories"`
}

// LoadPipeline reads the pipeline YAML file.
func LoadPipeline(path string) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var p Pipeline
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse pipeline config: %w", err)
	}

	if p.Title == "" {
		p.Title = "News Digest"
	}
	if p.FallbackCategory == "" {
		p.FallbackCategory = "World Events"
	}
	if len(p.Feeds) == 0 && len(p.MarketEndpoints) == 0 {
		return nil, fmt.Errorf("pipeline config has no feeds and no market endpoints")
	}
	return &p, nil
}
