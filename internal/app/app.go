// Package app wires the digest pipeline:
// fetch → dedup → categorize → rank → render → deliver → persist.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newsdigest/internal/config"
	"newsdigest/internal/feed"
	"newsdigest/internal/marketdata"
	"newsdigest/internal/metrics"
	"newsdigest/internal/news"
	"newsdigest/internal/rank"
	"newsdigest/internal/ratelimit"
	"newsdigest/internal/render"
	"newsdigest/internal/shortener"
	"newsdigest/internal/storage"
	"newsdigest/internal/telegram"
)

// Fetcher pulls items from one RSS feed URL. Failures degrade to nil.
type Fetcher interface {
	Fetch(ctx context.Context, url string, limit int) []news.Item
}

// MarketSource pulls structured records from one JSON endpoint.
type MarketSource interface {
	FetchData(ctx context.Context, url string) marketdata.Response
}

// Ranker reorders items by relevance. Must fail open.
type Ranker interface {
	Enabled() bool
	Rank(ctx context.Context, items []news.Item) []news.Item
}

// Deliverer ships the rendered body to the chat transport.
type Deliverer interface {
	SendDigest(ctx context.Context, text string) error
}

// Artifact persists the rendered digest with its run status.
type Artifact interface {
	Write(body string, status storage.RunStatus, now time.Time) (string, error)
}

// App holds one configured pipeline and its collaborators.
type App struct {
	cfg      *config.Config
	pipeline *config.Pipeline

	fetcher     Fetcher
	market      MarketSource
	ranker      Ranker
	deliverer   Deliverer
	artifact    Artifact
	archive     *storage.PostgresArchive
	categorizer *news.Categorizer
	renderer    *render.Renderer

	now func() time.Time
}

// New assembles the pipeline from configuration. Optional credentials
// that are absent simply leave the corresponding collaborator disabled.
func New(cfg *config.Config) (*App, error) {
	pipeline, err := config.LoadPipeline(cfg.PipelinePath)
	if err != nil {
		return nil, fmt.Errorf("load pipeline config: %w", err)
	}

	limiter := ratelimit.NewAIRateLimiter(cfg.MaxGeminiRequests, cfg.MaxGroqRequests, cfg.MaxAIRequests)

	var completer rank.Completer
	switch {
	case cfg.GroqAPIKey != "":
		completer = rank.NewGroqClient(cfg.GroqAPIKey, cfg.RankModel, cfg.RankTimeout, limiter)
	case cfg.GeminiAPIKey != "":
		gc, err := rank.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.RankModel, limiter)
		if err != nil {
			slog.Warn("gemini client unavailable, ranking disabled", "error", err)
		} else {
			completer = gc
		}
	default:
		slog.Info("no ranking credential configured, ranking disabled")
	}

	// Single-bucket pipelines keep only the model's picks; multi-bucket
	// ones reorder globally and keep the rest behind the ranked set.
	policy := rank.PolicyAppendRemainder
	if len(pipeline.Categories) <= 1 {
		policy = rank.PolicyDrop
	}

	var short render.LinkShortener
	if cfg.ShortIOAPIKey != "" {
		short = shortener.NewClient(cfg.ShortIOAPIKey, cfg.ShortIODomain, cfg.RequestTimeout, cfg.ShortenPause)
	}

	var archive *storage.PostgresArchive
	if cfg.DatabaseURL != "" {
		archive, err = storage.NewPostgresArchive(cfg.DatabaseURL)
		if err != nil {
			slog.Warn("postgres archive unavailable", "error", err)
			archive = nil
		}
	}

	return &App{
		cfg:      cfg,
		pipeline: pipeline,
		fetcher:  feed.NewFetcher(cfg.RequestTimeout),
		market:   marketdata.NewClient(pipeline.MarketHomepage, cfg.RequestTimeout),
		ranker: &rank.Ranker{
			Completer: completer,
			TopN:      cfg.RankTopN,
			MaxInput:  cfg.RankMaxInput,
			Policy:    policy,
			Focus:     pipeline.RankFocus,
		},
		deliverer: telegram.NewSender(cfg.TelegramToken, cfg.TelegramChatID, cfg.TelegramMax, cfg.ChunkPause, cfg.RequestTimeout),
		artifact:  &storage.ArtifactWriter{Dir: cfg.StorageDir, Prefix: "digest"},
		archive:   archive,
		categorizer: &news.Categorizer{
			Rules:    pipeline.Categories,
			Fallback: pipeline.FallbackCategory,
		},
		renderer: &render.Renderer{
			Title:         pipeline.Title,
			MaxLen:        cfg.TelegramMax,
			MaxPerSection: cfg.MaxPerSection,
			Shortener:     short,
		},
		now: time.Now,
	}, nil
}

// Run executes one digest cycle. Source, enhancement and delivery
// failures are absorbed per the degradation policy; only unanticipated
// orchestration failures return an error.
func (a *App) Run(ctx context.Context) (storage.RunStatus, error) {
	started := a.now()
	defer func() {
		metrics.Global.RecordRun(time.Since(started))
	}()

	// FETCHING
	var collected []news.Item
	for _, url := range a.pipeline.Feeds {
		collected = append(collected, a.fetcher.Fetch(ctx, url, a.cfg.ItemsPerFeed)...)
	}
	for _, ep := range a.pipeline.MarketEndpoints {
		resp := a.market.FetchData(ctx, ep.URL)
		collected = append(collected, marketdata.ItemsFromResponse(ep.Name, ep.Link, resp)...)
	}
	metrics.Global.AddItemsCollected(len(collected))

	if a.cfg.NewsMaxAge > 0 {
		collected = news.FilterRecent(collected, a.cfg.NewsMaxAge, a.now())
	}

	// DEDUPING
	deduped := news.Deduplicate(collected)
	for i := len(deduped); i < len(collected); i++ {
		metrics.Global.IncrementDuplicatesFiltered()
	}
	slog.Info("collected news", "fetched", len(collected), "after_dedup", len(deduped))

	// CATEGORIZING
	categorized := a.categorizer.Apply(deduped)

	// RANKING (optional, fail-open)
	ranked := categorized
	if len(categorized) > 0 && a.ranker.Enabled() {
		metrics.Global.IncrementRankingCalls()
		ranked = a.ranker.Rank(ctx, categorized)
	}

	buckets := news.Group(ranked)
	order := a.categorizer.Order()

	status := storage.RunStatus{
		ItemsCollected: len(ranked),
		CorporateItems: len(buckets[a.pipeline.CorporateCategory]),
	}

	// RENDERING
	body := a.renderer.Build(ctx, buckets, order)

	// DELIVERING
	if err := a.deliverer.SendDigest(ctx, body); err != nil {
		slog.Error("digest delivery failed", "error", err)
	} else {
		status.Delivered = true
		status.ChunksDelivered = len(render.Chunk(body, a.cfg.TelegramMax))
		metrics.Global.IncrementDigestsDelivered()
	}

	// PERSISTING: the artifact is written regardless of delivery outcome.
	path, err := a.artifact.Write(body, status, a.now().In(render.IST))
	if err != nil {
		slog.Error("failed to persist digest artifact", "error", err)
	} else {
		metrics.Global.IncrementDigestsPersisted()
		slog.Info("digest persisted", "path", path, "delivered", status.Delivered)
	}

	if a.archive != nil {
		if err := a.archive.SaveDigest(ctx, body, status, a.now()); err != nil {
			slog.Warn("postgres archive write failed", "error", err)
		}
	}

	return status, nil
}
