// Package telegram delivers rendered digests to a chat through the Bot
// API, one transport-sized chunk at a time.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"newsdigest/internal/metrics"
	"newsdigest/internal/render"
	"newsdigest/internal/retry"
)

const defaultBaseURL = "https://api.telegram.org"

// Sender posts messages to one chat. A Sender without credentials is
// misconfigured: SendDigest fails without touching the network.
type Sender struct {
	token      string
	chatID     string
	baseURL    string
	http       *http.Client
	chunkLimit int
	chunkPause time.Duration // pacing between chunks, Bot API rate limit
	retryCfg   retry.Config
}

func NewSender(token, chatID string, chunkLimit int, chunkPause, timeout time.Duration) *Sender {
	return &Sender{
		token:      token,
		chatID:     chatID,
		baseURL:    defaultBaseURL,
		http:       &http.Client{Timeout: timeout},
		chunkLimit: chunkLimit,
		chunkPause: chunkPause,
		retryCfg:   retry.Config{MaxAttempts: 2, Delay: 2 * time.Second, Backoff: true},
	}
}

// apiError is a non-200 Bot API reply.
type apiError struct {
	Status      int
	Description string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("telegram API error: status %d: %s", e.Status, e.Description)
}

// isFormattingError reports whether the API rejected the message body
// itself (entity parsing), as opposed to a transport or server fault.
// Only these rejections get the plain-text fallback.
func isFormattingError(err error) bool {
	var ae *apiError
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Status == http.StatusBadRequest && strings.Contains(strings.ToLower(ae.Description), "parse")
}

// SendDigest splits the body into chunks and delivers them strictly in
// order. The first chunk that cannot be delivered aborts the rest:
// no resumption, no out-of-order delivery.
func (s *Sender) SendDigest(ctx context.Context, text string) error {
	if s.token == "" || s.chatID == "" {
		return fmt.Errorf("telegram credentials missing")
	}

	chunks := render.Chunk(text, s.chunkLimit)
	slog.Info("sending digest", "length", len(text), "chunks", len(chunks))

	for i, chunk := range chunks {
		if err := s.sendChunk(ctx, chunk); err != nil {
			return fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		metrics.Global.IncrementChunksSent()
		slog.Info("chunk sent", "chunk", i+1, "of", len(chunks))

		if i < len(chunks)-1 && s.chunkPause > 0 {
			time.Sleep(s.chunkPause)
		}
	}
	return nil
}

// sendChunk tries the formatted payload first. A formatting rejection
// earns exactly one retry with formatting stripped; any other failure
// is retried with backoff before giving up.
func (s *Sender) sendChunk(ctx context.Context, text string) error {
	err := s.sendOnce(ctx, text, "HTML")
	if err == nil {
		return nil
	}

	if isFormattingError(err) {
		slog.Warn("formatting rejected, retrying chunk as plain text", "error", err)
		return s.sendOnce(ctx, text, "")
	}

	slog.Warn("chunk delivery failed, retrying", "error", err)
	return retry.WithRetry(ctx, s.retryCfg, func() error {
		return s.sendOnce(ctx, text, "HTML")
	})
}

func (s *Sender) sendOnce(ctx context.Context, text, parseMode string) error {
	payload := map[string]any{
		"chat_id":                  s.chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error make JSON: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("error HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &apiError{Status: resp.StatusCode, Description: strings.TrimSpace(string(snippet))}
	}
	return nil
}
