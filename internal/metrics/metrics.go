package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	TotalItemsCollected int64
	DuplicatesFiltered  int64
	FeedsFailed         int64
	RankingCalls        int64
	ChunksSent          int64
	DigestsDelivered    int64
	DigestsPersisted    int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddItemsCollected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalItemsCollected += int64(n)
}

func (m *Metrics) IncrementDuplicatesFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) IncrementFeedsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFailed++
}

func (m *Metrics) IncrementRankingCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RankingCalls++
}

func (m *Metrics) IncrementChunksSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChunksSent++
}

func (m *Metrics) IncrementDigestsDelivered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DigestsDelivered++
}

func (m *Metrics) IncrementDigestsPersisted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DigestsPersisted++
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"total_items_collected": m.TotalItemsCollected,
		"duplicates_filtered":   m.DuplicatesFiltered,
		"feeds_failed":          m.FeedsFailed,
		"ranking_calls":         m.RankingCalls,
		"chunks_sent":           m.ChunksSent,
		"digests_delivered":     m.DigestsDelivered,
		"digests_persisted":     m.DigestsPersisted,
		"last_run_duration_ms":  m.LastRunDuration.Milliseconds(),
		"last_run_time":         m.LastRunTime.Format(time.RFC3339),
		"last_error_time":       m.LastErrorTime.Format(time.RFC3339),
		"last_error":            m.LastError,
		"is_healthy":            m.IsHealthy,
	}
}
