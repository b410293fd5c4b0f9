package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

// AIRateLimiter caps how many ranking calls each AI provider may
// receive. Free-tier quotas reset daily; so does the limiter.
// A zero limit means unlimited.
type AIRateLimiter struct {
	mu          sync.Mutex
	geminiCount int
	groqCount   int
	totalCount  int
	maxGemini   int
	maxGroq     int
	maxTotal    int
	resetTime   time.Time
}

// NewAIRateLimiter creates a limiter with per-provider and total caps.
func NewAIRateLimiter(maxGemini, maxGroq, maxTotal int) *AIRateLimiter {
	return &AIRateLimiter{
		maxGemini: maxGemini,
		maxGroq:   maxGroq,
		maxTotal:  maxTotal,
		resetTime: time.Now().Add(24 * time.Hour),
	}
}

// CanUseGemini reports whether a Gemini request fits in the budget.
func (rl *AIRateLimiter) CanUseGemini() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if rl.maxGemini > 0 && rl.geminiCount >= rl.maxGemini {
		slog.Warn("gemini rate limit reached", "used", rl.geminiCount, "max", rl.maxGemini)
		return false
	}
	return rl.totalAllowed()
}

// CanUseGroq reports whether a Groq request fits in the budget.
func (rl *AIRateLimiter) CanUseGroq() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if rl.maxGroq > 0 && rl.groqCount >= rl.maxGroq {
		slog.Warn("groq rate limit reached", "used", rl.groqCount, "max", rl.maxGroq)
		return false
	}
	return rl.totalAllowed()
}

// RecordGemini counts one Gemini request against the budget.
func (rl *AIRateLimiter) RecordGemini() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.geminiCount++
	rl.totalCount++
}

// RecordGroq counts one Groq request against the budget.
func (rl *AIRateLimiter) RecordGroq() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.groqCount++
	rl.totalCount++
}

// Stats returns current usage for the monitoring endpoint.
func (rl *AIRateLimiter) Stats() map[string]int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]int{
		"gemini_used": rl.geminiCount,
		"groq_used":   rl.groqCount,
		"total_used":  rl.totalCount,
		"max_gemini":  rl.maxGemini,
		"max_groq":    rl.maxGroq,
		"max_total":   rl.maxTotal,
	}
}

func (rl *AIRateLimiter) totalAllowed() bool {
	if rl.maxTotal > 0 && rl.totalCount >= rl.maxTotal {
		slog.Warn("total AI rate limit reached", "used", rl.totalCount, "max", rl.maxTotal)
		return false
	}
	return true
}

// checkReset zeroes counters once the daily window rolls over.
// Caller must hold the mutex.
func (rl *AIRateLimiter) checkReset() {
	if time.Now().After(rl.resetTime) {
		rl.geminiCount = 0
		rl.groqCount = 0
		rl.totalCount = 0
		rl.resetTime = time.Now().Add(24 * time.Hour)
	}
}
