// Package rank reorders collected news by importance using an external
// text-completion model. Ranking is a best-effort enhancement: every
// failure path returns the caller's input unchanged.
package rank

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"newsdigest/internal/news"
)

// Completer is the external text-completion capability. Implementations
// send one prompt and return the model's free-text reply.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Policy controls what happens to items the model did not select.
type Policy int

const (
	// PolicyDrop discards unselected items. Used when ranking a single
	// category down to its top stories.
	PolicyDrop Policy = iota
	// PolicyAppendRemainder keeps unselected items after the ranked
	// ones, in their original order. Used for global reordering.
	PolicyAppendRemainder
)

// Ranker asks the model for the top-N most relevant headlines.
type Ranker struct {
	Completer Completer
	TopN      int    // how many items to ask for (8-12)
	MaxInput  int    // cap on items sent to the model (~30, bounds prompt size)
	Policy    Policy
	Focus     string // editorial focus line for the prompt, e.g. "AI, machine learning, and technology"
}

// Enabled reports whether a completion backend is configured.
func (r *Ranker) Enabled() bool {
	return r.Completer != nil
}

// Rank returns items reordered by model-judged relevance.
// Fail-open guarantee: with no completer configured, or on any error
// (network, bad status, empty or malformed reply), the input slice is
// returned as-is.
func (r *Ranker) Rank(ctx context.Context, items []news.Item) []news.Item {
	if r.Completer == nil || len(items) == 0 {
		return items
	}

	input := items
	if r.MaxInput > 0 && len(input) > r.MaxInput {
		input = input[:r.MaxInput]
	}

	raw, err := r.Completer.Complete(ctx, r.buildPrompt(input))
	if err != nil {
		slog.Warn("ranking failed, keeping original order", "provider", r.Completer.Name(), "error", err)
		return items
	}

	indices := ParseIndices(raw, len(input), r.TopN)
	if len(indices) == 0 {
		slog.Warn("ranking reply had no usable indices, keeping original order", "provider", r.Completer.Name())
		return items
	}

	ranked := make([]news.Item, 0, len(items))
	picked := make(map[int]bool, len(indices))
	for _, idx := range indices {
		ranked = append(ranked, input[idx-1])
		picked[idx] = true
	}

	if r.Policy == PolicyAppendRemainder {
		for i, it := range items {
			if i < len(input) && picked[i+1] {
				continue
			}
			ranked = append(ranked, it)
		}
	}

	slog.Info("ranked news items", "provider", r.Completer.Name(), "selected", len(indices), "input", len(input))
	return ranked
}

func (r *Ranker) buildPrompt(items []news.Item) string {
	var b strings.Builder

	topN := r.TopN
	if topN <= 0 {
		topN = 10
	}

	focus := r.Focus
	if focus == "" {
		focus = "finance and market professionals"
	}

	b.WriteString("You are a news curator. From these headlines, select ONLY the most important and UNIQUE news relevant to ")
	b.WriteString(focus)
	b.WriteString(".\n\nEXCLUDE duplicate stories (same event from different sources), minor updates and opinion pieces without news value.\n\nHeadlines:\n")

	for i, it := range items {
		title := news.CleanText(it.Title)
		if len(title) > 140 {
			title = title[:140]
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
	}

	fmt.Fprintf(&b, "\nReturn ONLY the numbers of the top %d UNIQUE, RELEVANT headlines, comma-separated (e.g., 3,1,7,2,9,4,8,5,11,6)", topN)
	return b.String()
}

var reDigits = regexp.MustCompile(`\d+`)

// ParseIndices extracts 1-based indices from a free-text model reply.
// The reply is untrusted input: every integer token is considered,
// out-of-range values are silently discarded, duplicates keep their
// first position, and the result is capped at max entries (0 = no cap).
func ParseIndices(raw string, n, max int) []int {
	var out []int
	seen := make(map[int]bool)

	for _, tok := range reDigits.FindAllString(raw, -1) {
		idx, err := strconv.Atoi(tok)
		if err != nil || idx < 1 || idx > n || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}
