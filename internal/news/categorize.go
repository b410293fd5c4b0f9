package news

import "strings"

// Rule binds a category name to the keywords that select it.
// Rules are ordered: the first rule with any keyword appearing as a
// substring of the lower-cased title wins, not the best match.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Categorizer assigns every title to exactly one category using the
// configured rule order. Titles matching nothing land in Fallback.
// This is a heuristic, not a classifier: misfiled items are tolerated.
type Categorizer struct {
	Rules    []Rule
	Fallback string
}

// Categorize returns the first matching category for a title.
func (c *Categorizer) Categorize(title string) string {
	text := strings.ToLower(title)

	for _, rule := range c.Rules {
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if strings.Contains(text, kw) {
				return rule.Category
			}
		}
	}
	return c.Fallback
}

// Apply returns a copy of items with Category assigned.
func (c *Categorizer) Apply(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		it.Category = c.Categorize(it.Title)
		out[i] = it
	}
	return out
}

// Order lists categories as configured, fallback last, so rendering is
// deterministic.
func (c *Categorizer) Order() []string {
	order := make([]string, 0, len(c.Rules)+1)
	listed := make(map[string]bool, len(c.Rules)+1)
	for _, rule := range c.Rules {
		if !listed[rule.Category] {
			listed[rule.Category] = true
			order = append(order, rule.Category)
		}
	}
	if !listed[c.Fallback] {
		order = append(order, c.Fallback)
	}
	return order
}

// Group buckets categorized items by their assigned category, keeping
// the incoming (possibly ranked) order within each bucket.
func Group(items []Item) map[string][]Item {
	buckets := make(map[string][]Item)
	for _, it := range items {
		buckets[it.Category] = append(buckets[it.Category], it)
	}
	return buckets
}
