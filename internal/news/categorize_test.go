package news

import "testing"

func testCategorizer() *Categorizer {
	return &Categorizer{
		Rules: []Rule{
			{Category: "Global Macro", Keywords: []string{"fed", "inflation", "gdp"}},
			{Category: "Domestic Market", Keywords: []string{"sensex", "nifty", "india"}},
			{Category: "Corporate Action", Keywords: []string{"block deal", "dividend", "merger"}},
		},
		Fallback: "World Events",
	}
}

func TestCategorize_FirstRuleWins(t *testing.T) {
	c := testCategorizer()

	// Title matches both a global and an india keyword; rule order decides.
	got := c.Categorize("Inflation worries weigh on India markets")
	if got != "Global Macro" {
		t.Errorf("rule order must decide: got %q, want %q", got, "Global Macro")
	}

	// Same keywords, reversed rule order flips the answer.
	reversed := &Categorizer{
		Rules: []Rule{
			{Category: "Domestic Market", Keywords: []string{"sensex", "nifty", "india"}},
			{Category: "Global Macro", Keywords: []string{"fed", "inflation", "gdp"}},
		},
		Fallback: "World Events",
	}
	if got := reversed.Categorize("Inflation worries weigh on India markets"); got != "Domestic Market" {
		t.Errorf("reversed rule order: got %q, want %q", got, "Domestic Market")
	}
}

func TestCategorize_Fallback(t *testing.T) {
	c := testCategorizer()
	if got := c.Categorize("Volcano erupts in Iceland"); got != "World Events" {
		t.Errorf("unmatched title must fall back: got %q", got)
	}
	if got := c.Categorize(""); got != "World Events" {
		t.Errorf("empty title must fall back: got %q", got)
	}
}

func TestCategorize_CaseInsensitiveSubstring(t *testing.T) {
	c := testCategorizer()
	if got := c.Categorize("SENSEX closes above 90,000"); got != "Domestic Market" {
		t.Errorf("matching must be case-insensitive: got %q", got)
	}
	// Substring semantics, not word-boundary: "fed" inside "federal".
	if got := c.Categorize("Federal agency reviews rules"); got != "Global Macro" {
		t.Errorf("substring match expected: got %q", got)
	}
}

func TestApplyAndGroup(t *testing.T) {
	c := testCategorizer()
	items := []Item{
		{Title: "Fed minutes released"},
		{Title: "Nifty slips"},
		{Title: "Quiet day elsewhere"},
	}

	categorized := c.Apply(items)
	for _, it := range categorized {
		if it.Category == "" {
			t.Errorf("every item must get exactly one category, %q got none", it.Title)
		}
	}
	if items[0].Category != "" {
		t.Error("Apply must not mutate the input slice")
	}

	buckets := Group(categorized)
	total := 0
	for _, b := range buckets {
		total += len(b)
	}
	if total != len(items) {
		t.Errorf("grouping must not lose items: %d vs %d", total, len(items))
	}
	if len(buckets["World Events"]) != 1 {
		t.Errorf("expected one fallback item, got %d", len(buckets["World Events"]))
	}
}

func TestOrder_FallbackLastNoDuplicates(t *testing.T) {
	c := testCategorizer()
	order := c.Order()

	want := []string{"Global Macro", "Domestic Market", "Corporate Action", "World Events"}
	if len(order) != len(want) {
		t.Fatalf("order length %d, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}
