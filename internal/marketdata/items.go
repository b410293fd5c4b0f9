package marketdata

import (
	"encoding/json"

	"newsdigest/internal/news"
)

// ItemsFromResponse converts raw exchange records into synthetic news
// items, e.g. "NSE Block Deal: RELIANCE". The full record is kept as
// the summary so nothing from the deal row is lost in the artifact.
func ItemsFromResponse(prefix, link string, resp Response) []news.Item {
	items := make([]news.Item, 0, len(resp.Data))
	for _, rec := range resp.Data {
		symbol, _ := rec["symbol"].(string)
		title := prefix
		if symbol != "" {
			title = prefix + ": " + symbol
		}

		summary := ""
		if raw, err := json.Marshal(rec); err == nil {
			summary = string(raw)
		}

		items = append(items, news.Item{
			Title:   title,
			Link:    link,
			Summary: summary,
		})
	}
	return items
}
