package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchData_HandshakeThenData(t *testing.T) {
	var homepageHits, dataHits int
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		homepageHits++
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
		w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/api/deals", func(w http.ResponseWriter, r *http.Request) {
		dataHits++
		if c, err := r.Cookie("session"); err != nil || c.Value != "abc" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(`{"data":[{"symbol":"RELIANCE","qty":1000},{"symbol":"TCS"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL+"/", 5*time.Second)
	resp := c.FetchData(context.Background(), srv.URL+"/api/deals")
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp.Data))
	}
	if homepageHits != 1 {
		t.Errorf("handshake should hit the homepage once, got %d", homepageHits)
	}

	// Second fetch reuses the session, no second handshake.
	c.FetchData(context.Background(), srv.URL+"/api/deals")
	if homepageHits != 1 || dataHits != 2 {
		t.Errorf("handshake must run once per client: homepage=%d data=%d", homepageHits, dataHits)
	}
}

func TestFetchData_DegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient("", 5*time.Second)
	if resp := c.FetchData(context.Background(), srv.URL); len(resp.Data) != 0 {
		t.Errorf("non-JSON body must yield an empty response, got %d records", len(resp.Data))
	}

	if resp := c.FetchData(context.Background(), "http://127.0.0.1:1/unreachable"); len(resp.Data) != 0 {
		t.Errorf("transport failure must yield an empty response, got %d records", len(resp.Data))
	}
}

func TestItemsFromResponse(t *testing.T) {
	resp := Response{Data: []map[string]any{
		{"symbol": "RELIANCE", "qty": float64(1000)},
		{"note": "no symbol field"},
	}}

	items := ItemsFromResponse("NSE Block Deal", "https://nse.example/block-deals", resp)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "NSE Block Deal: RELIANCE" {
		t.Errorf("title = %q", items[0].Title)
	}
	if items[1].Title != "NSE Block Deal" {
		t.Errorf("symbol-less record should keep the bare prefix, got %q", items[1].Title)
	}
	if items[0].Link != "https://nse.example/block-deals" {
		t.Errorf("link = %q", items[0].Link)
	}
	if items[0].Summary == "" {
		t.Error("raw record should be preserved in the summary")
	}
}
