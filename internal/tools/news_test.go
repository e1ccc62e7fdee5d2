package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const newsSearchPage = `<html><body>
<article><h3>Apple beats earnings estimates</h3><a href="./articles/abc"></a><div data-n-tid="9">Reuters</div><time>2 hours ago</time></article>
<article><h3>Apple announces new chip</h3><a href="/articles/def"></a><div data-n-tid="9">Bloomberg</div><time>1 day ago</time></article>
<article><span>no headline here</span></article>
</body></html>`

func newsTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(newsSearchPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewsClientHeadlines(t *testing.T) {
	srv := newsTestServer(t)
	nc := NewNewsClient(srv.URL)

	headlines, err := nc.Headlines(context.Background(), "AAPL stock", 10)
	if err != nil {
		t.Fatalf("headlines: %v", err)
	}
	if len(headlines) != 2 {
		t.Fatalf("expected 2 headlines, got %d", len(headlines))
	}
	if headlines[0].Title != "Apple beats earnings estimates" || headlines[0].Source != "Reuters" {
		t.Fatalf("unexpected first headline: %+v", headlines[0])
	}
	if headlines[0].URL != srv.URL+"/articles/abc" {
		t.Fatalf("relative URL not made absolute: %q", headlines[0].URL)
	}
}

func TestNewsClientHonorsLimit(t *testing.T) {
	srv := newsTestServer(t)
	nc := NewNewsClient(srv.URL)

	headlines, err := nc.Headlines(context.Background(), "AAPL stock", 1)
	if err != nil {
		t.Fatalf("headlines: %v", err)
	}
	if len(headlines) != 1 {
		t.Fatalf("expected 1 headline, got %d", len(headlines))
	}
}

func TestGetCompanyNewsTool(t *testing.T) {
	srv := newsTestServer(t)
	out := mustInvoke(t, NewGetCompanyNewsTool(NewNewsClient(srv.URL)), `{"symbol":"aapl"}`)

	var got NewsOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if got.Symbol != "AAPL" || len(got.Headlines) != 2 {
		t.Fatalf("unexpected output: %+v", got)
	}
}
