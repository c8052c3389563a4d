package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"echoforge/internal/app/core"
	"echoforge/internal/app/orchestrate"
)

func stubAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"searchInformation": map[string]any{"totalResults": "1"},
		}
		if r.URL.Query().Get("start") == "1" {
			body["items"] = []map[string]any{
				{"title": "Hit", "link": "https://example.com/" + r.URL.Query().Get("q"), "snippet": "snippet", "displayLink": "example.com"},
			}
		}
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.APIBaseURL = stubAPI(t).URL
	cfg.InterRequestDelay = 0
	cfg.EnableFallbackBrowse = false

	orch, err := orchestrate.New(cfg, core.Credentials{APIKey: "k", CXID: "cx"})
	if err != nil {
		t.Fatal(err)
	}
	return New(orch, nil).Handler(nil)
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	h := newTestServer(t)
	rec := post(t, h, `{"target": "Jane Doe", "social_media": false}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var report core.SearchReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("response is not a report: %v", err)
	}
	if report.Metadata.TargetType != core.TargetPerson {
		t.Errorf("target_type = %q, want the person default", report.Metadata.TargetType)
	}
	if report.Metadata.TotalResults == 0 {
		t.Error("stubbed search should yield results")
	}
	for name := range report.DorkSummary {
		if name == "twitter_x" || name == "facebook" {
			t.Errorf("social dork %q should have been filtered", name)
		}
	}
}

func TestSearchValidation(t *testing.T) {
	h := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing target", `{"target_type": "person"}`},
		{"bad target type", `{"target": "x", "target_type": "starship"}`},
		{"max results too high", `{"target": "x", "max_results": 5000}`},
		{"malformed json", `{"target": `},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := post(t, h, tc.body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
}
