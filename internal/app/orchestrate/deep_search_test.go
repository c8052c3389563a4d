package orchestrate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"echoforge/internal/app/core"
	"echoforge/internal/app/dorks"
)

// stubGoogle serves two unique results for the first page of any query and
// an empty page afterwards.
func stubGoogle(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		start := r.URL.Query().Get("start")
		body := map[string]any{
			"searchInformation": map[string]any{"totalResults": "2"},
		}
		if start == "1" {
			body["items"] = []map[string]any{
				{
					"title":       fmt.Sprintf("Result A for %s", q),
					"link":        fmt.Sprintf("https://example.com/%x/a", q),
					"snippet":     fmt.Sprintf("Jane Doe appears here (%s), reach jane@corp.example", q),
					"displayLink": "example.com",
				},
				{
					"title":       fmt.Sprintf("Result B for %s", q),
					"link":        fmt.Sprintf("https://example.com/%x/b", q),
					"snippet":     fmt.Sprintf("Unrelated mention %s", q),
					"displayLink": "example.com",
				},
			}
		}
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func e2eConfig(apiURL string) core.SearchConfig {
	cfg := core.DefaultConfig()
	cfg.APIBaseURL = apiURL
	cfg.InterRequestDelay = 0
	cfg.EnableFallbackBrowse = false
	return cfg
}

func testCreds() core.Credentials {
	return core.Credentials{APIKey: "k", CXID: "cx"}
}

func TestRunEndToEnd(t *testing.T) {
	srv := stubGoogle(t)
	orch, err := New(e2eConfig(srv.URL), testCreds())
	if err != nil {
		t.Fatal(err)
	}

	opts := core.Options{SocialMedia: false}
	report, err := orch.Run(context.Background(), "Jane Doe", core.TargetPerson, 20, opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	plan := dorks.Generate("Jane Doe", core.TargetPerson, opts)
	for _, name := range []string{"simple", "resumes_cv"} {
		if _, ok := plan[name]; !ok {
			t.Fatalf("plan unexpectedly missing %q", name)
		}
		if _, ok := report.DorkSummary[name]; !ok {
			t.Errorf("dork summary missing %q", name)
		}
	}
	for _, name := range []string{"linkedin_profiles", "twitter_x", "facebook", "instagram"} {
		if _, ok := report.DorkSummary[name]; ok {
			t.Errorf("social dork %q must be excluded", name)
		}
	}

	if want := len(plan) * 2; report.Metadata.TotalResults != want {
		t.Errorf("metadata.total_results = %d, want 2 per dork = %d", report.Metadata.TotalResults, want)
	}
	if report.Metadata.DorksExecuted != len(plan) {
		t.Errorf("dorks_executed = %d, want %d", report.Metadata.DorksExecuted, len(plan))
	}
	if report.Metadata.QuotaUsed == 0 {
		t.Error("quota snapshot should reflect the executed fetches")
	}
	if report.Metadata.RunID == "" {
		t.Error("report should carry a run id")
	}

	agg := report.AggregatedEntities
	if len(agg.Emails) != 1 || agg.Emails[0] != "jane@corp.example" {
		t.Errorf("aggregated emails = %v, want the snippet address", agg.Emails)
	}
	if agg.Phones == nil || agg.Dates == nil {
		t.Error("empty categories must be present as empty lists, not null")
	}

	// Every record must be scored and ordered descending.
	for i := 1; i < len(report.AllResults); i++ {
		a, b := report.AllResults[i-1].RelevanceScore, report.AllResults[i].RelevanceScore
		if a == nil || b == nil {
			t.Fatal("ranked records must carry scores")
		}
		if *a < *b {
			t.Fatal("results must be sorted descending by score")
		}
	}
}

func TestRunRejectsUnknownTargetType(t *testing.T) {
	srv := stubGoogle(t)
	orch, err := New(e2eConfig(srv.URL), testCreds())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := orch.Run(context.Background(), "Jane Doe", "starship", 5, core.Options{}); err == nil {
		t.Error("unknown target type must be rejected, not defaulted")
	}
}

func TestNewRejectsMissingCredentials(t *testing.T) {
	if _, err := New(core.DefaultConfig(), core.Credentials{}); err == nil {
		t.Error("missing credentials are a configuration error at construction")
	}
}

func TestRunDeduplicatesAcrossDorks(t *testing.T) {
	// Every dork returns the same two records; dedup must collapse them.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"searchInformation": map[string]any{"totalResults": "2"},
		}
		if r.URL.Query().Get("start") == "1" {
			body["items"] = []map[string]any{
				{"title": "Same", "link": "https://example.com/same", "snippet": "identical snippet", "displayLink": "example.com"},
				{"title": "Other", "link": "https://example.com/other", "snippet": "another snippet", "displayLink": "example.com"},
			}
		}
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	orch, err := New(e2eConfig(srv.URL), testCreds())
	if err != nil {
		t.Fatal(err)
	}
	report, err := orch.Run(context.Background(), "Jane Doe", core.TargetPerson, 20, core.Options{SocialMedia: false})
	if err != nil {
		t.Fatal(err)
	}
	if report.Metadata.TotalResults != 2 {
		t.Errorf("total_results = %d, want 2 after cross-dork dedup", report.Metadata.TotalResults)
	}
}

func TestRunWithDarkWebAlternateSource(t *testing.T) {
	google := stubGoogle(t)
	ahmia := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><li class="result">
			<h4><a href="http://hidden.onion/x">Onion hit</a></h4>
			<p>dark web snippet</p></li></body></html>`))
	}))
	t.Cleanup(ahmia.Close)

	cfg := e2eConfig(google.URL)
	cfg.AhmiaBaseURL = ahmia.URL
	orch, err := New(cfg, testCreds())
	if err != nil {
		t.Fatal(err)
	}

	report, err := orch.Run(context.Background(), "Jane Doe", core.TargetPerson, 20,
		core.Options{SocialMedia: false, DarkWeb: true})
	if err != nil {
		t.Fatal(err)
	}

	summary, ok := report.DorkSummary["ahmia_dark_web"]
	if !ok {
		t.Fatal("dark-web run must include the alternate-source summary")
	}
	if summary.ResultsCount != 1 {
		t.Errorf("alternate source results = %d, want 1", summary.ResultsCount)
	}

	found := false
	for _, r := range report.AllResults {
		if r.Source == core.SourceAhmia {
			found = true
			if r.RelevanceScore == nil {
				t.Error("thin alternate-source records must still rank")
			}
		}
	}
	if !found {
		t.Error("alternate-source record missing from merged results")
	}
}
