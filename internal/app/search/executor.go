package search

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"echoforge/internal/app/core"
	"echoforge/internal/app/scrape"
)

// PageFetcher is the single-page search call the executor paginates over.
// *Fetcher satisfies it; tests substitute stubs.
type PageFetcher interface {
	FetchPage(ctx context.Context, query string, start, num int) (core.SearchPage, error)
}

// PageBrowser performs the fallback scrape of a low-yield dork's top result.
type PageBrowser interface {
	Browse(url, target string) (*scrape.StructuredDocument, error)
}

// fallbackThreshold: a dork that produced at least one but fewer than this
// many results gets one fallback scrape.
const fallbackThreshold = 5

// Executor drives one named dork through repeated pagination. Pagination
// within an executor is strictly sequential; executors for different dorks
// run concurrently and independently.
type Executor struct {
	cfg     *core.SearchConfig
	fetcher PageFetcher
	browser PageBrowser
	logger  *slog.Logger
}

// NewExecutor builds an executor. browser may be nil when fallback browsing
// is disabled.
func NewExecutor(cfg *core.SearchConfig, fetcher PageFetcher, browser PageBrowser) *Executor {
	return &Executor{
		cfg:     cfg,
		fetcher: fetcher,
		browser: browser,
		logger:  cfg.Log(),
	}
}

// Execute paginates query until maxResults are collected or the provider's
// offset cap is hit. Fetch errors end the loop but keep partial results; a
// hard failure here never reaches sibling executors.
func (e *Executor) Execute(ctx context.Context, target, dorkName, query string, maxResults int) core.QueryExecutionResult {
	var all []core.ResultRecord
	var totalResults int64
	pagesFetched := 0
	start := 1

	for len(all) < maxResults && start <= core.MaxPageStart {
		num := min(core.PageSize, maxResults-len(all))
		page, err := e.fetcher.FetchPage(ctx, query, start, num)
		if err != nil {
			e.logger.Error("dork page fetch failed", "dork", dorkName, "start", start, "error", err)
			break
		}
		if len(page.Results) == 0 {
			break
		}

		all = append(all, page.Results...)
		if pagesFetched == 0 {
			totalResults = page.TotalResults
		}
		pagesFetched++
		start += core.PageSize

		// Pace the next page.
		if !e.pause(ctx) {
			break
		}
	}

	if e.cfg.EnableFallbackBrowse && e.browser != nil && len(all) > 0 && len(all) < fallbackThreshold {
		if rec, ok := e.fallbackScrape(all[0].Link, target, dorkName); ok {
			all = append(all, rec)
		}
	}

	if len(all) > maxResults {
		all = all[:maxResults]
	}
	return core.QueryExecutionResult{
		DorkName:     dorkName,
		Query:        query,
		TotalResults: totalResults,
		PagesFetched: pagesFetched,
		Results:      all,
	}
}

// fallbackScrape fetches the dork's top result directly and shapes it into
// one synthetic record tagged as scraped content.
func (e *Executor) fallbackScrape(topURL, target, dorkName string) (core.ResultRecord, bool) {
	e.logger.Info("fallback browse", "dork", dorkName, "url", topURL)
	doc, err := e.browser.Browse(topURL, target)
	if err != nil {
		e.logger.Warn("fallback browse failed", "dork", dorkName, "error", err)
		return core.ResultRecord{}, false
	}

	title := doc.Title
	if title == "" {
		title = "Scraped Content"
	}
	snippet := doc.Content
	if len(snippet) > 500 {
		snippet = snippet[:500]
	}
	rec := core.ResultRecord{
		Title:        title,
		Link:         doc.URL,
		Snippet:      snippet,
		DisplayLink:  hostOf(doc.URL),
		Source:       core.SourceWebScrape,
		Entities:     doc.Entities,
		Meta:         doc.Meta,
		Technologies: doc.Technologies,
	}
	return rec, true
}

func (e *Executor) pause(ctx context.Context) bool {
	if e.cfg.InterRequestDelay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-time.After(e.cfg.InterRequestDelay):
		return true
	case <-ctx.Done():
		return false
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
