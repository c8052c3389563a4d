// Package search drives paginated queries against the Google Custom Search
// JSON API, with quota accounting, response caching, outbound pacing, and a
// low-yield scraping fallback.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"echoforge/internal/app/cache"
	"echoforge/internal/app/core"
	"echoforge/internal/app/entities"
	"echoforge/internal/app/quota"
)

var (
	// ErrQuotaExhausted means the daily search budget is spent; the query's
	// page loop stops, the run continues.
	ErrQuotaExhausted = errors.New("quota exhausted")

	// ErrRateLimited is the provider's 429; pagination for the dork stops.
	ErrRateLimited = errors.New("rate limited")
)

// Fetcher issues single paginated search calls. It is shared by all query
// executors in a run; the pacing limiter serializes outbound calls with a
// minimum delay between them.
type Fetcher struct {
	cfg     *core.SearchConfig
	creds   core.Credentials
	client  *http.Client
	quota   *quota.Tracker
	cache   *cache.ResponseCache
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewFetcher wires a fetcher onto shared quota and cache state.
func NewFetcher(cfg *core.SearchConfig, creds core.Credentials, client *http.Client, qt *quota.Tracker, rc *cache.ResponseCache) *Fetcher {
	limit := rate.Inf
	if cfg.InterRequestDelay > 0 {
		limit = rate.Every(cfg.InterRequestDelay)
	}
	return &Fetcher{
		cfg:     cfg,
		creds:   creds,
		client:  client,
		quota:   qt,
		cache:   rc,
		limiter: rate.NewLimiter(limit, 1),
		logger:  cfg.Log(),
	}
}

// FetchPage returns one cleaned provider page for (query, start, num).
// Cache hits cost nothing; everything else costs one quota unit, spent before
// the network call.
func (f *Fetcher) FetchPage(ctx context.Context, query string, start, num int) (core.SearchPage, error) {
	key := cache.Fingerprint(query, start, num)
	if page, ok := f.cache.Get(key); ok {
		f.logger.Debug("cache hit", "query", query, "start", start)
		return page, nil
	}

	if !f.quota.Acquire() {
		return core.SearchPage{}, ErrQuotaExhausted
	}

	gr, err := f.getWithRetry(ctx, query, start, num)
	if err != nil {
		return core.SearchPage{}, err
	}

	page := f.cleanPage(gr)
	f.cache.Set(key, page)
	return page, nil
}

// getWithRetry wraps the outbound call in the retry policy: transport faults
// back off exponentially up to the attempt ceiling, the final attempt's error
// propagates. A 429 is surfaced immediately and never retried.
func (f *Fetcher) getWithRetry(ctx context.Context, query string, start, num int) (*core.GoogleResponse, error) {
	var lastErr error
	for attempt := 0; attempt < f.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			wait := f.cfg.RetryDelay * (1 << (attempt - 1))
			f.logger.Warn("retrying search call", "attempt", attempt+1, "wait", wait, "error", lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		gr, status, err := f.getJSON(ctx, query, start, num)
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case status == http.StatusOK:
			return gr, nil
		case status == http.StatusTooManyRequests:
			return nil, ErrRateLimited
		default:
			if gr != nil && gr.Error != nil {
				return nil, fmt.Errorf("status %d: %s", status, gr.Error.Message)
			}
			return nil, fmt.Errorf("status %d", status)
		}
	}
	return nil, lastErr
}

func (f *Fetcher) getJSON(ctx context.Context, query string, start, num int) (*core.GoogleResponse, int, error) {
	params := url.Values{}
	params.Set("key", f.creds.APIKey)
	params.Set("cx", f.creds.CXID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))
	params.Set("start", strconv.Itoa(start))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.APIBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", core.DefaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	var gr core.GoogleResponse
	if jsonErr := json.Unmarshal(body, &gr); jsonErr != nil {
		if resp.StatusCode != http.StatusOK {
			// Error pages are not always JSON; the status carries enough.
			return nil, resp.StatusCode, nil
		}
		return nil, resp.StatusCode, fmt.Errorf("decode error: %w", jsonErr)
	}
	return &gr, resp.StatusCode, nil
}

func (f *Fetcher) cleanPage(gr *core.GoogleResponse) core.SearchPage {
	page := core.SearchPage{}
	if total, err := strconv.ParseInt(gr.SearchInformation.TotalResults, 10, 64); err == nil {
		page.TotalResults = total
	}
	for _, item := range gr.Items {
		rec := core.ResultRecord{
			Title:       strings.TrimSpace(item.Title),
			Link:        item.Link,
			Snippet:     strings.TrimSpace(item.Snippet),
			DisplayLink: item.DisplayLink,
			Source:      core.SourceAPI,
		}
		if f.cfg.EnableEntityExtraction {
			rec.Entities = entities.ExtractAll(item.Snippet)
		}
		page.Results = append(page.Results, rec)
	}
	return page
}
