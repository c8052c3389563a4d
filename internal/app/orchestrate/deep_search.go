// Package orchestrate is the top-level entry point of the deep-search
// pipeline: it plans dorks, runs their executors concurrently over shared
// quota and cache state, and folds everything into one SearchReport.
package orchestrate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"

	"echoforge/internal/app/cache"
	"echoforge/internal/app/core"
	"echoforge/internal/app/dedup"
	"echoforge/internal/app/dorks"
	"echoforge/internal/app/quota"
	"echoforge/internal/app/rank"
	"echoforge/internal/app/scrape"
	"echoforge/internal/app/search"
)

// alternateSourceName is the dork-summary key for the dark-web index task.
const alternateSourceName = "ahmia_dark_web"

const topResultsCap = 50

// Orchestrator owns the shared run state: one quota tracker and one response
// cache serve every executor. Independent orchestrators have independent
// quota and cache, which keeps concurrent runs and tests isolated.
type Orchestrator struct {
	cfg    core.SearchConfig
	creds  core.Credentials
	quota  *quota.Tracker
	cache  *cache.ResponseCache
	logger *slog.Logger
}

// New validates credentials and builds an orchestrator. Missing credentials
// are a configuration error raised here, before any network activity.
func New(cfg core.SearchConfig, creds core.Credentials) (*Orchestrator, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Log()
	return &Orchestrator{
		cfg:    cfg,
		creds:  creds,
		quota:  quota.New(cfg.QuotaLimit, cfg.QuotaWarningThreshold, logger),
		cache:  cache.New(cfg.CacheTTL),
		logger: logger,
	}, nil
}

// QuotaUsed exposes the quota counter for status surfaces.
func (o *Orchestrator) QuotaUsed() int { return o.quota.Used() }

// QuotaRemaining exposes the unused budget.
func (o *Orchestrator) QuotaRemaining() int { return o.quota.Remaining() }

// Run executes one deep search. maxResults caps each dork's yield; zero or
// negative falls back to the configured default. The report is always
// returned once planning and session setup succeed; per-dork failures only
// show up as shortfalls in the dork summary.
func (o *Orchestrator) Run(ctx context.Context, target, targetType string, maxResults int, opts core.Options) (*core.SearchReport, error) {
	if !slices.Contains(core.ValidTargetTypes, targetType) {
		return nil, fmt.Errorf("invalid target_type %q, must be one of %v", targetType, core.ValidTargetTypes)
	}
	if maxResults <= 0 {
		maxResults = o.cfg.MaxResultsPerDork
	}

	started := time.Now()
	o.logger.Info("starting deep search", "target", target, "type", targetType)

	searchClient := &http.Client{Timeout: o.cfg.RequestTimeout}
	pageClient, err := scrape.BuildClient(o.cfg.TorProxy, o.cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("open outbound client: %w", err)
	}

	fetcher := search.NewFetcher(&o.cfg, o.creds, searchClient, o.quota, o.cache)
	var browser search.PageBrowser
	if o.cfg.EnableFallbackBrowse {
		browser = scrape.New(pageClient, o.cfg.EnableEntityExtraction, o.logger)
	}
	executor := search.NewExecutor(&o.cfg, fetcher, browser)

	plan := dorks.Generate(target, targetType, opts)
	o.logger.Info("generated dork plan", "dorks", len(plan))

	type task struct {
		name  string
		query string
	}
	tasks := make([]task, 0, len(plan)+1)
	for name, query := range plan {
		tasks = append(tasks, task{name: name, query: query})
	}
	if opts.DarkWeb {
		tasks = append(tasks, task{name: alternateSourceName})
	}

	ahmia := search.NewAhmiaSource(o.cfg.AhmiaBaseURL, pageClient, o.logger)

	execResults, execErrs := processWithWorkerPool(ctx, tasks, o.cfg.MaxConcurrentRequests,
		func(ctx context.Context, t task) (core.QueryExecutionResult, error) {
			if t.name == alternateSourceName {
				recs, err := ahmia.Search(ctx, target, maxResults)
				if err != nil {
					return core.QueryExecutionResult{}, err
				}
				return core.QueryExecutionResult{
					DorkName:     t.name,
					Query:        target,
					TotalResults: int64(len(recs)),
					PagesFetched: 1,
					Results:      recs,
				}, nil
			}
			return executor.Execute(ctx, target, t.name, t.query, maxResults), nil
		})

	summary := make(map[string]core.DorkSummary, len(tasks))
	var all []core.ResultRecord
	for i, res := range execResults {
		if execErrs[i] != nil {
			o.logger.Error("dork task skipped", "dork", tasks[i].name, "error", execErrs[i])
			continue
		}
		summary[res.DorkName] = core.DorkSummary{
			Query:        res.Query,
			TotalResults: res.TotalResults,
			PagesFetched: res.PagesFetched,
			ResultsCount: len(res.Results),
		}
		all = append(all, res.Results...)
	}

	if o.cfg.EnableDeduplication {
		before := len(all)
		all = dedup.New().Deduplicate(all)
		o.logger.Info("deduplicated results", "before", before, "after", len(all))
	}
	all = rank.Rank(all, target, o.cfg.MinSnippetLength)

	top := all
	if len(top) > topResultsCap {
		top = top[:topResultsCap]
	}

	report := &core.SearchReport{
		Metadata: core.ReportMetadata{
			RunID:          uuid.NewString(),
			Target:         target,
			TargetType:     targetType,
			Timestamp:      started,
			ExecutionTime:  float64(time.Since(started).Milliseconds()) / 1000.0,
			TotalResults:   len(all),
			DorksExecuted:  len(plan),
			QuotaUsed:      o.quota.Used(),
			QuotaRemaining: o.quota.Remaining(),
		},
		DorkSummary:        summary,
		AggregatedEntities: aggregateEntities(all),
		TopResults:         top,
		AllResults:         all,
	}
	o.logger.Info("deep search finished",
		"results", len(all),
		"elapsed", report.Metadata.ExecutionTime,
		"quota_used", report.Metadata.QuotaUsed)
	return report, nil
}
