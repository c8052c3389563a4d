package core

import "time"

// Target types accepted by the orchestrator.
const (
	TargetPerson = "person"
	TargetEmail  = "email"
	TargetPhone  = "phone"
)

// ValidTargetTypes lists the target types the orchestrator accepts.
var ValidTargetTypes = []string{TargetPerson, TargetEmail, TargetPhone}

// Result sources.
const (
	SourceAPI       = "api"
	SourceWebScrape = "web_scrape"
	SourceAhmia     = "ahmia"
)

// Options are the per-request feature flags.
type Options struct {
	DeepSearch  bool `json:"deep_search"`
	DarkWeb     bool `json:"dark_web"`
	SocialMedia bool `json:"social_media"`
}

// EntityBundle groups entities extracted from free text, keyed by category.
// Values within a category are unique; order is unspecified until report
// assembly, which sorts them.
type EntityBundle struct {
	Emails        []string            `json:"emails"`
	Phones        []string            `json:"phones"`
	URLs          []string            `json:"urls"`
	SocialHandles map[string][]string `json:"social_handles"`
	Dates         []string            `json:"dates"`
}

// IsEmpty reports whether the bundle holds no entities at all.
func (b *EntityBundle) IsEmpty() bool {
	if b == nil {
		return true
	}
	return len(b.Emails) == 0 && len(b.Phones) == 0 && len(b.URLs) == 0 &&
		len(b.SocialHandles) == 0 && len(b.Dates) == 0
}

// ResultRecord is one search hit. Records from the alternate source carry
// only Title/Link/Snippet/Source; consumers must not assume a full shape.
type ResultRecord struct {
	Title          string            `json:"title"`
	Link           string            `json:"link"`
	Snippet        string            `json:"snippet"`
	DisplayLink    string            `json:"displayLink,omitempty"`
	Source         string            `json:"source,omitempty"`
	Entities       *EntityBundle     `json:"entities,omitempty"`
	Meta           map[string]string `json:"meta,omitempty"`
	Technologies   []string          `json:"technologies,omitempty"`
	RelevanceScore *float64          `json:"relevance_score,omitempty"`
}

// HasEntities reports whether the record carries any extracted entity.
func (r *ResultRecord) HasEntities() bool {
	return !r.Entities.IsEmpty()
}

// SearchPage is one provider page after cleaning: trimmed records plus the
// provider's reported total. This is the unit the response cache stores.
type SearchPage struct {
	Results      []ResultRecord `json:"results"`
	TotalResults int64          `json:"totalResults"`
}

// QueryExecutionResult is the outcome of driving one dork to completion.
type QueryExecutionResult struct {
	DorkName     string         `json:"dork_name"`
	Query        string         `json:"query"`
	TotalResults int64          `json:"total_results"`
	PagesFetched int            `json:"pages_fetched"`
	Results      []ResultRecord `json:"results"`
}

// DorkSummary is the per-dork slice of the final report.
type DorkSummary struct {
	Query        string `json:"query"`
	TotalResults int64  `json:"total_results"`
	PagesFetched int    `json:"pages_fetched"`
	ResultsCount int    `json:"results_count"`
}

// ReportMetadata describes one completed run.
type ReportMetadata struct {
	RunID          string    `json:"run_id"`
	Target         string    `json:"target"`
	TargetType     string    `json:"target_type"`
	Timestamp      time.Time `json:"timestamp"`
	ExecutionTime  float64   `json:"execution_time"`
	TotalResults   int       `json:"total_results"`
	DorksExecuted  int       `json:"dorks_executed"`
	QuotaUsed      int       `json:"quota_used"`
	QuotaRemaining int       `json:"quota_remaining"`
}

// SearchReport is the consolidated output of one run. It is immutable once
// returned by the orchestrator.
type SearchReport struct {
	Metadata           ReportMetadata         `json:"metadata"`
	DorkSummary        map[string]DorkSummary `json:"dork_summary"`
	AggregatedEntities EntityBundle           `json:"aggregated_entities"`
	TopResults         []ResultRecord         `json:"top_results"`
	AllResults         []ResultRecord         `json:"all_results"`
}
