package core

import (
	"errors"
	"log/slog"
	"time"
)

const (
	DefaultAPIURL    = "https://www.googleapis.com/customsearch/v1"
	DefaultAhmiaURL  = "https://ahmia.fi"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

	// Google CSE caps results at 100 per query, 10 per page; the last
	// valid page offset is therefore 91.
	MaxPageStart = 91
	PageSize     = 10
)

// Credentials for the search provider. Both fields are required before any
// network activity begins.
type Credentials struct {
	APIKey string
	CXID   string
}

// Validate reports missing credentials as a configuration error.
func (c Credentials) Validate() error {
	if c.APIKey == "" || c.CXID == "" {
		return errors.New("missing GOOGLE_API_KEY or GOOGLE_CX_ID")
	}
	return nil
}

// SearchConfig is the immutable configuration snapshot for one process.
// Create it with DefaultConfig and adjust fields before handing it to the
// orchestrator; it must not be mutated afterwards.
type SearchConfig struct {
	MaxResultsPerDork      int
	MaxConcurrentRequests  int
	QuotaLimit             int
	QuotaWarningThreshold  float64
	RequestTimeout         time.Duration
	RetryAttempts          int
	RetryDelay             time.Duration
	InterRequestDelay      time.Duration
	CacheTTL               time.Duration
	EnableFallbackBrowse   bool
	EnableEntityExtraction bool
	EnableDeduplication    bool
	MinSnippetLength       int

	// APIBaseURL and AhmiaBaseURL exist so tests can point the pipeline
	// at a stub server. Production code leaves the defaults.
	APIBaseURL  string
	AhmiaBaseURL string

	// TorProxy, when set, routes alternate-source and scrape traffic
	// through a SOCKS5 endpoint (e.g. socks5://127.0.0.1:9050).
	TorProxy string

	Logger *slog.Logger
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() SearchConfig {
	return SearchConfig{
		MaxResultsPerDork:      50,
		MaxConcurrentRequests:  5,
		QuotaLimit:             100,
		QuotaWarningThreshold:  0.8,
		RequestTimeout:         30 * time.Second,
		RetryAttempts:          3,
		RetryDelay:             2 * time.Second,
		InterRequestDelay:      500 * time.Millisecond,
		CacheTTL:               time.Hour,
		EnableFallbackBrowse:   true,
		EnableEntityExtraction: true,
		EnableDeduplication:    true,
		MinSnippetLength:       50,
		APIBaseURL:             DefaultAPIURL,
		AhmiaBaseURL:           DefaultAhmiaURL,
	}
}

// Log returns the configured logger or the process default.
func (c *SearchConfig) Log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// GoogleResponse mirrors the subset of the Custom Search JSON API response
// the pipeline reads.
type GoogleResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Snippet     string `json:"snippet"`
		DisplayLink string `json:"displayLink"`
	} `json:"items"`
	SearchInformation struct {
		TotalResults string `json:"totalResults"`
	} `json:"searchInformation"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
