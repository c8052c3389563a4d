package runner

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"echoforge/internal/app/core"
)

// fileConfig is the on-disk shape of ~/.config/echoforge/config.yaml.
// Durations are expressed in seconds (delays may be fractional).
type fileConfig struct {
	MaxResultsPerDork     int     `yaml:"max_results_per_dork"`
	MaxConcurrentRequests int     `yaml:"max_concurrent_requests"`
	QuotaLimit            int     `yaml:"quota_limit"`
	QuotaWarningThreshold float64 `yaml:"quota_warning_threshold"`
	RequestTimeoutSec     float64 `yaml:"request_timeout"`
	RetryAttempts         int     `yaml:"retry_attempts"`
	RetryDelaySec         float64 `yaml:"retry_delay"`
	InterRequestDelaySec  float64 `yaml:"inter_request_delay"`
	CacheTTLSec           float64 `yaml:"cache_ttl"`
	DisableFallbackBrowse bool    `yaml:"disable_fallback_browse"`
	DisableEntities       bool    `yaml:"disable_entity_extraction"`
	DisableDeduplication  bool    `yaml:"disable_deduplication"`
	MinSnippetLength      int     `yaml:"min_snippet_length"`
	TorProxy              string  `yaml:"tor_proxy"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "echoforge", "config.yaml")
}

// loadConfigFile overlays the yaml config file, when present, onto the stock
// configuration. A missing file is not an error; a malformed one is.
func loadConfigFile(path string) (core.SearchConfig, error) {
	cfg := core.DefaultConfig()
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, err
	}

	if fc.MaxResultsPerDork > 0 {
		cfg.MaxResultsPerDork = fc.MaxResultsPerDork
	}
	if fc.MaxConcurrentRequests > 0 {
		cfg.MaxConcurrentRequests = fc.MaxConcurrentRequests
	}
	if fc.QuotaLimit > 0 {
		cfg.QuotaLimit = fc.QuotaLimit
	}
	if fc.QuotaWarningThreshold > 0 {
		cfg.QuotaWarningThreshold = fc.QuotaWarningThreshold
	}
	if fc.RequestTimeoutSec > 0 {
		cfg.RequestTimeout = secs(fc.RequestTimeoutSec)
	}
	if fc.RetryAttempts > 0 {
		cfg.RetryAttempts = fc.RetryAttempts
	}
	if fc.RetryDelaySec > 0 {
		cfg.RetryDelay = secs(fc.RetryDelaySec)
	}
	if fc.InterRequestDelaySec > 0 {
		cfg.InterRequestDelay = secs(fc.InterRequestDelaySec)
	}
	if fc.CacheTTLSec > 0 {
		cfg.CacheTTL = secs(fc.CacheTTLSec)
	}
	if fc.MinSnippetLength > 0 {
		cfg.MinSnippetLength = fc.MinSnippetLength
	}
	cfg.EnableFallbackBrowse = !fc.DisableFallbackBrowse
	cfg.EnableEntityExtraction = !fc.DisableEntities
	cfg.EnableDeduplication = !fc.DisableDeduplication
	cfg.TorProxy = fc.TorProxy
	return cfg, nil
}

func secs(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
