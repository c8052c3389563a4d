package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"echoforge/internal/app/core"
)

// AhmiaSource queries the Ahmia clear-web index of onion services. It is the
// alternate source launched alongside the dork executors when dark-web mode
// is on. Its records are thinner than API results: title, link, snippet,
// source tag, nothing else.
type AhmiaSource struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewAhmiaSource builds the alternate source. client should be routed
// through the Tor proxy when one is configured.
func NewAhmiaSource(baseURL string, client *http.Client, logger *slog.Logger) *AhmiaSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &AhmiaSource{baseURL: baseURL, client: client, logger: logger}
}

// Search fetches the Ahmia result page for target and parses it with fixed
// selectors. Markup drift shows up as an empty result list, not an error.
func (a *AhmiaSource) Search(ctx context.Context, target string, maxResults int) ([]core.ResultRecord, error) {
	u := fmt.Sprintf("%s/search/?q=%s", a.baseURL, url.QueryEscape(target))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", core.DefaultUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ahmia search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ahmia search: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ahmia search: read body: %w", err)
	}
	return parseAhmiaResults(body, maxResults)
}

func parseAhmiaResults(body []byte, maxResults int) ([]core.ResultRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("ahmia search: parse: %w", err)
	}

	var results []core.ResultRecord
	doc.Find("li.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find("h4 a").First()
		href, _ := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		snippet := strings.TrimSpace(sel.Find("p").First().Text())
		if href == "" && title == "" {
			return true
		}
		results = append(results, core.ResultRecord{
			Title:   title,
			Link:    href,
			Snippet: snippet,
			Source:  core.SourceAhmia,
		})
		return len(results) < maxResults
	})
	return results, nil
}
