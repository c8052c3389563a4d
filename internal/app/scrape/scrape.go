// Package scrape fetches single web pages and reduces them to a structured
// document: title, meta tags, main text, outbound links, extracted entities,
// and fingerprinted technologies.
package scrape

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	wappalyzergo "github.com/projectdiscovery/wappalyzergo"

	"echoforge/internal/app/core"
	"echoforge/internal/app/entities"
)

const (
	maxContentLength = 2000
	maxLinks         = 50
)

// browserHeaders make the fetch look like an ordinary browser session.
var browserHeaders = map[string]string{
	"User-Agent":                core.DefaultUserAgent,
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"DNT":                       "1",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

// StructuredDocument is the simplified form of one scraped page.
type StructuredDocument struct {
	URL          string             `json:"url"`
	Title        string             `json:"title"`
	Meta         map[string]string  `json:"meta"`
	Content      string             `json:"content"`
	Links        []string           `json:"links"`
	Entities     *core.EntityBundle `json:"entities,omitempty"`
	Technologies []string           `json:"technologies,omitempty"`
}

// Scraper fetches pages with a browser-like header set. Errors never escape
// Browse as panics or transport failures; they come back as a tagged error.
type Scraper struct {
	client          *http.Client
	extractEntities bool
	fingerprinter   *wappalyzergo.Wappalyze
	logger          *slog.Logger
}

// New builds a scraper. Technology fingerprinting degrades to off when the
// wappalyzer dataset fails to load; that is not a reason to lose the scrape.
func New(client *http.Client, extractEntities bool, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scraper{
		client:          client,
		extractEntities: extractEntities,
		logger:          logger,
	}
	fp, err := wappalyzergo.New()
	if err != nil {
		logger.Warn("tech fingerprinting disabled", "error", err)
	} else {
		s.fingerprinter = fp
	}
	return s
}

// Browse fetches url and extracts a structured document. Any fault (non-200,
// timeout, transport error, unparsable body) is returned as an error carrying
// the URL; the caller decides whether the run continues.
func (s *Scraper) Browse(url, target string) (*StructuredDocument, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("browse %s: %w", url, err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("browse %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("browse %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("browse %s: read body: %w", url, err)
	}

	doc, err := s.extractStructured(body, url)
	if err != nil {
		return nil, fmt.Errorf("browse %s: %w", url, err)
	}

	if s.fingerprinter != nil {
		doc.Technologies = s.fingerprint(resp.Header, body)
	}
	return doc, nil
}

func (s *Scraper) extractStructured(body []byte, url string) (*StructuredDocument, error) {
	q, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	meta := map[string]string{}
	q.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok {
			name, ok = sel.Attr("property")
		}
		content, hasContent := sel.Attr("content")
		if ok && name != "" && hasContent && content != "" {
			meta[name] = content
		}
	})

	content := mainContent(q)
	if len(content) > maxContentLength {
		content = content[:maxContentLength]
	}

	var links []string
	q.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		links = append(links, href)
		return len(links) < maxLinks
	})

	doc := &StructuredDocument{
		URL:     url,
		Title:   strings.TrimSpace(q.Find("title").First().Text()),
		Meta:    meta,
		Content: content,
		Links:   links,
	}
	if s.extractEntities {
		doc.Entities = entities.ExtractAll(content)
	}
	return doc, nil
}

// mainContent locates the page's main text: <article> first, then any
// container whose class or id looks like a content region, then the whole
// page text as a last resort.
func mainContent(q *goquery.Document) string {
	if sel := q.Find("article").First(); sel.Length() > 0 {
		return normalizeText(sel.Text())
	}

	var found string
	q.Find("div[class],div[id]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		id, _ := sel.Attr("id")
		if looksLikeContent(class) || looksLikeContent(id) {
			found = normalizeText(sel.Text())
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	return normalizeText(q.Find("body").Text())
}

var contentMarkers = []string{"content", "main", "article", "post"}

func looksLikeContent(attr string) bool {
	attr = strings.ToLower(attr)
	for _, marker := range contentMarkers {
		if strings.Contains(attr, marker) {
			return true
		}
	}
	return false
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func (s *Scraper) fingerprint(header http.Header, body []byte) []string {
	prints := s.fingerprinter.Fingerprint(header, body)
	if len(prints) == 0 {
		return nil
	}
	techs := make([]string, 0, len(prints))
	for tech := range prints {
		techs = append(techs, tech)
	}
	sort.Strings(techs)
	return techs
}
