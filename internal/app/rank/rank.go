// Package rank orders results by a fixed relevance heuristic.
package rank

import (
	"sort"
	"strings"

	"echoforge/internal/app/core"
)

// authoritativeDomains boost results hosted on major professional, reference,
// or news sites.
var authoritativeDomains = []string{
	"linkedin.com", "github.com", "wikipedia.org", "reuters.com", "nytimes.com",
}

// Score computes the relevance of one result for a target. Weights are fixed
// and additive. Alternate-source records with missing fields simply score
// zero on the terms they lack.
func Score(r *core.ResultRecord, target string, minSnippetLength int) float64 {
	score := 0.0
	targetLower := strings.ToLower(target)

	if strings.Contains(strings.ToLower(r.Title), targetLower) {
		score += 3.0
	}

	snippet := strings.ToLower(r.Snippet)
	occurrences := float64(strings.Count(snippet, targetLower)) * 0.5
	score += min(occurrences, 2.0)

	domain := strings.ToLower(r.DisplayLink)
	for _, auth := range authoritativeDomains {
		if strings.Contains(domain, auth) {
			score += 2.0
			break
		}
	}

	if len(snippet) >= minSnippetLength {
		score += 1.0
	}

	if r.HasEntities() {
		score += 1.5
	}

	return score
}

// Rank assigns each record its score and sorts descending. The sort is
// stable: records with equal scores keep their original relative order.
func Rank(results []core.ResultRecord, target string, minSnippetLength int) []core.ResultRecord {
	for i := range results {
		s := Score(&results[i], target, minSnippetLength)
		results[i].RelevanceScore = &s
	}
	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].RelevanceScore > *results[j].RelevanceScore
	})
	return results
}
