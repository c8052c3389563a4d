// Package dedup removes repeated results within one run.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"echoforge/internal/app/core"
)

// Deduplicator tracks the URLs and snippet hashes seen so far in one run.
// Not safe for concurrent use; the orchestrator calls it after all executors
// have finished.
type Deduplicator struct {
	seenURLs   map[string]struct{}
	seenHashes map[string]struct{}
}

func New() *Deduplicator {
	return &Deduplicator{
		seenURLs:   make(map[string]struct{}),
		seenHashes: make(map[string]struct{}),
	}
}

// hashContent fingerprints a snippet after case and whitespace normalization.
// An empty snippet hashes like any other value, so two empty-snippet records
// collapse together; this mirrors the records' observable behavior upstream
// and is intentional.
func hashContent(content string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(strings.ToLower(content))))
	return hex.EncodeToString(sum[:])
}

// isDuplicate reports whether the record repeats a seen URL or snippet, and
// records both identifiers when it does not.
func (d *Deduplicator) isDuplicate(r core.ResultRecord) bool {
	if _, ok := d.seenURLs[r.Link]; ok {
		return true
	}
	h := hashContent(r.Snippet)
	if _, ok := d.seenHashes[h]; ok {
		return true
	}
	d.seenURLs[r.Link] = struct{}{}
	d.seenHashes[h] = struct{}{}
	return false
}

// Deduplicate keeps the first occurrence of each URL/snippet and preserves
// input order among survivors.
func (d *Deduplicator) Deduplicate(results []core.ResultRecord) []core.ResultRecord {
	unique := make([]core.ResultRecord, 0, len(results))
	for _, r := range results {
		if !d.isDuplicate(r) {
			unique = append(unique, r)
		}
	}
	return unique
}
