// Package entities extracts structured identifiers (emails, phone numbers,
// URLs, social handles, dates) from free text.
package entities

import (
	"net/mail"
	"regexp"
	"sort"

	"github.com/nyaruka/phonenumbers"

	"echoforge/internal/app/core"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// Phone candidates must carry an international prefix; bare national
	// digit runs produce far too many false positives in search snippets.
	phoneRe = regexp.MustCompile(`\+\d[\d\s().-]{5,}\d`)

	urlRe = regexp.MustCompile(`https?://(?:www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b[-a-zA-Z0-9()@:%_+.~#?&/=]*`)

	twitterRe   = regexp.MustCompile(`@([A-Za-z0-9_]{1,15})`)
	linkedinRe  = regexp.MustCompile(`linkedin\.com/in/([A-Za-z0-9-]+)`)
	githubRe    = regexp.MustCompile(`github\.com/([A-Za-z0-9-]+)`)
	instagramRe = regexp.MustCompile(`instagram\.com/([A-Za-z0-9_.]+)`)

	dateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\d{4}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`(?i)\b\d{2}/\d{2}/\d{4}\b`),
		regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? \d{4}\b`),
	}
)

// Emails returns the deduplicated valid email addresses found in text.
// Regex candidates that fail address-grammar validation are dropped silently.
func Emails(text string) []string {
	seen := map[string]struct{}{}
	for _, cand := range emailRe.FindAllString(text, -1) {
		addr, err := mail.ParseAddress(cand)
		if err != nil {
			continue
		}
		seen[addr.Address] = struct{}{}
	}
	return keys(seen)
}

// Phones returns phone numbers found in text, normalized to E.164. Candidates
// that do not parse as valid numbers are skipped.
func Phones(text string) []string {
	seen := map[string]struct{}{}
	for _, cand := range phoneRe.FindAllString(text, -1) {
		num, err := phonenumbers.Parse(cand, "")
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		seen[phonenumbers.Format(num, phonenumbers.E164)] = struct{}{}
	}
	return keys(seen)
}

// URLs returns http(s) URLs found in text.
func URLs(text string) []string {
	seen := map[string]struct{}{}
	for _, u := range urlRe.FindAllString(text, -1) {
		seen[u] = struct{}{}
	}
	return keys(seen)
}

// SocialHandles returns per-platform handle sets. Platforms with no matches
// are omitted from the map.
func SocialHandles(text string) map[string][]string {
	platforms := map[string]*regexp.Regexp{
		"twitter":   twitterRe,
		"linkedin":  linkedinRe,
		"github":    githubRe,
		"instagram": instagramRe,
	}
	out := map[string][]string{}
	for platform, re := range platforms {
		seen := map[string]struct{}{}
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			seen[m[1]] = struct{}{}
		}
		if len(seen) > 0 {
			out[platform] = keys(seen)
		}
	}
	return out
}

// Dates returns date strings in ISO, US, or long-form month notation.
func Dates(text string) []string {
	seen := map[string]struct{}{}
	for _, re := range dateRes {
		for _, m := range re.FindAllString(text, -1) {
			seen[m] = struct{}{}
		}
	}
	return keys(seen)
}

// ExtractAll runs every category over text. Categories are independent: a
// failure inside one never affects the others.
func ExtractAll(text string) *core.EntityBundle {
	return &core.EntityBundle{
		Emails:        Emails(text),
		Phones:        Phones(text),
		URLs:          URLs(text),
		SocialHandles: SocialHandles(text),
		Dates:         Dates(text),
	}
}

func keys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
