package orchestrate

import (
	"sort"

	"echoforge/internal/app/core"
)

const aggregatedURLCap = 50

// aggregateEntities unions every record's entity bundle into one. Categories
// come back sorted for deterministic output; the URL list is capped.
func aggregateEntities(results []core.ResultRecord) core.EntityBundle {
	emails := map[string]struct{}{}
	phones := map[string]struct{}{}
	urls := map[string]struct{}{}
	dates := map[string]struct{}{}
	handles := map[string]map[string]struct{}{}

	for _, r := range results {
		if r.Entities == nil {
			continue
		}
		addAll(emails, r.Entities.Emails)
		addAll(phones, r.Entities.Phones)
		addAll(urls, r.Entities.URLs)
		addAll(dates, r.Entities.Dates)
		for platform, hs := range r.Entities.SocialHandles {
			if handles[platform] == nil {
				handles[platform] = map[string]struct{}{}
			}
			addAll(handles[platform], hs)
		}
	}

	urlList := sortedSlice(urls)
	if len(urlList) > aggregatedURLCap {
		urlList = urlList[:aggregatedURLCap]
	}

	bundle := core.EntityBundle{
		Emails:        sortedSlice(emails),
		Phones:        sortedSlice(phones),
		URLs:          urlList,
		SocialHandles: map[string][]string{},
		Dates:         sortedSlice(dates),
	}
	for platform, set := range handles {
		bundle.SocialHandles[platform] = sortedSlice(set)
	}
	return bundle
}

func addAll(set map[string]struct{}, values []string) {
	for _, v := range values {
		set[v] = struct{}{}
	}
}

func sortedSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
