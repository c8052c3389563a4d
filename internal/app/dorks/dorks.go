package dorks

import (
	"fmt"
	"strings"

	"echoforge/internal/app/core"
)

// socialDorks are the dork names dropped when the social_media option is off.
var socialDorks = []string{
	"linkedin_profiles", "twitter_x", "facebook", "instagram",
	"social_mentions", "social_media",
}

func personDorks(target string) map[string]string {
	return map[string]string{
		"linkedin_profiles": fmt.Sprintf("%q site:linkedin.com/in", target),
		"twitter_x":         fmt.Sprintf("%q (site:twitter.com OR site:x.com)", target),
		"facebook":          fmt.Sprintf("%q site:facebook.com", target),
		"instagram":         fmt.Sprintf("%q site:instagram.com", target),
		"github":            fmt.Sprintf("%q site:github.com", target),
		"resumes_cv":        fmt.Sprintf("%q (filetype:pdf OR filetype:docx) (\"resume\" OR \"CV\" OR \"curriculum vitae\")", target),
		"publications":      fmt.Sprintf("%q (filetype:pdf OR site:scholar.google.com OR site:researchgate.net)", target),
		"news_mentions":     fmt.Sprintf("%q (site:nytimes.com OR site:washingtonpost.com OR site:bbc.com OR site:reuters.com)", target),
		"blog_posts":        fmt.Sprintf("%q (site:medium.com OR site:wordpress.com OR site:blogger.com)", target),
		"presentations":     fmt.Sprintf("%q (filetype:pptx OR filetype:ppt OR site:slideshare.net)", target),
		"videos":            fmt.Sprintf("%q (site:youtube.com OR site:vimeo.com)", target),
		"professional_orgs": fmt.Sprintf("%q (\"member\" OR \"director\" OR \"CEO\" OR \"founder\")", target),
		"contact_info":      fmt.Sprintf("%q (email OR phone OR contact)", target),
		"simple":            fmt.Sprintf("%q", target),
	}
}

func emailDorks(target string) map[string]string {
	d := map[string]string{
		"breach_check":      fmt.Sprintf("%q (site:haveibeenpwned.com OR \"data breach\" OR \"leaked\")", target),
		"social_mentions":   fmt.Sprintf("%q (site:reddit.com OR site:twitter.com OR site:x.com)", target),
		"forum_posts":       fmt.Sprintf("%q (site:stackoverflow.com OR site:stackexchange.com)", target),
		"pastebin_leaks":    fmt.Sprintf("%q (site:pastebin.com OR site:ghostbin.com)", target),
		"github_commits":    fmt.Sprintf("%q site:github.com", target),
		"business_listings": fmt.Sprintf("%q (\"contact\" OR \"email\")", target),
		"pgp_keys":          fmt.Sprintf("%q (site:keys.openpgp.org OR \"PGP key\")", target),
		"simple":            fmt.Sprintf("%q", target),
	}
	// Domain-only dork derived from the part after '@'; omitted when the
	// target is not address-shaped.
	if at := strings.Index(target, "@"); at >= 0 && at < len(target)-1 {
		domain := target[at+1:]
		d["domain_info"] = fmt.Sprintf("%q (whois OR dns OR \"mail server\")", domain)
	}
	return d
}

func phoneDorks(target string) map[string]string {
	return map[string]string{
		"reverse_lookup":    fmt.Sprintf("%q (\"phone\" OR \"contact\" OR \"mobile\")", target),
		"business_listings": fmt.Sprintf("%q (site:yellowpages.com OR site:whitepages.com)", target),
		"social_media":      fmt.Sprintf("%q (site:facebook.com OR site:linkedin.com)", target),
		"simple":            fmt.Sprintf("%q", target),
	}
}

func darkWebDorks(target string) map[string]string {
	return map[string]string{
		"onion_proxies":   fmt.Sprintf("%q (site:onion.link OR site:onion.ws OR site:tor2web.org OR site:onion.pet OR site:onion.dog)", target),
		"leaks_dumps":     fmt.Sprintf("%q (site:pastebin.com OR site:ghostbin.com OR site:justpaste.it OR site:rentry.co OR \"leaked database\" OR \"dump\" OR \"breach\")", target),
		"darknet_markets": fmt.Sprintf("%q (\"darknet\" OR \"market\" OR \"silk road\" OR \"alpha bay\" OR \"hydra\" OR \"dream market\")", target),
		"hacking_forums":  fmt.Sprintf("%q (site:raidforums.com OR site:breached.vc OR \"hacking forum\" OR \"carding\")", target),
	}
}

// Generate builds the dork plan for a target. Unknown target types fall back
// to the person template set; the orchestrator rejects them before reaching
// this point, so the fallback only matters for direct library use.
func Generate(target, targetType string, opts core.Options) map[string]string {
	var plan map[string]string
	switch targetType {
	case core.TargetEmail:
		plan = emailDorks(target)
	case core.TargetPhone:
		plan = phoneDorks(target)
	default:
		plan = personDorks(target)
	}

	if !opts.SocialMedia {
		for _, name := range socialDorks {
			delete(plan, name)
		}
	}

	if opts.DarkWeb {
		for name, query := range darkWebDorks(target) {
			plan[name] = query
		}
	}

	for name, query := range plan {
		if strings.TrimSpace(query) == "" {
			delete(plan, name)
		}
	}
	return plan
}
