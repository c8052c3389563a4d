package rank

import (
	"testing"

	"echoforge/internal/app/core"
)

const minSnippet = 50

func TestTitleMatchWeight(t *testing.T) {
	withTitle := core.ResultRecord{Title: "Jane Doe - portfolio", Snippet: "short"}
	withoutTitle := core.ResultRecord{Title: "Somebody else", Snippet: "short"}

	diff := Score(&withTitle, "Jane Doe", minSnippet) - Score(&withoutTitle, "Jane Doe", minSnippet)
	if diff < 3.0 {
		t.Errorf("title match should add at least 3.0, got diff %f", diff)
	}
}

func TestSnippetOccurrencesCapped(t *testing.T) {
	r := core.ResultRecord{Snippet: "jane jane jane jane jane jane jane jane jane jane"}
	s := Score(&r, "jane", 1000)
	if s != 2.0 {
		t.Errorf("occurrence term should cap at 2.0, got %f", s)
	}
}

func TestAuthoritativeDomain(t *testing.T) {
	plain := core.ResultRecord{DisplayLink: "example.com"}
	auth := core.ResultRecord{DisplayLink: "www.linkedin.com"}
	if Score(&auth, "x", minSnippet)-Score(&plain, "x", minSnippet) != 2.0 {
		t.Error("authoritative domain should add exactly 2.0")
	}
}

func TestEntityBonusAndSnippetLength(t *testing.T) {
	long := core.ResultRecord{
		Snippet:  "this snippet is comfortably longer than fifty characters in total",
		Entities: &core.EntityBundle{Emails: []string{"a@b.com"}},
	}
	if got := Score(&long, "zzz", minSnippet); got != 2.5 {
		t.Errorf("expected 1.0 length + 1.5 entities = 2.5, got %f", got)
	}

	thin := core.ResultRecord{Snippet: "short", Entities: &core.EntityBundle{}}
	if got := Score(&thin, "zzz", minSnippet); got != 0 {
		t.Errorf("empty bundle and short snippet should score 0, got %f", got)
	}
}

func TestRankDescendingAndStable(t *testing.T) {
	results := []core.ResultRecord{
		{Title: "no match", Link: "first-tie", Snippet: "short"},
		{Title: "no match either", Link: "second-tie", Snippet: "brief"},
		{Title: "Jane Doe", Link: "winner", Snippet: "short"},
	}
	ranked := Rank(results, "Jane Doe", minSnippet)

	if ranked[0].Link != "winner" {
		t.Errorf("highest score first, got %q", ranked[0].Link)
	}
	if ranked[1].Link != "first-tie" || ranked[2].Link != "second-tie" {
		t.Error("equal scores must keep their original relative order")
	}
	for _, r := range ranked {
		if r.RelevanceScore == nil {
			t.Fatal("every ranked record must carry its score")
		}
	}
}
