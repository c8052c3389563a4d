package entities

import (
	"slices"
	"testing"
)

func TestEmailsAndPhones(t *testing.T) {
	text := "Contact me at a@b.com or +1-202-555-0143"

	emails := Emails(text)
	if !slices.Equal(emails, []string{"a@b.com"}) {
		t.Errorf("Emails() = %v, want [a@b.com]", emails)
	}

	phones := Phones(text)
	if !slices.Equal(phones, []string{"+12025550143"}) {
		t.Errorf("Phones() = %v, want E.164 [+12025550143]", phones)
	}
}

func TestInvalidEmailDropped(t *testing.T) {
	if got := Emails("write to not@@valid please"); len(got) != 0 {
		t.Errorf("Emails() = %v, want none for malformed candidate", got)
	}
}

func TestURLs(t *testing.T) {
	got := URLs("see https://example.com/profile?id=3 and http://other.org/x")
	if len(got) != 2 {
		t.Fatalf("URLs() = %v, want 2 matches", got)
	}
}

func TestSocialHandles(t *testing.T) {
	text := "follow @janedoe, code at github.com/jdoe, career at linkedin.com/in/jane-doe"
	got := SocialHandles(text)

	if !slices.Contains(got["twitter"], "janedoe") {
		t.Errorf("twitter handles = %v, want janedoe", got["twitter"])
	}
	if !slices.Contains(got["github"], "jdoe") {
		t.Errorf("github handles = %v, want jdoe", got["github"])
	}
	if !slices.Contains(got["linkedin"], "jane-doe") {
		t.Errorf("linkedin handles = %v, want jane-doe", got["linkedin"])
	}
	if _, ok := got["instagram"]; ok {
		t.Error("instagram bucket should be omitted when empty")
	}
}

func TestDates(t *testing.T) {
	text := "born 1984-03-12, hired 06/15/2010, spoke on March 3, 2021 and SEPTEMBER 9 2022"
	got := Dates(text)

	for _, want := range []string{"1984-03-12", "06/15/2010", "March 3, 2021", "SEPTEMBER 9 2022"} {
		if !slices.Contains(got, want) {
			t.Errorf("Dates() = %v, missing %q", got, want)
		}
	}
}

func TestExtractAllIndependentCategories(t *testing.T) {
	bundle := ExtractAll("a@b.com ++++++not-a-phone++++++ https://x.dev 2020-01-01")
	if len(bundle.Emails) != 1 || len(bundle.URLs) != 1 || len(bundle.Dates) != 1 {
		t.Errorf("ExtractAll() lost categories: %+v", bundle)
	}
	if len(bundle.Phones) != 0 {
		t.Errorf("Phones = %v, want none from garbage candidate", bundle.Phones)
	}
	if bundle.IsEmpty() {
		t.Error("bundle with entities must not report empty")
	}
}
