package cache

import (
	"testing"
	"time"

	"echoforge/internal/app/core"
)

func page(title string) core.SearchPage {
	return core.SearchPage{
		Results:      []core.ResultRecord{{Title: title, Link: "https://example.com/" + title}},
		TotalResults: 1,
	}
}

func TestSetThenGet(t *testing.T) {
	c := New(time.Hour)
	key := Fingerprint("jane doe", 1, 10)
	c.Set(key, page("a"))

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected cache hit immediately after Set")
	}
	if got.Results[0].Title != "a" {
		t.Errorf("got %q, want the stored page", got.Results[0].Title)
	}
}

func TestGetAfterTTL(t *testing.T) {
	now := time.Now()
	c := New(time.Minute)
	c.now = func() time.Time { return now }

	key := Fingerprint("jane doe", 1, 10)
	c.Set(key, page("a"))

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(key); ok {
		t.Error("expected a miss after TTL expiry")
	}
	if c.Len() != 0 {
		t.Error("stale entry should be evicted on read")
	}
}

func TestFingerprintStability(t *testing.T) {
	a := Fingerprint("q", 1, 10)
	b := Fingerprint("q", 1, 10)
	if a != b {
		t.Error("identical inputs must produce identical fingerprints")
	}
	if Fingerprint("q", 11, 10) == a {
		t.Error("different offsets must produce different fingerprints")
	}
	if Fingerprint("other", 1, 10) == a {
		t.Error("different queries must produce different fingerprints")
	}
}

func TestClearExpired(t *testing.T) {
	now := time.Now()
	c := New(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("old", page("old"))
	now = now.Add(2 * time.Minute)
	c.Set("fresh", page("fresh"))

	if removed := c.ClearExpired(); removed != 1 {
		t.Errorf("ClearExpired() = %d, want 1", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh entry must survive the sweep")
	}
}
