package quota

import (
	"sync"
	"testing"
	"time"
)

func TestAcquireUntilExhausted(t *testing.T) {
	tr := New(3, 0.8, nil)
	for i := 0; i < 3; i++ {
		if !tr.Acquire() {
			t.Fatalf("acquisition %d should succeed", i+1)
		}
	}
	if tr.Acquire() {
		t.Error("acquisition past the limit should fail")
	}
	if got := tr.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d, want 0", got)
	}
}

func TestRollingReset(t *testing.T) {
	now := time.Now()
	tr := New(2, 0.8, nil)
	tr.now = func() time.Time { return now }
	tr.resetTime = now.Add(24 * time.Hour)

	tr.Acquire()
	tr.Acquire()
	if tr.Acquire() {
		t.Fatal("limit should be exhausted before the reset")
	}

	now = now.Add(25 * time.Hour)
	if !tr.Acquire() {
		t.Error("acquisition should succeed after the 24h window rolls over")
	}
	if got := tr.Used(); got != 1 {
		t.Errorf("Used() after reset = %d, want 1", got)
	}
}

func TestRemainingFloor(t *testing.T) {
	tr := New(1, 0.8, nil)
	tr.Acquire()
	tr.Acquire()
	if got := tr.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d, want 0", got)
	}
}

func TestConcurrentAcquireNeverOvershoots(t *testing.T) {
	const limit = 50
	tr := New(limit, 0.8, nil)

	var wg sync.WaitGroup
	granted := make(chan struct{}, limit*4)
	for i := 0; i < limit*4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.Acquire() {
				granted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(granted)

	count := 0
	for range granted {
		count++
	}
	if count != limit {
		t.Errorf("granted %d acquisitions, want exactly %d", count, limit)
	}
}
