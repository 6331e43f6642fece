package explain

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	defer rl.Close()

	if !rl.Allow("u1") || !rl.Allow("u1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("u1") {
		t.Error("third request should be throttled")
	}
	if !rl.Allow("u2") {
		t.Error("other users are independent")
	}
}

func TestRateLimiterEvictsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	defer rl.Close()

	rl.Allow("u1")
	rl.evict(time.Now().Add(2 * time.Hour))
	if rl.size() != 0 {
		t.Errorf("size = %d, want 0", rl.size())
	}
	if !rl.Allow("u1") {
		t.Error("evicted key should start with a full bucket")
	}
}
