package memory

import (
	"testing"
	"time"
)

func TestLRUTTLExpiry(t *testing.T) {
	c := NewLRUTTL[string, string](10, 30*time.Millisecond)
	c.Set("k1", "v1")

	if v, ok := c.Get("k1"); !ok || v != "v1" {
		t.Fatalf("get before expiry: ok=%v v=%q", ok, v)
	}

	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("k1"); ok {
		t.Fatalf("expected miss after ttl expiry")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be dropped, len=%d", c.Len())
	}
}

func TestLRUTTLEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUTTL[string, int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("touch a")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to remain")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("expected c to remain")
	}
}

func TestLRUTTLSetRefreshesEntry(t *testing.T) {
	c := NewLRUTTL[string, int](2, time.Minute)
	c.Set("a", 1)
	c.Set("a", 2)

	if v, _ := c.Get("a"); v != 2 {
		t.Fatalf("expected updated value, got %d", v)
	}
	if c.Len() != 1 {
		t.Fatalf("update must not grow the cache, len=%d", c.Len())
	}
}

func TestLRUTTLNilIsAlwaysMiss(t *testing.T) {
	var c *LRUTTL[string, int]
	c.Set("a", 1)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("nil cache must miss")
	}
	if c.Len() != 0 {
		t.Fatalf("nil cache has no entries")
	}
}
