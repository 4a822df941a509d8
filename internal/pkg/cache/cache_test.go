package cache

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestGetCachesWithinTTL(t *testing.T) {
	c := New()
	var calls int64
	c.Register("files:list", GroupFiles, time.Minute, func() (interface{}, error) {
		atomic.AddInt64(&calls, 1)
		return "listing", nil
	})

	for i := 0; i < 3; i++ {
		v, err := c.Get("files:list")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if v != "listing" {
			t.Fatalf("unexpected value %v", v)
		}
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Errorf("expected 1 fetch, got %d", got)
	}
}

func TestGetRefetchesAfterTTL(t *testing.T) {
	c := New()
	var calls int64
	c.Register("files:list", GroupFiles, time.Millisecond, func() (interface{}, error) {
		return atomic.AddInt64(&calls, 1), nil
	})

	c.Get("files:list")
	time.Sleep(5 * time.Millisecond)
	v, err := c.Get("files:list")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v.(int64) != 2 {
		t.Errorf("expected second fetch result, got %v", v)
	}
}

func TestInvalidateSchedulesRefetch(t *testing.T) {
	c := New()
	var calls int64
	c.Register("files:list", GroupFiles, time.Hour, func() (interface{}, error) {
		return atomic.AddInt64(&calls, 1), nil
	})

	if _, err := c.Get("files:list"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	c.Invalidate(GroupFiles)
	waitFor(t, "background refetch", func() bool { return atomic.LoadInt64(&calls) >= 2 })

	v, err := c.Get("files:list")
	if err != nil {
		t.Fatalf("Get after invalidate failed: %v", err)
	}
	if v.(int64) < 2 {
		t.Errorf("expected fresh value, got %v", v)
	}
}

func TestInvalidateOnlyTouchesGroup(t *testing.T) {
	c := New()
	var fileCalls, shareCalls int64
	c.Register("files:list", GroupFiles, time.Hour, func() (interface{}, error) {
		return atomic.AddInt64(&fileCalls, 1), nil
	})
	c.Register("shares:list", GroupShares, time.Hour, func() (interface{}, error) {
		return atomic.AddInt64(&shareCalls, 1), nil
	})

	c.Get("files:list")
	c.Get("shares:list")

	c.Invalidate(GroupShares)
	waitFor(t, "share refetch", func() bool { return atomic.LoadInt64(&shareCalls) >= 2 })

	if got := atomic.LoadInt64(&fileCalls); got != 1 {
		t.Errorf("files group should be untouched, fetched %d times", got)
	}
}

func TestFetchErrorSurfacesAndKeepsNothing(t *testing.T) {
	c := New()
	fail := errors.New("backend down")
	var calls int64
	c.Register("files:list", GroupFiles, time.Hour, func() (interface{}, error) {
		if atomic.AddInt64(&calls, 1) == 1 {
			return nil, fail
		}
		return "ok", nil
	})

	if _, err := c.Get("files:list"); err == nil {
		t.Fatal("expected fetch error")
	}

	// Next read retries instead of serving a cached failure.
	v, err := c.Get("files:list")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if v != "ok" {
		t.Errorf("unexpected value %v", v)
	}
}

func TestGetUnknownKey(t *testing.T) {
	c := New()
	if _, err := c.Get("nope"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
