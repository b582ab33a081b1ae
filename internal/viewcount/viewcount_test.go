package viewcount

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestKey(t *testing.T) {
	if got := Key(42, "10.0.0.1"); got != "article:42:10.0.0.1" {
		t.Errorf("Key() = %q", got)
	}
}

func TestMemoryWindow_FirstSeen(t *testing.T) {
	w := NewMemoryWindow(100, time.Hour)
	ctx := context.Background()

	first, _ := w.FirstSeen(ctx, "a")
	second, _ := w.FirstSeen(ctx, "a")
	other, _ := w.FirstSeen(ctx, "b")

	if !first {
		t.Error("Expected first sighting to be reported")
	}
	if second {
		t.Error("Expected repeat sighting to be suppressed")
	}
	if !other {
		t.Error("Expected a different key to be independent")
	}
}

func TestMemoryWindow_Expiry(t *testing.T) {
	w := NewMemoryWindow(100, 50*time.Millisecond)
	ctx := context.Background()

	w.FirstSeen(ctx, "a")
	time.Sleep(120 * time.Millisecond)

	seen, _ := w.FirstSeen(ctx, "a")
	if !seen {
		t.Error("Expected key to be counted again after the window elapsed")
	}
}

func TestMemoryWindow_Bounded(t *testing.T) {
	w := NewMemoryWindow(10, time.Hour)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		w.FirstSeen(ctx, fmt.Sprintf("k%d", i))
	}
	if w.Len() > 10 {
		t.Errorf("Expected at most 10 keys, got %d", w.Len())
	}
}

func TestMemoryWindow_Concurrent(t *testing.T) {
	w := NewMemoryWindow(100, time.Hour)
	ctx := context.Background()

	var counted int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := w.FirstSeen(ctx, "same"); ok {
				atomic.AddInt32(&counted, 1)
			}
		}()
	}
	wg.Wait()

	if counted != 1 {
		t.Errorf("Expected exactly one first sighting, got %d", counted)
	}
}

func setupRedisWindow(t *testing.T, ttl time.Duration) (*RedisWindow, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	w, err := NewRedisWindow("redis://"+s.Addr(), ttl)
	if err != nil {
		t.Fatalf("NewRedisWindow failed: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, s
}

func TestRedisWindow_FirstSeen(t *testing.T) {
	w, s := setupRedisWindow(t, time.Hour)
	ctx := context.Background()

	first, err := w.FirstSeen(ctx, "article:1:v")
	if err != nil {
		t.Fatalf("FirstSeen failed: %v", err)
	}
	second, _ := w.FirstSeen(ctx, "article:1:v")

	if !first || second {
		t.Errorf("Expected (true, false), got (%v, %v)", first, second)
	}
	if !s.Exists("views:article:1:v") {
		t.Error("Expected prefixed key in redis")
	}
}

func TestRedisWindow_Expiry(t *testing.T) {
	w, s := setupRedisWindow(t, time.Minute)
	ctx := context.Background()

	w.FirstSeen(ctx, "k")
	s.FastForward(2 * time.Minute)

	seen, _ := w.FirstSeen(ctx, "k")
	if !seen {
		t.Error("Expected key to be counted again after TTL")
	}
}

func TestRedisWindow_Unavailable(t *testing.T) {
	w, s := setupRedisWindow(t, time.Minute)
	s.Close()

	if _, err := w.FirstSeen(context.Background(), "k"); err == nil {
		t.Error("Expected error when redis is down")
	}
}

func TestNewRedisWindow_BadURL(t *testing.T) {
	if _, err := NewRedisWindow("not a url", time.Minute); err == nil {
		t.Error("Expected error for invalid url")
	}
}
