package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashJSON(t *testing.T) {
	a, err := HashJSON(map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashJSON(map[string]int{"b": 2, "a": 1})
	if a != b {
		t.Error("HashJSON should not depend on map insertion order")
	}
	if _, err := HashJSON(make(chan int)); err == nil {
		t.Error("HashJSON(chan) should fail")
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("empty cache reported a hit")
	}
	if err := c.Set(ctx, "feed:abc", []byte("BEGIN:VCALENDAR"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "feed:abc")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v; want hit", hit, err)
	}
	if string(data) != "BEGIN:VCALENDAR" {
		t.Errorf("data = %q", data)
	}

	if err := c.Delete(ctx, "feed:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "feed:abc"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "feed:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("x"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("y"), 0)

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry reported as hit")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry was not removed from disk")
	}

	now = now.Add(365 * 24 * time.Hour)
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl expired")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, hit, err := c.Get(ctx, "bad")
	if err != nil || hit {
		t.Errorf("Get(corrupt) = hit %v, err %v; want clean miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestFileCacheSharding(t *testing.T) {
	c, _ := NewFileCache("/tmp/calgrid")
	p := c.path("some-key")
	rel, err := filepath.Rel("/tmp/calgrid", p)
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 2 || len(parts[0]) != 2 || !strings.HasSuffix(parts[1], ".json") {
		t.Errorf("path %q is not <shard>/<hash>.json", rel)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	t.Run("feed", func(t *testing.T) {
		a := k.FeedKey("webcal://example.com/cal.ics")
		b := k.FeedKey("https://example.com/cal.ics")
		if a != b {
			t.Errorf("webcal and https keys differ: %s vs %s", a, b)
		}
		if !strings.HasPrefix(a, "feed:") {
			t.Errorf("FeedKey = %q, want feed: prefix", a)
		}
		if a == k.FeedKey("https://example.com/other.ics") {
			t.Error("different URLs share a key")
		}
	})

	t.Run("layout", func(t *testing.T) {
		opts := LayoutKeyOpts{View: "day", Date: "2024-03-04", StartHour: 8, EndHour: 18, PixelsPerHour: 60}
		base := k.LayoutKey("events", opts)
		if !strings.HasPrefix(base, "layout:") {
			t.Errorf("LayoutKey = %q, want layout: prefix", base)
		}
		if base != k.LayoutKey("events", opts) {
			t.Error("LayoutKey is not deterministic")
		}

		changed := opts
		changed.PixelsPerHour = 48
		if base == k.LayoutKey("events", changed) {
			t.Error("pixels per hour does not affect the key")
		}
		changed = opts
		changed.Calendars = []string{"work"}
		if base == k.LayoutKey("events", changed) {
			t.Error("calendar filter does not affect the key")
		}
		if base == k.LayoutKey("other-events", opts) {
			t.Error("events hash does not affect the key")
		}
	})

	t.Run("artifact", func(t *testing.T) {
		svg := k.ArtifactKey("grid", ArtifactKeyOpts{Format: "svg", Style: "simple"})
		png := k.ArtifactKey("grid", ArtifactKeyOpts{Format: "png", Style: "simple"})
		outline := k.ArtifactKey("grid", ArtifactKeyOpts{Format: "svg", Style: "outline"})
		if svg == png || svg == outline {
			t.Error("format and style must both affect the artifact key")
		}
	})
}

func TestConfigKeyer(t *testing.T) {
	if _, ok := (Config{}).Keyer().(DefaultKeyer); !ok {
		t.Error("empty namespace should use the default keyer")
	}
	scoped := Config{Namespace: "staging"}.Keyer()
	if got := scoped.FeedKey("https://x/cal.ics"); !strings.HasPrefix(got, "staging:feed:") {
		t.Errorf("FeedKey = %q, want staging:feed: prefix", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	k := NewScopedKeyer(nil, "staging:")

	if got, want := k.FeedKey("https://x/cal.ics"), "staging:"+inner.FeedKey("https://x/cal.ics"); got != want {
		t.Errorf("FeedKey = %q, want %q", got, want)
	}
	opts := LayoutKeyOpts{View: "week"}
	if got, want := k.LayoutKey("h", opts), "staging:"+inner.LayoutKey("h", opts); got != want {
		t.Errorf("LayoutKey = %q, want %q", got, want)
	}
	aopts := ArtifactKeyOpts{Format: "json"}
	if got, want := k.ArtifactKey("g", aopts), "staging:"+inner.ArtifactKey("g", aopts); got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}
}

func TestMongoEntryExpiry(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	forever := newMongoEntry("k", []byte("v"), 0, now)
	if forever.ExpiresAt != nil {
		t.Error("zero ttl should not set expires_at")
	}
	if forever.expired(now.Add(1000 * time.Hour)) {
		t.Error("entry without expiry reported expired")
	}

	short := newMongoEntry("k", []byte("v"), time.Minute, now)
	if short.expired(now.Add(30 * time.Second)) {
		t.Error("entry expired early")
	}
	if !short.expired(now.Add(2 * time.Minute)) {
		t.Error("entry did not expire")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Config{Backend: BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if _, ok := c.(*FileCache); !ok {
		t.Errorf("Open(file) = %T, want *FileCache", c)
	}

	c, err = Open(ctx, Config{Backend: BackendNone})
	if err != nil {
		t.Fatalf("Open(none): %v", err)
	}
	if _, ok := c.(NullCache); !ok {
		t.Errorf("Open(none) = %T, want NullCache", c)
	}

	if _, err := Open(ctx, Config{Backend: "memcached"}); err == nil {
		t.Error("Open(memcached) should fail")
	}
}

func TestRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("NewRedisCache should fail against a closed port")
	}
}
