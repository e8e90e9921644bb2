package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "k1", []byte("layout bytes"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, ok, err := c.Get(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("Get() = ok=%v err=%v, want hit", ok, err)
	}
	if string(data) != "layout bytes" {
		t.Errorf("Get() = %q, want stored bytes", data)
	}
}

func TestFileCacheMiss(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}

	_, ok, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() reported hit for absent key")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, ok, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() returned expired entry")
	}
}

func TestFileCacheDelete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() hit after delete")
	}

	// Deleting an absent key is fine.
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete(absent) error = %v", err)
	}
}

func TestNullCacheNeverStores(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("null cache returned a hit")
	}
}

func TestDefaultKeyerDistinct(t *testing.T) {
	k := NewDefaultKeyer()

	keys := []string{
		k.LayoutKey("default", "ev-1", "aaa"),
		k.LayoutKey("default", "ev-1", "bbb"),
		k.LayoutKey("default", "ev-2", "aaa"),
		k.LocationKey("Berlin", 128),
		k.LocationKey("Berlin", 256),
		k.ArtworkKey("https://example.com/a.png", 0.1, 288),
	}
	seen := map[string]bool{}
	for _, key := range keys {
		if seen[key] {
			t.Errorf("duplicate key %q", key)
		}
		seen[key] = true
	}

	// Same inputs produce the same key.
	if k.LayoutKey("default", "ev-1", "aaa") != keys[0] {
		t.Error("LayoutKey not deterministic")
	}
}

func TestScopedKeyerPrefix(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "event:ev-1:")

	got := scoped.LocationKey("Berlin", 128)
	if !strings.HasPrefix(got, "event:ev-1:") {
		t.Errorf("key %q missing scope prefix", got)
	}
	if strings.TrimPrefix(got, "event:ev-1:") != base.LocationKey("Berlin", 128) {
		t.Error("scoped key does not wrap the inner key")
	}
}

func TestHashStable(t *testing.T) {
	a := Hash([]byte("record"))
	b := Hash([]byte("record"))
	if a != b {
		t.Error("Hash not deterministic")
	}
	if len(a) != 64 {
		t.Errorf("Hash length = %d, want 64 hex chars", len(a))
	}
}
