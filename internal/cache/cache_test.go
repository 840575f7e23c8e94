package cache

import (
	"testing"

	"github.com/hargabyte/pyr/internal/extract"
	"github.com/hargabyte/pyr/internal/parser"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleModule(t *testing.T) *extract.Module {
	t.Helper()

	p := parser.New()
	t.Cleanup(p.Close)

	result, err := p.Parse([]byte("def ping() -> str:\n    return \"pong\"\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	t.Cleanup(result.Close)

	mod, err := extract.New().Extract(result)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	mod.Path = "svc.py"
	return mod
}

func TestCachePutGet(t *testing.T) {
	c := openTestCache(t)
	mod := sampleModule(t)
	hash := Hash([]byte("source"))

	if err := c.Put("svc.py", hash, mod); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := c.Get("svc.py", hash)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got.Functions()) != 1 || got.Functions()[0].Name != "ping" {
		t.Errorf("module lost in round trip: %+v", got.Decls)
	}
}

func TestCacheMissOnStaleHash(t *testing.T) {
	c := openTestCache(t)
	mod := sampleModule(t)

	if err := c.Put("svc.py", Hash([]byte("v1")), mod); err != nil {
		t.Fatal(err)
	}

	_, ok, err := c.Get("svc.py", Hash([]byte("v2")))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected miss for changed content")
	}
}

func TestCacheMissOnUnknownPath(t *testing.T) {
	c := openTestCache(t)

	_, ok, err := c.Get("never.py", Hash([]byte("x")))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected miss for unknown path")
	}
}

func TestCachePutReplaces(t *testing.T) {
	c := openTestCache(t)
	mod := sampleModule(t)

	if err := c.Put("svc.py", Hash([]byte("v1")), mod); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("svc.py", Hash([]byte("v2")), mod); err != nil {
		t.Fatalf("replacing Put failed: %v", err)
	}

	if _, ok, _ := c.Get("svc.py", Hash([]byte("v1"))); ok {
		t.Error("old hash must be gone after replace")
	}
	if _, ok, _ := c.Get("svc.py", Hash([]byte("v2"))); !ok {
		t.Error("new hash must hit")
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 1 {
		t.Errorf("expected single entry, got %d", stats.Entries)
	}
}

func TestCacheClear(t *testing.T) {
	c := openTestCache(t)
	mod := sampleModule(t)

	if err := c.Put("a.py", Hash([]byte("a")), mod); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("b.py", Hash([]byte("b")), mod); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 0 {
		t.Errorf("expected empty cache, got %d entries", stats.Entries)
	}
}

func TestHashStable(t *testing.T) {
	a := Hash([]byte("content"))
	b := Hash([]byte("content"))
	if a != b {
		t.Error("hash must be deterministic")
	}
	if a == Hash([]byte("other")) {
		t.Error("different content must hash differently")
	}
	if len(a) != 64 {
		t.Errorf("expected hex sha256, got length %d", len(a))
	}
}
