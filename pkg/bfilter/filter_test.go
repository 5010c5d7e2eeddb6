package bfilter

import (
	"os"
	"testing"
)

func TestDiskFilter_AddAndContains(t *testing.T) {
	dir := t.TempDir()
	f, err := Init(DefaultConfig(), dir, "widgets", true)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}

	added, err := f.Add([]byte("a"))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !added {
		t.Fatal("first add of a new key should report added=true")
	}

	added, err = f.Add([]byte("a"))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if added {
		t.Fatal("second add of the same key should report added=false")
	}

	present, err := f.Contains([]byte("a"))
	if err != nil {
		t.Fatalf("contains failed: %v", err)
	}
	if !present {
		t.Fatal("a should be present")
	}

	absent, err := f.Contains([]byte("zzz-not-inserted"))
	if err != nil {
		t.Fatalf("contains failed: %v", err)
	}
	if absent {
		t.Fatal("key never added should not be reported present (absent false positive expected for this test vector)")
	}
}

func TestDiskFilter_FlushAndReopenRoundTrips(t *testing.T) {
	dir := t.TempDir()
	f, err := Init(DefaultConfig(), dir, "roundtrip", true)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}

	keys := [][]byte{[]byte("k1"), []byte("k2"), []byte("k3")}
	for _, k := range keys {
		if _, err := f.Add(k); err != nil {
			t.Fatalf("add %s failed: %v", k, err)
		}
	}

	if err := f.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	reopened, err := Init(DefaultConfig(), dir, "roundtrip", false)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	for _, k := range keys {
		present, err := reopened.Contains(k)
		if err != nil {
			t.Fatalf("contains %s failed: %v", k, err)
		}
		if !present {
			t.Fatalf("key %s lost across flush/reopen", k)
		}
	}
}

func TestDiskFilter_InitFreshFalseWithoutBackingFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	f, err := Init(DefaultConfig(), dir, "never-flushed", false)
	if err != nil {
		t.Fatalf("init should not fail for a missing backing file: %v", err)
	}

	present, err := f.Contains([]byte("anything"))
	if err != nil {
		t.Fatalf("contains failed: %v", err)
	}
	if present {
		t.Fatal("freshly discovered empty filter should not contain anything")
	}
}

func TestDiskFilter_DeleteRemovesDirectory(t *testing.T) {
	dir := t.TempDir()
	f, err := Init(DefaultConfig(), dir, "todelete", true)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	filterDir := dir + "/" + dirPrefix + "todelete"
	if _, err := os.Stat(filterDir); err != nil {
		t.Fatalf("expected filter directory to exist before delete: %v", err)
	}

	if err := f.Delete(); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(filterDir); !os.IsNotExist(err) {
		t.Fatalf("expected filter directory to be gone after delete, stat err = %v", err)
	}
}

func TestDiskFilter_IsProxiedFalse(t *testing.T) {
	dir := t.TempDir()
	f, err := Init(DefaultConfig(), dir, "x", true)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if f.IsProxied() {
		t.Fatal("disk-backed filter must not report itself as proxied")
	}
}

func TestProxiedFilter_IsProxiedTrueAndNoBackingDir(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.InMemory = true

	f, err := Init(cfg, dir, "mem", true)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !f.IsProxied() {
		t.Fatal("in-memory config must produce a proxied filter")
	}

	if _, err := f.Add([]byte("k")); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("flush on a proxied filter must be a no-op, not an error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("proxied filter must not create any backing directory, found: %v", entries)
	}
}
