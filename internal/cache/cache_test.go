package cache

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"divet/internal/discover"
	"divet/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Output: io.Discard})
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func TestCacheRoundTripSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	c := New(path, ModeNormal, testLogger())
	entry := discover.ScannedFileData{
		FilePath:   "a.swift",
		ModuleName: "Core",
		Mtime:      12345.678,
	}
	c.Update("a.swift", entry)
	c.Save()

	reloaded := New(path, ModeNormal, testLogger())
	got, ok := reloaded.GetCached("a.swift", 12345.678)
	if !ok {
		t.Fatal("expected a cache hit after reload")
	}
	if got.ModuleName != "Core" {
		t.Errorf("ModuleName = %q, want Core", got.ModuleName)
	}
}

func TestCacheMtimeBoundary(t *testing.T) {
	dir := t.TempDir()
	c := New(filepath.Join(dir, "cache.json"), ModeNormal, testLogger())
	c.Update("a.swift", discover.ScannedFileData{FilePath: "a.swift", Mtime: 1000.0})

	// Within 1ms tolerance: hit.
	if _, ok := c.GetCached("a.swift", 1000.0009); !ok {
		t.Error("expected hit for a sub-millisecond mtime drift")
	}

	// At/over 1ms: miss.
	if _, ok := c.GetCached("a.swift", 1001.0); ok {
		t.Error("expected miss for a >=1ms mtime drift")
	}
}

func TestCacheMissUnknownPath(t *testing.T) {
	dir := t.TempDir()
	c := New(filepath.Join(dir, "cache.json"), ModeNormal, testLogger())

	if _, ok := c.GetCached("never-scanned.swift", 1.0); ok {
		t.Error("expected a miss for a path never Update'd")
	}
	if !c.HasMisses() {
		t.Error("expected HasMisses to be true after a miss")
	}
}

func TestCacheNoCacheModeAlwaysMisses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	seed := New(path, ModeNormal, testLogger())
	seed.Update("a.swift", discover.ScannedFileData{FilePath: "a.swift", Mtime: 5.0})
	seed.Save()

	c := New(path, ModeNoCache, testLogger())
	if _, ok := c.GetCached("a.swift", 5.0); ok {
		t.Error("expected ModeNoCache to never hit, even with a matching on-disk entry")
	}
}

func TestCacheCorruptManifestIsColdStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	if err := writeFile(path, []byte("{not valid json")); err != nil {
		t.Fatalf("failed to seed corrupt manifest: %v", err)
	}

	c := New(path, ModeNormal, testLogger())
	if _, ok := c.GetCached("a.swift", 5.0); ok {
		t.Error("expected a corrupt manifest to cold-start rather than error")
	}
}

func TestCacheMissingManifestIsColdStart(t *testing.T) {
	dir := t.TempDir()
	c := New(filepath.Join(dir, "does-not-exist.json"), ModeNormal, testLogger())
	if _, ok := c.GetCached("a.swift", 5.0); ok {
		t.Error("expected a cold-started cache (nonexistent manifest) to miss")
	}
}

func TestCachePruneStaleDropsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	c := New(filepath.Join(dir, "cache.json"), ModeNormal, testLogger())
	c.Update("gone.swift", discover.ScannedFileData{FilePath: "gone.swift", Mtime: 1.0})
	c.PruneStale()

	if _, ok := c.GetCached("gone.swift", 1.0); ok {
		t.Error("expected PruneStale to drop an entry whose file no longer exists")
	}
}

func TestCacheUpdateNoOpOutsideNormalMode(t *testing.T) {
	dir := t.TempDir()
	c := New(filepath.Join(dir, "cache.json"), ModeCacheOnly, testLogger())
	c.Update("a.swift", discover.ScannedFileData{FilePath: "a.swift", Mtime: 1.0})

	if _, ok := c.GetCached("a.swift", 1.0); ok {
		t.Error("expected Update to be a no-op in ModeCacheOnly")
	}
}

func TestCacheStats(t *testing.T) {
	dir := t.TempDir()
	c := New(filepath.Join(dir, "cache.json"), ModeNormal, testLogger())
	c.Update("a.swift", discover.ScannedFileData{FilePath: "a.swift", Mtime: 1.0})

	c.GetCached("a.swift", 1.0)   // hit
	c.GetCached("b.swift", 1.0)   // miss

	hits, misses, entries := c.Stats()
	if hits != 1 || misses != 1 || entries != 1 {
		t.Errorf("Stats() = (%d, %d, %d), want (1, 1, 1)", hits, misses, entries)
	}
}
