// Package cache implements a version-tagged, mtime-validated manifest of
// per-file scan output, written atomically (temp file, then rename), with
// the temp file's name disambiguated by github.com/google/uuid.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"divet/internal/discover"
	"divet/internal/logging"
)

// CurrentVersion is the manifest version this build writes and requires on
// read; a mismatch invalidates the entire cache.
const CurrentVersion = 1

// Mode selects the Cache's read/write behavior.
type Mode string

const (
	// ModeNormal reads and writes the manifest.
	ModeNormal Mode = "normal"
	// ModeCacheOnly reads only; a miss is recorded via HasMisses and is
	// fatal to the driver.
	ModeCacheOnly Mode = "cache_only"
	// ModeNoCache bypasses the manifest entirely.
	ModeNoCache Mode = "no_cache"
)

// manifest is the on-disk, self-describing document the Cache reads and
// writes.
type manifest struct {
	Version int                                `json:"version"`
	Files   map[string]discover.ScannedFileData `json:"files"`
}

// Cache is constructed once per run with an explicit mode and path: it is
// never a singleton, and the caller is responsible for calling Save at run
// end.
type Cache struct {
	path   string
	mode   Mode
	logger *logging.Logger

	files     map[string]discover.ScannedFileData
	hits      int
	misses    int
	hasMisses bool
}

// New constructs a Cache for the manifest at path. In ModeNormal and
// ModeCacheOnly it loads the existing manifest immediately; a read error or
// version mismatch is treated as a cold start, never fatal.
func New(path string, mode Mode, logger *logging.Logger) *Cache {
	c := &Cache{
		path:   path,
		mode:   mode,
		logger: logger,
		files:  make(map[string]discover.ScannedFileData),
	}
	if mode == ModeNoCache {
		return c
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("cache read failed, starting cold", map[string]interface{}{"path": path, "error": err.Error()})
		}
		return c
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		c.logger.Warn("cache manifest corrupt, starting cold", map[string]interface{}{"path": path, "error": err.Error()})
		return c
	}
	if m.Version != CurrentVersion {
		c.logger.Info("cache version mismatch, starting cold", map[string]interface{}{"onDisk": m.Version, "current": CurrentVersion})
		return c
	}
	if m.Files != nil {
		c.files = m.Files
	}
	return c
}

// IsCacheOnly reports whether the Cache was constructed in ModeCacheOnly.
func (c *Cache) IsCacheOnly() bool {
	return c.mode == ModeCacheOnly
}

// HasMisses reports whether any GetCached call since construction missed;
// the driver's cache-only run treats this as fatal.
func (c *Cache) HasMisses() bool {
	return c.hasMisses
}

// GetCached returns the cached entry for path when the on-disk mtime (as
// observed by the caller) matches the stored mtime within 1 millisecond. In
// ModeNoCache this always misses.
func (c *Cache) GetCached(path string, currentMtime float64) (discover.ScannedFileData, bool) {
	if c.mode == ModeNoCache {
		return discover.ScannedFileData{}, false
	}

	entry, ok := c.files[path]
	if !ok || !mtimeMatches(entry.Mtime, currentMtime) {
		c.misses++
		c.hasMisses = true
		return discover.ScannedFileData{}, false
	}
	c.hits++
	return entry, true
}

func mtimeMatches(stored, current float64) bool {
	diff := stored - current
	if diff < 0 {
		diff = -diff
	}
	return diff < 0.001
}

// Update records a freshly scanned entry. It is a no-op in ModeCacheOnly
// and ModeNoCache.
func (c *Cache) Update(path string, entry discover.ScannedFileData) {
	if c.mode != ModeNormal {
		return
	}
	c.files[path] = entry
}

// PruneStale drops entries whose file no longer exists on disk.
func (c *Cache) PruneStale() {
	for path := range c.files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			delete(c.files, path)
		}
	}
}

// Save writes the manifest atomically: marshal to a uuid-named sibling temp
// file, then rename over the target path. A no-op outside ModeNormal.
// Failure is logged and swallowed: the in-memory cache remains valid for
// the remainder of the run.
func (c *Cache) Save() {
	if c.mode != ModeNormal {
		return
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.logger.Warn("cache directory creation failed", map[string]interface{}{"dir": dir, "error": err.Error()})
		return
	}

	m := manifest{Version: CurrentVersion, Files: c.files}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		c.logger.Warn("cache manifest marshal failed", map[string]interface{}{"error": err.Error()})
		return
	}

	tmpPath := filepath.Join(dir, "cache.json.tmp-"+uuid.NewString())
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"path": tmpPath, "error": err.Error()})
		return
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		c.logger.Warn("cache rename failed", map[string]interface{}{"from": tmpPath, "to": c.path, "error": err.Error()})
		_ = os.Remove(tmpPath)
	}
}

// Stats returns the hit/miss/entry counts divet status reports.
func (c *Cache) Stats() (hits, misses, entries int) {
	return c.hits, c.misses, len(c.files)
}
