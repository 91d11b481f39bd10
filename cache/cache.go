package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hsbacot/jmsctl/client"
)

const (
	catalogsDir  = "catalogs"
	snapshotsDir = "snapshots"
)

// ErrMiss is returned when an entry is absent or expired
var ErrMiss = errors.New("cache miss")

// Cache manages the local file cache for jmsctl
type Cache struct {
	baseDir string
	now     func() time.Time
	logger  *log.Logger
}

// NewCache creates a new cache manager with the specified directory
func NewCache(dir string) (*Cache, error) {
	for _, sub := range []string{catalogsDir, snapshotsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	return &Cache{baseDir: dir, now: time.Now, logger: log.New(io.Discard)}, nil
}

// SetLogger routes the cache's own warnings to logger
func (c *Cache) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Dir returns the cache root
func (c *Cache) Dir() string {
	return c.baseDir
}

// GetCatalog returns the resource list cached for server if younger than maxAge
func (c *Cache) GetCatalog(server string, maxAge time.Duration) (*CatalogEntry, error) {
	var entry CatalogEntry
	if err := readJSON(c.catalogPath(server), &entry); err != nil {
		return nil, err
	}

	if c.now().Sub(entry.FetchedAt) > maxAge {
		return nil, fmt.Errorf("%w: catalog expired", ErrMiss)
	}

	return &entry, nil
}

// SetCatalog caches the resource list of server
func (c *Cache) SetCatalog(server string, resources []client.Resource) error {
	entry := CatalogEntry{
		Server:    server,
		FetchedAt: c.now(),
		Resources: resources,
	}
	return writeJSONAtomic(c.catalogPath(server), entry)
}

// InvalidateCatalog drops the cached resource list of server
func (c *Cache) InvalidateCatalog(server string) error {
	if err := os.Remove(c.catalogPath(server)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove catalog: %w", err)
	}
	return nil
}

// SaveSnapshot stores the browsed listing of a resource
func (c *Cache) SaveSnapshot(server string, listing *client.Listing) error {
	if listing == nil {
		return errors.New("nil listing")
	}

	snap := Snapshot{
		Server:   server,
		Resource: listing.Resource,
		TakenAt:  c.now(),
		Entries:  listing.Entries,
	}
	return writeJSONAtomic(c.snapshotPath(server, listing.Resource), snap)
}

// GetSnapshot returns the last browsed listing of a resource
func (c *Cache) GetSnapshot(server, resource string) (*Snapshot, error) {
	var snap Snapshot
	if err := readJSON(c.snapshotPath(server, resource), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListSnapshots lists every cached snapshot, newest first
func (c *Cache) ListSnapshots() ([]SnapshotInfo, error) {
	var infos []SnapshotInfo

	err := c.walk(snapshotsDir, func(path string, info os.FileInfo) {
		var snap Snapshot
		if err := readJSON(path, &snap); err != nil {
			return // Skip unreadable entries
		}
		infos = append(infos, SnapshotInfo{
			Server:   snap.Server,
			Resource: snap.Resource,
			TakenAt:  snap.TakenAt,
			Messages: len(snap.Entries),
			Size:     info.Size(),
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].TakenAt.After(infos[j].TakenAt)
	})
	return infos, nil
}

// RemoveSnapshots deletes the snapshots of resource for every server
func (c *Cache) RemoveSnapshots(resource string) (int, error) {
	pattern := filepath.Join(c.baseDir, snapshotsDir, "*", fileName(resource))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, fmt.Errorf("failed to search snapshots: %w", err)
	}

	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			return 0, fmt.Errorf("failed to remove snapshot: %w", err)
		}
	}
	return len(matches), nil
}

// Clear removes all cached content
func (c *Cache) Clear() error {
	for _, sub := range []string{catalogsDir, snapshotsDir} {
		dir := filepath.Join(c.baseDir, sub)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clear %s: %w", sub, err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to recreate %s: %w", sub, err)
		}
	}
	return nil
}

// GetStats returns statistics about the cache
func (c *Cache) GetStats() (*CacheStats, error) {
	stats := &CacheStats{CacheDir: c.baseDir}

	track := func(info os.FileInfo) {
		stats.TotalSize += info.Size()
		mod := info.ModTime()
		if stats.OldestEntry.IsZero() || mod.Before(stats.OldestEntry) {
			stats.OldestEntry = mod
		}
		if mod.After(stats.NewestEntry) {
			stats.NewestEntry = mod
		}
	}

	if err := c.walk(catalogsDir, func(_ string, info os.FileInfo) {
		stats.Catalogs++
		track(info)
	}); err != nil {
		return nil, err
	}
	if err := c.walk(snapshotsDir, func(_ string, info os.FileInfo) {
		stats.Snapshots++
		track(info)
	}); err != nil {
		return nil, err
	}

	return stats, nil
}

// Prune removes catalogs and snapshots older than opts.MaxAge
func (c *Cache) Prune(opts PruneOptions) (*PruneResult, error) {
	result := &PruneResult{}
	cutoff := c.now().Add(-opts.MaxAge)

	var stale []string
	collect := func(path string, info os.FileInfo) {
		if info.ModTime().Before(cutoff) {
			stale = append(stale, path)
			result.RemovedCount++
			result.FreedSpace += info.Size()
			rel, err := filepath.Rel(c.baseDir, path)
			if err != nil {
				rel = path
			}
			result.RemovedItems = append(result.RemovedItems, rel)
		}
	}

	for _, sub := range []string{catalogsDir, snapshotsDir} {
		if err := c.walk(sub, collect); err != nil {
			return nil, err
		}
	}

	if opts.DryRun {
		return result, nil
	}

	for _, path := range stale {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return result, fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return result, nil
}

// walk calls fn for every JSON file below sub
func (c *Cache) walk(sub string, fn func(path string, info os.FileInfo)) error {
	root := filepath.Join(c.baseDir, sub)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() && strings.HasSuffix(path, ".json") {
			fn(path, info)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk cache directory: %w", err)
	}
	return nil
}

func (c *Cache) catalogPath(server string) string {
	return filepath.Join(c.baseDir, catalogsDir, hashKey(server)+".json")
}

func (c *Cache) snapshotPath(server, resource string) string {
	return filepath.Join(c.baseDir, snapshotsDir, hashKey(server), fileName(resource))
}

// hashKey creates a short stable directory name for a server URL
func hashKey(server string) string {
	h := sha256.Sum256([]byte(server))
	return hex.EncodeToString(h[:])[:16]
}

// fileName maps a resource code to a safe file name
func fileName(resource string) string {
	return url.PathEscape(resource) + ".json"
}

func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrMiss
		}
		return fmt.Errorf("failed to open cache entry: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return nil
}

// writeJSONAtomic writes to a temp file, then renames it into place
func writeJSONAtomic(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save cache entry: %w", err)
	}
	return nil
}
