package cache

import (
	"time"

	"github.com/hsbacot/jmsctl/client"
)

// CatalogEntry is the cached resource list of one server
type CatalogEntry struct {
	Server    string            `json:"server"`
	FetchedAt time.Time         `json:"fetched_at"`
	Resources []client.Resource `json:"resources"`
}

// Snapshot is the last browsed content of a resource
type Snapshot struct {
	Server   string         `json:"server"`
	Resource string         `json:"resource"`
	TakenAt  time.Time      `json:"taken_at"`
	Entries  []client.Entry `json:"entries"`
}

// SnapshotInfo describes a cached snapshot without its messages
type SnapshotInfo struct {
	Server   string    `json:"server"`
	Resource string    `json:"resource"`
	TakenAt  time.Time `json:"taken_at"`
	Messages int       `json:"messages"`
	Size     int64     `json:"size"`
}

// CacheStats contains statistics about the cache
type CacheStats struct {
	Catalogs    int       `json:"catalogs"`
	Snapshots   int       `json:"snapshots"`
	TotalSize   int64     `json:"total_size"`
	OldestEntry time.Time `json:"oldest_entry"`
	NewestEntry time.Time `json:"newest_entry"`
	CacheDir    string    `json:"cache_dir"`
}

// PruneOptions configures cache pruning behavior
type PruneOptions struct {
	MaxAge time.Duration
	DryRun bool
}

// PruneResult contains information about pruned entries
type PruneResult struct {
	RemovedCount int
	FreedSpace   int64
	RemovedItems []string
}
