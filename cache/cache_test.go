package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsbacot/jmsctl/client"
)

const server = "http://localhost:8080"

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	return c
}

func TestCatalogRoundTripAndExpiry(t *testing.T) {
	c := newTestCache(t)
	resources := []client.Resource{
		{Code: "QUEUE_001", Name: "QUEUE 001", Kind: client.ResourceQueue},
		{Code: "TOPIC_001", Name: "TOPIC 001", Kind: client.ResourceTopic},
	}

	_, err := c.GetCatalog(server, time.Hour)
	assert.True(t, errors.Is(err, ErrMiss))

	require.NoError(t, c.SetCatalog(server, resources))

	entry, err := c.GetCatalog(server, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, resources, entry.Resources)
	assert.Equal(t, server, entry.Server)

	// Another server has its own catalog
	_, err = c.GetCatalog("http://other:8080", time.Hour)
	assert.True(t, errors.Is(err, ErrMiss))

	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = c.GetCatalog(server, time.Hour)
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestInvalidateCatalog(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.SetCatalog(server, nil))
	require.NoError(t, c.InvalidateCatalog(server))
	require.NoError(t, c.InvalidateCatalog(server))

	_, err := c.GetCatalog(server, time.Hour)
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestSnapshots(t *testing.T) {
	c := newTestCache(t)

	listing := &client.Listing{
		Resource: "QUEUE_001",
		Entries:  []client.Entry{{Key: "1", Value: "first"}, {Key: "2", Value: "second"}},
	}
	require.NoError(t, c.SaveSnapshot(server, listing))
	require.NoError(t, c.SaveSnapshot("http://other:8080", listing))
	require.NoError(t, c.SaveSnapshot(server, &client.Listing{Resource: "weird/../name"}))

	snap, err := c.GetSnapshot(server, "QUEUE_001")
	require.NoError(t, err)
	assert.Equal(t, listing.Entries, snap.Entries)

	infos, err := c.ListSnapshots()
	require.NoError(t, err)
	assert.Len(t, infos, 3)

	removed, err := c.RemoveSnapshots("QUEUE_001")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = c.GetSnapshot(server, "QUEUE_001")
	assert.True(t, errors.Is(err, ErrMiss))

	snap, err = c.GetSnapshot(server, "weird/../name")
	require.NoError(t, err)
	assert.Equal(t, "weird/../name", snap.Resource)

	assert.Error(t, c.SaveSnapshot(server, nil))
}

func TestStatsAndClear(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.SetCatalog(server, []client.Resource{{Code: "QUEUE_001"}}))
	require.NoError(t, c.SaveSnapshot(server, &client.Listing{Resource: "QUEUE_001"}))

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Catalogs)
	assert.Equal(t, 1, stats.Snapshots)
	assert.Greater(t, stats.TotalSize, int64(0))
	assert.False(t, stats.OldestEntry.IsZero())

	require.NoError(t, c.Clear())

	stats, err = c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Catalogs+stats.Snapshots)
}

func TestPrune(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.SaveSnapshot(server, &client.Listing{Resource: "OLD"}))
	require.NoError(t, c.SaveSnapshot(server, &client.Listing{Resource: "NEW"}))

	old := time.Now().Add(-72 * time.Hour)
	require.NoError(t, os.Chtimes(c.snapshotPath(server, "OLD"), old, old))

	result, err := c.Prune(PruneOptions{MaxAge: 24 * time.Hour, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RemovedCount)
	_, err = c.GetSnapshot(server, "OLD")
	require.NoError(t, err)

	result, err = c.Prune(PruneOptions{MaxAge: 24 * time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RemovedCount)
	require.Len(t, result.RemovedItems, 1)

	_, err = c.GetSnapshot(server, "OLD")
	assert.True(t, errors.Is(err, ErrMiss))
	_, err = c.GetSnapshot(server, "NEW")
	assert.NoError(t, err)
}

func TestWriteJSONAtomicLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entry.json")

	err := writeJSONAtomic(path, map[string]interface{}{"bad": make(chan int)})
	require.Error(t, err)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, writeJSONAtomic(path, map[string]string{"ok": "yes"}))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
