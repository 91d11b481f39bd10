package cache

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsbacot/jmsctl/client"
	"github.com/hsbacot/jmsctl/internal/backendtest"
)

func TestResourcesUsesCacheWhileFresh(t *testing.T) {
	backend := backendtest.New()
	srv := backend.Start(t)
	api := client.New(srv.URL)
	c := newTestCache(t)

	resources, fromCache, err := c.Resources(context.Background(), api, time.Hour)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Len(t, resources, 5)

	// The backend is now broken, but the cached catalog still answers
	backend.Override("/resources/get", http.StatusInternalServerError, "down")

	cached, fromCache, err := c.Resources(context.Background(), api, time.Hour)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, resources, cached)

	require.NoError(t, c.InvalidateCatalog(api.BaseURL()))
	_, _, err = c.Resources(context.Background(), api, time.Hour)
	assert.True(t, client.IsKind(err, client.KindStatus))
}

func TestResourcesWithoutCache(t *testing.T) {
	backend := backendtest.New()
	srv := backend.Start(t)

	var c *Cache
	resources, fromCache, err := c.Resources(context.Background(), client.New(srv.URL), time.Hour)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Len(t, resources, 5)
	assert.Len(t, backend.Requests(), 1)
}

func TestResourcesLogsFailedCatalogWrite(t *testing.T) {
	backend := backendtest.New()
	srv := backend.Start(t)
	c := newTestCache(t)

	var logs bytes.Buffer
	c.SetLogger(log.New(&logs))

	// A file where the catalogs directory should be makes every store fail
	catalogs := filepath.Join(c.Dir(), catalogsDir)
	require.NoError(t, os.RemoveAll(catalogs))
	require.NoError(t, os.WriteFile(catalogs, []byte("x"), 0644))

	resources, fromCache, err := c.Resources(context.Background(), client.New(srv.URL), time.Hour)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Len(t, resources, 5)
	assert.Contains(t, logs.String(), "Failed to cache catalog")
}
