package cache

import (
	"context"
	"time"

	"github.com/hsbacot/jmsctl/client"
)

// ResourceLister fetches the resource catalog of one backend
type ResourceLister interface {
	ListResources(ctx context.Context) ([]client.Resource, error)
	BaseURL() string
}

// Resources returns the catalog of the lister's backend, served from the
// cache while younger than maxAge. A nil Cache always fetches. The boolean
// reports whether the cache answered.
func (c *Cache) Resources(ctx context.Context, lister ResourceLister, maxAge time.Duration) ([]client.Resource, bool, error) {
	server := lister.BaseURL()

	if c != nil {
		if entry, err := c.GetCatalog(server, maxAge); err == nil {
			return entry.Resources, true, nil
		}
	}

	resources, err := lister.ListResources(ctx)
	if err != nil {
		return nil, false, err
	}

	if c != nil {
		if err := c.SetCatalog(server, resources); err != nil {
			c.logger.Warn("Failed to cache catalog", "server", server, "error", err)
		}
	}
	return resources, false, nil
}
