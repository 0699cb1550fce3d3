package application

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"mylibrary/internal/domain"
	"mylibrary/internal/ports"
)

// Snapshot is one consistent view of the user's catalog
type Snapshot struct {
	Books     []domain.Book
	Locations []domain.Location
}

// CatalogAPI is the part of the remote service the cache reads from
type CatalogAPI interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
}

var _ CatalogAPI = (ports.LibraryAPI)(nil)

// Catalog is the in-memory mirror of the user's books and locations.
// It is only ever replaced wholesale, and only by a refresh started after
// the one that produced the current content.
type Catalog struct {
	api CatalogAPI

	mu        sync.RWMutex
	books     []domain.Book
	locations []domain.Location
	loaded    bool

	// started counts refreshes begun; stored is the number of the refresh
	// whose result the cache holds
	started uint64
	stored  uint64
}

// NewCatalog creates an empty catalog cache
func NewCatalog(api CatalogAPI) *Catalog {
	return &Catalog{api: api}
}

// Refresh fetches books and locations concurrently. The cache is replaced
// only when both calls succeed and no later refresh has already stored its
// result; a superseded refresh returns the newer content.
func (c *Catalog) Refresh(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	c.started++
	seq := c.started
	c.mu.Unlock()

	var books []domain.Book
	var locations []domain.Location

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = c.api.ListBooks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		locations, err = c.api.ListLocations(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	c.mu.Lock()
	if seq > c.stored {
		c.books = books
		c.locations = locations
		c.loaded = true
		c.stored = seq
	}
	c.mu.Unlock()

	return c.Snapshot(), nil
}

// Snapshot returns copies of the cached slices
func (c *Catalog) Snapshot() Snapshot {
	return Snapshot{Books: c.Books(), Locations: c.Locations()}
}

// Loaded reports whether a refresh has ever succeeded
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Books returns the cached books in server order
func (c *Catalog) Books() []domain.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Book(nil), c.books...)
}

// Locations returns the cached locations in server order
func (c *Catalog) Locations() []domain.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Location(nil), c.locations...)
}

// Book returns a cached book by id
func (c *Catalog) Book(id int64) (domain.Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.books {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Book{}, false
}

// Location returns a cached location by id
func (c *Catalog) Location(id int64) (domain.Location, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.FindLocation(c.locations, id)
}

// LocationName resolves a location id for display
func (c *Catalog) LocationName(id int64) string {
	if id == 0 {
		return ""
	}
	if l, ok := c.Location(id); ok {
		return l.Name
	}
	return ""
}

// Filter returns the cached books passing f. The cache is not modified.
func (c *Catalog) Filter(f domain.Filter) []domain.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.FilterBooks(c.books, f)
}

// Reset empties the cache, e.g. on logout. Refreshes still in flight
// are discarded when they finish.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.books = nil
	c.locations = nil
	c.loaded = false
	c.stored = c.started
}
