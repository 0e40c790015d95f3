package dictionary

import (
	"sync"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// MirrorCache is a read-through, write-through mirror of record store
// collections. A single mutex guards every map; the workload is one
// interactive user per process.
//
// Cached records are shared instances: Put and MarkDeleted mutate the
// existing instance in place, so View keeps seeing the same instance across
// writes. All other accessors return copies.
type MirrorCache struct {
	mu          sync.Mutex
	collections map[string]map[string]*domain.Record
	loaded      map[string]bool
}

// NewMirrorCache creates an empty cache.
func NewMirrorCache() *MirrorCache {
	return &MirrorCache{
		collections: make(map[string]map[string]*domain.Record),
		loaded:      make(map[string]bool),
	}
}

// Get returns a copy of the cached record.
func (c *MirrorCache) Get(collection, id string) (domain.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.collections[collection][id]
	if !ok {
		return domain.Record{}, false
	}
	return *rec, true
}

// View calls fn with the shared cached instance while holding the lock and
// reports whether the record is cached. fn must not write to the record or
// read it after fn returns.
func (c *MirrorCache) View(collection, id string, fn func(*domain.Record)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.collections[collection][id]
	if ok {
		fn(rec)
	}
	return ok
}

// Put stores rec, overwriting the fields of an existing instance in place.
func (c *MirrorCache) Put(collection string, rec domain.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.putLocked(collection, rec)
}

// PutAll stores every record, as Put does.
func (c *MirrorCache) PutAll(collection string, recs []domain.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rec := range recs {
		c.putLocked(collection, rec)
	}
}

// MarkDeleted applies the deletion stamp to the cached instance in place.
// It reports false if the record is not cached.
func (c *MirrorCache) MarkDeleted(collection, id string, stamp domain.Stamp) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.collections[collection][id]
	if !ok {
		return false
	}
	rec.ApplyDelete(stamp)
	return true
}

// Fill stores every record of a full fetch and marks the collection loaded.
func (c *MirrorCache) Fill(collection string, recs []domain.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rec := range recs {
		c.putLocked(collection, rec)
	}
	c.loaded[collection] = true
}

// IsLoaded reports whether the collection has been fully fetched since the
// last invalidation.
func (c *MirrorCache) IsLoaded(collection string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loaded[collection]
}

// Active returns the non-deleted records of a fully loaded collection,
// sorted by source term. It reports false when the collection is not loaded.
func (c *MirrorCache) Active(collection string) ([]domain.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded[collection] {
		return nil, false
	}

	recs := make([]domain.Record, 0, len(c.collections[collection]))
	for _, rec := range c.collections[collection] {
		if rec.Deleted {
			continue
		}
		recs = append(recs, *rec)
	}
	domain.SortBySourceTerm(recs)
	return recs, true
}

// Invalidate drops the loaded marker and every cached record of the collection.
func (c *MirrorCache) Invalidate(collection string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.collections, collection)
	delete(c.loaded, collection)
}

func (c *MirrorCache) putLocked(collection string, rec domain.Record) {
	recs, ok := c.collections[collection]
	if !ok {
		recs = make(map[string]*domain.Record)
		c.collections[collection] = recs
	}

	if existing, ok := recs[rec.ID]; ok {
		*existing = rec
		return
	}
	stored := rec
	recs[rec.ID] = &stored
}
