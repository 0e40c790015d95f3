package dictionary

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// Get returns a record by ID, soft-deleted records included. The cache is
// consulted first; a miss is read through from the store and cached.
func (s *Service) Get(ctx context.Context, collection, id string) (*domain.Record, error) {
	if err := s.validateCollection(collection); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.NewValidationError("id", "required")
	}

	if rec, ok := s.cache.Get(collection, id); ok {
		return &rec, nil
	}
	if s.cache.IsLoaded(collection) {
		return nil, domain.ErrNotFound
	}

	rec, err := s.store.GetByID(ctx, collection, id)
	if err != nil {
		return nil, s.storeFailure(ctx, "get", collection, err)
	}
	s.cache.Put(collection, *rec)
	return rec, nil
}

// List returns every non-deleted record of the collection sorted by source
// term. The first call loads the whole collection into the cache.
func (s *Service) List(ctx context.Context, collection string) ([]domain.Record, error) {
	if err := s.validateCollection(collection); err != nil {
		return nil, err
	}
	return s.loadAll(ctx, collection)
}

// Invalidate drops the cached copy of a collection so the next read refetches it.
func (s *Service) Invalidate(ctx context.Context, collection string) error {
	if err := s.validateCollection(collection); err != nil {
		return err
	}
	s.cache.Invalidate(collection)

	s.log.InfoContext(ctx, "collection invalidated", slog.String("collection", collection))
	return nil
}
