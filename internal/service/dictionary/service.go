package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/zinote-backend/internal/config"
	"github.com/heartmarshall/zinote-backend/internal/domain"
)

type identity interface {
	CurrentActor(ctx context.Context) (string, bool)
}

var collectionPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_]{0,62}$`)

// Service implements the dictionary core: a mirror cache in front of a
// record store with pagination, search and audit stamping.
type Service struct {
	store    RecordStore
	cache    *MirrorCache
	identity identity
	cfg      config.DictionaryConfig
	loads    singleflight.Group
	now      func() time.Time
	log      *slog.Logger
}

// NewService creates a new Dictionary service.
func NewService(
	log *slog.Logger,
	store RecordStore,
	cache *MirrorCache,
	identity identity,
	cfg config.DictionaryConfig,
) *Service {
	if cache == nil {
		cache = NewMirrorCache()
	}
	return &Service{
		store:    store,
		cache:    cache,
		identity: identity,
		cfg:      withDefaults(cfg),
		now:      time.Now,
		log:      log.With("service", "dictionary"),
	}
}

// withDefaults fills zero-valued settings so a partially populated config
// still yields usable page and chunk sizes.
func withDefaults(cfg config.DictionaryConfig) config.DictionaryConfig {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = max(200, cfg.DefaultPageSize)
	}
	if cfg.BatchChunkSize <= 0 || cfg.BatchChunkSize > domain.MaxChunkSize {
		cfg.BatchChunkSize = domain.MaxChunkSize
	}
	if cfg.SuggestLimit <= 0 {
		cfg.SuggestLimit = 10
	}
	return cfg
}

// Config returns the dictionary settings the service was built with.
func (s *Service) Config() config.DictionaryConfig {
	return s.cfg
}

// Ping checks that the record store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// validateCollection checks the collection name format and the allow-list.
func (s *Service) validateCollection(collection string) error {
	if !collectionPattern.MatchString(collection) {
		return domain.NewValidationError("collection", "invalid name")
	}
	if !s.cfg.IsCollectionAllowed(collection) {
		return domain.NewValidationError("collection", "not allowed")
	}
	return nil
}

// storeFailure logs a failed store call and wraps it as ErrStoreUnavailable.
// Not-found and validation results from the store pass through unchanged.
func (s *Service) storeFailure(ctx context.Context, op, collection string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrAlreadyExists) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	s.log.ErrorContext(ctx, "record store call failed",
		slog.String("op", op),
		slog.String("collection", collection),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%s %s: %w: %w", op, collection, domain.ErrStoreUnavailable, err)
}

// loadAll fetches the whole collection once and marks it fully loaded.
// Concurrent first calls share a single fetch.
func (s *Service) loadAll(ctx context.Context, collection string) ([]domain.Record, error) {
	if recs, ok := s.cache.Active(collection); ok {
		return recs, nil
	}

	_, err, _ := s.loads.Do(collection, func() (any, error) {
		if s.cache.IsLoaded(collection) {
			return nil, nil
		}
		recs, err := s.store.GetAll(ctx, collection)
		if err != nil {
			return nil, s.storeFailure(ctx, "get all", collection, err)
		}
		s.cache.Fill(collection, recs)

		s.log.DebugContext(ctx, "collection loaded",
			slog.String("collection", collection),
			slog.Int("count", len(recs)),
		)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	recs, _ := s.cache.Active(collection)
	return recs, nil
}
