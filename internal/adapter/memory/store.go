// Package memory provides a process-local record store. It backs the
// application when no durable store is configured and serves as the
// reference implementation in tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// Stats counts calls made to the store.
type Stats struct {
	GetAll      int
	GetByID     int
	Put         int
	SoftDelete  int
	QueryPage   int
	QueryPrefix int
	BatchWrite  int
	// Chunks records the size of every chunk written by BatchWrite.
	Chunks []int
}

// Store keeps records in maps keyed by collection and ID. Records are copied
// on the way in and out.
type Store struct {
	mu          sync.Mutex
	collections map[string]map[string]domain.Record
	stats       Stats
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{collections: make(map[string]map[string]domain.Record)}
}

// Stats returns a snapshot of the call counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stats
	st.Chunks = append([]int(nil), s.stats.Chunks...)
	return st
}

// GetAll returns every record of the collection, soft-deleted ones included.
func (s *Store) GetAll(_ context.Context, collection string) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.GetAll++
	recs := make([]domain.Record, 0, len(s.collections[collection]))
	for _, rec := range s.collections[collection] {
		recs = append(recs, rec)
	}
	domain.SortBySourceTerm(recs)
	return recs, nil
}

// GetByID returns a copy of the record or domain.ErrNotFound.
func (s *Store) GetByID(_ context.Context, collection, id string) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.GetByID++
	rec, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	return &rec, nil
}

// Put inserts or replaces a record.
func (s *Store) Put(_ context.Context, collection string, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Put++
	s.putLocked(collection, rec)
	return nil
}

// SoftDelete flags the record as deleted and stamps it.
func (s *Store) SoftDelete(_ context.Context, collection, id string, stamp domain.Stamp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.SoftDelete++
	rec, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	rec.ApplyDelete(stamp)
	s.collections[collection][id] = rec
	return nil
}

// QueryPage returns up to limit live records after the marker in source-term order.
func (s *Store) QueryPage(_ context.Context, collection string, limit int, after *domain.PageMarker) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.QueryPage++
	live := make([]domain.Record, 0, len(s.collections[collection]))
	for _, rec := range s.collections[collection] {
		if rec.Deleted {
			continue
		}
		if after != nil && !after.Before(rec) {
			continue
		}
		live = append(live, rec)
	}
	domain.SortBySourceTerm(live)

	if limit > 0 && len(live) > limit {
		live = live[:limit]
	}
	return live, nil
}

// QueryPrefixRange returns records whose field value lies in [lower, upper).
func (s *Store) QueryPrefixRange(_ context.Context, collection, field, lower, upper string) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.QueryPrefix++
	var value func(domain.Record) string
	switch field {
	case domain.FieldSourceTerm:
		value = func(r domain.Record) string { return r.SourceTerm }
	case domain.FieldSourceTermFolded:
		value = func(r domain.Record) string { return domain.NormalizeText(r.SourceTerm) }
	default:
		return nil, domain.NewValidationError("field", "unsupported range field")
	}

	var hits []domain.Record
	for _, rec := range s.collections[collection] {
		v := value(rec)
		if strings.Compare(v, lower) >= 0 && strings.Compare(v, upper) < 0 {
			hits = append(hits, rec)
		}
	}
	domain.SortBySourceTerm(hits)
	return hits, nil
}

// BatchWrite upserts records chunk by chunk.
func (s *Store) BatchWrite(_ context.Context, collection string, recs []domain.Record, chunkSize int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.BatchWrite++
	chunks := domain.Chunks(recs, chunkSize)
	for _, chunk := range chunks {
		for _, rec := range chunk {
			s.putLocked(collection, rec)
		}
		s.stats.Chunks = append(s.stats.Chunks, len(chunk))
	}
	return len(chunks), nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) putLocked(collection string, rec domain.Record) {
	recs, ok := s.collections[collection]
	if !ok {
		recs = make(map[string]domain.Record)
		s.collections[collection] = recs
	}
	recs[rec.ID] = rec
}
