package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

var recordIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// BatchResult holds the outcome of a batch add.
type BatchResult struct {
	Written int
	Chunks  int
}

// Add creates a record. A missing ID is generated; an existing ID is
// rejected with ErrAlreadyExists.
func (s *Service) Add(ctx context.Context, collection string, rec domain.Record) (*domain.Record, error) {
	if err := s.validateCollection(collection); err != nil {
		return nil, err
	}
	if err := prepareNew(&rec); err != nil {
		return nil, err
	}

	_, err := s.Get(ctx, collection, rec.ID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("record %s: %w", rec.ID, domain.ErrAlreadyExists)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	stampCreated(&rec, s.stamp(ctx, time.Time{}))

	if err := s.store.Put(ctx, collection, rec); err != nil {
		return nil, s.storeFailure(ctx, "put", collection, err)
	}
	s.cache.Put(collection, rec)

	s.log.InfoContext(ctx, "record added",
		slog.String("collection", collection),
		slog.String("record_id", rec.ID),
		slog.String("actor", rec.CreatedBy),
	)
	return &rec, nil
}

// Update replaces the content fields of a live record and re-stamps it.
// Soft-deleted records are reported as not found.
func (s *Service) Update(ctx context.Context, collection, id string, content domain.Record) (*domain.Record, error) {
	if err := s.validateCollection(collection); err != nil {
		return nil, err
	}
	if !content.HasTerm() {
		return nil, domain.NewValidationError("term", "source or target term required")
	}

	current, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if current.Deleted {
		return nil, domain.ErrNotFound
	}

	updated := *current
	updated.ApplyContent(content)
	stampModified(&updated, s.stamp(ctx, current.ModifiedAt))

	if err := s.store.Put(ctx, collection, updated); err != nil {
		return nil, s.storeFailure(ctx, "put", collection, err)
	}
	s.cache.Put(collection, updated)

	s.log.InfoContext(ctx, "record updated",
		slog.String("collection", collection),
		slog.String("record_id", id),
		slog.String("actor", updated.ModifiedBy),
	)
	return &updated, nil
}

// Delete soft-deletes a record. Deleting an already deleted record is a no-op.
func (s *Service) Delete(ctx context.Context, collection, id string) error {
	if err := s.validateCollection(collection); err != nil {
		return err
	}

	current, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	if current.Deleted {
		return nil
	}

	st := s.stamp(ctx, current.ModifiedAt)
	if err := s.store.SoftDelete(ctx, collection, id, st); err != nil {
		return s.storeFailure(ctx, "soft delete", collection, err)
	}
	if !s.cache.MarkDeleted(collection, id, st) {
		current.ApplyDelete(st)
		s.cache.Put(collection, *current)
	}

	s.log.InfoContext(ctx, "record deleted",
		slog.String("collection", collection),
		slog.String("record_id", id),
		slog.String("actor", st.By),
	)
	return nil
}

// BatchAdd stamps every record as newly created and writes them in chunks of
// the configured size. Existing IDs are overwritten.
func (s *Service) BatchAdd(ctx context.Context, collection string, recs []domain.Record) (BatchResult, error) {
	if err := s.validateCollection(collection); err != nil {
		return BatchResult{}, err
	}
	if len(recs) == 0 {
		return BatchResult{}, nil
	}

	stamped := make([]domain.Record, len(recs))
	var errs []domain.FieldError
	st := s.stamp(ctx, time.Time{})
	for i, rec := range recs {
		if err := prepareNew(&rec); err != nil {
			errs = append(errs, domain.FieldError{
				Field:   fmt.Sprintf("records[%d]", i),
				Message: err.Error(),
			})
			continue
		}
		stampCreated(&rec, st)
		stamped[i] = rec
	}
	if len(errs) > 0 {
		return BatchResult{}, domain.NewValidationErrors(errs)
	}

	chunks, err := s.store.BatchWrite(ctx, collection, stamped, s.cfg.BatchChunkSize)
	if err != nil {
		return BatchResult{}, s.storeFailure(ctx, "batch write", collection, err)
	}
	s.cache.PutAll(collection, stamped)

	s.log.InfoContext(ctx, "records batch added",
		slog.String("collection", collection),
		slog.Int("count", len(stamped)),
		slog.Int("chunks", chunks),
	)
	return BatchResult{Written: len(stamped), Chunks: chunks}, nil
}

// prepareNew checks the terms and assigns or validates the record ID.
func prepareNew(rec *domain.Record) error {
	if !rec.HasTerm() {
		return domain.NewValidationError("term", "source or target term required")
	}

	rec.ID = strings.TrimSpace(rec.ID)
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		return nil
	}
	if !recordIDPattern.MatchString(rec.ID) {
		return domain.NewValidationError("id", "invalid format")
	}
	return nil
}
