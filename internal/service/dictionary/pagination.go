package dictionary

import (
	"context"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// Page is one slice of a paginated listing. NextCursor is nil on the last page.
type Page struct {
	Records    []domain.Record
	NextCursor *string
}

// Paginate returns up to pageSize non-deleted records in source-term order,
// resuming after cursor.
//
// A fully cached collection is paged by offset into the sorted mirror. Other
// collections are paged with the store's keyset query. A marker cursor that
// reaches a cached collection is resolved to the offset just past that
// record, or to 0 when the record is gone. An offset cursor that reaches an
// uncached collection reloads it first.
func (s *Service) Paginate(ctx context.Context, collection string, pageSize int, cursor string) (*Page, error) {
	if err := s.validateCollection(collection); err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		return nil, domain.NewValidationError("page_size", "must be positive")
	}
	pageSize = clampLimit(pageSize, 1, s.cfg.MaxPageSize, s.cfg.DefaultPageSize)

	cur, err := domain.DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	if s.cache.IsLoaded(collection) || cur.Offset != nil {
		recs, err := s.loadAll(ctx, collection)
		if err != nil {
			return nil, err
		}
		return pageLocal(recs, pageSize, cur), nil
	}

	return s.pageRemote(ctx, collection, pageSize, cur.After)
}

func pageLocal(recs []domain.Record, pageSize int, cur domain.Cursor) *Page {
	start := 0
	switch {
	case cur.Offset != nil:
		start = *cur.Offset
	case cur.After != nil:
		start = resolveMarker(recs, *cur.After)
	}
	if start > len(recs) {
		start = len(recs)
	}

	end := min(start+pageSize, len(recs))
	page := &Page{Records: recs[start:end]}
	if end < len(recs) {
		next := domain.OffsetCursor(end)
		page.NextCursor = &next
	}
	return page
}

// resolveMarker returns the offset just past the marked record, or 0 when
// the record is no longer listed.
func resolveMarker(recs []domain.Record, m domain.PageMarker) int {
	for i, rec := range recs {
		if rec.ID == m.ID {
			return i + 1
		}
	}
	return 0
}

func (s *Service) pageRemote(ctx context.Context, collection string, pageSize int, after *domain.PageMarker) (*Page, error) {
	recs, err := s.store.QueryPage(ctx, collection, pageSize+1, after)
	if err != nil {
		return nil, s.storeFailure(ctx, "query page", collection, err)
	}

	page := &Page{Records: recs}
	if len(recs) > pageSize {
		page.Records = recs[:pageSize]
		next := domain.MarkerCursor(page.Records[pageSize-1].Marker())
		page.NextCursor = &next
	}
	s.cache.PutAll(collection, page.Records)
	return page, nil
}

// clampLimit returns def when limit is zero, otherwise limit bounded to [lo, hi].
func clampLimit(limit, lo, hi, def int) int {
	if limit == 0 {
		return def
	}
	if limit < lo {
		return lo
	}
	if limit > hi {
		return hi
	}
	return limit
}
