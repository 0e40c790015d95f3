package dictionary

import (
	"context"
	"strings"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// Search returns non-deleted records whose source term contains query,
// ignoring case. A blank query yields the first page of the
// listing. The collection is loaded into the cache on first use, so the
// match is a substring match in every store mode.
func (s *Service) Search(ctx context.Context, collection, query string) ([]domain.Record, error) {
	if err := s.validateCollection(collection); err != nil {
		return nil, err
	}

	needle := domain.NormalizeText(query)
	if needle == "" {
		page, err := s.Paginate(ctx, collection, s.cfg.DefaultPageSize, "")
		if err != nil {
			return nil, err
		}
		return page.Records, nil
	}

	recs, err := s.loadAll(ctx, collection)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Record, 0)
	for _, rec := range recs {
		if strings.Contains(domain.NormalizeText(rec.SourceTerm), needle) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// Suggest returns up to limit non-deleted records whose source term starts
// with prefix, ignoring case. Uncached collections are served by the store's
// prefix range scan without loading the whole collection.
func (s *Service) Suggest(ctx context.Context, collection, prefix string, limit int) ([]domain.Record, error) {
	if err := s.validateCollection(collection); err != nil {
		return nil, err
	}
	limit = clampLimit(limit, 1, s.cfg.MaxPageSize, s.cfg.SuggestLimit)

	folded := domain.NormalizeText(prefix)
	if folded == "" {
		return []domain.Record{}, nil
	}

	if recs, ok := s.cache.Active(collection); ok {
		return takePrefix(recs, folded, limit), nil
	}

	lower, upper := domain.PrefixRange(folded)
	hits, err := s.store.QueryPrefixRange(ctx, collection, domain.FieldSourceTermFolded, lower, upper)
	if err != nil {
		return nil, s.storeFailure(ctx, "query prefix", collection, err)
	}

	active := make([]domain.Record, 0, len(hits))
	for _, rec := range hits {
		if !rec.Deleted {
			active = append(active, rec)
		}
	}
	domain.SortBySourceTerm(active)
	return takePrefix(active, folded, limit), nil
}

func takePrefix(recs []domain.Record, folded string, limit int) []domain.Record {
	out := make([]domain.Record, 0, min(limit, len(recs)))
	for _, rec := range recs {
		if len(out) == limit {
			break
		}
		if strings.HasPrefix(domain.NormalizeText(rec.SourceTerm), folded) {
			out = append(out, rec)
		}
	}
	return out
}
