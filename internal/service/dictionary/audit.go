package dictionary

import (
	"context"
	"time"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// stamp returns the audit moment for a mutation by the current actor.
// The time never goes below prev, keeping modifiedAt non-decreasing per record.
func (s *Service) stamp(ctx context.Context, prev time.Time) domain.Stamp {
	at := s.now().UTC()
	if at.Before(prev) {
		at = prev
	}

	by := domain.UnknownActor
	if s.identity != nil {
		if actor, ok := s.identity.CurrentActor(ctx); ok && actor != "" {
			by = actor
		}
	}
	return domain.Stamp{At: at, By: by}
}

func stampCreated(rec *domain.Record, st domain.Stamp) {
	rec.CreatedAt = st.At
	rec.CreatedBy = st.By
	rec.ModifiedAt = st.At
	rec.ModifiedBy = st.By
	rec.Deleted = false
	rec.DeletedAt = nil
	rec.DeletedBy = nil
}

func stampModified(rec *domain.Record, st domain.Stamp) {
	rec.ModifiedAt = st.At
	rec.ModifiedBy = st.By
}
