package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/zinote-backend/internal/adapter/postgres"
	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// UniqueProject returns a project ID no other test uses, so tests sharing
// the container never see each other's rows.
func UniqueProject() string {
	return "test-" + uuid.New().String()[:8]
}

// SeedRecord inserts a live record with the given source term and returns it.
func SeedRecord(t *testing.T, pool *pgxpool.Pool, projectID, collection, sourceTerm string) domain.Record {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := domain.Record{
		ID:         uuid.NewString(),
		SourceTerm: sourceTerm,
		TargetTerm: sourceTerm + " (tr)",
		CreatedAt:  now,
		CreatedBy:  "seed",
		ModifiedAt: now,
		ModifiedBy: "seed",
	}

	_, err := postgres.Exec(context.Background(), pool, postgres.Builder.Insert("records").
		SetMap(map[string]any{
			"project_id":         projectID,
			"collection":         collection,
			"id":                 rec.ID,
			"source_term":        rec.SourceTerm,
			"source_term_folded": domain.NormalizeText(rec.SourceTerm),
			"target_term":        rec.TargetTerm,
			"created_at":         rec.CreatedAt,
			"created_by":         rec.CreatedBy,
			"modified_at":        rec.ModifiedAt,
			"modified_by":        rec.ModifiedBy,
		}))
	if err != nil {
		t.Fatalf("testhelper: seed record %q: %v", sourceTerm, err)
	}

	return rec
}
