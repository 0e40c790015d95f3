// Package record implements the dictionary record store on PostgreSQL.
// Every collection of a project shares the records table; rows are keyed by
// (project_id, collection, id) and never physically deleted.
package record

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/zinote-backend/internal/adapter/postgres"
	"github.com/heartmarshall/zinote-backend/internal/domain"
)

const table = "records"

var columns = []string{
	"id", "source_term", "target_term", "definition", "domain", "subdomain",
	"notes", "example_of_use", "forbidden",
	"created_at", "created_by", "modified_at", "modified_by",
	"deleted", "deleted_at", "deleted_by",
}

// rangeColumns maps range-scan field names to SQL expressions.
var rangeColumns = map[string]string{
	domain.FieldSourceTerm:       `source_term COLLATE "C"`,
	domain.FieldSourceTermFolded: `source_term_folded COLLATE "C"`,
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repo provides record persistence backed by PostgreSQL.
type Repo struct {
	pool      *pgxpool.Pool
	tx        txManager
	projectID string
}

// New creates a record repository scoped to one project.
func New(pool *pgxpool.Pool, projectID string) *Repo {
	return &Repo{
		pool:      pool,
		tx:        postgres.NewTxManager(pool),
		projectID: projectID,
	}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetAll returns every record of the collection, soft-deleted ones included.
func (r *Repo) GetAll(ctx context.Context, collection string) ([]domain.Record, error) {
	query := r.selectBuilder(collection).
		OrderBy(`source_term COLLATE "C"`, `id COLLATE "C"`)

	return r.list(ctx, query, collection)
}

// GetByID returns a record by ID or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, collection, id string) (*domain.Record, error) {
	row := postgres.QueryRow(ctx, r.pool, r.selectBuilder(collection).Where(squirrel.Eq{"id": id}))
	rec, err := scanRecord(row)
	if err != nil {
		return nil, postgres.MapError(err, "record", id)
	}
	return rec, nil
}

// QueryPage returns up to limit live records strictly after the marker,
// ordered by (source_term, id) in byte order.
func (r *Repo) QueryPage(ctx context.Context, collection string, limit int, after *domain.PageMarker) ([]domain.Record, error) {
	query := r.selectBuilder(collection).
		Where(squirrel.Eq{"deleted": false}).
		OrderBy(`source_term COLLATE "C"`, `id COLLATE "C"`)

	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if after != nil {
		query = query.Where(
			squirrel.Expr(`(source_term COLLATE "C", id COLLATE "C") > (?, ?)`, after.SourceTerm, after.ID),
		)
	}

	return r.list(ctx, query, collection)
}

// QueryPrefixRange returns records whose field lies in [lower, upper).
func (r *Repo) QueryPrefixRange(ctx context.Context, collection, field, lower, upper string) ([]domain.Record, error) {
	expr, ok := rangeColumns[field]
	if !ok {
		return nil, domain.NewValidationError("field", "unsupported range field")
	}

	query := r.selectBuilder(collection).
		Where(squirrel.Expr(expr+" >= ?", lower)).
		Where(squirrel.Expr(expr+" < ?", upper)).
		OrderBy(`source_term COLLATE "C"`, `id COLLATE "C"`)

	return r.list(ctx, query, collection)
}

// Ping checks database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Put inserts or fully replaces a record.
func (r *Repo) Put(ctx context.Context, collection string, rec domain.Record) error {
	if _, err := postgres.Exec(ctx, r.pool, r.upsert(collection, rec)); err != nil {
		return postgres.MapError(err, "record", rec.ID)
	}
	return nil
}

// SoftDelete flags the record as deleted and stamps it.
func (r *Repo) SoftDelete(ctx context.Context, collection, id string, stamp domain.Stamp) error {
	stmt := postgres.Builder.Update(table).
		Set("deleted", true).
		Set("deleted_at", stamp.At).
		Set("deleted_by", stamp.By).
		Set("modified_at", stamp.At).
		Set("modified_by", stamp.By).
		Where(squirrel.Eq{"project_id": r.projectID, "collection": collection, "id": id})

	tag, err := postgres.Exec(ctx, r.pool, stmt)
	if err != nil {
		return postgres.MapError(err, "record", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// BatchWrite upserts records with one transaction per chunk and returns the
// number of chunks committed. A failed chunk leaves earlier chunks in place.
func (r *Repo) BatchWrite(ctx context.Context, collection string, recs []domain.Record, chunkSize int) (int, error) {
	chunks := domain.Chunks(recs, chunkSize)

	for i, chunk := range chunks {
		stmts := make([]squirrel.Sqlizer, len(chunk))
		for j, rec := range chunk {
			stmts[j] = r.upsert(collection, rec)
		}

		err := r.tx.RunInTx(ctx, func(txCtx context.Context) error {
			return postgres.SendBatch(txCtx, r.pool, stmts)
		})
		if err != nil {
			return i, fmt.Errorf("write chunk %d of %d: %w", i+1, len(chunks), err)
		}
	}

	return len(chunks), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) selectBuilder(collection string) squirrel.SelectBuilder {
	return postgres.Builder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"project_id": r.projectID, "collection": collection})
}

func (r *Repo) upsert(collection string, rec domain.Record) squirrel.InsertBuilder {
	return postgres.Builder.Insert(table).
		Columns(append([]string{"project_id", "collection", "source_term_folded"}, columns...)...).
		Values(
			r.projectID, collection, domain.NormalizeText(rec.SourceTerm),
			rec.ID, rec.SourceTerm, rec.TargetTerm, rec.Definition, rec.Domain, rec.Subdomain,
			rec.Notes, rec.ExampleOfUse, rec.Forbidden,
			rec.CreatedAt, rec.CreatedBy, rec.ModifiedAt, rec.ModifiedBy,
			rec.Deleted, rec.DeletedAt, rec.DeletedBy,
		).
		Suffix(`ON CONFLICT (project_id, collection, id) DO UPDATE SET
			source_term = EXCLUDED.source_term,
			source_term_folded = EXCLUDED.source_term_folded,
			target_term = EXCLUDED.target_term,
			definition = EXCLUDED.definition,
			domain = EXCLUDED.domain,
			subdomain = EXCLUDED.subdomain,
			notes = EXCLUDED.notes,
			example_of_use = EXCLUDED.example_of_use,
			forbidden = EXCLUDED.forbidden,
			created_at = EXCLUDED.created_at,
			created_by = EXCLUDED.created_by,
			modified_at = EXCLUDED.modified_at,
			modified_by = EXCLUDED.modified_by,
			deleted = EXCLUDED.deleted,
			deleted_at = EXCLUDED.deleted_at,
			deleted_by = EXCLUDED.deleted_by`)
}

func (r *Repo) list(ctx context.Context, query squirrel.SelectBuilder, collection string) ([]domain.Record, error) {
	rows, err := postgres.Query(ctx, r.pool, query)
	if err != nil {
		return nil, postgres.MapError(err, "collection", collection)
	}
	defer rows.Close()

	recs := make([]domain.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "collection", collection)
	}
	return recs, nil
}

func scanRecord(row pgx.Row) (*domain.Record, error) {
	var (
		rec       domain.Record
		deletedAt *time.Time
		deletedBy *string
	)
	err := row.Scan(
		&rec.ID, &rec.SourceTerm, &rec.TargetTerm, &rec.Definition, &rec.Domain, &rec.Subdomain,
		&rec.Notes, &rec.ExampleOfUse, &rec.Forbidden,
		&rec.CreatedAt, &rec.CreatedBy, &rec.ModifiedAt, &rec.ModifiedBy,
		&rec.Deleted, &deletedAt, &deletedBy,
	)
	if err != nil {
		return nil, err
	}

	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.ModifiedAt = rec.ModifiedAt.UTC()
	if deletedAt != nil {
		utc := deletedAt.UTC()
		deletedAt = &utc
	}
	rec.DeletedAt = deletedAt
	rec.DeletedBy = deletedBy
	return &rec, nil
}
