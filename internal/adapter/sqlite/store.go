// Package sqlite implements the dictionary record store on a local SQLite
// file, for single-user installs without a database server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	collection         TEXT    NOT NULL,
	id                 TEXT    NOT NULL,
	source_term        TEXT    NOT NULL DEFAULT '',
	source_term_folded TEXT    NOT NULL DEFAULT '',
	target_term        TEXT    NOT NULL DEFAULT '',
	definition         TEXT    NOT NULL DEFAULT '',
	domain             TEXT    NOT NULL DEFAULT '',
	subdomain          TEXT    NOT NULL DEFAULT '',
	notes              TEXT    NOT NULL DEFAULT '',
	example_of_use     TEXT    NOT NULL DEFAULT '',
	forbidden          INTEGER NOT NULL DEFAULT 0,
	created_at         TEXT    NOT NULL,
	created_by         TEXT    NOT NULL,
	modified_at        TEXT    NOT NULL,
	modified_by        TEXT    NOT NULL,
	deleted            INTEGER NOT NULL DEFAULT 0,
	deleted_at         TEXT,
	deleted_by         TEXT,
	PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS idx_records_page ON records(collection, source_term, id) WHERE deleted = 0;
CREATE INDEX IF NOT EXISTS idx_records_folded ON records(collection, source_term_folded);
`

// timeLayout is fixed-width so text comparison matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var columns = []string{
	"id", "source_term", "target_term", "definition", "domain", "subdomain",
	"notes", "example_of_use", "forbidden",
	"created_at", "created_by", "modified_at", "modified_by",
	"deleted", "deleted_at", "deleted_by",
}

var rangeColumns = map[string]string{
	domain.FieldSourceTerm:       "source_term",
	domain.FieldSourceTermFolded: "source_term_folded",
}

// Store keeps records in a SQLite database.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// GetAll returns every record of the collection, soft-deleted ones included.
func (s *Store) GetAll(ctx context.Context, collection string) ([]domain.Record, error) {
	return s.list(ctx, s.selectBuilder(collection).OrderBy("source_term", "id"))
}

// GetByID returns a record by ID or domain.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, collection, id string) (*domain.Record, error) {
	query, args, err := s.selectBuilder(collection).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: build get: %w", err)
	}

	rec, err := scanRecord(s.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get record %s: %w", id, err)
	}
	return rec, nil
}

// Put inserts or fully replaces a record.
func (s *Store) Put(ctx context.Context, collection string, rec domain.Record) error {
	query, args, err := upsert(collection, rec).ToSql()
	if err != nil {
		return fmt.Errorf("sqlite: build put: %w", err)
	}
	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlite: put record %s: %w", rec.ID, err)
	}
	return nil
}

// SoftDelete flags the record as deleted and stamps it.
func (s *Store) SoftDelete(ctx context.Context, collection, id string, stamp domain.Stamp) error {
	at := formatTime(stamp.At)
	query, args, err := squirrel.Update("records").
		Set("deleted", 1).
		Set("deleted_at", at).
		Set("deleted_by", stamp.By).
		Set("modified_at", at).
		Set("modified_by", stamp.By).
		Where(squirrel.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("sqlite: build soft delete: %w", err)
	}

	res, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: soft delete %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// QueryPage returns up to limit live records strictly after the marker.
func (s *Store) QueryPage(ctx context.Context, collection string, limit int, after *domain.PageMarker) ([]domain.Record, error) {
	q := s.selectBuilder(collection).
		Where(squirrel.Eq{"deleted": 0}).
		OrderBy("source_term", "id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if after != nil {
		q = q.Where(squirrel.Expr("(source_term, id) > (?, ?)", after.SourceTerm, after.ID))
	}
	return s.list(ctx, q)
}

// QueryPrefixRange returns records whose field lies in [lower, upper).
func (s *Store) QueryPrefixRange(ctx context.Context, collection, field, lower, upper string) ([]domain.Record, error) {
	col, ok := rangeColumns[field]
	if !ok {
		return nil, domain.NewValidationError("field", "unsupported range field")
	}
	q := s.selectBuilder(collection).
		Where(squirrel.GtOrEq{col: lower}).
		Where(squirrel.Lt{col: upper}).
		OrderBy("source_term", "id")
	return s.list(ctx, q)
}

// BatchWrite upserts records with one transaction per chunk.
func (s *Store) BatchWrite(ctx context.Context, collection string, recs []domain.Record, chunkSize int) (int, error) {
	chunks := domain.Chunks(recs, chunkSize)
	for i, chunk := range chunks {
		if err := s.writeChunk(ctx, collection, chunk); err != nil {
			return i, fmt.Errorf("sqlite: write chunk %d of %d: %w", i+1, len(chunks), err)
		}
	}
	return len(chunks), nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *Store) writeChunk(ctx context.Context, collection string, chunk []domain.Record) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range chunk {
		query, args, err := upsert(collection, rec).ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) selectBuilder(collection string) squirrel.SelectBuilder {
	return squirrel.Select(columns...).
		From("records").
		Where(squirrel.Eq{"collection": collection})
}

func (s *Store) list(ctx context.Context, q squirrel.SelectBuilder) ([]domain.Record, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: build list: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list records: %w", err)
	}
	defer rows.Close()

	recs := make([]domain.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan record: %w", err)
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

func upsert(collection string, rec domain.Record) squirrel.InsertBuilder {
	var deletedAt *string
	if rec.DeletedAt != nil {
		v := formatTime(*rec.DeletedAt)
		deletedAt = &v
	}

	return squirrel.Insert("records").
		Options("OR REPLACE").
		Columns(append([]string{"collection", "source_term_folded"}, columns...)...).
		Values(
			collection, domain.NormalizeText(rec.SourceTerm),
			rec.ID, rec.SourceTerm, rec.TargetTerm, rec.Definition, rec.Domain, rec.Subdomain,
			rec.Notes, rec.ExampleOfUse, rec.Forbidden,
			formatTime(rec.CreatedAt), rec.CreatedBy, formatTime(rec.ModifiedAt), rec.ModifiedBy,
			rec.Deleted, deletedAt, rec.DeletedBy,
		)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.Record, error) {
	var (
		rec                   domain.Record
		createdAt, modifiedAt string
		deletedAt, deletedBy  sql.NullString
	)
	err := row.Scan(
		&rec.ID, &rec.SourceTerm, &rec.TargetTerm, &rec.Definition, &rec.Domain, &rec.Subdomain,
		&rec.Notes, &rec.ExampleOfUse, &rec.Forbidden,
		&createdAt, &rec.CreatedBy, &modifiedAt, &rec.ModifiedBy,
		&rec.Deleted, &deletedAt, &deletedBy,
	)
	if err != nil {
		return nil, err
	}

	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.ModifiedAt, err = parseTime(modifiedAt); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		at, err := parseTime(deletedAt.String)
		if err != nil {
			return nil, err
		}
		rec.DeletedAt = &at
	}
	if deletedBy.Valid {
		by := deletedBy.String
		rec.DeletedBy = &by
	}
	return &rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}
