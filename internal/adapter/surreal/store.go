// Package surreal implements the dictionary record store on SurrealDB.
// Each project maps to a namespace and each collection to a table.
package surreal

import (
	"context"
	"fmt"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/heartmarshall/zinote-backend/internal/config"
	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// timeLayout is fixed-width so string comparison matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const (
	selectAll = `SELECT * FROM type::table($tb) ORDER BY source_term, record_id`

	selectOne = `SELECT * FROM type::thing($tb, $id)`

	upsertOne = `UPSERT type::thing($tb, $id) CONTENT $doc RETURN NONE`

	softDelete = `UPDATE type::thing($tb, $id) SET
		deleted = true,
		deleted_at = $at,
		deleted_by = $by,
		modified_at = $at,
		modified_by = $by
	RETURN AFTER`

	writeChunk = `BEGIN TRANSACTION;
FOR $doc IN $docs {
	UPSERT type::thing($tb, $doc.record_id) CONTENT $doc RETURN NONE;
};
COMMIT TRANSACTION;`
)

var rangeFields = map[string]string{
	domain.FieldSourceTerm:       "source_term",
	domain.FieldSourceTermFolded: "source_term_folded",
}

// recordDoc is the stored shape of a record. Required fields carry no
// omitempty: the CBOR codec reuses json tags and would drop zero values.
type recordDoc struct {
	ID               *models.RecordID `json:"id,omitempty"`
	RecordID         string           `json:"record_id"`
	SourceTerm       string           `json:"source_term"`
	SourceTermFolded string           `json:"source_term_folded"`
	TargetTerm       string           `json:"target_term"`
	Definition       string           `json:"definition"`
	Domain           string           `json:"domain"`
	Subdomain        string           `json:"subdomain"`
	Notes            string           `json:"notes"`
	ExampleOfUse     string           `json:"example_of_use"`
	Forbidden        bool             `json:"forbidden"`
	CreatedAt        string           `json:"created_at"`
	CreatedBy        string           `json:"created_by"`
	ModifiedAt       string           `json:"modified_at"`
	ModifiedBy       string           `json:"modified_by"`
	Deleted          bool             `json:"deleted"`
	DeletedAt        *string          `json:"deleted_at"`
	DeletedBy        *string          `json:"deleted_by"`
}

// Store keeps records in SurrealDB.
type Store struct {
	db *surrealdb.DB
}

// Open connects, signs in and selects the project namespace.
func Open(ctx context.Context, cfg config.SurrealConfig, projectID string) (*Store, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("surreal: connect: %w", err)
	}

	if cfg.Username != "" {
		if _, err := db.SignIn(ctx, surrealdb.Auth{
			Username: cfg.Username,
			Password: cfg.Password,
		}); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("surreal: sign in: %w", err)
		}
	}

	if err := db.Use(ctx, projectID, cfg.Database); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("surreal: use %s/%s: %w", projectID, cfg.Database, err)
	}
	return &Store{db: db}, nil
}

// Close closes the connection.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close(ctx)
}

// GetAll returns every record of the collection, soft-deleted ones included.
func (s *Store) GetAll(ctx context.Context, collection string) ([]domain.Record, error) {
	recs, err := s.query(ctx, selectAll, map[string]any{"tb": collection})
	if err != nil {
		return nil, fmt.Errorf("surreal: list %s: %w", collection, err)
	}
	domain.SortBySourceTerm(recs)
	return recs, nil
}

// GetByID returns a record by ID or domain.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, collection, id string) (*domain.Record, error) {
	recs, err := s.query(ctx, selectOne, map[string]any{"tb": collection, "id": id})
	if err != nil {
		return nil, fmt.Errorf("surreal: get record %s: %w", id, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	return &recs[0], nil
}

// Put inserts or fully replaces a record.
func (s *Store) Put(ctx context.Context, collection string, rec domain.Record) error {
	_, err := surrealdb.Query[any](ctx, s.db, upsertOne, map[string]any{
		"tb":  collection,
		"id":  rec.ID,
		"doc": toDoc(rec),
	})
	if err != nil {
		return fmt.Errorf("surreal: put record %s: %w", rec.ID, err)
	}
	return nil
}

// SoftDelete flags the record as deleted and stamps it.
func (s *Store) SoftDelete(ctx context.Context, collection, id string, stamp domain.Stamp) error {
	recs, err := s.query(ctx, softDelete, map[string]any{
		"tb": collection,
		"id": id,
		"at": formatTime(stamp.At),
		"by": stamp.By,
	})
	if err != nil {
		return fmt.Errorf("surreal: soft delete %s: %w", id, err)
	}
	if len(recs) == 0 {
		return fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// QueryPage returns up to limit live records strictly after the marker.
func (s *Store) QueryPage(ctx context.Context, collection string, limit int, after *domain.PageMarker) ([]domain.Record, error) {
	sql := `SELECT * FROM type::table($tb) WHERE deleted = false`
	vars := map[string]any{"tb": collection}
	if after != nil {
		sql += ` AND (source_term > $term OR (source_term = $term AND record_id > $after))`
		vars["term"] = after.SourceTerm
		vars["after"] = after.ID
	}
	sql += ` ORDER BY source_term, record_id`
	if limit > 0 {
		sql += ` LIMIT $limit`
		vars["limit"] = limit
	}

	recs, err := s.query(ctx, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("surreal: page %s: %w", collection, err)
	}
	domain.SortBySourceTerm(recs)
	return recs, nil
}

// QueryPrefixRange returns records whose field lies in [lower, upper).
func (s *Store) QueryPrefixRange(ctx context.Context, collection, field, lower, upper string) ([]domain.Record, error) {
	col, ok := rangeFields[field]
	if !ok {
		return nil, domain.NewValidationError("field", "unsupported range field")
	}

	sql := fmt.Sprintf(`SELECT * FROM type::table($tb) WHERE %[1]s >= $lower AND %[1]s < $upper ORDER BY source_term, record_id`, col)
	recs, err := s.query(ctx, sql, map[string]any{
		"tb":    collection,
		"lower": lower,
		"upper": upper,
	})
	if err != nil {
		return nil, fmt.Errorf("surreal: prefix range %s: %w", collection, err)
	}
	domain.SortBySourceTerm(recs)
	return recs, nil
}

// BatchWrite upserts records with one transaction per chunk.
func (s *Store) BatchWrite(ctx context.Context, collection string, recs []domain.Record, chunkSize int) (int, error) {
	chunks := domain.Chunks(recs, chunkSize)
	for i, chunk := range chunks {
		docs := make([]recordDoc, len(chunk))
		for j, rec := range chunk {
			docs[j] = toDoc(rec)
		}

		_, err := surrealdb.Query[any](ctx, s.db, writeChunk, map[string]any{
			"tb":   collection,
			"docs": docs,
		})
		if err != nil {
			return i, fmt.Errorf("surreal: write chunk %d of %d: %w", i+1, len(chunks), err)
		}
	}
	return len(chunks), nil
}

// Ping runs a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := surrealdb.Query[bool](ctx, s.db, `RETURN true`, nil); err != nil {
		return fmt.Errorf("surreal: ping: %w", err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, sql string, vars map[string]any) ([]domain.Record, error) {
	res, err := surrealdb.Query[[]recordDoc](ctx, s.db, sql, vars)
	if err != nil {
		return nil, err
	}
	if res == nil || len(*res) == 0 {
		return []domain.Record{}, nil
	}

	docs := (*res)[0].Result
	recs := make([]domain.Record, 0, len(docs))
	for _, d := range docs {
		rec, err := fromDoc(d)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func toDoc(rec domain.Record) recordDoc {
	d := recordDoc{
		RecordID:         rec.ID,
		SourceTerm:       rec.SourceTerm,
		SourceTermFolded: domain.NormalizeText(rec.SourceTerm),
		TargetTerm:       rec.TargetTerm,
		Definition:       rec.Definition,
		Domain:           rec.Domain,
		Subdomain:        rec.Subdomain,
		Notes:            rec.Notes,
		ExampleOfUse:     rec.ExampleOfUse,
		Forbidden:        rec.Forbidden,
		CreatedAt:        formatTime(rec.CreatedAt),
		CreatedBy:        rec.CreatedBy,
		ModifiedAt:       formatTime(rec.ModifiedAt),
		ModifiedBy:       rec.ModifiedBy,
		Deleted:          rec.Deleted,
		DeletedBy:        rec.DeletedBy,
	}
	if rec.DeletedAt != nil {
		at := formatTime(*rec.DeletedAt)
		d.DeletedAt = &at
	}
	return d
}

func fromDoc(d recordDoc) (domain.Record, error) {
	rec := domain.Record{
		ID:           d.RecordID,
		SourceTerm:   d.SourceTerm,
		TargetTerm:   d.TargetTerm,
		Definition:   d.Definition,
		Domain:       d.Domain,
		Subdomain:    d.Subdomain,
		Notes:        d.Notes,
		ExampleOfUse: d.ExampleOfUse,
		Forbidden:    d.Forbidden,
		CreatedBy:    d.CreatedBy,
		ModifiedBy:   d.ModifiedBy,
		Deleted:      d.Deleted,
		DeletedBy:    d.DeletedBy,
	}

	var err error
	if rec.CreatedAt, err = parseTime(d.CreatedAt); err != nil {
		return domain.Record{}, err
	}
	if rec.ModifiedAt, err = parseTime(d.ModifiedAt); err != nil {
		return domain.Record{}, err
	}
	if d.DeletedAt != nil {
		at, err := parseTime(*d.DeletedAt)
		if err != nil {
			return domain.Record{}, err
		}
		rec.DeletedAt = &at
	}
	return rec, nil
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
