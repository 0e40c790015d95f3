package dictionary

import (
	"context"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// RecordStore is the durable side of the dictionary. Implementations live in
// internal/adapter and are selected once at startup.
type RecordStore interface {
	// GetAll returns every record in the collection, soft-deleted ones included.
	GetAll(ctx context.Context, collection string) ([]domain.Record, error)
	// GetByID returns domain.ErrNotFound when the record does not exist.
	GetByID(ctx context.Context, collection, id string) (*domain.Record, error)
	// Put inserts or fully replaces a record.
	Put(ctx context.Context, collection string, rec domain.Record) error
	// SoftDelete sets the deletion flag and stamps; the row stays in storage.
	SoftDelete(ctx context.Context, collection, id string, stamp domain.Stamp) error
	// QueryPage returns up to limit non-deleted records ordered by
	// (source_term, id), starting strictly after the marker when given.
	QueryPage(ctx context.Context, collection string, limit int, after *domain.PageMarker) ([]domain.Record, error)
	// QueryPrefixRange returns records whose field lies in [lower, upper),
	// soft-deleted ones included.
	QueryPrefixRange(ctx context.Context, collection, field, lower, upper string) ([]domain.Record, error)
	// BatchWrite upserts records in transactions of at most chunkSize rows
	// and returns the number of chunks written.
	BatchWrite(ctx context.Context, collection string, recs []domain.Record, chunkSize int) (int, error)
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
