// Package impex moves dictionary records in and out of the fixed CSV and
// spreadsheet layouts used by translation tools.
package impex

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/heartmarshall/zinote-backend/internal/domain"
	"github.com/heartmarshall/zinote-backend/internal/service/dictionary"
)

type dictionaryService interface {
	List(ctx context.Context, collection string) ([]domain.Record, error)
	BatchAdd(ctx context.Context, collection string, recs []domain.Record) (dictionary.BatchResult, error)
}

// ImportResult summarizes an import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Chunks   int `json:"chunks"`
}

// Service imports and exports dictionary collections.
type Service struct {
	dict dictionaryService
	log  *slog.Logger
}

// NewService creates a new import/export service.
func NewService(log *slog.Logger, dict dictionaryService) *Service {
	return &Service{
		dict: dict,
		log:  log.With("service", "impex"),
	}
}

// Import parses r in the given format and batch-adds every accepted row.
// Header mismatches fail the whole import before anything is written.
func (s *Service) Import(ctx context.Context, collection string, f Format, r io.Reader) (*ImportResult, error) {
	decoded, err := Decode(f, r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f, err)
	}

	res := &ImportResult{Skipped: decoded.Skipped}
	if len(decoded.Records) == 0 {
		return res, nil
	}

	batch, err := s.dict.BatchAdd(ctx, collection, decoded.Records)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", collection, err)
	}
	res.Imported = batch.Written
	res.Chunks = batch.Chunks

	s.log.InfoContext(ctx, "records imported",
		slog.String("collection", collection),
		slog.String("format", f.String()),
		slog.Int("imported", res.Imported),
		slog.Int("skipped", res.Skipped),
	)
	return res, nil
}

// Export writes every live record of the collection to w and returns the
// number of records written.
func (s *Service) Export(ctx context.Context, collection string, f Format, w io.Writer) (int, error) {
	recs, err := s.dict.List(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("export %s: %w", collection, err)
	}

	if err := Encode(f, w, recs); err != nil {
		return 0, fmt.Errorf("encode %s: %w", f, err)
	}

	s.log.InfoContext(ctx, "records exported",
		slog.String("collection", collection),
		slog.String("format", f.String()),
		slog.Int("count", len(recs)),
	)
	return len(recs), nil
}
