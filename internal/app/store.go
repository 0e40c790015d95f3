package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/heartmarshall/zinote-backend/internal/adapter/memory"
	"github.com/heartmarshall/zinote-backend/internal/adapter/postgres"
	"github.com/heartmarshall/zinote-backend/internal/adapter/postgres/record"
	"github.com/heartmarshall/zinote-backend/internal/adapter/sqlite"
	"github.com/heartmarshall/zinote-backend/internal/adapter/surreal"
	"github.com/heartmarshall/zinote-backend/internal/config"
	"github.com/heartmarshall/zinote-backend/internal/domain"
	"github.com/heartmarshall/zinote-backend/internal/service/dictionary"
)

// Store is the record store selected for this process.
type Store struct {
	dictionary.RecordStore

	// Driver is the driver actually in use; it differs from the configured
	// one when the app degraded to memory.
	Driver string
	// Degraded explains why the configured driver was replaced. Empty when
	// the configured driver is in use.
	Degraded string
	close    func(ctx context.Context) error
}

// Close releases the store's connections.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStore builds the record store named by cfg.Store.Driver. Remote drivers
// need the credentials file; when it is missing or malformed the process
// keeps running on the in-memory store.
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory, "":
		return memoryStore(""), nil
	case config.DriverSQLite:
		return openSQLite(cfg.SQLite)
	}

	creds, err := config.ResolveCredentials(cfg.Store)
	if errors.Is(err, domain.ErrConfigurationMissing) {
		log.WarnContext(ctx, "store credentials unavailable, using in-memory store",
			slog.String("driver", cfg.Store.Driver),
			slog.String("error", err.Error()),
		)
		return memoryStore(fmt.Sprintf("%s credentials unavailable", cfg.Store.Driver)), nil
	}
	if err != nil {
		return nil, err
	}
	creds.Apply(cfg)

	log.InfoContext(ctx, "store credentials loaded",
		slog.String("path", creds.Path),
		slog.String("project_id", creds.ProjectID),
	)

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return &Store{
			RecordStore: record.New(pool, creds.ProjectID),
			Driver:      config.DriverPostgres,
			close:       func(context.Context) error { pool.Close(); return nil },
		}, nil
	case config.DriverSurreal:
		s, err := surreal.Open(ctx, cfg.Surreal, creds.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("open surreal store: %w", err)
		}
		return &Store{RecordStore: s, Driver: config.DriverSurreal, close: s.Close}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func memoryStore(degraded string) *Store {
	return &Store{RecordStore: memory.NewStore(), Driver: config.DriverMemory, Degraded: degraded}
}

func openSQLite(cfg config.SQLiteConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	s, err := sqlite.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return &Store{
		RecordStore: s,
		Driver:      config.DriverSQLite,
		close:       func(context.Context) error { return s.Close() },
	}, nil
}
