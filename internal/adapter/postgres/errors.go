package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// SQLSTATE codes the record store distinguishes.
const (
	codeUniqueViolation  = "23505"
	codeNotNullViolation = "23502"
	codeCheckViolation   = "23514"
	codeUndefinedTable   = "42P01"
)

// MapError converts pgx/pgconn errors to domain errors. Context errors pass
// through unmapped. Connection failures and a missing records table (the
// migrations were never applied) wrap domain.ErrStoreUnavailable.
func MapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case codeNotNullViolation, codeCheckViolation:
			return fmt.Errorf("%s %s: %w: %s", entity, id, domain.ErrValidation, pgErr.ConstraintName)
		case codeUndefinedTable:
			return fmt.Errorf("%s %s: %w: %s (run zinotectl migrate)", entity, id, domain.ErrStoreUnavailable, pgErr.Message)
		}
	}

	var (
		connErr *pgconn.ConnectError
		netErr  net.Error
	)
	if errors.As(err, &connErr) || errors.As(err, &netErr) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%s %s: %w: %w", entity, id, domain.ErrStoreUnavailable, err)
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
