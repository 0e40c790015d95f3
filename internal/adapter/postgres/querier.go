package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Builder renders squirrel statements with $n placeholders.
var Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Querier is implemented by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txCtxKey struct{}

func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

func txFromCtx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx)
	return tx, ok
}

// InTx reports whether ctx carries a transaction opened by TxManager.
func InTx(ctx context.Context) bool {
	_, ok := txFromCtx(ctx)
	return ok
}

// QuerierFromCtx returns the transaction carried by ctx, or the pool.
func QuerierFromCtx(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := txFromCtx(ctx); ok {
		return tx
	}
	return pool
}

// Exec renders stmt and executes it on the querier carried by ctx.
func Exec(ctx context.Context, pool *pgxpool.Pool, stmt squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := stmt.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("build statement: %w", err)
	}
	return QuerierFromCtx(ctx, pool).Exec(ctx, sql, args...)
}

// Query renders stmt and runs it on the querier carried by ctx.
func Query(ctx context.Context, pool *pgxpool.Pool, stmt squirrel.Sqlizer) (pgx.Rows, error) {
	sql, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return QuerierFromCtx(ctx, pool).Query(ctx, sql, args...)
}

// QueryRow renders stmt and runs it on the querier carried by ctx. A build
// error surfaces from Scan.
func QueryRow(ctx context.Context, pool *pgxpool.Pool, stmt squirrel.Sqlizer) pgx.Row {
	sql, args, err := stmt.ToSql()
	if err != nil {
		return errRow{fmt.Errorf("build query: %w", err)}
	}
	return QuerierFromCtx(ctx, pool).QueryRow(ctx, sql, args...)
}

// SendBatch queues every statement and executes the batch on the querier
// carried by ctx, failing on the first statement error.
func SendBatch(ctx context.Context, pool *pgxpool.Pool, stmts []squirrel.Sqlizer) error {
	batch := &pgx.Batch{}
	for _, stmt := range stmts {
		sql, args, err := stmt.ToSql()
		if err != nil {
			return fmt.Errorf("build batch statement: %w", err)
		}
		batch.Queue(sql, args...)
	}

	results := QuerierFromCtx(ctx, pool).SendBatch(ctx, batch)
	defer results.Close()

	for i := range batch.Len() {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch statement %d: %w", i+1, err)
		}
	}
	return nil
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }
