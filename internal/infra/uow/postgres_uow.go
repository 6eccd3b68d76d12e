package uow

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"ordersvc/internal/infra/db"
	"ordersvc/internal/infra/repository"
	"ordersvc/internal/pkg/errs"
	"ordersvc/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, u.pool)
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}
		err = fn(ctx, tx)
		if err == nil {
			if commitErr := pgxTx.Commit(ctx); commitErr != nil {
				err = errs.Mark(commitErr, errTransactionCommit)
			}
		}

		if err == nil {
			return nil
		}

		rollback(ctx, pgxTx)

		if !isRetriable(err) || attempt == maxRetries {
			if isRetriable(err) {
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		// Exponential backoff with jitter before retrying the whole closure
		delay := base << attempt
		delay += time.Duration(rand.Int64N(int64(base)))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return errMaxRetriesExceeded
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Warn("failed to rollback transaction", "error", err)
	}
}

func isRetriable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrCodeSerializationFailure || pgErr.Code == pgErrCodeDeadlockDetected
	}
	return false
}

type pgTx struct {
	dbtx db.DBTX
}

func (t *pgTx) Products() shared.ProductRepository {
	return repository.NewProductRepository()
}

func (t *pgTx) Orders() shared.OrderRepository {
	return repository.NewOrderRepository()
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	return repository.NewReservationRepository()
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}
