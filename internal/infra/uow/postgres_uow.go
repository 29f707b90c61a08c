package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fastpick/internal/infra/db"
	"fastpick/internal/infra/repository"
	"fastpick/internal/pkg/errs"
	"fastpick/internal/pkg/pgconv"
	"fastpick/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type Options struct {
	LockTimeout time.Duration
	MaxRetries  int
}

type PostgresUoW struct {
	pool    *pgxpool.Pool
	q       *db.Queries
	logger  *slog.Logger
	options Options
}

func NewPostgresUoW(pool *pgxpool.Pool, q *db.Queries, logger *slog.Logger, options Options) shared.UnitOfWork {
	return &PostgresUoW{
		pool:    pool,
		q:       q,
		logger:  logger,
		options: options,
	}
}

// Within runs fn under READ COMMITTED. Serialization of claims comes from the row lock
// taken by FindForUpdate, not from the isolation level. Once started, the transaction is
// detached from caller cancellation so a dropped request cannot abort a half-done claim.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(context.WithoutCancel(ctx), pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	maxRetries := u.options.MaxRetries
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		err = u.setLockTimeout(ctx, pgxTx)
		if err == nil {
			err = fn(ctx, u.newTx(pgxTx))
			if err == nil {
				if err = pgxTx.Commit(ctx); err == nil {
					return nil
				}
				err = errs.Mark(err, errTransactionCommit)
			}
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				u.logger.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries && pgconv.IsRetryableTx(err) {
				u.logger.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		u.logger.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		time.Sleep(waitTime)
	}

	return errMaxRetriesExceeded
}

// SET LOCAL does not accept bind parameters.
func (u *PostgresUoW) setLockTimeout(ctx context.Context, tx pgx.Tx) error {
	if u.options.LockTimeout <= 0 {
		return nil
	}
	stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.options.LockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, stmt); err != nil {
		return errs.Wrap(err, "failed to set lock timeout")
	}
	return nil
}

func (u *PostgresUoW) newTx(dbtx db.DBTX) *pgTx {
	return &pgTx{dbtx: dbtx, uow: u}
}

// Lock timeouts and domain failures are never retried here; only 40001 and 40P01 are.
func shouldRetry(err error, attempt, maxRetries int) bool {
	return pgconv.IsRetryableTx(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

type pgTx struct {
	dbtx db.DBTX
	uow  *PostgresUoW

	// Lazy-initialized repositories
	couponRepo       shared.CouponRepository
	issuedCouponRepo shared.IssuedCouponRepository
	outboxRepo       shared.OutboxRepository
}

func (t *pgTx) Coupons() shared.CouponRepository {
	if t.couponRepo == nil {
		t.couponRepo = repository.NewCouponRepository(t.uow.q, t.dbtx, t.uow.logger)
	}
	return t.couponRepo
}

func (t *pgTx) IssuedCoupons() shared.IssuedCouponRepository {
	if t.issuedCouponRepo == nil {
		t.issuedCouponRepo = repository.NewIssuedCouponRepository(t.uow.q, t.dbtx, t.uow.logger)
	}
	return t.issuedCouponRepo
}

func (t *pgTx) Outbox() shared.OutboxRepository {
	if t.outboxRepo == nil {
		t.outboxRepo = repository.NewOutboxRepository(t.uow.q, t.dbtx, t.uow.logger)
	}
	return t.outboxRepo
}
