package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fastpick/internal/infra/db"
	"fastpick/internal/infra/repository/converter"
	"fastpick/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OutboxRepository struct {
	queries *db.Queries
	db      db.DBTX
	logger  *slog.Logger
}

func NewOutboxRepository(queries *db.Queries, dbtx db.DBTX, logger *slog.Logger) *OutboxRepository {
	return &OutboxRepository{queries: queries, db: dbtx, logger: logger}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, event shared.OutboxEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if err := r.queries.CreateOutboxEvent(ctx, r.db, converter.OutboxEventToRow(event)); err != nil {
		return wrapPgErr(r.logger, "failed to enqueue outbox event", err)
	}
	return nil
}

// OutboxSource feeds the relay. Concurrent relays split the backlog through SKIP LOCKED.
type OutboxSource struct {
	pool    *pgxpool.Pool
	queries *db.Queries
	logger  *slog.Logger
}

func NewOutboxSource(pool *pgxpool.Pool, queries *db.Queries, logger *slog.Logger) *OutboxSource {
	return &OutboxSource{pool: pool, queries: queries, logger: logger}
}

// ProcessPending claims up to limit unpublished events, hands them to publish and marks them
// published in the same transaction. A publish failure leaves every claimed event pending.
func (s *OutboxSource) ProcessPending(ctx context.Context, limit int, now time.Time, publish func(ctx context.Context, events []shared.OutboxEvent) error) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, wrapPgErr(s.logger, "failed to begin outbox transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Warn("failed to rollback outbox transaction", "error", rbErr.Error())
		}
	}()

	rows, err := s.queries.ClaimPendingOutboxEvents(ctx, tx, int32(limit)) // #nosec G115 -- batch size from config
	if err != nil {
		return 0, wrapPgErr(s.logger, "failed to claim outbox events", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	events := make([]shared.OutboxEvent, len(rows))
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		events[i] = converter.OutboxEventFromRow(row)
		ids[i] = row.ID
	}

	if err := publish(ctx, events); err != nil {
		return 0, err
	}

	if err := s.queries.MarkOutboxEventsPublished(ctx, tx, ids, now); err != nil {
		return 0, wrapPgErr(s.logger, "failed to mark outbox events published", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, wrapPgErr(s.logger, "failed to commit outbox transaction", err)
	}
	return len(events), nil
}
