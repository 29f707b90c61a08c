package components

import (
	"context"
	"fmt"
	"log/slog"

	"fastpick/internal/infra/db"
	"fastpick/internal/infra/memstore"
	"fastpick/internal/infra/messaging"
	"fastpick/internal/infra/readstore"
	"fastpick/internal/infra/repository"
	"fastpick/internal/infra/uow"
	"fastpick/internal/pkg/config"
	"fastpick/internal/usecase/queries"
	"fastpick/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(NewPersistence),
)

// Persistence is one storage backend exposed through every port that reads or writes it.
type Persistence struct {
	fx.Out

	UoW       shared.UnitOfWork
	Coupons   queries.CouponReadStore
	MyCoupons queries.MyCouponReadStore
	Outbox    messaging.OutboxSource
}

func NewPersistence(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (Persistence, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		store := memstore.New(logger, cfg.Issue.LockTimeout)
		return Persistence{
			UoW:       memstore.NewUoW(store),
			Coupons:   store,
			MyCoupons: store,
			Outbox:    store,
		}, nil

	case config.StoreDriverPostgres:
		pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
		if err != nil {
			return Persistence{}, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				cleanup()
				return nil
			},
		})

		q := db.New()
		rs := readstore.NewCouponReadStore(q, pool, logger)
		return Persistence{
			UoW: uow.NewPostgresUoW(pool, q, logger, uow.Options{
				LockTimeout: cfg.Issue.LockTimeout,
				MaxRetries:  cfg.Issue.TxMaxRetries,
			}),
			Coupons:   rs,
			MyCoupons: rs,
			Outbox:    repository.NewOutboxSource(pool, q, logger),
		}, nil

	default:
		return Persistence{}, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
