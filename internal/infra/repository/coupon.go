package repository

import (
	"context"
	"log/slog"

	"fastpick/internal/domain/coupon"
	"fastpick/internal/infra"
	"fastpick/internal/infra/db"
	"fastpick/internal/infra/repository/converter"
	"fastpick/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type CouponRepository struct {
	queries *db.Queries
	db      db.DBTX
	logger  *slog.Logger
}

func NewCouponRepository(queries *db.Queries, dbtx db.DBTX, logger *slog.Logger) *CouponRepository {
	return &CouponRepository{queries: queries, db: dbtx, logger: logger}
}

// FindForUpdate takes the exclusive row lock. The wait is bounded by the session lock_timeout.
func (r *CouponRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	row, err := r.queries.FindCouponForUpdate(ctx, r.db, id)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to lock coupon", err)
	}
	c, err := converter.CouponFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "corrupt coupon row", err)
	}
	return c, nil
}

func (r *CouponRepository) Update(ctx context.Context, c *coupon.Coupon) error {
	row := converter.CouponToRow(c)
	n, err := r.queries.UpdateCoupon(ctx, r.db, row.ID, row.IssuedQuantity, row.UseStatus, pgconv.TimeToPgtype(c.UpdatedAt()))
	if err != nil {
		return wrapPgErr(r.logger, "failed to update coupon", err)
	}
	if n == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "coupon not found", nil)
	}
	return nil
}

func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	if err := r.queries.CreateCoupon(ctx, r.db, converter.CouponToRow(c)); err != nil {
		return wrapPgErr(r.logger, "failed to create coupon", err)
	}
	return nil
}
