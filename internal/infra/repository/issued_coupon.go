package repository

import (
	"context"
	"log/slog"

	"fastpick/internal/domain/issuedcoupon"
	"fastpick/internal/infra"
	"fastpick/internal/infra/db"
	"fastpick/internal/infra/repository/converter"

	"github.com/google/uuid"
)

type IssuedCouponRepository struct {
	queries *db.Queries
	db      db.DBTX
	logger  *slog.Logger
}

func NewIssuedCouponRepository(queries *db.Queries, dbtx db.DBTX, logger *slog.Logger) *IssuedCouponRepository {
	return &IssuedCouponRepository{queries: queries, db: dbtx, logger: logger}
}

func (r *IssuedCouponRepository) ExistsByUserAndCoupon(ctx context.Context, userID, couponID uuid.UUID) (bool, error) {
	exists, err := r.queries.ExistsIssuedCoupon(ctx, r.db, userID, couponID)
	if err != nil {
		return false, wrapPgErr(r.logger, "failed to check issued coupon", err)
	}
	return exists, nil
}

// Insert relies on the (user_id, coupon_id) unique constraint; a violation yields KindDuplicateKey.
func (r *IssuedCouponRepository) Insert(ctx context.Context, ic *issuedcoupon.IssuedCoupon) error {
	if err := r.queries.CreateIssuedCoupon(ctx, r.db, converter.IssuedCouponToRow(ic)); err != nil {
		return wrapPgErr(r.logger, "failed to insert issued coupon", err)
	}
	return nil
}

func (r *IssuedCouponRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*issuedcoupon.IssuedCoupon, error) {
	row, err := r.queries.FindIssuedCouponForUpdate(ctx, r.db, id)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to lock issued coupon", err)
	}
	return converter.IssuedCouponFromRow(row), nil
}

func (r *IssuedCouponRepository) Update(ctx context.Context, ic *issuedcoupon.IssuedCoupon) error {
	row := converter.IssuedCouponToRow(ic)
	n, err := r.queries.UpdateIssuedCoupon(ctx, r.db, row.ID, row.UsedAt, row.UpdatedAt)
	if err != nil {
		return wrapPgErr(r.logger, "failed to update issued coupon", err)
	}
	if n == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "issued coupon not found", nil)
	}
	return nil
}
