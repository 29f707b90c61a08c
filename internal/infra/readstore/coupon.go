package readstore

import (
	"context"
	"log/slog"

	"fastpick/internal/domain/coupon"
	"fastpick/internal/infra"
	"fastpick/internal/infra/db"
	"fastpick/internal/infra/repository/converter"
	"fastpick/internal/pkg/pgconv"
	"fastpick/internal/usecase/queries"

	"github.com/google/uuid"
)

type CouponReadQueries interface {
	FindCouponByID(ctx context.Context, db db.DBTX, id uuid.UUID) (db.Coupons, error)
	ListIssuedCouponsByUser(ctx context.Context, db db.DBTX, userID uuid.UUID) ([]db.IssuedCouponWithCouponRow, error)
}

// CouponReadStore reads committed rows without taking locks.
type CouponReadStore struct {
	queries CouponReadQueries
	db      db.DBTX
	logger  *slog.Logger
}

func NewCouponReadStore(queries CouponReadQueries, dbtx db.DBTX, logger *slog.Logger) *CouponReadStore {
	return &CouponReadStore{queries: queries, db: dbtx, logger: logger}
}

func (r *CouponReadStore) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	row, err := r.queries.FindCouponByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "coupon not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find coupon", err)
	}
	c, err := converter.CouponFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "corrupt coupon row", err)
	}
	return c, nil
}

func (r *CouponReadStore) FindByUser(ctx context.Context, userID uuid.UUID) ([]*queries.MyCouponRecord, error) {
	rows, err := r.queries.ListIssuedCouponsByUser(ctx, r.db, userID)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list issued coupons", err)
	}

	records := make([]*queries.MyCouponRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &queries.MyCouponRecord{
			IssuedCoupon: converter.IssuedCouponFromRow(row.IssuedCoupons),
			CouponTitle:  row.CouponTitle,
			CouponEndAt:  row.CouponEndAt.Time,
		})
	}
	return records, nil
}

var (
	_ queries.CouponReadStore   = (*CouponReadStore)(nil)
	_ queries.MyCouponReadStore = (*CouponReadStore)(nil)
)
