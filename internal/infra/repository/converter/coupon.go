package converter

import (
	"fastpick/internal/domain/coupon"
	"fastpick/internal/domain/issuedcoupon"
	"fastpick/internal/infra/db"
	"fastpick/internal/pkg/pgconv"
	"fastpick/internal/usecase/shared"
)

func CouponToRow(c *coupon.Coupon) db.Coupons {
	return db.Coupons{
		ID:             c.ID(),
		Title:          c.Title().String(),
		TotalQuantity:  int32(c.TotalQuantity()),  // #nosec G115 -- bounded by coupon.MaxTotalQuantity
		IssuedQuantity: int32(c.IssuedQuantity()), // #nosec G115
		StartAt:        pgconv.TimeToPgtype(c.StartAt()),
		EndAt:          pgconv.TimeToPgtype(c.EndAt()),
		UseStatus:      c.UseStatus().String(),
		CreatedAt:      pgconv.TimeToPgtype(c.CreatedAt()),
		UpdatedAt:      pgconv.TimeToPgtype(c.UpdatedAt()),
	}
}

func CouponFromRow(row db.Coupons) (*coupon.Coupon, error) {
	return coupon.Restore(
		row.ID,
		row.Title,
		int(row.TotalQuantity),
		int(row.IssuedQuantity),
		row.StartAt.Time,
		row.EndAt.Time,
		row.UseStatus,
		row.CreatedAt.Time,
		row.UpdatedAt.Time,
	)
}

func IssuedCouponToRow(ic *issuedcoupon.IssuedCoupon) db.IssuedCoupons {
	return db.IssuedCoupons{
		ID:        ic.ID(),
		UserID:    ic.UserID(),
		CouponID:  ic.CouponID(),
		IssuedAt:  pgconv.TimeToPgtype(ic.IssuedAt()),
		UsedAt:    pgconv.TimePtrToPgtype(ic.UsedAt()),
		CreatedAt: pgconv.TimeToPgtype(ic.CreatedAt()),
		UpdatedAt: pgconv.TimeToPgtype(ic.UpdatedAt()),
	}
}

func IssuedCouponFromRow(row db.IssuedCoupons) *issuedcoupon.IssuedCoupon {
	return issuedcoupon.Restore(
		row.ID,
		row.UserID,
		row.CouponID,
		row.IssuedAt.Time,
		pgconv.TimePtrFromPgtype(row.UsedAt),
		row.CreatedAt.Time,
		row.UpdatedAt.Time,
	)
}

func OutboxEventToRow(e shared.OutboxEvent) db.OutboxEvents {
	return db.OutboxEvents{
		ID:        e.ID,
		Topic:     e.Topic,
		Key:       e.Key,
		Payload:   e.Payload,
		CreatedAt: pgconv.TimeToPgtype(e.CreatedAt),
	}
}

func OutboxEventFromRow(row db.OutboxEvents) shared.OutboxEvent {
	return shared.OutboxEvent{
		ID:          row.ID,
		Topic:       row.Topic,
		Key:         row.Key,
		Payload:     row.Payload,
		CreatedAt:   row.CreatedAt.Time,
		PublishedAt: pgconv.TimePtrFromPgtype(row.PublishedAt),
	}
}
