package shared

import (
	"context"

	"fastpick/internal/domain/coupon"
	"fastpick/internal/domain/issuedcoupon"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in one transaction. Row locks taken inside are released at commit or rollback.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Coupons() CouponRepository
	IssuedCoupons() IssuedCouponRepository
	Outbox() OutboxRepository
}

type CouponRepository interface {
	// FindForUpdate blocks until the exclusive row lock is held or the lock timeout elapses.
	// Failures carry infra.KindNotFound or infra.KindLockTimeout.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	Update(ctx context.Context, c *coupon.Coupon) error
	Create(ctx context.Context, c *coupon.Coupon) error
}

type IssuedCouponRepository interface {
	ExistsByUserAndCoupon(ctx context.Context, userID, couponID uuid.UUID) (bool, error)
	// Insert fails with an infra.KindDuplicateKey error when (userID, couponID) already exists.
	Insert(ctx context.Context, ic *issuedcoupon.IssuedCoupon) error
	FindForUpdate(ctx context.Context, id uuid.UUID) (*issuedcoupon.IssuedCoupon, error)
	Update(ctx context.Context, ic *issuedcoupon.IssuedCoupon) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
}
