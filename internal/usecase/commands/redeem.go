package commands

import (
	"context"

	"fastpick/internal/infra"
	"fastpick/internal/pkg/clock"
	"fastpick/internal/pkg/errs"
	"fastpick/internal/usecase/shared"

	"github.com/google/uuid"
)

type RedeemCommands interface {
	// Redeem marks the holder's ledger entry as used. Entries owned by other users look missing.
	Redeem(ctx context.Context, issuedCouponID, userID uuid.UUID) error
}

type redeemCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewRedeemCommands(uow shared.UnitOfWork, clk clock.Clock) RedeemCommands {
	return &redeemCommandsImpl{uow: uow, clock: clk}
}

func (uc *redeemCommandsImpl) Redeem(ctx context.Context, issuedCouponID, userID uuid.UUID) error {
	now := uc.clock.Now()

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ic, err := tx.IssuedCoupons().FindForUpdate(ctx, issuedCouponID)
		if err != nil {
			switch {
			case infra.IsKind(err, infra.KindNotFound):
				return errs.ErrIssuedCouponNotFound
			case infra.IsKind(err, infra.KindLockTimeout):
				return errs.ErrLockTimeout
			default:
				return err
			}
		}
		if ic.UserID() != userID {
			return errs.ErrIssuedCouponNotFound
		}
		if err := ic.Use(now); err != nil {
			return err
		}
		return tx.IssuedCoupons().Update(ctx, ic)
	})
}
