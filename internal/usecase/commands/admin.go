package commands

import (
	"context"
	"log/slog"

	"fastpick/internal/pkg/clock"
	"fastpick/internal/pkg/errs"
	"fastpick/internal/usecase/shared"

	"github.com/google/uuid"
)

type CouponAdminCommands interface {
	Disable(ctx context.Context, couponID uuid.UUID) error
}

type couponAdminCommandsImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	marker TerminalMarker
}

func NewCouponAdminCommands(uow shared.UnitOfWork, clk clock.Clock, marker TerminalMarker) CouponAdminCommands {
	if marker == nil {
		marker = NopMarker{}
	}
	return &couponAdminCommandsImpl{uow: uow, clock: clk, marker: marker}
}

func (uc *couponAdminCommandsImpl) Disable(ctx context.Context, couponID uuid.UUID) error {
	now := uc.clock.Now()

	var state TerminalState
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := tx.Coupons().FindForUpdate(ctx, couponID)
		if err != nil {
			return couponRepoErr(err)
		}
		c.Disable(now)
		state = TerminalState{Kind: errs.KindCouponDisabled, EndAt: c.EndAt()}
		return tx.Coupons().Update(ctx, c)
	})
	if err != nil {
		return err
	}

	// a stale EXHAUSTED marker would outrank DISABLED, so drop it when the overwrite fails
	if merr := uc.marker.Mark(ctx, couponID, state); merr != nil {
		slog.Warn("failed to set terminal marker", "coupon_id", couponID.String(), "error", merr.Error())
		if ferr := uc.marker.Forget(ctx, couponID); ferr != nil {
			slog.Error("failed to drop terminal marker", "coupon_id", couponID.String(), "error", ferr.Error())
		}
	}
	slog.Info("coupon disabled", "coupon_id", couponID.String())
	return nil
}
