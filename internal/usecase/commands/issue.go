package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"fastpick/internal/domain/coupon"
	"fastpick/internal/domain/issuedcoupon"
	"fastpick/internal/infra"
	"fastpick/internal/pkg/clock"
	"fastpick/internal/pkg/errs"
	"fastpick/internal/usecase/shared"

	"github.com/google/uuid"
)

const OutcomeIssued = "issued"

type IssueCommands interface {
	// Issue claims one unit of couponID for userID and returns the ledger entry id.
	Issue(ctx context.Context, couponID, userID uuid.UUID) (uuid.UUID, error)
}

type issueCommandsImpl struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	marker  TerminalMarker
	metrics IssueMetrics
}

func NewIssueCommands(uow shared.UnitOfWork, clk clock.Clock, marker TerminalMarker, metrics IssueMetrics) IssueCommands {
	if marker == nil {
		marker = NopMarker{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &issueCommandsImpl{uow: uow, clock: clk, marker: marker, metrics: metrics}
}

func (uc *issueCommandsImpl) Issue(ctx context.Context, couponID, userID uuid.UUID) (uuid.UUID, error) {
	started := time.Now()
	now := uc.clock.Now()

	id, err := uc.issue(ctx, couponID, userID, now)
	uc.metrics.ObserveIssue(outcomeOf(err), time.Since(started))
	return id, err
}

func (uc *issueCommandsImpl) issue(ctx context.Context, couponID, userID uuid.UUID, now time.Time) (uuid.UUID, error) {
	if err := uc.checkTerminal(ctx, couponID, userID, now); err != nil {
		return uuid.Nil, err
	}

	var (
		issuedID  uuid.UUID
		remaining int
		terminal  *TerminalState
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		issuedID, terminal = uuid.Nil, nil

		c, err := tx.Coupons().FindForUpdate(ctx, couponID)
		if err != nil {
			return couponRepoErr(err)
		}

		exists, err := tx.IssuedCoupons().ExistsByUserAndCoupon(ctx, userID, couponID)
		if err != nil {
			return err
		}
		if exists {
			return errs.ErrAlreadyIssued
		}

		if err := c.Claim(now); err != nil {
			terminal = terminalStateOf(err, c)
			return err
		}
		if err := tx.Coupons().Update(ctx, c); err != nil {
			return err
		}

		ic, err := issuedcoupon.New(userID, couponID, now)
		if err != nil {
			return err
		}
		if err := tx.IssuedCoupons().Insert(ctx, ic); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.ErrAlreadyIssued
			}
			return err
		}

		if err := enqueueIssued(ctx, tx, ic, c.Remaining()); err != nil {
			return err
		}

		issuedID = ic.ID()
		remaining = c.Remaining()
		if remaining == 0 {
			terminal = &TerminalState{Kind: errs.KindCouponExhausted, EndAt: c.EndAt()}
		}
		return nil
	})

	if terminal != nil {
		uc.mark(ctx, couponID, *terminal)
	}
	if err != nil {
		return uuid.Nil, err
	}

	slog.Debug("coupon issued",
		"coupon_id", couponID.String(),
		"user_id", userID.String(),
		"issued_coupon_id", issuedID.String(),
		"remaining", remaining)
	return issuedID, nil
}

// checkTerminal answers from the marker without touching the coupon row lock. The answer
// matches what the locked path would return: a holder still sees AlreadyIssued.
func (uc *issueCommandsImpl) checkTerminal(ctx context.Context, couponID, userID uuid.UUID, now time.Time) error {
	state, err := uc.marker.Lookup(ctx, couponID)
	if err != nil {
		slog.Warn("terminal marker lookup failed", "coupon_id", couponID.String(), "error", err.Error())
		return nil
	}
	if state == nil {
		return nil
	}

	var exists bool
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var derr error
		exists, derr = tx.IssuedCoupons().ExistsByUserAndCoupon(ctx, userID, couponID)
		return derr
	})
	if err != nil {
		return err
	}

	uc.metrics.ObserveMarkerHit(state.Kind)
	switch {
	case exists:
		return errs.ErrAlreadyIssued
	case state.Kind == errs.KindCouponDisabled:
		return errs.ErrCouponDisabled
	case !now.Before(state.EndAt):
		return errs.ErrCouponNotAvailablePeriod
	default:
		return errs.ErrCouponExhausted
	}
}

func (uc *issueCommandsImpl) mark(ctx context.Context, couponID uuid.UUID, state TerminalState) {
	if err := uc.marker.Mark(ctx, couponID, state); err != nil {
		slog.Warn("failed to set terminal marker",
			"coupon_id", couponID.String(),
			"kind", string(state.Kind),
			"error", err.Error())
	}
}

func enqueueIssued(ctx context.Context, tx shared.Tx, ic *issuedcoupon.IssuedCoupon, remaining int) error {
	payload, err := json.Marshal(shared.CouponIssuedPayload{
		IssuedCouponID: ic.ID(),
		CouponID:       ic.CouponID(),
		UserID:         ic.UserID(),
		IssuedAt:       ic.IssuedAt(),
		Remaining:      remaining,
	})
	if err != nil {
		return errs.Wrap(err, "failed to marshal coupon issued payload")
	}
	return tx.Outbox().Enqueue(ctx, shared.OutboxEvent{
		ID:        uuid.New(),
		Topic:     shared.TopicCouponIssued,
		Key:       ic.CouponID().String(),
		Payload:   payload,
		CreatedAt: ic.IssuedAt(),
	})
}

func terminalStateOf(err error, c *coupon.Coupon) *TerminalState {
	kind, ok := errs.KindOf(err)
	if !ok {
		return nil
	}
	switch kind {
	case errs.KindCouponDisabled, errs.KindCouponExhausted:
		return &TerminalState{Kind: kind, EndAt: c.EndAt()}
	default:
		return nil
	}
}

func couponRepoErr(err error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.ErrCouponNotFound
	case infra.IsKind(err, infra.KindLockTimeout):
		return errs.ErrLockTimeout
	default:
		return err
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return OutcomeIssued
	}
	if kind, ok := errs.KindOf(err); ok {
		return strings.ToLower(string(kind))
	}
	return "error"
}
