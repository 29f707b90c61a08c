package issuedcoupon

import (
	"errors"
	"time"

	"fastpick/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrMissingUserID   = errors.New("user id is required")
	ErrMissingCouponID = errors.New("coupon id is required")
)

// Status is the holder-facing state of a ledger entry.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusUsed      Status = "USED"
	StatusExpired   Status = "EXPIRED"
)

func (s Status) String() string {
	return string(s)
}

// IssuedCoupon records that one user holds one unit of a coupon.
// At most one entry exists per (userID, couponID).
type IssuedCoupon struct {
	id        uuid.UUID
	userID    uuid.UUID
	couponID  uuid.UUID
	issuedAt  time.Time
	usedAt    *time.Time
	createdAt time.Time
	updatedAt time.Time
}

func New(userID, couponID uuid.UUID, now time.Time) (*IssuedCoupon, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUserID
	}
	if couponID == uuid.Nil {
		return nil, ErrMissingCouponID
	}
	return &IssuedCoupon{
		id:        uuid.New(),
		userID:    userID,
		couponID:  couponID,
		issuedAt:  now,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func Restore(id, userID, couponID uuid.UUID, issuedAt time.Time, usedAt *time.Time, createdAt, updatedAt time.Time) *IssuedCoupon {
	return &IssuedCoupon{
		id:        id,
		userID:    userID,
		couponID:  couponID,
		issuedAt:  issuedAt,
		usedAt:    usedAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (ic *IssuedCoupon) IsUsed() bool {
	return ic.usedAt != nil
}

// Use redeems the entry once.
func (ic *IssuedCoupon) Use(now time.Time) error {
	if ic.IsUsed() {
		return errs.ErrAlreadyUsed
	}
	usedAt := now
	ic.usedAt = &usedAt
	ic.updatedAt = now
	return nil
}

// CalculateStatus derives the holder view. couponEndAt is the end of the parent coupon's window.
func (ic *IssuedCoupon) CalculateStatus(now, couponEndAt time.Time) Status {
	if ic.IsUsed() {
		return StatusUsed
	}
	if !now.Before(couponEndAt) {
		return StatusExpired
	}
	return StatusAvailable
}

func (ic *IssuedCoupon) ID() uuid.UUID        { return ic.id }
func (ic *IssuedCoupon) UserID() uuid.UUID    { return ic.userID }
func (ic *IssuedCoupon) CouponID() uuid.UUID  { return ic.couponID }
func (ic *IssuedCoupon) IssuedAt() time.Time  { return ic.issuedAt }
func (ic *IssuedCoupon) UsedAt() *time.Time   { return ic.usedAt }
func (ic *IssuedCoupon) CreatedAt() time.Time { return ic.createdAt }
func (ic *IssuedCoupon) UpdatedAt() time.Time { return ic.updatedAt }
