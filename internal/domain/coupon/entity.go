package coupon

import (
	"time"

	"fastpick/internal/pkg/errs"

	"github.com/google/uuid"
)

type Coupon struct {
	id             uuid.UUID
	title          Title
	totalQuantity  int
	issuedQuantity int
	period         Period
	useStatus      UseStatus
	createdAt      time.Time
	updatedAt      time.Time
}

func NewCoupon(title string, totalQuantity int, startAt, endAt, now time.Time) (*Coupon, error) {
	return build(uuid.New(), title, totalQuantity, 0, startAt, endAt, UseStatusAvailable, now, now)
}

// Restore rebuilds a persisted coupon. It is the only path that accepts a non-zero issued quantity.
func Restore(
	id uuid.UUID,
	title string,
	totalQuantity, issuedQuantity int,
	startAt, endAt time.Time,
	useStatus string,
	createdAt, updatedAt time.Time,
) (*Coupon, error) {
	us, err := NewUseStatus(useStatus)
	if err != nil {
		return nil, err
	}
	return build(id, title, totalQuantity, issuedQuantity, startAt, endAt, us, createdAt, updatedAt)
}

func build(
	id uuid.UUID,
	title string,
	totalQuantity, issuedQuantity int,
	startAt, endAt time.Time,
	useStatus UseStatus,
	createdAt, updatedAt time.Time,
) (*Coupon, error) {
	t, err := NewTitle(title)
	if err != nil {
		return nil, err
	}
	if totalQuantity <= 0 || totalQuantity > MaxTotalQuantity {
		return nil, ErrInvalidQuantity
	}
	if issuedQuantity < 0 || issuedQuantity > totalQuantity {
		return nil, ErrInvalidIssued
	}
	period, err := NewPeriod(startAt, endAt)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Coupon{
		id:             id,
		title:          t,
		totalQuantity:  totalQuantity,
		issuedQuantity: issuedQuantity,
		period:         period,
		useStatus:      useStatus,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (c *Coupon) IsDisabled() bool {
	return c.useStatus == UseStatusDisabled
}

// IsReady reports now < startAt.
func (c *Coupon) IsReady(now time.Time) bool {
	return c.period.NotStarted(now)
}

// IsExpired reports now >= endAt.
func (c *Coupon) IsExpired(now time.Time) bool {
	return c.period.Ended(now)
}

func (c *Coupon) IsExhausted() bool {
	return c.issuedQuantity >= c.totalQuantity
}

// CalculateStatus has no side effects. Precedence: DISABLED, READY, EXPIRED, EXHAUSTED, ISSUING.
func (c *Coupon) CalculateStatus(now time.Time) Status {
	switch {
	case c.IsDisabled():
		return StatusDisabled
	case c.IsReady(now):
		return StatusReady
	case c.IsExpired(now):
		return StatusExpired
	case c.IsExhausted():
		return StatusExhausted
	default:
		return StatusIssuing
	}
}

func (c *Coupon) ValidateIssuanceCondition(now time.Time) error {
	if c.IsDisabled() {
		return errs.ErrCouponDisabled
	}
	if !c.period.Contains(now) {
		return errs.ErrCouponNotAvailablePeriod
	}
	if c.IsExhausted() {
		return errs.ErrCouponExhausted
	}
	return nil
}

// Claim validates and takes one unit. The caller must hold the exclusive lock on
// the coupon row from before this call until the updated row is committed.
func (c *Coupon) Claim(now time.Time) error {
	if err := c.ValidateIssuanceCondition(now); err != nil {
		return err
	}
	c.issuedQuantity++
	c.updatedAt = now
	return nil
}

// Disable is idempotent; there is no way back to AVAILABLE.
func (c *Coupon) Disable(now time.Time) {
	if c.IsDisabled() {
		return
	}
	c.useStatus = UseStatusDisabled
	c.updatedAt = now
}

func (c *Coupon) Remaining() int {
	return c.totalQuantity - c.issuedQuantity
}

func (c *Coupon) ID() uuid.UUID        { return c.id }
func (c *Coupon) Title() Title         { return c.title }
func (c *Coupon) TotalQuantity() int   { return c.totalQuantity }
func (c *Coupon) IssuedQuantity() int  { return c.issuedQuantity }
func (c *Coupon) Period() Period       { return c.period }
func (c *Coupon) StartAt() time.Time   { return c.period.startAt }
func (c *Coupon) EndAt() time.Time     { return c.period.endAt }
func (c *Coupon) UseStatus() UseStatus { return c.useStatus }
func (c *Coupon) CreatedAt() time.Time { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time { return c.updatedAt }
