//go:build unit || e2e

package builder

import (
	"time"

	domcoupon "fastpick/internal/domain/coupon"
	domissued "fastpick/internal/domain/issuedcoupon"
	reqdto "fastpick/internal/handler/dto/request"
	"fastpick/internal/usecase/queries"

	"github.com/google/uuid"
)

// BaseTime is the instant builders center their windows on.
var BaseTime = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

type CouponBuilder struct {
	ID             uuid.UUID
	Title          string
	TotalQuantity  int
	IssuedQuantity int
	StartAt        time.Time
	EndAt          time.Time
	UseStatus      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		ID:             uuid.New(),
		Title:          "Opening week 10% off",
		TotalQuantity:  100,
		IssuedQuantity: 0,
		StartAt:        BaseTime.Add(-24 * time.Hour),
		EndAt:          BaseTime.Add(24 * time.Hour),
		UseStatus:      string(domcoupon.UseStatusAvailable),
		CreatedAt:      BaseTime.Add(-48 * time.Hour),
		UpdatedAt:      BaseTime.Add(-48 * time.Hour),
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) WithQuantity(total, issued int) *CouponBuilder {
	b.TotalQuantity = total
	b.IssuedQuantity = issued
	return b
}

func (b *CouponBuilder) WithWindow(startAt, endAt time.Time) *CouponBuilder {
	b.StartAt = startAt
	b.EndAt = endAt
	return b
}

func (b *CouponBuilder) Disabled() *CouponBuilder {
	b.UseStatus = string(domcoupon.UseStatusDisabled)
	return b
}

// Build methods
func (b *CouponBuilder) BuildDomain() (*domcoupon.Coupon, error) {
	return domcoupon.Restore(b.ID, b.Title, b.TotalQuantity, b.IssuedQuantity, b.StartAt, b.EndAt, b.UseStatus, b.CreatedAt, b.UpdatedAt)
}

func (b *CouponBuilder) MustBuildDomain() *domcoupon.Coupon {
	c, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return c
}

func (b *CouponBuilder) BuildIssueRequestDTO() reqdto.IssueCouponRequest {
	return reqdto.IssueCouponRequest{CouponID: b.ID}
}

// BuildView mirrors what CouponQueries returns when read at now.
func (b *CouponBuilder) BuildView(now time.Time) *queries.CouponView {
	c := b.MustBuildDomain()
	return &queries.CouponView{
		ID:             c.ID(),
		Title:          c.Title().String(),
		TotalQuantity:  c.TotalQuantity(),
		IssuedQuantity: c.IssuedQuantity(),
		Remaining:      c.Remaining(),
		StartAt:        c.StartAt(),
		EndAt:          c.EndAt(),
		Status:         c.CalculateStatus(now).String(),
	}
}

type IssuedCouponBuilder struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	CouponID uuid.UUID
	IssuedAt time.Time
	UsedAt   *time.Time
}

func NewIssuedCouponBuilder() *IssuedCouponBuilder {
	return &IssuedCouponBuilder{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		CouponID: uuid.New(),
		IssuedAt: BaseTime,
	}
}

func (b *IssuedCouponBuilder) With(mutate func(*IssuedCouponBuilder)) *IssuedCouponBuilder {
	mutate(b)
	return b
}

func (b *IssuedCouponBuilder) BuildDomain() *domissued.IssuedCoupon {
	return domissued.Restore(b.ID, b.UserID, b.CouponID, b.IssuedAt, b.UsedAt, b.IssuedAt, b.IssuedAt)
}
