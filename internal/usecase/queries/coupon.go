package queries

import (
	"context"
	"strings"
	"time"

	"fastpick/internal/domain/coupon"
	"fastpick/internal/domain/issuedcoupon"
	"fastpick/internal/infra"
	"fastpick/internal/pkg/clock"
	"fastpick/internal/pkg/errs"

	"github.com/google/uuid"
)

type CouponView struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	TotalQuantity  int       `json:"total_quantity"`
	IssuedQuantity int       `json:"issued_quantity"`
	Remaining      int       `json:"remaining"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	Status         string    `json:"status"`
}

type MyCouponView struct {
	ID          uuid.UUID  `json:"id"`
	CouponID    uuid.UUID  `json:"coupon_id"`
	CouponTitle string     `json:"coupon_title"`
	IssuedAt    time.Time  `json:"issued_at"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Status      string     `json:"status"`
}

// MyCouponRecord joins a ledger entry with the parent coupon fields its status depends on.
type MyCouponRecord struct {
	IssuedCoupon *issuedcoupon.IssuedCoupon
	CouponTitle  string
	CouponEndAt  time.Time
}

type CouponReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
}

type MyCouponReadStore interface {
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*MyCouponRecord, error)
}

type CouponQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
}

type MyCouponQueries interface {
	ListByUser(ctx context.Context, userID uuid.UUID, filter MyCouponFilter) ([]*MyCouponView, error)
}

// MyCouponFilter narrows a holder's list to one computed status. ALL keeps everything.
type MyCouponFilter string

const (
	MyCouponFilterAll       MyCouponFilter = "ALL"
	MyCouponFilterAvailable MyCouponFilter = MyCouponFilter(issuedcoupon.StatusAvailable)
	MyCouponFilterUsed      MyCouponFilter = MyCouponFilter(issuedcoupon.StatusUsed)
	MyCouponFilterExpired   MyCouponFilter = MyCouponFilter(issuedcoupon.StatusExpired)
)

var ErrInvalidMyCouponFilter = errs.New("status must be one of ALL, AVAILABLE, USED, EXPIRED")

// ParseMyCouponFilter accepts any letter case; an empty value means ALL.
func ParseMyCouponFilter(s string) (MyCouponFilter, error) {
	f := MyCouponFilter(strings.ToUpper(strings.TrimSpace(s)))
	switch f {
	case "":
		return MyCouponFilterAll, nil
	case MyCouponFilterAll, MyCouponFilterAvailable, MyCouponFilterUsed, MyCouponFilterExpired:
		return f, nil
	default:
		return "", ErrInvalidMyCouponFilter
	}
}

func (f MyCouponFilter) matches(status issuedcoupon.Status) bool {
	return f == "" || f == MyCouponFilterAll || string(f) == string(status)
}

type couponQueriesImpl struct {
	repo  CouponReadStore
	clock clock.Clock
}

func NewCouponQueries(repo CouponReadStore, clk clock.Clock) CouponQueries {
	return &couponQueriesImpl{repo: repo, clock: clk}
}

func (q *couponQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error) {
	c, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrCouponNotFound
		}
		return nil, err
	}
	return toCouponView(c, q.clock.Now()), nil
}

func toCouponView(c *coupon.Coupon, now time.Time) *CouponView {
	return &CouponView{
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

type myCouponQueriesImpl struct {
	repo  MyCouponReadStore
	clock clock.Clock
}

func NewMyCouponQueries(repo MyCouponReadStore, clk clock.Clock) MyCouponQueries {
	return &myCouponQueriesImpl{repo: repo, clock: clk}
}

func (q *myCouponQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, filter MyCouponFilter) ([]*MyCouponView, error) {
	records, err := q.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	views := make([]*MyCouponView, 0, len(records))
	for _, r := range records {
		ic := r.IssuedCoupon
		status := ic.CalculateStatus(now, r.CouponEndAt)
		if !filter.matches(status) {
			continue
		}
		views = append(views, &MyCouponView{
			ID:          ic.ID(),
			CouponID:    ic.CouponID(),
			CouponTitle: r.CouponTitle,
			IssuedAt:    ic.IssuedAt(),
			UsedAt:      ic.UsedAt(),
			ExpiresAt:   r.CouponEndAt,
			Status:      status.String(),
		})
	}
	return views, nil
}
