package coupon

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrEmptyTitle       = errors.New("coupon title is required")
	ErrTitleTooLong     = errors.New("coupon title is too long")
	ErrInvalidQuantity  = errors.New("total quantity must be between 1 and 2147483647")
	ErrInvalidIssued    = errors.New("issued quantity must be between 0 and total quantity")
	ErrInvalidPeriod    = errors.New("issuance period start must be before end")
	ErrInvalidUseStatus = errors.New("invalid use status")
)

const MaxTitleLength = 200

// MaxTotalQuantity matches the INTEGER column that stores quantities.
const MaxTotalQuantity = math.MaxInt32

type Title string

func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyTitle
	}
	if len([]rune(s)) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return Title(s), nil
}

func (t Title) String() string {
	return string(t)
}

// Period is the half-open issuance window [StartAt, EndAt).
type Period struct {
	startAt time.Time
	endAt   time.Time
}

func NewPeriod(startAt, endAt time.Time) (Period, error) {
	if !startAt.Before(endAt) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{startAt: startAt, endAt: endAt}, nil
}

func (p Period) StartAt() time.Time { return p.startAt }
func (p Period) EndAt() time.Time   { return p.endAt }

func (p Period) NotStarted(now time.Time) bool {
	return now.Before(p.startAt)
}

func (p Period) Ended(now time.Time) bool {
	return !now.Before(p.endAt)
}

func (p Period) Contains(now time.Time) bool {
	return !p.NotStarted(now) && !p.Ended(now)
}

// UseStatus is the administrative flag. DISABLED is terminal.
type UseStatus string

const (
	UseStatusAvailable UseStatus = "AVAILABLE"
	UseStatusDisabled  UseStatus = "DISABLED"
)

func NewUseStatus(s string) (UseStatus, error) {
	switch us := UseStatus(s); us {
	case UseStatusAvailable, UseStatusDisabled:
		return us, nil
	default:
		return "", ErrInvalidUseStatus
	}
}

func (s UseStatus) String() string {
	return string(s)
}
