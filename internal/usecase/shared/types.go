package shared

import (
	"time"

	"github.com/google/uuid"
)

const TopicCouponIssued = "coupon.issued"

// OutboxEvent is written in the same transaction as the state change it describes.
type OutboxEvent struct {
	ID          uuid.UUID
	Topic       string
	Key         string
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
}

type CouponIssuedPayload struct {
	IssuedCouponID uuid.UUID `json:"issued_coupon_id"`
	CouponID       uuid.UUID `json:"coupon_id"`
	UserID         uuid.UUID `json:"user_id"`
	IssuedAt       time.Time `json:"issued_at"`
	Remaining      int       `json:"remaining"`
}
