package request

import "github.com/google/uuid"

// IssueCouponRequest is the claim body. The claimant comes from the access token.
type IssueCouponRequest struct {
	CouponID uuid.UUID `json:"coupon_id" binding:"required"`
}
