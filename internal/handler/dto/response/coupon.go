package response

import (
	"fastpick/internal/usecase/queries"
)

type IssueCouponResponse struct {
	ID string `json:"id"`
}

type CouponResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	TotalQuantity  int    `json:"total_quantity"`
	IssuedQuantity int    `json:"issued_quantity"`
	Remaining      int    `json:"remaining"`
	StartAt        int64  `json:"start_at"`
	EndAt          int64  `json:"end_at"`
	Status         string `json:"status"`
}

func FromCouponView(v *queries.CouponView) *CouponResponse {
	return &CouponResponse{
		ID:             v.ID.String(),
		Title:          v.Title,
		TotalQuantity:  v.TotalQuantity,
		IssuedQuantity: v.IssuedQuantity,
		Remaining:      v.Remaining,
		StartAt:        v.StartAt.Unix(),
		EndAt:          v.EndAt.Unix(),
		Status:         v.Status,
	}
}

type MyCouponResponse struct {
	ID          string `json:"id"`
	CouponID    string `json:"coupon_id"`
	CouponTitle string `json:"coupon_title"`
	IssuedAt    int64  `json:"issued_at"`
	UsedAt      *int64 `json:"used_at,omitempty"`
	ExpiresAt   int64  `json:"expires_at"`
	Status      string `json:"status"`
}

func FromMyCouponViews(items []*queries.MyCouponView) []*MyCouponResponse {
	res := make([]*MyCouponResponse, len(items))
	for i, it := range items {
		r := &MyCouponResponse{
			ID:          it.ID.String(),
			CouponID:    it.CouponID.String(),
			CouponTitle: it.CouponTitle,
			IssuedAt:    it.IssuedAt.Unix(),
			ExpiresAt:   it.ExpiresAt.Unix(),
			Status:      it.Status,
		}
		if it.UsedAt != nil {
			used := it.UsedAt.Unix()
			r.UsedAt = &used
		}
		res[i] = r
	}
	return res
}
