//go:build unit

package issuedcoupon_test

import (
	"testing"
	"time"

	"fastpick/internal/domain/issuedcoupon"
	"fastpick/internal/pkg/errs"
	"fastpick/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	now := builder.BaseTime
	userID, couponID := uuid.New(), uuid.New()

	ic, err := issuedcoupon.New(userID, couponID, now)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, ic.ID())
	assert.Equal(t, userID, ic.UserID())
	assert.Equal(t, couponID, ic.CouponID())
	assert.Equal(t, now, ic.IssuedAt())
	assert.False(t, ic.IsUsed())

	_, err = issuedcoupon.New(uuid.Nil, couponID, now)
	assert.ErrorIs(t, err, issuedcoupon.ErrMissingUserID)

	_, err = issuedcoupon.New(userID, uuid.Nil, now)
	assert.ErrorIs(t, err, issuedcoupon.ErrMissingCouponID)
}

func TestUse(t *testing.T) {
	ic := builder.NewIssuedCouponBuilder().BuildDomain()
	now := builder.BaseTime.Add(time.Hour)

	require.NoError(t, ic.Use(now))
	require.NotNil(t, ic.UsedAt())
	assert.Equal(t, now, *ic.UsedAt())

	err := ic.Use(now.Add(time.Minute))
	assert.ErrorIs(t, err, errs.ErrAlreadyUsed)
	assert.Equal(t, now, *ic.UsedAt())
}

func TestCalculateStatus(t *testing.T) {
	end := builder.BaseTime.Add(24 * time.Hour)
	usedAt := builder.BaseTime

	tests := []struct {
		name     string
		usedAt   *time.Time
		now      time.Time
		expected issuedcoupon.Status
	}{
		{"unused inside window", nil, builder.BaseTime, issuedcoupon.StatusAvailable},
		{"unused at window end", nil, end, issuedcoupon.StatusExpired},
		{"used inside window", &usedAt, builder.BaseTime, issuedcoupon.StatusUsed},
		{"used beats expired", &usedAt, end.Add(time.Hour), issuedcoupon.StatusUsed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ic := builder.NewIssuedCouponBuilder().With(func(b *builder.IssuedCouponBuilder) { b.UsedAt = tt.usedAt }).BuildDomain()
			assert.Equal(t, tt.expected, ic.CalculateStatus(tt.now, end))
		})
	}
}
