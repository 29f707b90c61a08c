//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"

	"fastpick/internal/domain/coupon"
	"fastpick/internal/infra/db"
	"fastpick/internal/infra/repository/converter"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// InsertCoupon stores c as-is, bypassing the issuance path.
func InsertCoupon(t *testing.T, dbtx db.DBTX, c *coupon.Coupon) {
	t.Helper()
	err := db.New().CreateCoupon(context.Background(), dbtx, converter.CouponToRow(c))
	require.NoError(t, err)
}

func IssuedQuantity(t *testing.T, dbl DBLike, couponID uuid.UUID) int {
	t.Helper()
	var n int
	err := dbl.QueryRow(context.Background(), "SELECT issued_quantity FROM coupons WHERE id = $1", couponID).Scan(&n)
	require.NoError(t, err)
	return n
}

func CountIssued(t *testing.T, dbl DBLike, couponID uuid.UUID) int {
	t.Helper()
	var n int
	err := dbl.QueryRow(context.Background(), "SELECT count(*) FROM issued_coupons WHERE coupon_id = $1", couponID).Scan(&n)
	require.NoError(t, err)
	return n
}

func CountIssuedToUser(t *testing.T, dbl DBLike, couponID, userID uuid.UUID) int {
	t.Helper()
	var n int
	err := dbl.QueryRow(context.Background(),
		"SELECT count(*) FROM issued_coupons WHERE coupon_id = $1 AND user_id = $2", couponID, userID).Scan(&n)
	require.NoError(t, err)
	return n
}

func CountPendingOutbox(t *testing.T, dbl DBLike) int {
	t.Helper()
	var n int
	err := dbl.QueryRow(context.Background(), "SELECT count(*) FROM outbox_events WHERE published_at IS NULL").Scan(&n)
	require.NoError(t, err)
	return n
}

// ResetDB empties every table between subtests.
func ResetDB(dbl DBLike) error {
	_, err := dbl.Exec(context.Background(), "TRUNCATE outbox_events, issued_coupons, coupons")
	return err
}
