//go:build unit

package readstore_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fastpick/internal/infra"
	"fastpick/internal/infra/db"
	"fastpick/internal/infra/readstore"
	"fastpick/internal/infra/repository/converter"
	"fastpick/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockQueries struct {
	mock.Mock
}

func (m *mockQueries) FindCouponByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (db.Coupons, error) {
	args := m.Called(ctx, dbtx, id)
	return args.Get(0).(db.Coupons), args.Error(1)
}

func (m *mockQueries) ListIssuedCouponsByUser(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) ([]db.IssuedCouponWithCouponRow, error) {
	args := m.Called(ctx, dbtx, userID)
	return args.Get(0).([]db.IssuedCouponWithCouponRow), args.Error(1)
}

func newStore(q *mockQueries) *readstore.CouponReadStore {
	return readstore.NewCouponReadStore(q, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCouponReadStore_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		c := builder.NewCouponBuilder().WithQuantity(10, 3).MustBuildDomain()
		q := &mockQueries{}
		q.On("FindCouponByID", mock.Anything, mock.Anything, c.ID()).Return(converter.CouponToRow(c), nil)

		got, err := newStore(q).FindByID(context.Background(), c.ID())
		require.NoError(t, err)
		assert.Equal(t, 3, got.IssuedQuantity())
		q.AssertExpectations(t)
	})

	t.Run("no rows", func(t *testing.T) {
		q := &mockQueries{}
		q.On("FindCouponByID", mock.Anything, mock.Anything, mock.Anything).Return(db.Coupons{}, pgx.ErrNoRows)

		_, err := newStore(q).FindByID(context.Background(), uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("driver failure", func(t *testing.T) {
		q := &mockQueries{}
		q.On("FindCouponByID", mock.Anything, mock.Anything, mock.Anything).Return(db.Coupons{}, errors.New("conn reset"))

		_, err := newStore(q).FindByID(context.Background(), uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestCouponReadStore_FindByUser(t *testing.T) {
	userID := uuid.New()
	ic := builder.NewIssuedCouponBuilder().With(func(b *builder.IssuedCouponBuilder) { b.UserID = userID }).BuildDomain()
	endAt := builder.BaseTime.Add(48 * time.Hour)

	q := &mockQueries{}
	q.On("ListIssuedCouponsByUser", mock.Anything, mock.Anything, userID).Return([]db.IssuedCouponWithCouponRow{{
		IssuedCoupons: converter.IssuedCouponToRow(ic),
		CouponTitle:   "Opening week 10% off",
		CouponEndAt:   pgtype.Timestamptz{Time: endAt, Valid: true},
	}}, nil)

	records, err := newStore(q).FindByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ic.ID(), records[0].IssuedCoupon.ID())
	assert.Equal(t, "Opening week 10% off", records[0].CouponTitle)
	assert.True(t, endAt.Equal(records[0].CouponEndAt))
}
