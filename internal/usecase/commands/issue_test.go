//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fastpick/internal/domain/coupon"
	"fastpick/internal/infra/memstore"
	"fastpick/internal/pkg/clock"
	"fastpick/internal/pkg/errs"
	"fastpick/internal/usecase/commands"
	"fastpick/internal/usecase/shared"
	"fastpick/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *memstore.Store
	uow    shared.UnitOfWork
	clock  *clock.MockClock
	marker *recordingMarker
	issue  commands.IssueCommands
	coupon *coupon.Coupon
}

func newFixture(t *testing.T, b *builder.CouponBuilder, lockTimeout time.Duration) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New(logger, lockTimeout)
	uow := memstore.NewUoW(store)

	c, err := b.BuildDomain()
	require.NoError(t, err)
	require.NoError(t, uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Create(ctx, c)
	}))

	clk := clock.NewMockClock(builder.BaseTime)
	marker := newRecordingMarker()
	return &fixture{
		store:  store,
		uow:    uow,
		clock:  clk,
		marker: marker,
		issue:  commands.NewIssueCommands(uow, clk, marker, nil),
		coupon: c,
	}
}

func (f *fixture) issuedQuantity(t *testing.T) int {
	t.Helper()
	c, err := f.store.FindByID(context.Background(), f.coupon.ID())
	require.NoError(t, err)
	return c.IssuedQuantity()
}

// recordingMarker is an in-process TerminalMarker that keeps every Mark call.
// Writes of a kind listed in failKinds return an error and leave the stored state alone.
type recordingMarker struct {
	mu        sync.Mutex
	states    map[uuid.UUID]commands.TerminalState
	marks     []commands.TerminalState
	failKinds map[errs.Kind]bool
	forgets   int
}

func newRecordingMarker() *recordingMarker {
	return &recordingMarker{states: make(map[uuid.UUID]commands.TerminalState)}
}

func (m *recordingMarker) Lookup(_ context.Context, couponID uuid.UUID) (*commands.TerminalState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[couponID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *recordingMarker) Mark(_ context.Context, couponID uuid.UUID, state commands.TerminalState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failKinds[state.Kind] {
		return errors.New("marker write failed")
	}
	m.states[couponID] = state
	m.marks = append(m.marks, state)
	return nil
}

func (m *recordingMarker) Forget(_ context.Context, couponID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, couponID)
	m.forgets++
	return nil
}

type outcome struct {
	id  uuid.UUID
	err error
}

func runConcurrently(f *fixture, userIDs []uuid.UUID) []outcome {
	results := make([]outcome, len(userIDs))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, userID := range userIDs {
		wg.Add(1)
		go func(i int, userID uuid.UUID) {
			defer wg.Done()
			<-start
			id, err := f.issue.Issue(context.Background(), f.coupon.ID(), userID)
			results[i] = outcome{id: id, err: err}
		}(i, userID)
	}
	close(start)
	wg.Wait()
	return results
}

func tally(t *testing.T, results []outcome) (int, map[errs.Kind]int) {
	t.Helper()
	success := 0
	failures := map[errs.Kind]int{}
	for _, r := range results {
		if r.err == nil {
			assert.NotEqual(t, uuid.Nil, r.id)
			success++
			continue
		}
		kind, ok := errs.KindOf(r.err)
		require.True(t, ok, "unexpected error: %v", r.err)
		failures[kind]++
	}
	return success, failures
}

func distinctUsers(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestIssue_Concurrency(t *testing.T) {
	t.Run("100 users claim 100 units", func(t *testing.T) {
		f := newFixture(t, builder.NewCouponBuilder().WithQuantity(100, 0), 5*time.Second)

		success, failures := tally(t, runConcurrently(f, distinctUsers(100)))

		assert.Equal(t, 100, success)
		assert.Empty(t, failures)
		assert.Equal(t, 100, f.issuedQuantity(t))
		assert.Len(t, f.store.Outbox(), 100)
	})

	t.Run("one user sends 10 concurrent requests", func(t *testing.T) {
		f := newFixture(t, builder.NewCouponBuilder().WithQuantity(100, 0), 5*time.Second)
		user := uuid.New()
		users := make([]uuid.UUID, 10)
		for i := range users {
			users[i] = user
		}

		success, failures := tally(t, runConcurrently(f, users))

		assert.Equal(t, 1, success)
		assert.Equal(t, map[errs.Kind]int{errs.KindAlreadyIssued: 9}, failures)
		assert.Equal(t, 1, f.issuedQuantity(t))

		mine, err := f.store.FindByUser(context.Background(), user)
		require.NoError(t, err)
		assert.Len(t, mine, 1)
	})

	t.Run("70 users race for 50 units", func(t *testing.T) {
		f := newFixture(t, builder.NewCouponBuilder().WithQuantity(50, 0), 5*time.Second)

		success, failures := tally(t, runConcurrently(f, distinctUsers(70)))

		assert.Equal(t, 50, success)
		assert.Equal(t, map[errs.Kind]int{errs.KindCouponExhausted: 20}, failures)
		assert.Equal(t, 50, f.issuedQuantity(t))
		assert.Len(t, f.store.Outbox(), 50)
	})
}

func TestIssue_Conditions(t *testing.T) {
	start := builder.BaseTime
	end := builder.BaseTime.Add(24 * time.Hour)

	tests := []struct {
		name   string
		build  func(b *builder.CouponBuilder)
		now    time.Time
		errIs  error
		issued int
	}{
		{name: "before window", build: func(b *builder.CouponBuilder) {}, now: start.Add(-time.Minute), errIs: errs.ErrCouponNotAvailablePeriod},
		{name: "at window start", build: func(b *builder.CouponBuilder) {}, now: start, issued: 1},
		{name: "at window end", build: func(b *builder.CouponBuilder) {}, now: end, errIs: errs.ErrCouponNotAvailablePeriod},
		{name: "disabled inside window", build: func(b *builder.CouponBuilder) { b.Disabled() }, now: start.Add(time.Hour), errIs: errs.ErrCouponDisabled},
		{name: "already exhausted", build: func(b *builder.CouponBuilder) { b.WithQuantity(3, 3) }, now: start.Add(time.Hour), errIs: errs.ErrCouponExhausted, issued: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := builder.NewCouponBuilder().WithWindow(start, end).WithQuantity(10, 0)
			tt.build(b)
			f := newFixture(t, b, time.Second)
			f.clock.Set(tt.now)

			id, err := f.issue.Issue(context.Background(), f.coupon.ID(), uuid.New())
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				assert.Equal(t, uuid.Nil, id)
				assert.Empty(t, f.store.Outbox())
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, id)
			}
			assert.Equal(t, tt.issued, f.issuedQuantity(t))
		})
	}

	t.Run("unknown coupon", func(t *testing.T) {
		f := newFixture(t, builder.NewCouponBuilder(), time.Second)
		_, err := f.issue.Issue(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrCouponNotFound)
	})
}

func TestIssue_OutboxPayload(t *testing.T) {
	f := newFixture(t, builder.NewCouponBuilder().WithQuantity(5, 2), time.Second)
	user := uuid.New()

	id, err := f.issue.Issue(context.Background(), f.coupon.ID(), user)
	require.NoError(t, err)

	events := f.store.Outbox()
	require.Len(t, events, 1)
	assert.Equal(t, shared.TopicCouponIssued, events[0].Topic)
	assert.Equal(t, f.coupon.ID().String(), events[0].Key)

	var payload shared.CouponIssuedPayload
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, id, payload.IssuedCouponID)
	assert.Equal(t, user, payload.UserID)
	assert.Equal(t, 2, payload.Remaining)
	assert.True(t, builder.BaseTime.Equal(payload.IssuedAt))
}

func TestIssue_LockTimeout(t *testing.T) {
	f := newFixture(t, builder.NewCouponBuilder(), 50*time.Millisecond)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- f.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
			if _, err := tx.Coupons().FindForUpdate(ctx, f.coupon.ID()); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	_, err := f.issue.Issue(context.Background(), f.coupon.ID(), uuid.New())
	assert.ErrorIs(t, err, errs.ErrLockTimeout)
	assert.True(t, errs.IsRetryable(err))
	assert.Equal(t, 0, f.issuedQuantity(t))

	close(release)
	require.NoError(t, <-done)

	_, err = f.issue.Issue(context.Background(), f.coupon.ID(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, f.issuedQuantity(t))
}

func TestIssue_TerminalMarker(t *testing.T) {
	t.Run("last unit marks the coupon exhausted", func(t *testing.T) {
		f := newFixture(t, builder.NewCouponBuilder().WithQuantity(1, 0), time.Second)
		holder := uuid.New()

		_, err := f.issue.Issue(context.Background(), f.coupon.ID(), holder)
		require.NoError(t, err)
		require.Len(t, f.marker.marks, 1)
		assert.Equal(t, errs.KindCouponExhausted, f.marker.marks[0].Kind)
		assert.True(t, f.coupon.EndAt().Equal(f.marker.marks[0].EndAt))

		_, err = f.issue.Issue(context.Background(), f.coupon.ID(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrCouponExhausted)

		_, err = f.issue.Issue(context.Background(), f.coupon.ID(), holder)
		assert.ErrorIs(t, err, errs.ErrAlreadyIssued)

		f.clock.Set(f.coupon.EndAt())
		_, err = f.issue.Issue(context.Background(), f.coupon.ID(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrCouponNotAvailablePeriod)
	})

	t.Run("disabled claim marks the coupon", func(t *testing.T) {
		f := newFixture(t, builder.NewCouponBuilder().Disabled(), time.Second)

		_, err := f.issue.Issue(context.Background(), f.coupon.ID(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrCouponDisabled)
		require.Len(t, f.marker.marks, 1)
		assert.Equal(t, errs.KindCouponDisabled, f.marker.marks[0].Kind)
	})

	t.Run("period failures are not terminal", func(t *testing.T) {
		f := newFixture(t, builder.NewCouponBuilder(), time.Second)
		f.clock.Set(f.coupon.StartAt().Add(-time.Hour))

		_, err := f.issue.Issue(context.Background(), f.coupon.ID(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrCouponNotAvailablePeriod)
		assert.Empty(t, f.marker.marks)
	})
}
