package memstore

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"fastpick/internal/domain/coupon"
	"fastpick/internal/domain/issuedcoupon"
	"fastpick/internal/infra"
	"fastpick/internal/usecase/queries"
	"fastpick/internal/usecase/shared"

	"github.com/google/uuid"
)

type rowKey struct {
	table string
	id    uuid.UUID
}

type pairKey struct {
	userID   uuid.UUID
	couponID uuid.UUID
}

const (
	tableCoupons       = "coupons"
	tableIssuedCoupons = "issued_coupons"
)

// Store keeps committed rows in memory and hands out exclusive row locks with a bounded wait.
type Store struct {
	logger      *slog.Logger
	lockTimeout time.Duration

	mu          sync.Mutex
	locks       map[rowKey]*rowLock
	coupons     map[uuid.UUID]coupon.Coupon
	issued      map[uuid.UUID]issuedcoupon.IssuedCoupon
	issuedByKey map[pairKey]uuid.UUID
	reserved    map[pairKey]struct{}
	outbox      []shared.OutboxEvent
}

func New(logger *slog.Logger, lockTimeout time.Duration) *Store {
	return &Store{
		logger:      logger,
		lockTimeout: lockTimeout,
		locks:       make(map[rowKey]*rowLock),
		coupons:     make(map[uuid.UUID]coupon.Coupon),
		issued:      make(map[uuid.UUID]issuedcoupon.IssuedCoupon),
		issuedByKey: make(map[pairKey]uuid.UUID),
		reserved:    make(map[pairKey]struct{}),
	}
}

// rowLock is dropped from Store.locks once no holder or waiter references it.
type rowLock struct {
	ch   chan struct{}
	refs int
}

func (s *Store) ref(key rowKey) *rowLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &rowLock{ch: make(chan struct{}, 1)}
		s.locks[key] = l
	}
	l.refs++
	return l
}

func (s *Store) unref(key rowKey, l *rowLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, key)
	}
}

func (s *Store) acquire(ctx context.Context, key rowKey) error {
	l := s.ref(key)

	// fast path keeps a zero lock timeout meaning "no wait"
	select {
	case l.ch <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()

	select {
	case l.ch <- struct{}{}:
		return nil
	case <-timer.C:
		s.unref(key, l)
		return infra.WrapRepoErr(s.logger, infra.KindLockTimeout, "row lock wait exceeded on "+key.table, nil)
	case <-ctx.Done():
		s.unref(key, l)
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "row lock wait aborted on "+key.table, ctx.Err())
	}
}

func (s *Store) release(key rowKey) {
	s.mu.Lock()
	l := s.locks[key]
	s.mu.Unlock()
	<-l.ch
	s.unref(key, l)
}

// Outbox returns a snapshot of every enqueued event in insertion order.
func (s *Store) Outbox() []shared.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shared.OutboxEvent, len(s.outbox))
	copy(out, s.outbox)
	return out
}

// ProcessPending hands unpublished events to publish and marks them published when it succeeds.
func (s *Store) ProcessPending(ctx context.Context, limit int, now time.Time, publish func(ctx context.Context, events []shared.OutboxEvent) error) (int, error) {
	s.mu.Lock()
	var idx []int
	var batch []shared.OutboxEvent
	for i, ev := range s.outbox {
		if ev.PublishedAt != nil {
			continue
		}
		idx = append(idx, i)
		batch = append(batch, ev)
		if len(batch) == limit {
			break
		}
	}
	s.mu.Unlock()

	if len(batch) == 0 {
		return 0, nil
	}
	if err := publish(ctx, batch); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, i := range idx {
		publishedAt := now
		s.outbox[i].PublishedAt = &publishedAt
	}
	return len(batch), nil
}

// FindByID implements queries.CouponReadStore.
func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[id]
	if !ok {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "coupon not found", nil)
	}
	return &c, nil
}

// FindByUser implements queries.MyCouponReadStore.
func (s *Store) FindByUser(_ context.Context, userID uuid.UUID) ([]*queries.MyCouponRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []*queries.MyCouponRecord
	for _, ic := range s.issued {
		if ic.UserID() != userID {
			continue
		}
		c, ok := s.coupons[ic.CouponID()]
		if !ok {
			continue
		}
		entry := ic
		records = append(records, &queries.MyCouponRecord{
			IssuedCoupon: &entry,
			CouponTitle:  c.Title().String(),
			CouponEndAt:  c.EndAt(),
		})
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i].IssuedCoupon, records[j].IssuedCoupon
		if a.IssuedAt().Equal(b.IssuedAt()) {
			return a.ID().String() < b.ID().String()
		}
		return a.IssuedAt().After(b.IssuedAt())
	})
	return records, nil
}

var (
	_ queries.CouponReadStore   = (*Store)(nil)
	_ queries.MyCouponReadStore = (*Store)(nil)
)
