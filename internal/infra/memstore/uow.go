package memstore

import (
	"context"

	"fastpick/internal/domain/coupon"
	"fastpick/internal/domain/issuedcoupon"
	"fastpick/internal/infra"
	"fastpick/internal/usecase/shared"

	"github.com/google/uuid"
)

type UoW struct {
	store *Store
}

func NewUoW(store *Store) shared.UnitOfWork {
	return &UoW{store: store}
}

// Within detaches from caller cancellation once started; lock waits stay bounded by the lock timeout.
func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	ctx = context.WithoutCancel(ctx)
	tx := newMemTx(u.store)

	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	if err := tx.commit(); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

type memTx struct {
	store *Store

	held          map[rowKey]struct{}
	couponWrites  map[uuid.UUID]coupon.Coupon
	couponCreates map[uuid.UUID]coupon.Coupon
	issuedWrites  map[uuid.UUID]issuedcoupon.IssuedCoupon
	issuedInserts map[uuid.UUID]issuedcoupon.IssuedCoupon
	reservations  map[pairKey]uuid.UUID
	outbox        []shared.OutboxEvent
}

func newMemTx(store *Store) *memTx {
	return &memTx{
		store:         store,
		held:          make(map[rowKey]struct{}),
		couponWrites:  make(map[uuid.UUID]coupon.Coupon),
		couponCreates: make(map[uuid.UUID]coupon.Coupon),
		issuedWrites:  make(map[uuid.UUID]issuedcoupon.IssuedCoupon),
		issuedInserts: make(map[uuid.UUID]issuedcoupon.IssuedCoupon),
		reservations:  make(map[pairKey]uuid.UUID),
	}
}

func (t *memTx) Coupons() shared.CouponRepository             { return &couponRepo{tx: t} }
func (t *memTx) IssuedCoupons() shared.IssuedCouponRepository { return &issuedCouponRepo{tx: t} }
func (t *memTx) Outbox() shared.OutboxRepository              { return &outboxRepo{tx: t} }

func (t *memTx) lock(ctx context.Context, key rowKey) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	if err := t.store.acquire(ctx, key); err != nil {
		return err
	}
	t.held[key] = struct{}{}
	return nil
}

func (t *memTx) unlock(key rowKey) {
	if _, ok := t.held[key]; !ok {
		return
	}
	delete(t.held, key)
	t.store.release(key)
}

func (t *memTx) commit() error {
	s := t.store
	s.mu.Lock()
	for id := range t.couponCreates {
		if _, exists := s.coupons[id]; exists {
			s.mu.Unlock()
			return infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "coupon already exists", nil)
		}
	}
	for id, c := range t.couponCreates {
		s.coupons[id] = c
	}
	for id, c := range t.couponWrites {
		s.coupons[id] = c
	}
	for id, ic := range t.issuedInserts {
		s.issued[id] = ic
	}
	for key, id := range t.reservations {
		s.issuedByKey[key] = id
		delete(s.reserved, key)
	}
	for id, ic := range t.issuedWrites {
		s.issued[id] = ic
	}
	s.outbox = append(s.outbox, t.outbox...)
	s.mu.Unlock()

	t.reservations = nil
	t.releaseAll()
	return nil
}

func (t *memTx) rollback() {
	if len(t.reservations) > 0 {
		t.store.mu.Lock()
		for key := range t.reservations {
			delete(t.store.reserved, key)
		}
		t.store.mu.Unlock()
		t.reservations = nil
	}
	t.releaseAll()
}

func (t *memTx) releaseAll() {
	for key := range t.held {
		t.unlock(key)
	}
}

type couponRepo struct {
	tx *memTx
}

func (r *couponRepo) FindForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	t := r.tx
	if c, ok := t.couponCreates[id]; ok {
		return &c, nil
	}

	key := rowKey{table: tableCoupons, id: id}
	if err := t.lock(ctx, key); err != nil {
		return nil, err
	}

	if c, ok := t.couponWrites[id]; ok {
		return &c, nil
	}

	t.store.mu.Lock()
	c, ok := t.store.coupons[id]
	t.store.mu.Unlock()
	if !ok {
		t.unlock(key)
		return nil, infra.WrapRepoErr(t.store.logger, infra.KindNotFound, "coupon not found", nil)
	}
	return &c, nil
}

func (r *couponRepo) Update(_ context.Context, c *coupon.Coupon) error {
	t := r.tx
	if _, ok := t.couponCreates[c.ID()]; ok {
		t.couponCreates[c.ID()] = *c
		return nil
	}
	if _, ok := t.held[rowKey{table: tableCoupons, id: c.ID()}]; !ok {
		return infra.WrapRepoErr(t.store.logger, infra.KindDBFailure, "coupon updated without row lock", nil)
	}
	t.couponWrites[c.ID()] = *c
	return nil
}

func (r *couponRepo) Create(_ context.Context, c *coupon.Coupon) error {
	r.tx.couponCreates[c.ID()] = *c
	return nil
}

type issuedCouponRepo struct {
	tx *memTx
}

// ExistsByUserAndCoupon sees committed rows and this transaction's own inserts.
func (r *issuedCouponRepo) ExistsByUserAndCoupon(_ context.Context, userID, couponID uuid.UUID) (bool, error) {
	t := r.tx
	key := pairKey{userID: userID, couponID: couponID}
	if _, ok := t.reservations[key]; ok {
		return true, nil
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	_, ok := t.store.issuedByKey[key]
	return ok, nil
}

func (r *issuedCouponRepo) Insert(_ context.Context, ic *issuedcoupon.IssuedCoupon) error {
	t := r.tx
	s := t.store
	key := pairKey{userID: ic.UserID(), couponID: ic.CouponID()}

	s.mu.Lock()
	_, committed := s.issuedByKey[key]
	_, inFlight := s.reserved[key]
	_, own := t.reservations[key]
	if committed || inFlight || own {
		s.mu.Unlock()
		return infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "issued coupon already exists for user", nil)
	}
	s.reserved[key] = struct{}{}
	s.mu.Unlock()

	t.reservations[key] = ic.ID()
	t.issuedInserts[ic.ID()] = *ic
	return nil
}

func (r *issuedCouponRepo) FindForUpdate(ctx context.Context, id uuid.UUID) (*issuedcoupon.IssuedCoupon, error) {
	t := r.tx
	if ic, ok := t.issuedInserts[id]; ok {
		return &ic, nil
	}

	key := rowKey{table: tableIssuedCoupons, id: id}
	if err := t.lock(ctx, key); err != nil {
		return nil, err
	}
	if ic, ok := t.issuedWrites[id]; ok {
		return &ic, nil
	}

	t.store.mu.Lock()
	ic, ok := t.store.issued[id]
	t.store.mu.Unlock()
	if !ok {
		t.unlock(key)
		return nil, infra.WrapRepoErr(t.store.logger, infra.KindNotFound, "issued coupon not found", nil)
	}
	return &ic, nil
}

func (r *issuedCouponRepo) Update(_ context.Context, ic *issuedcoupon.IssuedCoupon) error {
	t := r.tx
	if _, ok := t.issuedInserts[ic.ID()]; ok {
		t.issuedInserts[ic.ID()] = *ic
		return nil
	}
	if _, ok := t.held[rowKey{table: tableIssuedCoupons, id: ic.ID()}]; !ok {
		return infra.WrapRepoErr(t.store.logger, infra.KindDBFailure, "issued coupon updated without row lock", nil)
	}
	t.issuedWrites[ic.ID()] = *ic
	return nil
}

type outboxRepo struct {
	tx *memTx
}

func (r *outboxRepo) Enqueue(_ context.Context, event shared.OutboxEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	r.tx.outbox = append(r.tx.outbox, event)
	return nil
}
