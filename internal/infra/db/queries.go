package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type Coupons struct {
	ID             uuid.UUID
	Title          string
	TotalQuantity  int32
	IssuedQuantity int32
	StartAt        pgtype.Timestamptz
	EndAt          pgtype.Timestamptz
	UseStatus      string
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type IssuedCoupons struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CouponID  uuid.UUID
	IssuedAt  pgtype.Timestamptz
	UsedAt    pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type IssuedCouponWithCouponRow struct {
	IssuedCoupons
	CouponTitle string
	CouponEndAt pgtype.Timestamptz
}

type OutboxEvents struct {
	ID          uuid.UUID
	Topic       string
	Key         string
	Payload     []byte
	CreatedAt   pgtype.Timestamptz
	PublishedAt pgtype.Timestamptz
}

// Queries holds the statements used by repositories and read stores.
type Queries struct{}

func New() *Queries {
	return &Queries{}
}

const couponColumns = `id, title, total_quantity, issued_quantity, start_at, end_at, use_status, created_at, updated_at`

func scanCoupon(row pgx.Row) (Coupons, error) {
	var c Coupons
	err := row.Scan(&c.ID, &c.Title, &c.TotalQuantity, &c.IssuedQuantity, &c.StartAt, &c.EndAt, &c.UseStatus, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const findCouponByID = `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

func (q *Queries) FindCouponByID(ctx context.Context, db DBTX, id uuid.UUID) (Coupons, error) {
	return scanCoupon(db.QueryRow(ctx, findCouponByID, id))
}

const findCouponForUpdate = `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1 FOR UPDATE`

func (q *Queries) FindCouponForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Coupons, error) {
	return scanCoupon(db.QueryRow(ctx, findCouponForUpdate, id))
}

const createCoupon = `INSERT INTO coupons (` + couponColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (q *Queries) CreateCoupon(ctx context.Context, db DBTX, arg Coupons) error {
	_, err := db.Exec(ctx, createCoupon,
		arg.ID, arg.Title, arg.TotalQuantity, arg.IssuedQuantity,
		arg.StartAt, arg.EndAt, arg.UseStatus, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const updateCoupon = `UPDATE coupons
SET issued_quantity = $2, use_status = $3, updated_at = $4
WHERE id = $1`

func (q *Queries) UpdateCoupon(ctx context.Context, db DBTX, id uuid.UUID, issuedQuantity int32, useStatus string, updatedAt pgtype.Timestamptz) (int64, error) {
	tag, err := db.Exec(ctx, updateCoupon, id, issuedQuantity, useStatus, updatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const existsIssuedCoupon = `SELECT EXISTS (SELECT 1 FROM issued_coupons WHERE user_id = $1 AND coupon_id = $2)`

func (q *Queries) ExistsIssuedCoupon(ctx context.Context, db DBTX, userID, couponID uuid.UUID) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, existsIssuedCoupon, userID, couponID).Scan(&exists)
	return exists, err
}

const issuedColumns = `id, user_id, coupon_id, issued_at, used_at, created_at, updated_at`

const createIssuedCoupon = `INSERT INTO issued_coupons (` + issuedColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (q *Queries) CreateIssuedCoupon(ctx context.Context, db DBTX, arg IssuedCoupons) error {
	_, err := db.Exec(ctx, createIssuedCoupon,
		arg.ID, arg.UserID, arg.CouponID, arg.IssuedAt, arg.UsedAt, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const findIssuedCouponForUpdate = `SELECT ` + issuedColumns + ` FROM issued_coupons WHERE id = $1 FOR UPDATE`

func (q *Queries) FindIssuedCouponForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (IssuedCoupons, error) {
	var ic IssuedCoupons
	err := db.QueryRow(ctx, findIssuedCouponForUpdate, id).
		Scan(&ic.ID, &ic.UserID, &ic.CouponID, &ic.IssuedAt, &ic.UsedAt, &ic.CreatedAt, &ic.UpdatedAt)
	return ic, err
}

const updateIssuedCoupon = `UPDATE issued_coupons SET used_at = $2, updated_at = $3 WHERE id = $1`

func (q *Queries) UpdateIssuedCoupon(ctx context.Context, db DBTX, id uuid.UUID, usedAt, updatedAt pgtype.Timestamptz) (int64, error) {
	tag, err := db.Exec(ctx, updateIssuedCoupon, id, usedAt, updatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listIssuedCouponsByUser = `SELECT ic.id, ic.user_id, ic.coupon_id, ic.issued_at, ic.used_at, ic.created_at, ic.updated_at,
       c.title, c.end_at
FROM issued_coupons ic
JOIN coupons c ON c.id = ic.coupon_id
WHERE ic.user_id = $1
ORDER BY ic.issued_at DESC, ic.id`

func (q *Queries) ListIssuedCouponsByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]IssuedCouponWithCouponRow, error) {
	rows, err := db.Query(ctx, listIssuedCouponsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []IssuedCouponWithCouponRow
	for rows.Next() {
		var r IssuedCouponWithCouponRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.CouponID, &r.IssuedAt, &r.UsedAt, &r.CreatedAt, &r.UpdatedAt,
			&r.CouponTitle, &r.CouponEndAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const createOutboxEvent = `INSERT INTO outbox_events (id, topic, key, payload, created_at) VALUES ($1, $2, $3, $4, $5)`

func (q *Queries) CreateOutboxEvent(ctx context.Context, db DBTX, arg OutboxEvents) error {
	_, err := db.Exec(ctx, createOutboxEvent, arg.ID, arg.Topic, arg.Key, arg.Payload, arg.CreatedAt)
	return err
}

// Rows claimed by another relay are skipped rather than waited on.
const claimPendingOutboxEvents = `SELECT id, topic, key, payload, created_at, published_at
FROM outbox_events
WHERE published_at IS NULL
ORDER BY created_at, id
LIMIT $1
FOR UPDATE SKIP LOCKED`

func (q *Queries) ClaimPendingOutboxEvents(ctx context.Context, db DBTX, limit int32) ([]OutboxEvents, error) {
	rows, err := db.Query(ctx, claimPendingOutboxEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OutboxEvents
	for rows.Next() {
		var e OutboxEvents
		if err := rows.Scan(&e.ID, &e.Topic, &e.Key, &e.Payload, &e.CreatedAt, &e.PublishedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const markOutboxEventsPublished = `UPDATE outbox_events SET published_at = $2 WHERE id = ANY($1::uuid[])`

func (q *Queries) MarkOutboxEventsPublished(ctx context.Context, db DBTX, ids []uuid.UUID, publishedAt time.Time) error {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	_, err := db.Exec(ctx, markOutboxEventsPublished, strIDs, publishedAt)
	return err
}
