package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fastpick/internal/pkg/config"
	"fastpick/internal/pkg/errs"
	"fastpick/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "coupon:terminal:"

type markerValue struct {
	Kind  string    `json:"kind"`
	EndAt time.Time `json:"end_at"`
}

// RedisMarker stores terminal coupon states. DISABLED overwrites EXHAUSTED, never the reverse.
type RedisMarker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisMarker(client *redis.Client, ttl time.Duration) *RedisMarker {
	return &RedisMarker{client: client, ttl: ttl}
}

func markerKey(couponID uuid.UUID) string {
	return keyPrefix + couponID.String()
}

func (m *RedisMarker) Lookup(ctx context.Context, couponID uuid.UUID) (*commands.TerminalState, error) {
	raw, err := m.client.Get(ctx, markerKey(couponID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errs.Wrap(err, "failed to read terminal marker")
	}

	var v markerValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errs.Wrap(err, "failed to decode terminal marker")
	}
	kind := errs.Kind(v.Kind)
	if kind != errs.KindCouponDisabled && kind != errs.KindCouponExhausted {
		return nil, errs.Newf("unexpected terminal marker kind %q", v.Kind)
	}
	return &commands.TerminalState{Kind: kind, EndAt: v.EndAt}, nil
}

func (m *RedisMarker) Mark(ctx context.Context, couponID uuid.UUID, state commands.TerminalState) error {
	raw, err := json.Marshal(markerValue{Kind: string(state.Kind), EndAt: state.EndAt.UTC()})
	if err != nil {
		return errs.Wrap(err, "failed to encode terminal marker")
	}

	key := markerKey(couponID)
	switch state.Kind {
	case errs.KindCouponDisabled:
		err = m.client.Set(ctx, key, raw, m.ttl).Err()
	case errs.KindCouponExhausted:
		err = m.client.SetNX(ctx, key, raw, m.ttl).Err()
	default:
		return errs.Newf("kind %q is not terminal", state.Kind)
	}
	if err != nil {
		return errs.Wrap(err, "failed to write terminal marker")
	}
	return nil
}

func (m *RedisMarker) Forget(ctx context.Context, couponID uuid.UUID) error {
	if err := m.client.Del(ctx, markerKey(couponID)).Err(); err != nil {
		return errs.Wrap(err, "failed to delete terminal marker")
	}
	return nil
}

var _ commands.TerminalMarker = (*RedisMarker)(nil)
