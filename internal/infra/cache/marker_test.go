//go:build unit

package cache_test

import (
	"context"
	"testing"
	"time"

	"fastpick/internal/infra/cache"
	"fastpick/internal/pkg/errs"
	"fastpick/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// An unreachable server must surface errors rather than fabricate markers.
func TestRedisMarker_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	m := cache.NewRedisMarker(client, time.Minute)

	state, err := m.Lookup(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.Nil(t, state)

	err = m.Mark(context.Background(), uuid.New(), commands.TerminalState{Kind: errs.KindCouponExhausted})
	assert.Error(t, err)

	assert.ErrorContains(t, m.Forget(context.Background(), uuid.New()), "failed to delete terminal marker")
}

func TestRedisMarker_RejectsNonTerminalKind(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	m := cache.NewRedisMarker(client, time.Minute)

	err := m.Mark(context.Background(), uuid.New(), commands.TerminalState{Kind: errs.KindCouponNotAvailablePeriod})
	assert.ErrorContains(t, err, "is not terminal")
}
