package messaging

import (
	"context"
	"log/slog"
	"time"

	"fastpick/internal/pkg/clock"
	"fastpick/internal/usecase/shared"
)

type OutboxSource interface {
	ProcessPending(ctx context.Context, limit int, now time.Time, publish func(ctx context.Context, events []shared.OutboxEvent) error) (int, error)
}

type Publisher interface {
	Publish(ctx context.Context, events []shared.OutboxEvent) error
}

type RelayMetrics interface {
	ObservePublished(n int)
	ObservePublishFailure()
}

// Relay drains the outbox at least once: an event may be delivered again if marking fails.
type Relay struct {
	source    OutboxSource
	publisher Publisher
	clock     clock.Clock
	metrics   RelayMetrics
	interval  time.Duration
	batchSize int
}

func NewRelay(source OutboxSource, publisher Publisher, clk clock.Clock, metrics RelayMetrics, interval time.Duration, batchSize int) *Relay {
	if batchSize <= 0 {
		batchSize = 100
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Relay{
		source:    source,
		publisher: publisher,
		clock:     clk,
		metrics:   metrics,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run polls until ctx is done. A full batch is followed immediately by another poll.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		n, err := r.ProcessOnce(ctx)
		if err != nil {
			slog.Warn("outbox relay batch failed", "error", err.Error())
		}
		if err == nil && n == r.batchSize {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Relay) ProcessOnce(ctx context.Context) (int, error) {
	n, err := r.source.ProcessPending(ctx, r.batchSize, r.clock.Now(), r.publisher.Publish)
	if err != nil {
		r.metrics.ObservePublishFailure()
		return 0, err
	}
	if n > 0 {
		r.metrics.ObservePublished(n)
		slog.Debug("outbox events published", "count", n)
	}
	return n, nil
}
