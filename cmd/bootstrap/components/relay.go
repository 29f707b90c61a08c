package components

import (
	"context"
	"log/slog"
	"sync"

	"fastpick/internal/infra/messaging"
	"fastpick/internal/infra/metrics"
	"fastpick/internal/pkg/clock"
	"fastpick/internal/pkg/config"

	"go.uber.org/fx"
)

var RelayModule = fx.Module("relay",
	fx.Invoke(StartRelay),
)

// StartRelay runs the outbox relay for the lifetime of the app. Without
// KAFKA_BROKERS events stay in the outbox.
func StartRelay(lc fx.Lifecycle, cfg config.Config, source messaging.OutboxSource, clk clock.Clock, m *metrics.Collectors, logger *slog.Logger) error {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("outbox relay disabled, KAFKA_BROKERS not set")
		return nil
	}

	client, err := messaging.NewKafkaClient(cfg.Kafka, "fastpick-outbox-relay")
	if err != nil {
		return err
	}
	relay := messaging.NewRelay(source, messaging.NewKafkaPublisher(client, cfg.Kafka), clk, m, cfg.Kafka.PollInterval, cfg.Kafka.BatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			if err := messaging.EnsureTopic(startCtx, client, cfg.Kafka); err != nil {
				logger.Warn("kafka topic not ensured", "error", err.Error())
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				relay.Run(ctx)
			}()
			logger.Info("outbox relay started", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			wg.Wait()
			client.Close()
			return nil
		},
	})
	return nil
}
