package components

import (
	"context"
	"log/slog"

	"fastpick/internal/infra/cache"
	"fastpick/internal/infra/metrics"
	"fastpick/internal/pkg/config"
	"fastpick/internal/usecase/commands"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

var InfraModule = fx.Module("infra",
	fx.Provide(
		NewMetrics,
		fx.Annotate(
			func(c *metrics.Collectors) *metrics.Collectors { return c },
			fx.As(new(commands.IssueMetrics)),
		),
		NewTerminalMarker,
	),
)

type MetricsOut struct {
	fx.Out

	Collectors *metrics.Collectors
	Gatherer   prometheus.Gatherer
}

func NewMetrics() MetricsOut {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c := metrics.New()
	c.MustRegister(reg)
	return MetricsOut{Collectors: c, Gatherer: reg}
}

// NewTerminalMarker returns a no-op marker when REDIS_ADDR is unset.
func NewTerminalMarker(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) commands.TerminalMarker {
	if cfg.Redis.Addr == "" {
		logger.Info("terminal marker disabled, REDIS_ADDR not set")
		return commands.NopMarker{}
	}

	client := cache.NewRedisClient(cfg.Redis)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				// markers are advisory, claims still go through the row lock
				logger.Warn("redis unreachable at startup", "addr", cfg.Redis.Addr, "error", err.Error())
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return cache.NewRedisMarker(client, cfg.Redis.MarkerTTL)
}
