package messaging

import (
	"context"
	"log/slog"
	"strings"

	"fastpick/internal/pkg/config"
	"fastpick/internal/pkg/errs"
	"fastpick/internal/usecase/shared"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

func NewKafkaClient(cfg config.KafkaConfig, clientID string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(clientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
}

func EnsureTopic(ctx context.Context, client *kgo.Client, cfg config.KafkaConfig) error {
	adm := kadm.NewClient(client)

	resp, err := adm.CreateTopics(ctx, cfg.Partitions, cfg.Replication, nil, cfg.Topic)
	if err != nil {
		return errs.Wrapf(err, "failed to create topic %s", cfg.Topic)
	}
	for _, detail := range resp {
		if detail.Err != nil && !strings.Contains(detail.Err.Error(), "already exists") {
			return errs.Wrapf(detail.Err, "failed to create topic %s", detail.Topic)
		}
	}

	slog.Info("kafka topic ensured", "topic", cfg.Topic)
	return nil
}

// KafkaPublisher routes outbox topics onto broker topics.
type KafkaPublisher struct {
	client *kgo.Client
	topics map[string]string
}

func NewKafkaPublisher(client *kgo.Client, cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		client: client,
		topics: map[string]string{shared.TopicCouponIssued: cfg.Topic},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events []shared.OutboxEvent) error {
	records := make([]*kgo.Record, 0, len(events))
	for _, ev := range events {
		records = append(records, toRecord(ev, p.topics))
	}
	if err := p.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return errs.Wrapf(err, "failed to produce %d outbox events", len(records))
	}
	return nil
}

func toRecord(ev shared.OutboxEvent, topics map[string]string) *kgo.Record {
	topic := ev.Topic
	if mapped, ok := topics[ev.Topic]; ok && mapped != "" {
		topic = mapped
	}
	return &kgo.Record{
		Topic: topic,
		Key:   []byte(ev.Key),
		Value: ev.Payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_id", Value: []byte(ev.ID.String())},
			{Key: "event_type", Value: []byte(ev.Topic)},
		},
	}
}
