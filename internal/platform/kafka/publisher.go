// Package kafka publishes incidents to the operator topic.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"dossier/internal/command"
	"dossier/internal/platform/config"
	"dossier/pkg/platform/jsonx"
)

// Publisher implements command.IncidentReporter on a franz-go client.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New connects to the brokers and makes sure the incident topic exists.
// Returns nil if no brokers are configured.
func New(ctx context.Context, cfg config.Kafka, opts ...Option) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.IncidentTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	p := &Publisher{client: client, topic: cfg.IncidentTopic, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.ensureTopic(ctx, cfg.Partitions, cfg.ReplicationFactor); err != nil {
		client.Close()
		return nil, err
	}
	return p, nil
}

func (p *Publisher) ensureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(p.client)
	responses, err := adm.CreateTopics(ctx, partitions, replicationFactor, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, r := range responses {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	p.logger.InfoContext(ctx, "incident topic ready", "topic", p.topic)
	return nil
}

// Report publishes the incident keyed by its id and waits for the broker
// acknowledgement.
func (p *Publisher) Report(ctx context.Context, incident command.IncidentDetails) error {
	payload, err := jsonx.Marshal(incident)
	if err != nil {
		return fmt.Errorf("encode incident: %w", err)
	}
	record := &kgo.Record{Topic: p.topic, Key: []byte(incident.ID), Value: payload}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish incident %s: %w", incident.ID, err)
	}
	return nil
}

func (p *Publisher) Health(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *Publisher) Close() {
	p.client.Close()
}
