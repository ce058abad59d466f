package eventpublisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/usecase"
)

// Publisher delivers a committed ledger event to an external system.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// EventPublisher polls the outbox and delivers events. Events are written
// to the outbox inside the same transaction as the ledger mutation they
// describe, so delivery here never races an uncommitted balance change.
type EventPublisher struct {
	outboxRepo usecase.OutboxRepository
	publisher  Publisher
	logger     *slog.Logger
	batchSize  int
	interval   time.Duration
}

// Config for EventPublisher.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Publisher  Publisher
	Logger     *slog.Logger
	BatchSize  int
	Interval   time.Duration
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &EventPublisher{
		outboxRepo: cfg.OutboxRepo,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
	}
}

// Start runs the poll loop until the context is cancelled. An initial
// drain happens before the first tick so a restart does not sit on a
// backlog for a full interval.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info("outbox publisher started",
		slog.Int("batch_size", ep.batchSize),
		slog.Duration("interval", ep.interval))

	if err := ep.processEvents(ctx); err != nil {
		ep.logger.Error("outbox drain failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ep.logger.Info("outbox publisher stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := ep.processEvents(ctx); err != nil {
				ep.logger.Error("outbox drain failed", slog.String("error", err.Error()))
			}
		}
	}
}

// processEvents delivers one batch. A failed event stays unpublished and
// is retried on the next tick; later events in the batch still go out.
func (ep *EventPublisher) processEvents(ctx context.Context) error {
	events, err := ep.outboxRepo.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	delivered := 0
	for _, event := range events {
		if err := ep.publisher.Publish(ctx, event); err != nil {
			ep.logger.Error("event delivery failed",
				slog.String("event_id", event.ID),
				slog.String("event_type", event.EventType),
				slog.String("error", err.Error()))
			continue
		}

		if err := ep.outboxRepo.MarkPublished(ctx, event.ID, time.Now().UTC()); err != nil {
			// The event will be re-delivered; downstream consumers must
			// dedupe on event ID.
			ep.logger.Error("mark published failed",
				slog.String("event_id", event.ID),
				slog.String("error", err.Error()))
			continue
		}
		delivered++
	}

	ep.logger.Info("outbox batch drained",
		slog.Int("fetched", len(events)),
		slog.Int("delivered", delivered))

	return nil
}

// LogPublisher writes events to the log. It is the default sink when no
// broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event payload.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info("ledger event",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.EventType),
		slog.String("aggregate_type", event.AggregateType),
		slog.String("aggregate_id", event.AggregateID),
		slog.String("payload", string(payload)))

	return nil
}
