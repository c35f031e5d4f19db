package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"servhub/contexts/marketplace/order-ledger/application"
	"servhub/contexts/marketplace/order-ledger/ports"
	"servhub/internal/shared/events"
)

// OutboxRelay drains pending order events from the outbox and publishes
// them to the message bus. It runs in the worker process, never in the
// request path.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	topic := r.Topic
	if topic == "" {
		topic = "orders"
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "order_outbox_list_failed",
			"module", "marketplace/order-ledger",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, message := range pending {
		var envelope events.Envelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "order_outbox_decode_failed",
				"module", "marketplace/order-ledger",
				"layer", "worker",
				"outbox_id", message.ID,
				"error", err.Error(),
			)
			if err := r.Outbox.MarkOutboxFailed(ctx, message.ID); err != nil {
				return err
			}
			continue
		}
		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "order_outbox_publish_failed",
				"module", "marketplace/order-ledger",
				"layer", "worker",
				"outbox_id", message.ID,
				"error", err.Error(),
			)
			if err := r.Outbox.MarkOutboxFailed(ctx, message.ID); err != nil {
				return err
			}
			continue
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, message.ID, now); err != nil {
			return err
		}
	}
	return nil
}
