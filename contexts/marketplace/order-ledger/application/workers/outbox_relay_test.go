package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"servhub/contexts/marketplace/order-ledger/adapters/memory"
	"servhub/contexts/marketplace/order-ledger/ports"
	"servhub/internal/shared/events"
)

type capturingPublisher struct {
	published []events.Envelope
	topics    []string
	fail      bool
}

func (p *capturingPublisher) Publish(ctx context.Context, topic string, event events.Envelope) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.published = append(p.published, event)
	return nil
}

func seedOutboxRow(t *testing.T, store *memory.Store, orderID string, eventID string) {
	t.Helper()
	order := ports.Order{
		OrderID:    orderID,
		CustomerID: "cust-1",
		BusinessID: "biz-1",
		Status:     ports.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	event := events.Envelope{EventID: eventID, EventType: "order.created", EntityID: orderID}
	if err := store.CreateOrder(context.Background(), order, event); err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
}

func TestRunOncePublishesPendingEvents(t *testing.T) {
	store := memory.NewStore()
	seedOutboxRow(t, store, "order-1", "event-1")
	seedOutboxRow(t, store, "order-2", "event-2")
	publisher := &capturingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.published))
	}
	if publisher.topics[0] != "orders" {
		t.Fatalf("expected default orders topic, got %s", publisher.topics[0])
	}
	if publisher.published[0].EventID != "event-1" || publisher.published[1].EventID != "event-2" {
		t.Fatalf("expected events in outbox order, got %+v", publisher.published)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 0)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected drained outbox, got %d pending", len(pending))
	}
}

func TestRunOnceMarksFailedOnPublishError(t *testing.T) {
	store := memory.NewStore()
	seedOutboxRow(t, store, "order-1", "event-1")
	relay := OutboxRelay{Outbox: store, Publisher: &capturingPublisher{fail: true}, Clock: store}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once should swallow publish errors, got %v", err)
	}
	pending, err := store.ListPendingOutbox(context.Background(), 0)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("failed rows must leave the pending set, got %d", len(pending))
	}
}
