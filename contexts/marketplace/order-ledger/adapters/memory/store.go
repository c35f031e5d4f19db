package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "servhub/contexts/marketplace/order-ledger/domain/errors"
	"servhub/contexts/marketplace/order-ledger/ports"
	"servhub/internal/shared/events"
	"servhub/internal/shared/outbox"
)

// Store is the in-memory order repository plus outbox used by application
// tests and local runs. Order and outbox writes happen under one lock, the
// memory equivalent of the repository transaction.
type Store struct {
	mu       sync.RWMutex
	orders   map[string]ports.Order
	outbox   []outbox.Message
	sequence uint64
}

func NewStore() *Store {
	return &Store{
		orders: make(map[string]ports.Order),
	}
}

func (s *Store) CreateOrder(ctx context.Context, order ports.Order, event events.Envelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.OrderID]; exists {
		return domainerrors.ErrInvalidOrderInput
	}
	s.orders[order.OrderID] = order
	s.outbox = append(s.outbox, outbox.Message{
		ID:        event.EventID,
		EventType: event.EventType,
		Payload:   payload,
		Status:    outbox.StatusPending,
	})
	return nil
}

func (s *Store) GetOrder(ctx context.Context, orderID string) (ports.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return ports.Order{}, domainerrors.ErrOrderNotFound
	}
	return order, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status string, updatedAt time.Time, event events.Envelope) (ports.Order, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return ports.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return ports.Order{}, domainerrors.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = updatedAt
	s.orders[orderID] = order
	s.outbox = append(s.outbox, outbox.Message{
		ID:        event.EventID,
		EventType: event.EventType,
		Payload:   payload,
		Status:    outbox.StatusPending,
	})
	return order, nil
}

// RemoveForOffer deletes every order that references the given offer. It
// backs the catalog's delete cascade, so no event rows are written.
func (s *Store) RemoveForOffer(ctx context.Context, offerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for orderID, order := range s.orders {
		if order.OfferID == offerID {
			delete(s.orders, orderID)
		}
	}
	return nil
}

func (s *Store) ListOrdersForCustomer(ctx context.Context, userID string) ([]ports.Order, error) {
	return s.listBy(func(order ports.Order) bool {
		return order.CustomerID == userID
	}), nil
}

func (s *Store) ListOrdersForBusiness(ctx context.Context, userID string) ([]ports.Order, error) {
	return s.listBy(func(order ports.Order) bool {
		return order.BusinessID == userID
	}), nil
}

func (s *Store) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []outbox.Message
	for _, message := range s.outbox {
		if message.Status != outbox.StatusPending {
			continue
		}
		items = append(items, message)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	return s.markOutbox(outboxID, outbox.StatusPublished)
}

func (s *Store) MarkOutboxFailed(ctx context.Context, outboxID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].ID == outboxID {
			s.outbox[i].Status = outbox.StatusFailed
			s.outbox[i].RetryCount++
			return nil
		}
	}
	return fmt.Errorf("outbox message %s not found", outboxID)
}

// Now satisfies ports.Clock so tests can wire the store as clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID satisfies ports.IDGenerator with deterministic sequential IDs.
func (s *Store) NewID(ctx context.Context) (string, error) {
	return fmt.Sprintf("order_obj_%06d", atomic.AddUint64(&s.sequence, 1)), nil
}

func (s *Store) listBy(match func(ports.Order) bool) []ports.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []ports.Order
	for _, order := range s.orders {
		if match(order) {
			items = append(items, order)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

func (s *Store) markOutbox(outboxID string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].ID == outboxID {
			s.outbox[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("outbox message %s not found", outboxID)
}
