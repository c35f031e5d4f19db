package ports

import (
	"context"
	"time"

	"servhub/internal/shared/events"
	"servhub/internal/shared/outbox"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// ValidTransition reports whether the status chain permits from -> to.
// The chain progresses pending -> in_progress -> completed; cancelled is
// reachable from any non-terminal status.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusCancelled
	case StatusInProgress:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

// TransitionPolicy restricts which target statuses each order party may set.
// It is injected through Dependencies so the role split stays configuration
// rather than a hard-coded business rule.
type TransitionPolicy struct {
	CustomerTargets []string
	BusinessTargets []string
}

func DefaultTransitionPolicy() TransitionPolicy {
	return TransitionPolicy{
		CustomerTargets: []string{StatusCancelled},
		BusinessTargets: []string{StatusInProgress, StatusCompleted},
	}
}

func (p TransitionPolicy) allows(targets []string, status string) bool {
	for _, candidate := range targets {
		if candidate == status {
			return true
		}
	}
	return false
}

func (p TransitionPolicy) CustomerMaySet(status string) bool {
	return p.allows(p.CustomerTargets, status)
}

func (p TransitionPolicy) BusinessMaySet(status string) bool {
	return p.allows(p.BusinessTargets, status)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Order struct {
	OrderID       string
	CustomerID    string
	BusinessID    string
	OfferID       string
	OfferDetailID string
	Title         string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OfferRef is the resolved snapshot binding an offer detail to its parent
// offer and owning business user. BusinessID is always taken from here,
// never from caller input.
type OfferRef struct {
	OfferID     string
	DetailID    string
	DetailTitle string
	BusinessID  string
}

// OfferResolver is the catalog-facing port used during order creation.
type OfferResolver interface {
	ResolveDetail(ctx context.Context, detailID string) (OfferRef, error)
}

type Repository interface {
	// CreateOrder persists the order and its outbox event atomically.
	CreateOrder(ctx context.Context, order Order, event events.Envelope) error
	GetOrder(ctx context.Context, orderID string) (Order, error)
	// UpdateOrderStatus persists the new status and its outbox event
	// atomically.
	UpdateOrderStatus(ctx context.Context, orderID string, status string, updatedAt time.Time, event events.Envelope) (Order, error)
	ListOrdersForCustomer(ctx context.Context, userID string) ([]Order, error)
	ListOrdersForBusiness(ctx context.Context, userID string) ([]Order, error)
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
	MarkOutboxFailed(ctx context.Context, outboxID string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}
