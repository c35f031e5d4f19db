package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"servhub/contexts/identity-access/authguard"
	domainerrors "servhub/contexts/marketplace/order-ledger/domain/errors"
	"servhub/contexts/marketplace/order-ledger/ports"
	"servhub/internal/shared/events"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"

	sourceService = "servhub"
)

type Service struct {
	Repo        ports.Repository
	Offers      ports.OfferResolver
	Policy      ports.TransitionPolicy
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// CreateOrder resolves the chosen package to its parent offer and owning
// business user, then persists the order. The business user is always
// derived from the resolved offer; caller input can never set it.
func (s Service) CreateOrder(ctx context.Context, actor authguard.Actor, offerDetailID string, title string) (ports.Order, error) {
	if authguard.Decide(actor, authguard.ActionCreateOrder, authguard.Resource{}) != authguard.Allow {
		return ports.Order{}, domainerrors.ErrForbidden
	}
	if strings.TrimSpace(offerDetailID) == "" {
		return ports.Order{}, domainerrors.ErrInvalidOrderInput
	}

	ref, err := s.Offers.ResolveDetail(ctx, strings.TrimSpace(offerDetailID))
	if err != nil {
		return ports.Order{}, err
	}

	now := s.now()
	orderID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.Order{}, err
	}
	orderTitle := strings.TrimSpace(title)
	if orderTitle == "" {
		orderTitle = ref.DetailTitle
	}
	order := ports.Order{
		OrderID:       orderID,
		CustomerID:    actor.ID,
		BusinessID:    ref.BusinessID,
		OfferID:       ref.OfferID,
		OfferDetailID: ref.DetailID,
		Title:         orderTitle,
		Status:        ports.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	event, err := s.buildEnvelope(ctx, EventOrderCreated, order, now)
	if err != nil {
		return ports.Order{}, err
	}
	if err := s.Repo.CreateOrder(ctx, order, event); err != nil {
		return ports.Order{}, err
	}

	ResolveLogger(s.Logger).Info("order created",
		"event", "order_created",
		"module", "marketplace/order-ledger",
		"layer", "application",
		"order_id", order.OrderID,
		"customer_id", order.CustomerID,
		"business_id", order.BusinessID,
	)
	return order, nil
}

func (s Service) UpdateOrderStatus(ctx context.Context, orderID string, actor authguard.Actor, newStatus string) (ports.Order, error) {
	order, err := s.Repo.GetOrder(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return ports.Order{}, err
	}
	if !ports.IsValidStatus(newStatus) {
		return ports.Order{}, domainerrors.ErrInvalidOrderInput
	}

	resource := authguard.Resource{PartyIDs: []string{order.CustomerID, order.BusinessID}}
	if authguard.Decide(actor, authguard.ActionMutateOrder, resource) != authguard.Allow {
		return ports.Order{}, domainerrors.ErrForbidden
	}
	if !s.roleMaySet(actor.ID, order, newStatus) {
		return ports.Order{}, domainerrors.ErrForbidden
	}
	if !ports.ValidTransition(order.Status, newStatus) {
		return ports.Order{}, domainerrors.ErrInvalidTransition
	}

	now := s.now()
	pending := order
	pending.Status = newStatus
	pending.UpdatedAt = now
	event, err := s.buildEnvelope(ctx, EventOrderStatusChanged, pending, now)
	if err != nil {
		return ports.Order{}, err
	}
	updated, err := s.Repo.UpdateOrderStatus(ctx, order.OrderID, newStatus, now, event)
	if err != nil {
		return ports.Order{}, err
	}

	ResolveLogger(s.Logger).Info("order status changed",
		"event", "order_status_changed",
		"module", "marketplace/order-ledger",
		"layer", "application",
		"order_id", updated.OrderID,
		"from_status", order.Status,
		"to_status", updated.Status,
	)
	return updated, nil
}

func (s Service) GetOrder(ctx context.Context, orderID string, actor authguard.Actor) (ports.Order, error) {
	order, err := s.Repo.GetOrder(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return ports.Order{}, err
	}
	if actor.ID != order.CustomerID && actor.ID != order.BusinessID {
		return ports.Order{}, domainerrors.ErrForbidden
	}
	return order, nil
}

// ListOrders returns the actor's side of the ledger: orders placed by a
// customer, orders received by a business user. There is no global listing.
func (s Service) ListOrders(ctx context.Context, actor authguard.Actor) ([]ports.Order, error) {
	if !actor.Authenticated() {
		return nil, domainerrors.ErrForbidden
	}
	if actor.Role == authguard.RoleBusiness {
		return s.Repo.ListOrdersForBusiness(ctx, actor.ID)
	}
	return s.Repo.ListOrdersForCustomer(ctx, actor.ID)
}

func (s Service) roleMaySet(actorID string, order ports.Order, status string) bool {
	policy := s.policy()
	if actorID == order.CustomerID && policy.CustomerMaySet(status) {
		return true
	}
	if actorID == order.BusinessID && policy.BusinessMaySet(status) {
		return true
	}
	return false
}

func (s Service) policy() ports.TransitionPolicy {
	if len(s.Policy.CustomerTargets) == 0 && len(s.Policy.BusinessTargets) == 0 {
		return ports.DefaultTransitionPolicy()
	}
	return s.Policy
}

func (s Service) buildEnvelope(ctx context.Context, eventType string, order ports.Order, now time.Time) (events.Envelope, error) {
	eventID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return events.Envelope{}, err
	}
	return events.Envelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  sourceService,
		OccurredAtUTC:  now,
		EntityType:     "order",
		EntityID:       order.OrderID,
		PayloadVersion: 1,
		Payload: map[string]any{
			"order_id":         order.OrderID,
			"customer_user_id": order.CustomerID,
			"business_user_id": order.BusinessID,
			"offer_id":         order.OfferID,
			"offer_detail_id":  order.OfferDetailID,
			"status":           order.Status,
		},
	}, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
