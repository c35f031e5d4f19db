package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "servhub/contexts/marketplace/offer-catalog/domain/errors"
	"servhub/contexts/marketplace/offer-catalog/ports"
)

// Store is the in-memory repository used by application tests and local runs.
// It mirrors the relational invariants: unique (offer, tier) and cascade
// delete of details with their offer.
type Store struct {
	mu       sync.RWMutex
	offers   map[string]ports.Offer
	details  map[string]ports.OfferDetail
	sequence uint64
}

func NewStore() *Store {
	return &Store{
		offers:  make(map[string]ports.Offer),
		details: make(map[string]ports.OfferDetail),
	}
}

func (s *Store) CreateOffer(ctx context.Context, offer ports.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.offers[offer.OfferID]; exists {
		return domainerrors.ErrInvalidOfferInput
	}
	seen := make(map[string]bool, len(offer.Details))
	for _, detail := range offer.Details {
		if seen[detail.Tier] {
			return domainerrors.ErrTierConflict
		}
		seen[detail.Tier] = true
	}

	stored := cloneOffer(offer)
	stored.Details = nil
	s.offers[offer.OfferID] = stored
	for _, detail := range offer.Details {
		s.details[detail.DetailID] = cloneDetail(detail)
	}
	return nil
}

func (s *Store) GetOffer(ctx context.Context, offerID string) (ports.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	offer, ok := s.offers[offerID]
	if !ok {
		return ports.Offer{}, domainerrors.ErrOfferNotFound
	}
	out := cloneOffer(offer)
	out.Details = s.detailsForLocked(offerID)
	return out, nil
}

func (s *Store) ListOffers(ctx context.Context) ([]ports.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Offer, 0, len(s.offers))
	for id, offer := range s.offers {
		out := cloneOffer(offer)
		out.Details = s.detailsForLocked(id)
		items = append(items, out)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateOffer(ctx context.Context, offer ports.Offer, replaceDetails bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.offers[offer.OfferID]; !ok {
		return domainerrors.ErrOfferNotFound
	}

	if replaceDetails {
		seen := make(map[string]bool, len(offer.Details))
		for _, detail := range offer.Details {
			if seen[detail.Tier] {
				return domainerrors.ErrTierConflict
			}
			seen[detail.Tier] = true
		}
		for id, detail := range s.details {
			if detail.OfferID == offer.OfferID {
				delete(s.details, id)
			}
		}
		for _, detail := range offer.Details {
			s.details[detail.DetailID] = cloneDetail(detail)
		}
	}

	stored := cloneOffer(offer)
	stored.Details = nil
	s.offers[offer.OfferID] = stored
	return nil
}

func (s *Store) DeleteOffer(ctx context.Context, offerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.offers[offerID]; !ok {
		return domainerrors.ErrOfferNotFound
	}
	delete(s.offers, offerID)
	for id, detail := range s.details {
		if detail.OfferID == offerID {
			delete(s.details, id)
		}
	}
	return nil
}

func (s *Store) GetOfferDetail(ctx context.Context, detailID string) (ports.OfferDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	detail, ok := s.details[detailID]
	if !ok {
		return ports.OfferDetail{}, domainerrors.ErrOfferDetailNotFound
	}
	return cloneDetail(detail), nil
}

// Now satisfies ports.Clock so tests can wire the store as clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID satisfies ports.IDGenerator with deterministic sequential IDs.
func (s *Store) NewID(ctx context.Context) (string, error) {
	return fmt.Sprintf("offer_obj_%06d", atomic.AddUint64(&s.sequence, 1)), nil
}

func (s *Store) detailsForLocked(offerID string) []ports.OfferDetail {
	var items []ports.OfferDetail
	for _, detail := range s.details {
		if detail.OfferID == offerID {
			items = append(items, cloneDetail(detail))
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return ports.TierRank(items[i].Tier) < ports.TierRank(items[j].Tier)
	})
	return items
}

func cloneOffer(offer ports.Offer) ports.Offer {
	out := offer
	out.Details = append([]ports.OfferDetail(nil), offer.Details...)
	return out
}

func cloneDetail(detail ports.OfferDetail) ports.OfferDetail {
	out := detail
	out.Features = append([]string(nil), detail.Features...)
	return out
}
