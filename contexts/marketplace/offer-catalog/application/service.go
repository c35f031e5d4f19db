package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"servhub/contexts/identity-access/authguard"
	domainerrors "servhub/contexts/marketplace/offer-catalog/domain/errors"
	"servhub/contexts/marketplace/offer-catalog/ports"
)

const maxDetailsPerOffer = 3

type Service struct {
	Repo        ports.Repository
	Dependents  []ports.Dependent
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (s Service) CreateOffer(ctx context.Context, actor authguard.Actor, input ports.CreateOfferInput) (ports.Offer, error) {
	if authguard.Decide(actor, authguard.ActionCreateOffer, authguard.Resource{}) != authguard.Allow {
		return ports.Offer{}, domainerrors.ErrForbidden
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return ports.Offer{}, domainerrors.ErrInvalidOfferInput
	}
	if err := validateDetails(input.Details); err != nil {
		return ports.Offer{}, err
	}

	now := s.now()
	offerID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.Offer{}, err
	}
	offer := ports.Offer{
		OfferID:     offerID,
		OwnerID:     actor.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	offer.Details, err = s.buildDetails(ctx, offerID, input.Details)
	if err != nil {
		return ports.Offer{}, err
	}

	if err := s.Repo.CreateOffer(ctx, offer); err != nil {
		return ports.Offer{}, err
	}

	ResolveLogger(s.Logger).Info("offer created",
		"event", "offer_created",
		"module", "marketplace/offer-catalog",
		"layer", "application",
		"offer_id", offer.OfferID,
		"owner_id", offer.OwnerID,
		"detail_count", len(offer.Details),
	)
	return offer, nil
}

func (s Service) UpdateOffer(ctx context.Context, offerID string, actor authguard.Actor, patch ports.OfferPatch) (ports.Offer, error) {
	offer, err := s.Repo.GetOffer(ctx, strings.TrimSpace(offerID))
	if err != nil {
		return ports.Offer{}, err
	}
	if authguard.Decide(actor, authguard.ActionMutateOffer, authguard.Resource{OwnerID: offer.OwnerID}) != authguard.Allow {
		return ports.Offer{}, domainerrors.ErrForbidden
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return ports.Offer{}, domainerrors.ErrInvalidOfferInput
		}
		offer.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			return ports.Offer{}, domainerrors.ErrInvalidOfferInput
		}
		offer.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.ImageURL != nil {
		offer.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}

	// A nil Details pointer leaves the stored set untouched. A non-nil
	// pointer, even to an empty list, replaces the whole set atomically.
	replaceDetails := patch.Details != nil
	if replaceDetails {
		if err := validateDetails(*patch.Details); err != nil {
			return ports.Offer{}, err
		}
		offer.Details, err = s.buildDetails(ctx, offer.OfferID, *patch.Details)
		if err != nil {
			return ports.Offer{}, err
		}
	}
	offer.UpdatedAt = s.now()

	if err := s.Repo.UpdateOffer(ctx, offer, replaceDetails); err != nil {
		return ports.Offer{}, err
	}

	ResolveLogger(s.Logger).Info("offer updated",
		"event", "offer_updated",
		"module", "marketplace/offer-catalog",
		"layer", "application",
		"offer_id", offer.OfferID,
		"details_replaced", replaceDetails,
	)
	sortDetails(offer.Details)
	return offer, nil
}

func (s Service) DeleteOffer(ctx context.Context, offerID string, actor authguard.Actor) error {
	offer, err := s.Repo.GetOffer(ctx, strings.TrimSpace(offerID))
	if err != nil {
		return err
	}
	if authguard.Decide(actor, authguard.ActionMutateOffer, authguard.Resource{OwnerID: offer.OwnerID}) != authguard.Allow {
		return domainerrors.ErrForbidden
	}
	if err := s.Repo.DeleteOffer(ctx, offer.OfferID); err != nil {
		return err
	}
	for _, dependent := range s.Dependents {
		if err := dependent.RemoveForOffer(ctx, offer.OfferID); err != nil {
			return err
		}
	}
	ResolveLogger(s.Logger).Info("offer deleted",
		"event", "offer_deleted",
		"module", "marketplace/offer-catalog",
		"layer", "application",
		"offer_id", offer.OfferID,
	)
	return nil
}

func (s Service) ListOffers(ctx context.Context) ([]ports.Offer, error) {
	offers, err := s.Repo.ListOffers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range offers {
		sortDetails(offers[i].Details)
	}
	return offers, nil
}

func (s Service) GetOffer(ctx context.Context, offerID string) (ports.Offer, error) {
	offer, err := s.Repo.GetOffer(ctx, strings.TrimSpace(offerID))
	if err != nil {
		return ports.Offer{}, err
	}
	sortDetails(offer.Details)
	return offer, nil
}

func (s Service) GetOfferDetail(ctx context.Context, detailID string) (ports.OfferDetail, error) {
	return s.Repo.GetOfferDetail(ctx, strings.TrimSpace(detailID))
}

func (s Service) buildDetails(ctx context.Context, offerID string, inputs []ports.DetailInput) ([]ports.OfferDetail, error) {
	details := make([]ports.OfferDetail, 0, len(inputs))
	for _, input := range inputs {
		detailID, err := s.IDGenerator.NewID(ctx)
		if err != nil {
			return nil, err
		}
		details = append(details, ports.OfferDetail{
			DetailID:         detailID,
			OfferID:          offerID,
			Tier:             input.Tier,
			Title:            strings.TrimSpace(input.Title),
			Revisions:        input.Revisions,
			DeliveryTimeDays: input.DeliveryTimeDays,
			Price:            input.Price,
			Features:         append([]string(nil), input.Features...),
		})
	}
	sortDetails(details)
	return details, nil
}

func validateDetails(inputs []ports.DetailInput) error {
	if len(inputs) > maxDetailsPerOffer {
		return domainerrors.ErrInvalidOfferInput
	}
	seen := make(map[string]bool, len(inputs))
	for _, input := range inputs {
		if !ports.IsValidTier(input.Tier) {
			return domainerrors.ErrInvalidOfferInput
		}
		if seen[input.Tier] {
			return domainerrors.ErrDuplicateTier
		}
		seen[input.Tier] = true
		if strings.TrimSpace(input.Title) == "" {
			return domainerrors.ErrInvalidOfferInput
		}
		if input.Revisions < 0 || input.DeliveryTimeDays <= 0 {
			return domainerrors.ErrInvalidOfferInput
		}
		if input.Price.IsNegative() {
			return domainerrors.ErrInvalidOfferInput
		}
	}
	return nil
}

func sortDetails(details []ports.OfferDetail) {
	sort.SliceStable(details, func(i, j int) bool {
		return ports.TierRank(details[i].Tier) < ports.TierRank(details[j].Tier)
	})
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
