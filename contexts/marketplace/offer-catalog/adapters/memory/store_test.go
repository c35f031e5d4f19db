package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "servhub/contexts/marketplace/offer-catalog/domain/errors"
	"servhub/contexts/marketplace/offer-catalog/ports"

	"github.com/shopspring/decimal"
)

func seedOffer(t *testing.T, store *Store, offerID string) ports.Offer {
	t.Helper()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	offer := ports.Offer{
		OfferID:     offerID,
		OwnerID:     "biz-1",
		Title:       "Logo Design",
		Description: "desc",
		CreatedAt:   now,
		UpdatedAt:   now,
		Details: []ports.OfferDetail{
			{DetailID: offerID + "-d1", OfferID: offerID, Tier: ports.TierBasic, Title: "Basic", DeliveryTimeDays: 3, Price: decimal.NewFromInt(50)},
		},
	}
	if err := store.CreateOffer(context.Background(), offer); err != nil {
		t.Fatalf("seed offer failed: %v", err)
	}
	return offer
}

func TestReplaceWithConflictingTiersKeepsPriorSet(t *testing.T) {
	store := NewStore()
	offer := seedOffer(t, store, "offer-1")

	offer.Details = []ports.OfferDetail{
		{DetailID: "new-1", OfferID: "offer-1", Tier: ports.TierStandard, Title: "Standard A", DeliveryTimeDays: 5, Price: decimal.NewFromInt(100)},
		{DetailID: "new-2", OfferID: "offer-1", Tier: ports.TierStandard, Title: "Standard B", DeliveryTimeDays: 5, Price: decimal.NewFromInt(110)},
	}
	err := store.UpdateOffer(context.Background(), offer, true)
	if !errors.Is(err, domainerrors.ErrTierConflict) {
		t.Fatalf("expected tier conflict, got %v", err)
	}

	detail, err := store.GetOfferDetail(context.Background(), "offer-1-d1")
	if err != nil {
		t.Fatalf("expected prior detail intact, got %v", err)
	}
	if detail.Tier != ports.TierBasic {
		t.Fatalf("expected basic tier preserved, got %s", detail.Tier)
	}
}

func TestUpdateWithoutReplaceKeepsDetails(t *testing.T) {
	store := NewStore()
	offer := seedOffer(t, store, "offer-2")

	offer.Title = "Renamed"
	offer.Details = nil
	if err := store.UpdateOffer(context.Background(), offer, false); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := store.GetOffer(context.Background(), "offer-2")
	if err != nil {
		t.Fatalf("get offer failed: %v", err)
	}
	if got.Title != "Renamed" {
		t.Fatalf("expected renamed offer, got %s", got.Title)
	}
	if len(got.Details) != 1 {
		t.Fatalf("expected detail set untouched, got %d details", len(got.Details))
	}
}

func TestDeleteOfferRemovesDetails(t *testing.T) {
	store := NewStore()
	seedOffer(t, store, "offer-3")

	if err := store.DeleteOffer(context.Background(), "offer-3"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.GetOfferDetail(context.Background(), "offer-3-d1"); !errors.Is(err, domainerrors.ErrOfferDetailNotFound) {
		t.Fatalf("expected detail gone, got %v", err)
	}
}
