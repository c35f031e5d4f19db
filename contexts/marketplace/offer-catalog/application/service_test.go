package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"servhub/contexts/identity-access/authguard"
	"servhub/contexts/marketplace/offer-catalog/adapters/memory"
	domainerrors "servhub/contexts/marketplace/offer-catalog/domain/errors"
	"servhub/contexts/marketplace/offer-catalog/ports"

	"github.com/shopspring/decimal"
)

func newTestService() (Service, *memory.Store) {
	store := memory.NewStore()
	return Service{
		Repo:        store,
		Clock:       store,
		IDGenerator: store,
	}, store
}

func businessActor(id string) authguard.Actor {
	return authguard.Actor{ID: id, Role: authguard.RoleBusiness}
}

func threeTierInput() ports.CreateOfferInput {
	return ports.CreateOfferInput{
		Title:       "Logo Design",
		Description: "Professional logo design service",
		Details: []ports.DetailInput{
			{Tier: ports.TierPremium, Title: "Premium Design", Revisions: 10, DeliveryTimeDays: 10, Price: decimal.NewFromInt(200), Features: []string{"Logo", "Stationery", "Brand book"}},
			{Tier: ports.TierBasic, Title: "Basic Design", Revisions: 2, DeliveryTimeDays: 5, Price: decimal.NewFromInt(50), Features: []string{"Logo"}},
			{Tier: ports.TierStandard, Title: "Standard Design", Revisions: 5, DeliveryTimeDays: 7, Price: decimal.NewFromInt(100), Features: []string{"Logo", "Stationery"}},
		},
	}
}

func TestCreateOfferReturnsTierOrderedDetails(t *testing.T) {
	service, _ := newTestService()

	offer, err := service.CreateOffer(context.Background(), businessActor("biz-1"), threeTierInput())
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}
	if offer.OwnerID != "biz-1" {
		t.Fatalf("expected owner biz-1, got %s", offer.OwnerID)
	}
	if len(offer.Details) != 3 {
		t.Fatalf("expected 3 details, got %d", len(offer.Details))
	}
	wantOrder := []string{ports.TierBasic, ports.TierStandard, ports.TierPremium}
	for i, want := range wantOrder {
		if offer.Details[i].Tier != want {
			t.Fatalf("detail %d: expected tier %s, got %s", i, want, offer.Details[i].Tier)
		}
	}
}

func TestCreateOfferRejectsDuplicateTier(t *testing.T) {
	service, _ := newTestService()

	input := ports.CreateOfferInput{
		Title:       "Logo Design",
		Description: "desc",
		Details: []ports.DetailInput{
			{Tier: ports.TierBasic, Title: "Basic A", DeliveryTimeDays: 3, Price: decimal.NewFromInt(10)},
			{Tier: ports.TierBasic, Title: "Basic B", DeliveryTimeDays: 3, Price: decimal.NewFromInt(20)},
		},
	}
	_, err := service.CreateOffer(context.Background(), businessActor("biz-1"), input)
	if !errors.Is(err, domainerrors.ErrDuplicateTier) {
		t.Fatalf("expected duplicate tier error, got %v", err)
	}
}

func TestCreateOfferRejectsInvalidDetailFields(t *testing.T) {
	service, _ := newTestService()
	cases := []ports.DetailInput{
		{Tier: "gold", Title: "Gold", DeliveryTimeDays: 3, Price: decimal.NewFromInt(10)},
		{Tier: ports.TierBasic, Title: "", DeliveryTimeDays: 3, Price: decimal.NewFromInt(10)},
		{Tier: ports.TierBasic, Title: "Basic", Revisions: -1, DeliveryTimeDays: 3, Price: decimal.NewFromInt(10)},
		{Tier: ports.TierBasic, Title: "Basic", DeliveryTimeDays: 0, Price: decimal.NewFromInt(10)},
		{Tier: ports.TierBasic, Title: "Basic", DeliveryTimeDays: 3, Price: decimal.NewFromInt(-1)},
	}
	for i, detail := range cases {
		_, err := service.CreateOffer(context.Background(), businessActor("biz-1"), ports.CreateOfferInput{
			Title:       "Offer",
			Description: "desc",
			Details:     []ports.DetailInput{detail},
		})
		if !errors.Is(err, domainerrors.ErrInvalidOfferInput) {
			t.Fatalf("case %d: expected invalid input error, got %v", i, err)
		}
	}
}

func TestCreateOfferForbiddenForCustomer(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateOffer(context.Background(), authguard.Actor{ID: "cust-1", Role: authguard.RoleCustomer}, threeTierInput())
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateOfferWithoutDetailsLeavesSetUntouched(t *testing.T) {
	service, _ := newTestService()
	actor := businessActor("biz-1")

	created, err := service.CreateOffer(context.Background(), actor, threeTierInput())
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}

	newTitle := "Logo Design Pro"
	updated, err := service.UpdateOffer(context.Background(), created.OfferID, actor, ports.OfferPatch{Title: &newTitle})
	if err != nil {
		t.Fatalf("update offer failed: %v", err)
	}
	if updated.Title != "Logo Design Pro" {
		t.Fatalf("expected patched title, got %s", updated.Title)
	}
	if updated.Description != created.Description {
		t.Fatalf("expected description untouched, got %s", updated.Description)
	}
	if len(updated.Details) != 3 {
		t.Fatalf("expected 3 details untouched, got %d", len(updated.Details))
	}
	for i := range created.Details {
		if updated.Details[i].DetailID != created.Details[i].DetailID {
			t.Fatalf("detail %d: expected identical detail id %s, got %s", i, created.Details[i].DetailID, updated.Details[i].DetailID)
		}
	}
}

func TestUpdateOfferWithEmptyDetailListWipesSet(t *testing.T) {
	service, _ := newTestService()
	actor := businessActor("biz-1")

	created, err := service.CreateOffer(context.Background(), actor, threeTierInput())
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}

	empty := []ports.DetailInput{}
	updated, err := service.UpdateOffer(context.Background(), created.OfferID, actor, ports.OfferPatch{Details: &empty})
	if err != nil {
		t.Fatalf("update offer failed: %v", err)
	}
	if len(updated.Details) != 0 {
		t.Fatalf("expected empty detail set, got %d", len(updated.Details))
	}
	_, err = service.GetOfferDetail(context.Background(), created.Details[0].DetailID)
	if !errors.Is(err, domainerrors.ErrOfferDetailNotFound) {
		t.Fatalf("expected old detail gone, got %v", err)
	}
}

func TestUpdateOfferReplacesDetailSetExactly(t *testing.T) {
	service, _ := newTestService()
	actor := businessActor("biz-1")

	created, err := service.CreateOffer(context.Background(), actor, threeTierInput())
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}

	replacement := []ports.DetailInput{
		{Tier: ports.TierBasic, Title: "New Basic", Revisions: 1, DeliveryTimeDays: 2, Price: decimal.NewFromInt(25), Features: []string{"Logo"}},
	}
	updated, err := service.UpdateOffer(context.Background(), created.OfferID, actor, ports.OfferPatch{Details: &replacement})
	if err != nil {
		t.Fatalf("update offer failed: %v", err)
	}
	if len(updated.Details) != 1 {
		t.Fatalf("expected 1 detail after replacement, got %d", len(updated.Details))
	}
	if updated.Details[0].Title != "New Basic" {
		t.Fatalf("expected replacement detail, got %s", updated.Details[0].Title)
	}
	for _, old := range created.Details {
		if _, err := service.GetOfferDetail(context.Background(), old.DetailID); !errors.Is(err, domainerrors.ErrOfferDetailNotFound) {
			t.Fatalf("expected old detail %s gone, got %v", old.DetailID, err)
		}
	}
}

func TestUpdateOfferForbiddenForNonOwner(t *testing.T) {
	service, _ := newTestService()

	created, err := service.CreateOffer(context.Background(), businessActor("biz-1"), threeTierInput())
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}

	title := "Hijacked"
	_, err = service.UpdateOffer(context.Background(), created.OfferID, businessActor("biz-2"), ports.OfferPatch{Title: &title})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateOfferNotFound(t *testing.T) {
	service, _ := newTestService()

	title := "x"
	_, err := service.UpdateOffer(context.Background(), "missing", businessActor("biz-1"), ports.OfferPatch{Title: &title})
	if !errors.Is(err, domainerrors.ErrOfferNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteOfferCascadesDetails(t *testing.T) {
	service, _ := newTestService()
	actor := businessActor("biz-1")

	created, err := service.CreateOffer(context.Background(), actor, threeTierInput())
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}
	if err := service.DeleteOffer(context.Background(), created.OfferID, actor); err != nil {
		t.Fatalf("delete offer failed: %v", err)
	}
	if _, err := service.GetOffer(context.Background(), created.OfferID); !errors.Is(err, domainerrors.ErrOfferNotFound) {
		t.Fatalf("expected offer gone, got %v", err)
	}
	for _, detail := range created.Details {
		if _, err := service.GetOfferDetail(context.Background(), detail.DetailID); !errors.Is(err, domainerrors.ErrOfferDetailNotFound) {
			t.Fatalf("expected detail %s gone, got %v", detail.DetailID, err)
		}
	}
}

type recordingDependent struct {
	removed []string
}

func (d *recordingDependent) RemoveForOffer(ctx context.Context, offerID string) error {
	d.removed = append(d.removed, offerID)
	return nil
}

func TestDeleteOfferNotifiesDependents(t *testing.T) {
	service, _ := newTestService()
	dependent := &recordingDependent{}
	service.Dependents = []ports.Dependent{dependent}
	actor := businessActor("biz-1")

	created, err := service.CreateOffer(context.Background(), actor, threeTierInput())
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}
	if err := service.DeleteOffer(context.Background(), created.OfferID, actor); err != nil {
		t.Fatalf("delete offer failed: %v", err)
	}
	if len(dependent.removed) != 1 || dependent.removed[0] != created.OfferID {
		t.Fatalf("expected dependent cleanup for %s, got %v", created.OfferID, dependent.removed)
	}
}

func TestDeleteOfferForbiddenForNonOwner(t *testing.T) {
	service, _ := newTestService()

	created, err := service.CreateOffer(context.Background(), businessActor("biz-1"), threeTierInput())
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}
	err = service.DeleteOffer(context.Background(), created.OfferID, businessActor("biz-2"))
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := service.GetOffer(context.Background(), created.OfferID); err != nil {
		t.Fatalf("expected offer to survive forbidden delete: %v", err)
	}
}

type stepClock struct {
	current time.Time
}

func (c *stepClock) Now() time.Time {
	c.current = c.current.Add(time.Minute)
	return c.current
}

func TestListOffersNewestFirst(t *testing.T) {
	store := memory.NewStore()
	service := Service{
		Repo:        store,
		Clock:       &stepClock{current: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		IDGenerator: store,
	}
	actor := businessActor("biz-1")

	if _, err := service.CreateOffer(context.Background(), actor, ports.CreateOfferInput{Title: "First", Description: "d"}); err != nil {
		t.Fatalf("create first offer failed: %v", err)
	}
	if _, err := service.CreateOffer(context.Background(), actor, ports.CreateOfferInput{Title: "Second", Description: "d"}); err != nil {
		t.Fatalf("create second offer failed: %v", err)
	}

	offers, err := service.ListOffers(context.Background())
	if err != nil {
		t.Fatalf("list offers failed: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(offers))
	}
	if offers[0].Title != "Second" || offers[1].Title != "First" {
		t.Fatalf("expected newest first, got %s then %s", offers[0].Title, offers[1].Title)
	}
}
