package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"
)

const offerBody = `{
	"title": "Logo Design",
	"description": "Professional logo design service",
	"details": [
		{"title": "Basic Design", "revisions": 2, "delivery_time_in_days": 5, "price": "50.00", "features": ["1 logo"], "offer_type": "basic"},
		{"title": "Premium Design", "revisions": 10, "delivery_time_in_days": 10, "price": "200.00", "features": ["3 logos"], "offer_type": "premium"}
	]
}`

type offerResponseBody struct {
	Offer struct {
		ID      string `json:"id"`
		User    string `json:"user"`
		Title   string `json:"title"`
		Details []struct {
			ID        string `json:"id"`
			OfferType string `json:"offer_type"`
			Price     string `json:"price"`
		} `json:"details"`
	} `json:"offer"`
}

func createOffer(t *testing.T, server *Server, token string, body string) offerResponseBody {
	t.Helper()
	rr := doJSON(t, server, http.MethodPost, "/api/offers/", token, body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create offer failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp offerResponseBody
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode offer response: %v", err)
	}
	return resp
}

func TestOfferCreateRequiresToken(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodPost, "/api/offers/", "", offerBody)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestOfferCreateRequiresBusinessAccount(t *testing.T) {
	server := newTestServer()
	token, _ := registerUser(t, server, "plaincustomer", "customer")

	rr := doJSON(t, server, http.MethodPost, "/api/offers/", token, offerBody)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestOfferCreateReturnsTierOrderedDetails(t *testing.T) {
	server := newTestServer()
	token, userID := registerUser(t, server, "bizowner", "business")

	resp := createOffer(t, server, token, offerBody)
	if resp.Offer.User != userID {
		t.Fatalf("expected owner %s, got %s", userID, resp.Offer.User)
	}
	if len(resp.Offer.Details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(resp.Offer.Details))
	}
	if resp.Offer.Details[0].OfferType != "basic" || resp.Offer.Details[1].OfferType != "premium" {
		t.Fatalf("expected basic before premium, got %+v", resp.Offer.Details)
	}
	if resp.Offer.Details[0].Price != "50.00" {
		t.Fatalf("expected two-decimal price string, got %s", resp.Offer.Details[0].Price)
	}
}

func TestOfferCreateRejectsDuplicateTier(t *testing.T) {
	server := newTestServer()
	token, _ := registerUser(t, server, "bizowner", "business")

	body := `{
		"title": "Logo Design",
		"description": "Professional logo design service",
		"details": [
			{"title": "A", "revisions": 2, "delivery_time_in_days": 5, "price": "50.00", "features": [], "offer_type": "basic"},
			{"title": "B", "revisions": 3, "delivery_time_in_days": 6, "price": "60.00", "features": [], "offer_type": "basic"}
		]
	}`
	rr := doJSON(t, server, http.MethodPost, "/api/offers/", token, body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	var errResp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != "duplicate_tier" {
		t.Fatalf("expected duplicate_tier code, got %s", errResp.Code)
	}
}

func TestOfferReadIsPublic(t *testing.T) {
	server := newTestServer()
	token, _ := registerUser(t, server, "bizowner", "business")
	created := createOffer(t, server, token, offerBody)

	list := doJSON(t, server, http.MethodGet, "/api/offers/", "", "")
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200 list, got %d body=%s", list.Code, list.Body.String())
	}
	get := doJSON(t, server, http.MethodGet, "/api/offers/"+created.Offer.ID+"/", "", "")
	if get.Code != http.StatusOK {
		t.Fatalf("expected 200 get, got %d body=%s", get.Code, get.Body.String())
	}
	detail := doJSON(t, server, http.MethodGet, "/api/offerdetails/"+created.Offer.Details[0].ID+"/", "", "")
	if detail.Code != http.StatusOK {
		t.Fatalf("expected 200 detail, got %d body=%s", detail.Code, detail.Body.String())
	}
}

func TestOfferPatchIsOwnerOnly(t *testing.T) {
	server := newTestServer()
	ownerToken, _ := registerUser(t, server, "bizowner", "business")
	otherToken, _ := registerUser(t, server, "otherbiz", "business")
	created := createOffer(t, server, ownerToken, offerBody)

	rr := doJSON(t, server, http.MethodPatch, "/api/offers/"+created.Offer.ID+"/", otherToken, `{"title":"Hijacked"}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestOfferPatchWithEmptyDetailListWipesPackages(t *testing.T) {
	server := newTestServer()
	token, _ := registerUser(t, server, "bizowner", "business")
	created := createOffer(t, server, token, offerBody)

	rr := doJSON(t, server, http.MethodPatch, "/api/offers/"+created.Offer.ID+"/", token, `{"details":[]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp offerResponseBody
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode offer response: %v", err)
	}
	if len(resp.Offer.Details) != 0 {
		t.Fatalf("expected wiped details, got %+v", resp.Offer.Details)
	}

	gone := doJSON(t, server, http.MethodGet, "/api/offerdetails/"+created.Offer.Details[0].ID+"/", "", "")
	if gone.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for replaced detail, got %d", gone.Code)
	}
}

func TestOfferPatchWithoutDetailsKeepsPackages(t *testing.T) {
	server := newTestServer()
	token, _ := registerUser(t, server, "bizowner", "business")
	created := createOffer(t, server, token, offerBody)

	rr := doJSON(t, server, http.MethodPatch, "/api/offers/"+created.Offer.ID+"/", token, `{"title":"Renamed"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp offerResponseBody
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode offer response: %v", err)
	}
	if resp.Offer.Title != "Renamed" || len(resp.Offer.Details) != 2 {
		t.Fatalf("expected renamed offer with intact details, got %+v", resp.Offer)
	}
}

func TestOfferDeleteRemovesDetails(t *testing.T) {
	server := newTestServer()
	token, _ := registerUser(t, server, "bizowner", "business")
	created := createOffer(t, server, token, offerBody)

	rr := doJSON(t, server, http.MethodDelete, "/api/offers/"+created.Offer.ID+"/", token, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rr.Code, rr.Body.String())
	}
	if get := doJSON(t, server, http.MethodGet, "/api/offers/"+created.Offer.ID+"/", "", ""); get.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", get.Code)
	}
	if detail := doJSON(t, server, http.MethodGet, "/api/offerdetails/"+created.Offer.Details[0].ID+"/", "", ""); detail.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cascaded detail, got %d", detail.Code)
	}
}

func TestOfferGetUnknownID(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodGet, "/api/offers/missing/", "", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
