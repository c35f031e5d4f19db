package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	accountservice "servhub/contexts/identity-access/account-service"
	offercatalog "servhub/contexts/marketplace/offer-catalog"
	orderledger "servhub/contexts/marketplace/order-ledger"
	catalogadapter "servhub/contexts/marketplace/order-ledger/adapters/catalog"
	ordermemory "servhub/contexts/marketplace/order-ledger/adapters/memory"
	orderports "servhub/contexts/marketplace/order-ledger/ports"
)

func newTestServer() *Server {
	logger := slog.Default()
	accounts := accountservice.NewInMemoryModule([]byte("test-secret"), logger)
	orderStore := ordermemory.NewStore()
	catalog := offercatalog.NewInMemoryModule(logger, orderStore)
	orders := orderledger.NewModule(orderledger.Dependencies{
		Repository:  orderStore,
		Offers:      catalogadapter.Resolver{Catalog: catalog.Service},
		Policy:      orderports.DefaultTransitionPolicy(),
		Clock:       orderStore,
		IDGenerator: orderStore,
		Logger:      logger,
	})
	return New(accounts, catalog, orders, logger, ":0")
}

func doJSON(t *testing.T, server *Server, method string, path string, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

// registerUser creates an account through the public route and returns
// its token and user id.
func registerUser(t *testing.T, server *Server, username string, userType string) (string, string) {
	t.Helper()
	body := fmt.Sprintf(
		`{"username":%q,"email":%q,"password":"examplePassword","repeated_password":"examplePassword","type":%q}`,
		username, username+"@mail.de", userType,
	)
	rr := doJSON(t, server, http.MethodPost, "/api/registration/", "", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("registration failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode registration response: %v", err)
	}
	return resp.Token, resp.UserID
}

func TestRegistrationRejectsShortPassword(t *testing.T) {
	server := newTestServer()
	body := `{"username":"u1","email":"u1@mail.de","password":"short","repeated_password":"short","type":"customer"}`
	rr := doJSON(t, server, http.MethodPost, "/api/registration/", "", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegistrationRejectsDuplicateUsername(t *testing.T) {
	server := newTestServer()
	registerUser(t, server, "duplicated", "customer")

	body := `{"username":"duplicated","email":"other@mail.de","password":"examplePassword","repeated_password":"examplePassword","type":"customer"}`
	rr := doJSON(t, server, http.MethodPost, "/api/registration/", "", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLoginReturnsUsableToken(t *testing.T) {
	server := newTestServer()
	_, userID := registerUser(t, server, "loginuser", "customer")

	rr := doJSON(t, server, http.MethodPost, "/api/login/", "", `{"username":"loginuser","password":"examplePassword"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}

	profile := doJSON(t, server, http.MethodGet, "/api/profile/"+userID+"/", resp.Token, "")
	if profile.Code != http.StatusOK {
		t.Fatalf("expected 200 profile read, got %d body=%s", profile.Code, profile.Body.String())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	server := newTestServer()
	registerUser(t, server, "loginuser", "customer")

	rr := doJSON(t, server, http.MethodPost, "/api/login/", "", `{"username":"loginuser","password":"wrongPassword"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestProfileReadRequiresToken(t *testing.T) {
	server := newTestServer()
	_, userID := registerUser(t, server, "someone", "customer")

	rr := doJSON(t, server, http.MethodGet, "/api/profile/"+userID+"/", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestProfilePatchIsSelfOnly(t *testing.T) {
	server := newTestServer()
	_, targetID := registerUser(t, server, "target", "customer")
	attackerToken, _ := registerUser(t, server, "attacker", "customer")

	rr := doJSON(t, server, http.MethodPatch, "/api/profile/"+targetID+"/", attackerToken, `{"location":"elsewhere"}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestProfilePatchAppliesPartialUpdate(t *testing.T) {
	server := newTestServer()
	token, userID := registerUser(t, server, "selfuser", "business")

	rr := doJSON(t, server, http.MethodPatch, "/api/profile/"+userID+"/", token, `{"location":"Berlin","working_hours":"9-17"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Profile struct {
			Username     string `json:"username"`
			Location     string `json:"location"`
			WorkingHours string `json:"working_hours"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode profile response: %v", err)
	}
	if resp.Profile.Location != "Berlin" || resp.Profile.WorkingHours != "9-17" {
		t.Fatalf("patch not applied: %+v", resp.Profile)
	}
	if resp.Profile.Username != "selfuser" {
		t.Fatalf("untouched fields must survive: %+v", resp.Profile)
	}
}
