package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	accountservice "servhub/contexts/identity-access/account-service"
	accounterrors "servhub/contexts/identity-access/account-service/domain/errors"
	"servhub/contexts/identity-access/authguard"
	offercatalog "servhub/contexts/marketplace/offer-catalog"
	orderledger "servhub/contexts/marketplace/order-ledger"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "servhub/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	accounts accountservice.Module
	catalog  offercatalog.Module
	orders   orderledger.Module
}

func New(
	accounts accountservice.Module,
	catalog offercatalog.Module,
	orders orderledger.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		accounts: accounts,
		catalog:  catalog,
		orders:   orders,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/registration/{$}", s.handleRegistration)
	s.mux.HandleFunc("POST /api/login/{$}", s.handleLogin)
	s.mux.HandleFunc("GET /api/profile/{user_id}/{$}", s.handleGetProfile)
	s.mux.HandleFunc("PATCH /api/profile/{user_id}/{$}", s.handleUpdateProfile)

	s.mux.HandleFunc("GET /api/offers/{$}", s.handleListOffers)
	s.mux.HandleFunc("POST /api/offers/{$}", s.handleCreateOffer)
	s.mux.HandleFunc("GET /api/offers/{offer_id}/{$}", s.handleGetOffer)
	s.mux.HandleFunc("PATCH /api/offers/{offer_id}/{$}", s.handleUpdateOffer)
	s.mux.HandleFunc("DELETE /api/offers/{offer_id}/{$}", s.handleDeleteOffer)
	s.mux.HandleFunc("GET /api/offerdetails/{detail_id}/{$}", s.handleGetOfferDetail)

	s.mux.HandleFunc("POST /api/orders/{$}", s.handleCreateOrder)
	s.mux.HandleFunc("GET /api/orders/{$}", s.handleListOrders)
	s.mux.HandleFunc("GET /api/orders/{order_id}/{$}", s.handleGetOrder)
	s.mux.HandleFunc("PATCH /api/orders/{order_id}/{$}", s.handleUpdateOrderStatus)
}

// resolveActor authenticates the request by its bearer token.
func (s *Server) resolveActor(r *http.Request) (authguard.Actor, error) {
	token := bearerToken(r)
	if token == "" {
		return authguard.Actor{}, accounterrors.ErrUnauthenticated
	}
	identity, err := s.accounts.Service.ResolveIdentity(r.Context(), token)
	if err != nil {
		return authguard.Actor{}, err
	}
	return authguard.Actor{ID: identity.UserID, Role: identity.Role}, nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
