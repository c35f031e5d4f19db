package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	ordererrors "servhub/contexts/marketplace/order-ledger/domain/errors"
	orderhttp "servhub/contexts/marketplace/order-ledger/transport/http"
)

func writeOrderError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, orderhttp.ErrorResponse{Code: code, Message: message})
}

func writeOrderDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ordererrors.ErrInvalidOrderInput):
		writeOrderError(w, http.StatusBadRequest, "invalid_order_input", err.Error())
	case errors.Is(err, ordererrors.ErrOfferDetailNotFound):
		writeOrderError(w, http.StatusNotFound, "offer_detail_not_found", err.Error())
	case errors.Is(err, ordererrors.ErrOrderNotFound):
		writeOrderError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, ordererrors.ErrForbidden):
		writeOrderError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, ordererrors.ErrInvalidTransition):
		writeOrderError(w, http.StatusConflict, "invalid_transition", err.Error())
	default:
		writeOrderError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	var req orderhttp.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOrderError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.orders.Handler.CreateOrderHandler(r.Context(), actor, req)
	if err != nil {
		writeOrderDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	resp, err := s.orders.Handler.ListOrdersHandler(r.Context(), actor)
	if err != nil {
		writeOrderDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	resp, err := s.orders.Handler.GetOrderHandler(r.Context(), r.PathValue("order_id"), actor)
	if err != nil {
		writeOrderDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	var req orderhttp.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOrderError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.orders.Handler.UpdateOrderStatusHandler(r.Context(), r.PathValue("order_id"), actor, req)
	if err != nil {
		writeOrderDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
