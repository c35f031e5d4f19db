package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	offererrors "servhub/contexts/marketplace/offer-catalog/domain/errors"
	offerhttp "servhub/contexts/marketplace/offer-catalog/transport/http"
)

func writeOfferError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, offerhttp.ErrorResponse{Code: code, Message: message})
}

func writeOfferDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, offererrors.ErrInvalidOfferInput):
		writeOfferError(w, http.StatusBadRequest, "invalid_offer_input", err.Error())
	case errors.Is(err, offererrors.ErrDuplicateTier):
		writeOfferError(w, http.StatusBadRequest, "duplicate_tier", err.Error())
	case errors.Is(err, offererrors.ErrTierConflict):
		writeOfferError(w, http.StatusConflict, "tier_conflict", err.Error())
	case errors.Is(err, offererrors.ErrForbidden):
		writeOfferError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, offererrors.ErrOfferNotFound):
		writeOfferError(w, http.StatusNotFound, "offer_not_found", err.Error())
	case errors.Is(err, offererrors.ErrOfferDetailNotFound):
		writeOfferError(w, http.StatusNotFound, "offer_detail_not_found", err.Error())
	default:
		writeOfferError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.ListOffersHandler(r.Context())
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	var req offerhttp.CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOfferError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.catalog.Handler.CreateOfferHandler(r.Context(), actor, req)
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetOffer(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.GetOfferHandler(r.Context(), r.PathValue("offer_id"))
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateOffer(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	var req offerhttp.UpdateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOfferError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.catalog.Handler.UpdateOfferHandler(r.Context(), r.PathValue("offer_id"), actor, req)
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteOffer(w http.ResponseWriter, r *http.Request) {
	actor, err := s.resolveActor(r)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	if err := s.catalog.Handler.DeleteOfferHandler(r.Context(), r.PathValue("offer_id"), actor); err != nil {
		writeOfferDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetOfferDetail(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.GetOfferDetailHandler(r.Context(), r.PathValue("detail_id"))
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
