package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"servhub/contexts/identity-access/authguard"
	"servhub/contexts/marketplace/offer-catalog/application"
	domainerrors "servhub/contexts/marketplace/offer-catalog/domain/errors"
	"servhub/contexts/marketplace/offer-catalog/ports"
	httptransport "servhub/contexts/marketplace/offer-catalog/transport/http"

	"github.com/shopspring/decimal"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListOffersHandler(ctx context.Context) (httptransport.ListOffersResponse, error) {
	items, err := h.Service.ListOffers(ctx)
	if err != nil {
		return httptransport.ListOffersResponse{}, err
	}
	resp := httptransport.ListOffersResponse{
		Offers: make([]httptransport.OfferDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Offers = append(resp.Offers, toOfferDTO(item))
	}
	return resp, nil
}

func (h Handler) CreateOfferHandler(ctx context.Context, actor authguard.Actor, req httptransport.CreateOfferRequest) (httptransport.OfferResponse, error) {
	details, err := toDetailInputs(req.Details)
	if err != nil {
		return httptransport.OfferResponse{}, err
	}
	offer, err := h.Service.CreateOffer(ctx, actor, ports.CreateOfferInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.Image,
		Details:     details,
	})
	if err != nil {
		return httptransport.OfferResponse{}, err
	}
	return httptransport.OfferResponse{Offer: toOfferDTO(offer)}, nil
}

func (h Handler) GetOfferHandler(ctx context.Context, offerID string) (httptransport.OfferResponse, error) {
	offer, err := h.Service.GetOffer(ctx, offerID)
	if err != nil {
		return httptransport.OfferResponse{}, err
	}
	return httptransport.OfferResponse{Offer: toOfferDTO(offer)}, nil
}

func (h Handler) UpdateOfferHandler(ctx context.Context, offerID string, actor authguard.Actor, req httptransport.UpdateOfferRequest) (httptransport.OfferResponse, error) {
	patch := ports.OfferPatch{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.Image,
	}
	if req.Details != nil {
		details, err := toDetailInputs(*req.Details)
		if err != nil {
			return httptransport.OfferResponse{}, err
		}
		patch.Details = &details
	}
	offer, err := h.Service.UpdateOffer(ctx, offerID, actor, patch)
	if err != nil {
		return httptransport.OfferResponse{}, err
	}
	return httptransport.OfferResponse{Offer: toOfferDTO(offer)}, nil
}

func (h Handler) DeleteOfferHandler(ctx context.Context, offerID string, actor authguard.Actor) error {
	return h.Service.DeleteOffer(ctx, offerID, actor)
}

func (h Handler) GetOfferDetailHandler(ctx context.Context, detailID string) (httptransport.OfferDetailResponse, error) {
	detail, err := h.Service.GetOfferDetail(ctx, detailID)
	if err != nil {
		return httptransport.OfferDetailResponse{}, err
	}
	return httptransport.OfferDetailResponse{Detail: toDetailDTO(detail)}, nil
}

func toDetailInputs(dtos []httptransport.DetailInputDTO) ([]ports.DetailInput, error) {
	inputs := make([]ports.DetailInput, 0, len(dtos))
	for _, dto := range dtos {
		price, err := decimal.NewFromString(strings.TrimSpace(dto.Price))
		if err != nil {
			return nil, domainerrors.ErrInvalidOfferInput
		}
		inputs = append(inputs, ports.DetailInput{
			Tier:             strings.TrimSpace(dto.OfferType),
			Title:            dto.Title,
			Revisions:        dto.Revisions,
			DeliveryTimeDays: dto.DeliveryTimeInDays,
			Price:            price,
			Features:         append([]string(nil), dto.Features...),
		})
	}
	return inputs, nil
}

func toOfferDTO(offer ports.Offer) httptransport.OfferDTO {
	dto := httptransport.OfferDTO{
		ID:          offer.OfferID,
		User:        offer.OwnerID,
		Title:       offer.Title,
		Image:       offer.ImageURL,
		Description: offer.Description,
		Details:     make([]httptransport.OfferDetailDTO, 0, len(offer.Details)),
		CreatedAt:   offer.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   offer.UpdatedAt.UTC().Format(time.RFC3339),
	}
	for _, detail := range offer.Details {
		dto.Details = append(dto.Details, toDetailDTO(detail))
	}
	return dto
}

func toDetailDTO(detail ports.OfferDetail) httptransport.OfferDetailDTO {
	return httptransport.OfferDetailDTO{
		ID:                 detail.DetailID,
		Title:              detail.Title,
		Revisions:          detail.Revisions,
		DeliveryTimeInDays: detail.DeliveryTimeDays,
		Price:              detail.Price.StringFixed(2),
		Features:           append([]string(nil), detail.Features...),
		OfferType:          detail.Tier,
	}
}
