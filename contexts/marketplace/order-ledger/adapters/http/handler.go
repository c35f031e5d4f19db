package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"servhub/contexts/identity-access/authguard"
	"servhub/contexts/marketplace/order-ledger/application"
	"servhub/contexts/marketplace/order-ledger/ports"
	httptransport "servhub/contexts/marketplace/order-ledger/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateOrderHandler(ctx context.Context, actor authguard.Actor, req httptransport.CreateOrderRequest) (httptransport.OrderResponse, error) {
	order, err := h.Service.CreateOrder(ctx, actor, req.OfferDetailID, req.Title)
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return httptransport.OrderResponse{Order: toOrderDTO(order)}, nil
}

func (h Handler) UpdateOrderStatusHandler(ctx context.Context, orderID string, actor authguard.Actor, req httptransport.UpdateOrderStatusRequest) (httptransport.OrderResponse, error) {
	order, err := h.Service.UpdateOrderStatus(ctx, orderID, actor, req.Status)
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return httptransport.OrderResponse{Order: toOrderDTO(order)}, nil
}

func (h Handler) GetOrderHandler(ctx context.Context, orderID string, actor authguard.Actor) (httptransport.OrderResponse, error) {
	order, err := h.Service.GetOrder(ctx, orderID, actor)
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return httptransport.OrderResponse{Order: toOrderDTO(order)}, nil
}

func (h Handler) ListOrdersHandler(ctx context.Context, actor authguard.Actor) (httptransport.ListOrdersResponse, error) {
	items, err := h.Service.ListOrders(ctx, actor)
	if err != nil {
		return httptransport.ListOrdersResponse{}, err
	}
	resp := httptransport.ListOrdersResponse{
		Orders: make([]httptransport.OrderDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Orders = append(resp.Orders, toOrderDTO(item))
	}
	return resp, nil
}

func toOrderDTO(order ports.Order) httptransport.OrderDTO {
	return httptransport.OrderDTO{
		ID:             order.OrderID,
		CustomerUserID: order.CustomerID,
		BusinessUserID: order.BusinessID,
		OfferID:        order.OfferID,
		OfferDetailID:  order.OfferDetailID,
		Title:          order.Title,
		Status:         order.Status,
		CreatedAt:      order.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      order.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
