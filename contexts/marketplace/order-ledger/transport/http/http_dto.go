package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OrderDTO struct {
	ID             string `json:"id"`
	CustomerUserID string `json:"customer_user_id"`
	BusinessUserID string `json:"business_user_id"`
	OfferID        string `json:"offer_id"`
	OfferDetailID  string `json:"offer_detail_id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// CreateOrderRequest deliberately has no business user field; the business
// user is derived from the referenced offer and cannot be asserted by the
// caller.
type CreateOrderRequest struct {
	OfferDetailID string `json:"offer_detail_id"`
	Title         string `json:"title,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	Order OrderDTO `json:"order"`
}

type ListOrdersResponse struct {
	Orders []OrderDTO `json:"orders"`
}
