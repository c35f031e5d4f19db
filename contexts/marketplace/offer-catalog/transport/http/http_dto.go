package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OfferDetailDTO struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Revisions          int      `json:"revisions"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days"`
	Price              string   `json:"price"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type"`
}

type OfferDTO struct {
	ID          string           `json:"id"`
	User        string           `json:"user"`
	Title       string           `json:"title"`
	Image       string           `json:"image,omitempty"`
	Description string           `json:"description"`
	Details     []OfferDetailDTO `json:"details"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

type DetailInputDTO struct {
	Title              string   `json:"title"`
	Revisions          int      `json:"revisions"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days"`
	Price              string   `json:"price"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type"`
}

type CreateOfferRequest struct {
	Title       string           `json:"title"`
	Image       string           `json:"image,omitempty"`
	Description string           `json:"description"`
	Details     []DetailInputDTO `json:"details"`
}

// UpdateOfferRequest uses pointers to distinguish absent fields from zero
// values. A nil Details leaves the stored set untouched; an empty list wipes
// it.
type UpdateOfferRequest struct {
	Title       *string           `json:"title"`
	Image       *string           `json:"image"`
	Description *string           `json:"description"`
	Details     *[]DetailInputDTO `json:"details"`
}

type OfferResponse struct {
	Offer OfferDTO `json:"offer"`
}

type ListOffersResponse struct {
	Offers []OfferDTO `json:"offers"`
}

type OfferDetailResponse struct {
	Detail OfferDetailDTO `json:"detail"`
}
