package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TierBasic    = "basic"
	TierStandard = "standard"
	TierPremium  = "premium"
)

func IsValidTier(tier string) bool {
	switch tier {
	case TierBasic, TierStandard, TierPremium:
		return true
	default:
		return false
	}
}

// TierRank orders tiers basic < standard < premium for stable listings.
func TierRank(tier string) int {
	switch tier {
	case TierBasic:
		return 0
	case TierStandard:
		return 1
	case TierPremium:
		return 2
	default:
		return 3
	}
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type OfferDetail struct {
	DetailID         string
	OfferID          string
	Tier             string
	Title            string
	Revisions        int
	DeliveryTimeDays int
	Price            decimal.Decimal
	Features         []string
}

type Offer struct {
	OfferID     string
	OwnerID     string
	Title       string
	Description string
	ImageURL    string
	Details     []OfferDetail
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DetailInput struct {
	Tier             string
	Title            string
	Revisions        int
	DeliveryTimeDays int
	Price            decimal.Decimal
	Features         []string
}

type CreateOfferInput struct {
	Title       string
	Description string
	ImageURL    string
	Details     []DetailInput
}

// OfferPatch carries partial update semantics. Nil pointer means the field is
// untouched. Details nil means the detail set is untouched; a non-nil slice,
// including an empty one, replaces the whole set.
type OfferPatch struct {
	Title       *string
	Description *string
	ImageURL    *string
	Details     *[]DetailInput
}

// Dependent is notified after an offer is removed so records in other
// modules that reference the offer do not outlive it. The order ledger
// registers its repository here to cascade the offer's orders.
type Dependent interface {
	RemoveForOffer(ctx context.Context, offerID string) error
}

type Repository interface {
	// CreateOffer persists the offer and all of its details atomically.
	CreateOffer(ctx context.Context, offer Offer) error
	GetOffer(ctx context.Context, offerID string) (Offer, error)
	ListOffers(ctx context.Context) ([]Offer, error)
	// UpdateOffer applies scalar changes and, when replaceDetails is true,
	// replaces the full detail set in the same transaction.
	UpdateOffer(ctx context.Context, offer Offer, replaceDetails bool) error
	DeleteOffer(ctx context.Context, offerID string) error
	GetOfferDetail(ctx context.Context, detailID string) (OfferDetail, error)
}
