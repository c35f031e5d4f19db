package catalogadapter

import (
	"context"
	"errors"

	offercatalog "servhub/contexts/marketplace/offer-catalog/application"
	offererrors "servhub/contexts/marketplace/offer-catalog/domain/errors"
	domainerrors "servhub/contexts/marketplace/order-ledger/domain/errors"
	"servhub/contexts/marketplace/order-ledger/ports"
)

// Resolver bridges the order ledger to the offer catalog. It resolves an
// offer detail to its parent offer and owner, translating catalog errors
// into ledger errors at the boundary.
type Resolver struct {
	Catalog offercatalog.Service
}

func (r Resolver) ResolveDetail(ctx context.Context, detailID string) (ports.OfferRef, error) {
	detail, err := r.Catalog.GetOfferDetail(ctx, detailID)
	if err != nil {
		if errors.Is(err, offererrors.ErrOfferDetailNotFound) {
			return ports.OfferRef{}, domainerrors.ErrOfferDetailNotFound
		}
		return ports.OfferRef{}, err
	}
	offer, err := r.Catalog.GetOffer(ctx, detail.OfferID)
	if err != nil {
		if errors.Is(err, offererrors.ErrOfferNotFound) {
			return ports.OfferRef{}, domainerrors.ErrOfferDetailNotFound
		}
		return ports.OfferRef{}, err
	}
	return ports.OfferRef{
		OfferID:     offer.OfferID,
		DetailID:    detail.DetailID,
		DetailTitle: detail.Title,
		BusinessID:  offer.OwnerID,
	}, nil
}
