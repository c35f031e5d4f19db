package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "servhub/contexts/marketplace/offer-catalog/domain/errors"
	"servhub/contexts/marketplace/offer-catalog/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates or updates the offers and offer_details tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&offerModel{}, &offerDetailModel{})
}

func (r *Repository) CreateOffer(ctx context.Context, offer ports.Offer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := offerModelFromEntity(offer)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidOfferInput
			}
			return err
		}
		for _, detail := range offer.Details {
			detailRow := detailModelFromEntity(detail)
			if err := tx.Create(&detailRow).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrTierConflict
				}
				return err
			}
		}
		return nil
	})
}

func (r *Repository) GetOffer(ctx context.Context, offerID string) (ports.Offer, error) {
	var row offerModel
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", strings.TrimSpace(offerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Offer{}, domainerrors.ErrOfferNotFound
		}
		return ports.Offer{}, err
	}

	details, err := r.detailsForOffers(ctx, []string{row.OfferID})
	if err != nil {
		return ports.Offer{}, err
	}
	offer := row.toEntity()
	offer.Details = details[row.OfferID]
	return offer, nil
}

func (r *Repository) ListOffers(ctx context.Context) ([]ports.Offer, error) {
	var rows []offerModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []ports.Offer{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.OfferID)
	}
	details, err := r.detailsForOffers(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]ports.Offer, 0, len(rows))
	for _, row := range rows {
		offer := row.toEntity()
		offer.Details = details[row.OfferID]
		items = append(items, offer)
	}
	return items, nil
}

// UpdateOffer applies scalar changes and, when replaceDetails is set, swaps
// the whole detail set inside one transaction so concurrent readers see
// either the old set or the new one, never a partial mix.
func (r *Repository) UpdateOffer(ctx context.Context, offer ports.Offer, replaceDetails bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&offerModel{}).
			Where("offer_id = ?", strings.TrimSpace(offer.OfferID)).
			Updates(map[string]any{
				"title":       offer.Title,
				"description": offer.Description,
				"image_url":   offer.ImageURL,
				"updated_at":  offer.UpdatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrOfferNotFound
		}

		if !replaceDetails {
			return nil
		}
		if err := tx.Where("offer_id = ?", offer.OfferID).
			Delete(&offerDetailModel{}).
			Error; err != nil {
			return err
		}
		for _, detail := range offer.Details {
			detailRow := detailModelFromEntity(detail)
			if err := tx.Create(&detailRow).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrTierConflict
				}
				return err
			}
		}
		return nil
	})
}

func (r *Repository) DeleteOffer(ctx context.Context, offerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", strings.TrimSpace(offerID)).
			Delete(&offerDetailModel{}).
			Error; err != nil {
			return err
		}
		result := tx.Where("offer_id = ?", strings.TrimSpace(offerID)).
			Delete(&offerModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrOfferNotFound
		}
		return nil
	})
}

func (r *Repository) GetOfferDetail(ctx context.Context, detailID string) (ports.OfferDetail, error) {
	var row offerDetailModel
	err := r.db.WithContext(ctx).
		Where("detail_id = ?", strings.TrimSpace(detailID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.OfferDetail{}, domainerrors.ErrOfferDetailNotFound
		}
		return ports.OfferDetail{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) detailsForOffers(ctx context.Context, offerIDs []string) (map[string][]ports.OfferDetail, error) {
	var rows []offerDetailModel
	if err := r.db.WithContext(ctx).
		Where("offer_id IN ?", offerIDs).
		Order("tier ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	grouped := make(map[string][]ports.OfferDetail, len(offerIDs))
	for _, row := range rows {
		grouped[row.OfferID] = append(grouped[row.OfferID], row.toEntity())
	}
	return grouped, nil
}

type offerModel struct {
	OfferID     string    `gorm:"column:offer_id;primaryKey"`
	OwnerID     string    `gorm:"column:owner_id;index"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	ImageURL    string    `gorm:"column:image_url"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (offerModel) TableName() string {
	return "offers"
}

type offerDetailModel struct {
	DetailID         string          `gorm:"column:detail_id;primaryKey"`
	OfferID          string          `gorm:"column:offer_id;index:idx_offer_details_offer_tier,unique"`
	Tier             string          `gorm:"column:tier;index:idx_offer_details_offer_tier,unique"`
	Title            string          `gorm:"column:title"`
	Revisions        int             `gorm:"column:revisions"`
	DeliveryTimeDays int             `gorm:"column:delivery_time_days"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(10,2)"`
	Features         []string        `gorm:"column:features;type:jsonb;serializer:json"`
}

func (offerDetailModel) TableName() string {
	return "offer_details"
}

func (m offerModel) toEntity() ports.Offer {
	return ports.Offer{
		OfferID:     m.OfferID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (m offerDetailModel) toEntity() ports.OfferDetail {
	return ports.OfferDetail{
		DetailID:         m.DetailID,
		OfferID:          m.OfferID,
		Tier:             m.Tier,
		Title:            m.Title,
		Revisions:        m.Revisions,
		DeliveryTimeDays: m.DeliveryTimeDays,
		Price:            m.Price,
		Features:         append([]string(nil), m.Features...),
	}
}

func offerModelFromEntity(offer ports.Offer) offerModel {
	return offerModel{
		OfferID:     strings.TrimSpace(offer.OfferID),
		OwnerID:     strings.TrimSpace(offer.OwnerID),
		Title:       offer.Title,
		Description: offer.Description,
		ImageURL:    offer.ImageURL,
		CreatedAt:   offer.CreatedAt.UTC(),
		UpdatedAt:   offer.UpdatedAt.UTC(),
	}
}

func detailModelFromEntity(detail ports.OfferDetail) offerDetailModel {
	return offerDetailModel{
		DetailID:         strings.TrimSpace(detail.DetailID),
		OfferID:          strings.TrimSpace(detail.OfferID),
		Tier:             detail.Tier,
		Title:            detail.Title,
		Revisions:        detail.Revisions,
		DeliveryTimeDays: detail.DeliveryTimeDays,
		Price:            detail.Price,
		Features:         append([]string(nil), detail.Features...),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
