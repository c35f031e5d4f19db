package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "servhub/contexts/marketplace/order-ledger/domain/errors"
	"servhub/contexts/marketplace/order-ledger/ports"
	"servhub/internal/shared/events"
	"servhub/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
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

// Migrate creates or updates the orders and order_outbox tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderModel{}, &outboxModel{})
}

func (r *Repository) CreateOrder(ctx context.Context, order ports.Order, event events.Envelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := orderModelFromEntity(order)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidOrderInput
			}
			return err
		}
		outboxRow := outboxModel{
			OutboxID:  event.EventID,
			EventType: event.EventType,
			Payload:   payload,
			Status:    outbox.StatusPending,
			CreatedAt: event.OccurredAtUTC.UTC(),
		}
		return tx.Create(&outboxRow).Error
	})
}

func (r *Repository) GetOrder(ctx context.Context, orderID string) (ports.Order, error) {
	var row orderModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", strings.TrimSpace(orderID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Order{}, domainerrors.ErrOrderNotFound
		}
		return ports.Order{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, orderID string, status string, updatedAt time.Time, event events.Envelope) (ports.Order, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return ports.Order{}, err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&orderModel{}).
			Where("order_id = ?", strings.TrimSpace(orderID)).
			Updates(map[string]any{
				"status":     status,
				"updated_at": updatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrOrderNotFound
		}
		outboxRow := outboxModel{
			OutboxID:  event.EventID,
			EventType: event.EventType,
			Payload:   payload,
			Status:    outbox.StatusPending,
			CreatedAt: event.OccurredAtUTC.UTC(),
		}
		return tx.Create(&outboxRow).Error
	})
	if err != nil {
		return ports.Order{}, err
	}
	return r.GetOrder(ctx, orderID)
}

// RemoveForOffer deletes every order that references the given offer. It
// backs the catalog's delete cascade, so no event rows are written.
func (r *Repository) RemoveForOffer(ctx context.Context, offerID string) error {
	return r.db.WithContext(ctx).
		Where("offer_id = ?", strings.TrimSpace(offerID)).
		Delete(&orderModel{}).
		Error
}

func (r *Repository) ListOrdersForCustomer(ctx context.Context, userID string) ([]ports.Order, error) {
	return r.listOrders(ctx, "customer_user_id = ?", userID)
}

func (r *Repository) ListOrdersForBusiness(ctx context.Context, userID string) ([]ports.Order, error) {
	return r.listOrders(ctx, "business_user_id = ?", userID)
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, outbox.Message{
			ID:         row.OutboxID,
			EventType:  row.EventType,
			Payload:    row.Payload,
			Status:     row.Status,
			RetryCount: row.RetryCount,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("outbox message not found")
	}
	return nil
}

func (r *Repository) MarkOutboxFailed(ctx context.Context, outboxID string) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":      outbox.StatusFailed,
			"retry_count": gorm.Expr("retry_count + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("outbox message not found")
	}
	return nil
}

func (r *Repository) listOrders(ctx context.Context, query string, userID string) ([]ports.Order, error) {
	var rows []orderModel
	if err := r.db.WithContext(ctx).
		Where(query, strings.TrimSpace(userID)).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.Order, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type orderModel struct {
	OrderID       string    `gorm:"column:order_id;primaryKey"`
	CustomerID    string    `gorm:"column:customer_user_id;index"`
	BusinessID    string    `gorm:"column:business_user_id;index"`
	OfferID       string    `gorm:"column:offer_id;index"`
	OfferDetailID string    `gorm:"column:offer_detail_id"`
	Title         string    `gorm:"column:title"`
	Status        string    `gorm:"column:status"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (orderModel) TableName() string {
	return "orders"
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload;type:jsonb"`
	Status      string     `gorm:"column:status;index"`
	RetryCount  int        `gorm:"column:retry_count"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "order_outbox"
}

func (m orderModel) toEntity() ports.Order {
	return ports.Order{
		OrderID:       m.OrderID,
		CustomerID:    m.CustomerID,
		BusinessID:    m.BusinessID,
		OfferID:       m.OfferID,
		OfferDetailID: m.OfferDetailID,
		Title:         m.Title,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func orderModelFromEntity(order ports.Order) orderModel {
	return orderModel{
		OrderID:       strings.TrimSpace(order.OrderID),
		CustomerID:    strings.TrimSpace(order.CustomerID),
		BusinessID:    strings.TrimSpace(order.BusinessID),
		OfferID:       strings.TrimSpace(order.OfferID),
		OfferDetailID: strings.TrimSpace(order.OfferDetailID),
		Title:         order.Title,
		Status:        order.Status,
		CreatedAt:     order.CreatedAt.UTC(),
		UpdatedAt:     order.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
