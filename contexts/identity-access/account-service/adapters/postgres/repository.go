package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "servhub/contexts/identity-access/account-service/domain/errors"
	"servhub/contexts/identity-access/account-service/ports"

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

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{})
}

func (r *Repository) CreateUser(ctx context.Context, user ports.User) error {
	row := userModelFromEntity(user)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if strings.Contains(constraint, "email") {
				return domainerrors.ErrEmailTaken
			}
			return domainerrors.ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, userID string) (ports.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return ports.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (ports.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&row).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return ports.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateUser(ctx context.Context, user ports.User) error {
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", user.UserID).
		Updates(map[string]any{
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"location":      user.Location,
			"tel":           user.Tel,
			"description":   user.Description,
			"working_hours": user.WorkingHours,
			"updated_at":    user.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

type userModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex:idx_users_username"`
	Email        string    `gorm:"column:email;uniqueIndex:idx_users_email"`
	PasswordHash string    `gorm:"column:password_hash"`
	Type         string    `gorm:"column:type"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	Location     string    `gorm:"column:location"`
	Tel          string    `gorm:"column:tel"`
	Description  string    `gorm:"column:description"`
	WorkingHours string    `gorm:"column:working_hours"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func (m userModel) toEntity() ports.User {
	return ports.User{
		UserID:       m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Type:         m.Type,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Location:     m.Location,
		Tel:          m.Tel,
		Description:  m.Description,
		WorkingHours: m.WorkingHours,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func userModelFromEntity(user ports.User) userModel {
	return userModel{
		ID:           user.UserID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Type:         user.Type,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Location:     user.Location,
		Tel:          user.Tel,
		Description:  user.Description,
		WorkingHours: user.WorkingHours,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
