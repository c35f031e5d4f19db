package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "servhub/contexts/identity-access/account-service/domain/errors"
	"servhub/contexts/identity-access/account-service/ports"
	"servhub/contexts/identity-access/authguard"
)

const minPasswordLength = 8

type Service struct {
	Repo        ports.Repository
	Hasher      ports.PasswordHasher
	Tokens      ports.TokenCodec
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (s Service) Register(ctx context.Context, input ports.RegisterInput) (ports.AuthSession, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || !strings.Contains(email, "@") {
		return ports.AuthSession{}, domainerrors.ErrInvalidRegistration
	}
	if len(input.Password) < minPasswordLength {
		return ports.AuthSession{}, domainerrors.ErrInvalidRegistration
	}
	if input.Password != input.RepeatedPassword {
		return ports.AuthSession{}, domainerrors.ErrInvalidRegistration
	}
	userType := strings.TrimSpace(input.Type)
	if userType == "" {
		userType = ports.TypeCustomer
	}
	if !ports.IsValidType(userType) {
		return ports.AuthSession{}, domainerrors.ErrInvalidRegistration
	}

	hash, err := s.Hasher.Hash(input.Password)
	if err != nil {
		return ports.AuthSession{}, err
	}
	userID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.AuthSession{}, err
	}
	now := s.now()
	user := ports.User{
		UserID:       userID,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Type:         userType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return ports.AuthSession{}, err
	}

	token, err := s.Tokens.Issue(ports.Identity{UserID: user.UserID, Role: user.Type}, now)
	if err != nil {
		return ports.AuthSession{}, err
	}

	ResolveLogger(s.Logger).Info("user registered",
		"event", "user_registered",
		"module", "identity-access/account-service",
		"layer", "application",
		"user_id", user.UserID,
		"user_type", user.Type,
	)
	return ports.AuthSession{Token: token, User: user}, nil
}

func (s Service) Login(ctx context.Context, username string, password string) (ports.AuthSession, error) {
	user, err := s.Repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return ports.AuthSession{}, domainerrors.ErrInvalidCredentials
	}
	if err := s.Hasher.Compare(user.PasswordHash, password); err != nil {
		return ports.AuthSession{}, domainerrors.ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(ports.Identity{UserID: user.UserID, Role: user.Type}, s.now())
	if err != nil {
		return ports.AuthSession{}, err
	}

	ResolveLogger(s.Logger).Info("user logged in",
		"event", "user_logged_in",
		"module", "identity-access/account-service",
		"layer", "application",
		"user_id", user.UserID,
	)
	return ports.AuthSession{Token: token, User: user}, nil
}

// ResolveIdentity turns a bearer token into the caller's identity. The
// user record is re-read so revoked accounts and stale role claims fall
// out of the token.
func (s Service) ResolveIdentity(ctx context.Context, token string) (ports.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return ports.Identity{}, domainerrors.ErrUnauthenticated
	}
	identity, err := s.Tokens.Decode(strings.TrimSpace(token))
	if err != nil {
		return ports.Identity{}, domainerrors.ErrUnauthenticated
	}
	user, err := s.Repo.GetUser(ctx, identity.UserID)
	if err != nil {
		return ports.Identity{}, domainerrors.ErrUnauthenticated
	}
	return ports.Identity{UserID: user.UserID, Role: user.Type}, nil
}

func (s Service) GetProfile(ctx context.Context, userID string) (ports.User, error) {
	return s.Repo.GetUser(ctx, strings.TrimSpace(userID))
}

func (s Service) UpdateProfile(ctx context.Context, userID string, actor authguard.Actor, patch ports.ProfilePatch) (ports.User, error) {
	user, err := s.Repo.GetUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		return ports.User{}, err
	}
	if authguard.Decide(actor, authguard.ActionMutateProfile, authguard.Resource{OwnerID: user.UserID}) != authguard.Allow {
		return ports.User{}, domainerrors.ErrForbidden
	}

	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Location != nil {
		user.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Tel != nil {
		user.Tel = strings.TrimSpace(*patch.Tel)
	}
	if patch.Description != nil {
		user.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.WorkingHours != nil {
		user.WorkingHours = strings.TrimSpace(*patch.WorkingHours)
	}
	user.UpdatedAt = s.now()

	if err := s.Repo.UpdateUser(ctx, user); err != nil {
		return ports.User{}, err
	}

	ResolveLogger(s.Logger).Info("profile updated",
		"event", "profile_updated",
		"module", "identity-access/account-service",
		"layer", "application",
		"user_id", user.UserID,
	)
	return user, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
