package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"servhub/contexts/identity-access/account-service/application"
	"servhub/contexts/identity-access/account-service/ports"
	httptransport "servhub/contexts/identity-access/account-service/transport/http"
	"servhub/contexts/identity-access/authguard"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (httptransport.AuthResponse, error) {
	session, err := h.Service.Register(ctx, ports.RegisterInput{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		RepeatedPassword: req.RepeatedPassword,
		Type:             req.Type,
	})
	if err != nil {
		return httptransport.AuthResponse{}, err
	}
	return toAuthResponse(session), nil
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.AuthResponse, error) {
	session, err := h.Service.Login(ctx, req.Username, req.Password)
	if err != nil {
		return httptransport.AuthResponse{}, err
	}
	return toAuthResponse(session), nil
}

func (h Handler) GetProfileHandler(ctx context.Context, userID string) (httptransport.ProfileResponse, error) {
	user, err := h.Service.GetProfile(ctx, userID)
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{Profile: toProfileDTO(user)}, nil
}

func (h Handler) UpdateProfileHandler(ctx context.Context, userID string, actor authguard.Actor, req httptransport.UpdateProfileRequest) (httptransport.ProfileResponse, error) {
	user, err := h.Service.UpdateProfile(ctx, userID, actor, ports.ProfilePatch{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Location:     req.Location,
		Tel:          req.Tel,
		Description:  req.Description,
		WorkingHours: req.WorkingHours,
	})
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{Profile: toProfileDTO(user)}, nil
}

func toAuthResponse(session ports.AuthSession) httptransport.AuthResponse {
	return httptransport.AuthResponse{
		Token:    session.Token,
		UserID:   session.User.UserID,
		Username: session.User.Username,
		Email:    session.User.Email,
	}
}

func toProfileDTO(user ports.User) httptransport.ProfileDTO {
	return httptransport.ProfileDTO{
		UserID:       user.UserID,
		Username:     user.Username,
		Email:        user.Email,
		Type:         user.Type,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Location:     user.Location,
		Tel:          user.Tel,
		Description:  user.Description,
		WorkingHours: user.WorkingHours,
		CreatedAt:    user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
