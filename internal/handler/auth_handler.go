package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"advisor-marketplace-api/internal/api"
	"advisor-marketplace-api/internal/apperr"
	"advisor-marketplace-api/internal/auth"
	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/service"
)

func (h *Handler) Register(ctx context.Context, req *api.RegisterRequest) (*api.AuthResponse, error) {
	u, err := h.svc.Register(ctx, req.Email, req.Password, req.Name, model.Role(req.Role))
	if err != nil {
		return nil, apperr.ToStatus(err)
	}

	tok, err := auth.MakeToken(u.ID, u.Role, h.secret)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &api.AuthResponse{UserID: u.ID, Token: tok, Name: u.Name, Role: string(u.Role)}, nil
}

// Login establishes a session. For founders it also runs the monthly credit
// grant; a failed grant never fails the login.
func (h *Handler) Login(ctx context.Context, req *api.LoginRequest) (*api.AuthResponse, error) {
	u, err := h.svc.Login(ctx, req.Email, req.Password)
	if errors.Is(err, service.ErrBadCredentials) {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}
	if err != nil {
		return nil, apperr.ToStatus(err)
	}

	tok, err := auth.MakeToken(u.ID, u.Role, h.secret)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	resp := &api.AuthResponse{
		Token:   tok,
		UserID:  u.ID,
		Name:    u.Name,
		Role:    string(u.Role),
		Credits: u.Credits,
	}
	if granted := h.svc.OnLogin(ctx, u); granted != nil {
		resp.Credits = granted.Credits
		resp.Granted = true
	}
	return resp, nil
}
