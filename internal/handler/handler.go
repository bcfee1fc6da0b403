package handler

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"advisor-marketplace-api/internal/api"
	"advisor-marketplace-api/internal/middleware"
	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/service"
)

type Handler struct {
	api.UnimplementedMarketplaceServiceServer
	svc    *service.Service
	secret string
	log    *slog.Logger
}

func New(svc *service.Service, secret string, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, secret: secret, log: log}
}

func uid(ctx context.Context) string {
	return middleware.UserID(ctx)
}

// requireAdmin gates operator RPCs on the role carried by the token.
func requireAdmin(ctx context.Context) error {
	if middleware.Role(ctx) != model.RoleAdmin {
		return status.Error(codes.PermissionDenied, "operator only")
	}
	return nil
}

func toAccount(u *model.User) *api.Account {
	if u == nil {
		return nil
	}
	return &api.Account{
		UserID:  u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Role:    string(u.Role),
		Credits: u.Credits,
	}
}

func toSlot(a *model.Availability) *api.Slot {
	return &api.Slot{
		ID:            a.ID,
		AdvisorID:     a.AdvisorID,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Status:        string(a.Status),
		AppointmentID: a.AppointmentID,
	}
}

func toAppointment(a *model.Appointment) *api.Appointment {
	return &api.Appointment{
		ID:          a.ID,
		FounderID:   a.FounderID,
		AdvisorID:   a.AdvisorID,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Status:      string(a.Status),
		Notes:       a.Notes,
		CompletedAt: a.CompletedAt,
		CreatedAt:   a.CreatedAt,
	}
}

func toPayout(p *model.Payout) *api.Payout {
	return &api.Payout{
		ID:          p.ID,
		AdvisorID:   p.AdvisorID,
		Amount:      p.Amount,
		Credits:     p.Credits,
		PlatformFee: p.PlatformFee,
		NetAmount:   p.NetAmount,
		PaypalEmail: p.PaypalEmail,
		Status:      string(p.Status),
		ProcessedAt: p.ProcessedAt,
		CreatedAt:   p.CreatedAt,
	}
}

func toPayouts(ps []model.Payout) []*api.Payout {
	out := make([]*api.Payout, len(ps))
	for i := range ps {
		out[i] = toPayout(&ps[i])
	}
	return out
}
