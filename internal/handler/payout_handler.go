package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"advisor-marketplace-api/internal/api"
	"advisor-marketplace-api/internal/apperr"
)

func (h *Handler) RequestPayout(ctx context.Context, req *api.RequestPayoutRequest) (*api.PayoutResponse, error) {
	p, err := h.svc.RequestPayout(ctx, uid(ctx), req.PaypalEmail)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &api.PayoutResponse{Payout: toPayout(p)}, nil
}

func (h *Handler) ApprovePayout(ctx context.Context, req *api.ApprovePayoutRequest) (*api.PayoutResponse, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if req.PayoutID == "" {
		return nil, status.Error(codes.InvalidArgument, "payout id required")
	}
	p, err := h.svc.ApprovePayout(ctx, req.PayoutID)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	h.log.InfoContext(ctx, "payout approved by operator", "payout_id", p.ID, "operator_id", uid(ctx))
	return &api.PayoutResponse{Payout: toPayout(p)}, nil
}

func (h *Handler) ListPayouts(ctx context.Context, _ *api.Empty) (*api.ListPayoutsResponse, error) {
	ps, err := h.svc.ListPayouts(ctx, uid(ctx))
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &api.ListPayoutsResponse{Payouts: toPayouts(ps)}, nil
}

func (h *Handler) ListPendingPayouts(ctx context.Context, _ *api.Empty) (*api.ListPayoutsResponse, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	ps, err := h.svc.ListPendingPayouts(ctx)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &api.ListPayoutsResponse{Payouts: toPayouts(ps)}, nil
}

func (h *Handler) GetEarnings(ctx context.Context, _ *api.Empty) (*api.EarningsResponse, error) {
	e, err := h.svc.GetEarnings(ctx, uid(ctx))
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &api.EarningsResponse{
		TotalEarnings:           e.TotalEarnings,
		ThisMonthEarnings:       e.ThisMonthEarnings,
		CompletedAppointments:   e.CompletedAppointments,
		AverageEarningsPerMonth: e.AverageEarningsPerMonth,
		AvailableCredits:        e.AvailableCredits,
		AvailablePayout:         e.AvailablePayout,
	}, nil
}
