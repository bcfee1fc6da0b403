package handler

import (
	"context"

	"advisor-marketplace-api/internal/api"
	"advisor-marketplace-api/internal/apperr"
)

// GrantMonthlyCredits re-runs the session grant for the caller. It reports
// Granted=false when this month's allotment for the current tier was already
// given, or when the caller is not a founder.
func (h *Handler) GrantMonthlyCredits(ctx context.Context, _ *api.Empty) (*api.GrantMonthlyCreditsResponse, error) {
	u, err := h.svc.GetAccount(ctx, uid(ctx))
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	granted := h.svc.OnLogin(ctx, u)
	if granted == nil {
		return &api.GrantMonthlyCreditsResponse{Granted: false, Account: toAccount(u)}, nil
	}
	return &api.GrantMonthlyCreditsResponse{Granted: true, Account: toAccount(granted)}, nil
}

func (h *Handler) GetBalance(ctx context.Context, _ *api.Empty) (*api.AccountResponse, error) {
	u, err := h.svc.GetAccount(ctx, uid(ctx))
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &api.AccountResponse{Account: toAccount(u)}, nil
}

func (h *Handler) ListLedger(ctx context.Context, _ *api.Empty) (*api.ListLedgerResponse, error) {
	entries, err := h.svc.ListLedger(ctx, uid(ctx))
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	out := make([]*api.LedgerEntry, len(entries))
	for i, e := range entries {
		out[i] = &api.LedgerEntry{
			ID:        e.ID,
			Amount:    e.Amount,
			Type:      string(e.Type),
			PackageID: e.PackageID,
			CreatedAt: e.CreatedAt,
		}
	}
	return &api.ListLedgerResponse{Entries: out}, nil
}

func (h *Handler) Reconcile(ctx context.Context, req *api.ReconcileRequest) (*api.ReconcileResponse, error) {
	target := req.UserID
	if target == "" {
		target = uid(ctx)
	}
	if target != uid(ctx) {
		if err := requireAdmin(ctx); err != nil {
			return nil, err
		}
	}
	r, err := h.svc.Reconcile(ctx, target)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &api.ReconcileResponse{
		UserID:    r.UserID,
		Credits:   r.Credits,
		LedgerSum: r.LedgerSum,
		Balanced:  r.Balanced(),
	}, nil
}
