package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"advisor-marketplace-api/internal/apperr"
	"advisor-marketplace-api/internal/ledger"
	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/store"
)

// Tier is a subscription plan. Billing lives elsewhere; the engine only maps
// a resolved tier to its monthly allotment.
type Tier string

const (
	TierFree     Tier = "free_user"
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// tiers lists plans lowest first.
var tiers = []struct {
	tier    Tier
	credits int
}{
	{TierFree, 0},
	{TierStandard, 10},
	{TierPremium, 24},
}

func (t Tier) rank() int {
	for i, x := range tiers {
		if x.tier == t {
			return i
		}
	}
	return -1
}

func (t Tier) Valid() bool { return t.rank() >= 0 }

// Credits is the monthly allotment for t.
func (t Tier) Credits() int {
	if r := t.rank(); r >= 0 {
		return tiers[r].credits
	}
	return 0
}

// HighestTier picks the best of the simultaneously active plans. Unknown
// names are ignored; it returns "" when none is known.
func HighestTier(active ...Tier) Tier {
	var best Tier
	for _, t := range active {
		if t.rank() > best.rank() {
			best = t
		}
	}
	return best
}

// TierResolver reports a founder's current plan.
type TierResolver func(ctx context.Context, founderID string) (Tier, error)

// StaticTier resolves every founder to t.
func StaticTier(t Tier) TierResolver {
	return func(context.Context, string) (Tier, error) { return t, nil }
}

// GrantMonthlyCredits gives a founder the tier's monthly allotment unless the
// latest grant already carries the same tier in the current calendar month.
// It returns the updated account, or nil when nothing was granted.
func (s *Service) GrantMonthlyCredits(ctx context.Context, founderID string, tier Tier) (u *model.User, err error) {
	ctx, span := s.start(ctx, "GrantMonthlyCredits",
		attribute.String("founder.id", founderID), attribute.String("tier", string(tier)))
	defer func() { finish(span, err) }()

	if tier == "" {
		return nil, nil
	}
	if !tier.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown plan tier %q", tier)
	}

	now := s.clock()
	err = s.store.WithAtomic(ctx, func(tx store.Tx) error {
		founder, err := tx.LockUser(ctx, founderID)
		if err != nil {
			return classify(err, "user")
		}
		if founder.Role != model.RoleFounder {
			return nil
		}

		last, err := tx.LatestLedger(ctx, founderID, model.EntryCreditPurchase)
		switch {
		case err == nil:
			y, m, _ := last.CreatedAt.UTC().Date()
			if last.PackageID == string(tier) && y == now.Year() && m == now.Month() {
				return nil
			}
		case !errors.Is(err, store.ErrNotFound):
			return classify(err, "latest grant")
		}

		_, balance, err := ledger.Post(ctx, tx, founderID, tier.Credits(), model.EntryCreditPurchase, string(tier), now)
		if err != nil {
			return classify(err, "grant credits")
		}
		founder.Credits = balance
		founder.UpdatedAt = now
		u = founder
		return nil
	})
	if err != nil {
		return nil, err
	}
	if u != nil {
		s.log.InfoContext(ctx, "monthly credits granted",
			"founder_id", founderID, "tier", tier, "credits", tier.Credits(), "balance", u.Credits)
	}
	return u, nil
}

// OnLogin runs the monthly grant for a founder's new session. A failure to
// resolve the tier, or to grant, is logged and never blocks the login.
func (s *Service) OnLogin(ctx context.Context, user *model.User) *model.User {
	if user == nil || user.Role != model.RoleFounder {
		return nil
	}
	tier, err := s.resolveTier(ctx, user.ID)
	if err != nil {
		s.log.WarnContext(ctx, "plan tier resolution failed, skipping grant",
			"founder_id", user.ID, "error", err)
		return nil
	}
	granted, err := s.GrantMonthlyCredits(ctx, user.ID, tier)
	if err != nil {
		s.log.ErrorContext(ctx, "monthly grant failed", "founder_id", user.ID, "error", err)
		return nil
	}
	return granted
}
