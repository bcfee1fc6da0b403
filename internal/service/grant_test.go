package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"advisor-marketplace-api/internal/apperr"
	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/service"
)

func TestHighestTier(t *testing.T) {
	tests := []struct {
		name   string
		active []service.Tier
		want   service.Tier
	}{
		{"none", nil, ""},
		{"single", []service.Tier{service.TierStandard}, service.TierStandard},
		{"premium wins", []service.Tier{service.TierFree, service.TierPremium, service.TierStandard}, service.TierPremium},
		{"unknown ignored", []service.Tier{"gold", service.TierFree}, service.TierFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := service.HighestTier(tt.active...); got != tt.want {
				t.Errorf("HighestTier(%v) = %q, want %q", tt.active, got, tt.want)
			}
		})
	}
}

func TestGrantIdempotentWithinMonth(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	founder := f.user(t, model.RoleFounder)

	u, err := f.svc.GrantMonthlyCredits(ctx, founder.ID, service.TierStandard)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if u == nil || u.Credits != 10 {
		t.Fatalf("expected 10 credits granted, got %+v", u)
	}

	f.clock.Set(march15.Add(10 * 24 * time.Hour))
	u, err = f.svc.GrantMonthlyCredits(ctx, founder.ID, service.TierStandard)
	if err != nil {
		t.Fatalf("second grant: %v", err)
	}
	if u != nil {
		t.Fatalf("expected no grant on repeat, got %+v", u)
	}
	if c := f.credits(t, founder.ID); c != 10 {
		t.Errorf("expected balance 10, got %d", c)
	}
	f.reconciled(t, founder.ID)
}

func TestGrantOnTierChangeAndNewMonth(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	founder := f.user(t, model.RoleFounder)

	steps := []struct {
		name    string
		at      time.Time
		tier    service.Tier
		granted bool
		balance int
	}{
		{"first standard grant", march15, service.TierStandard, true, 10},
		{"upgrade mid-month", march15.Add(time.Hour), service.TierPremium, true, 34},
		{"premium again same month", march15.Add(2 * time.Hour), service.TierPremium, false, 34},
		{"new month same tier", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), service.TierPremium, true, 58},
		{"new year same month number", time.Date(2027, 4, 3, 0, 0, 0, 0, time.UTC), service.TierPremium, true, 82},
	}

	for _, s := range steps {
		f.clock.Set(s.at)
		u, err := f.svc.GrantMonthlyCredits(ctx, founder.ID, s.tier)
		if err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		if (u != nil) != s.granted {
			t.Fatalf("%s: granted = %v, want %v", s.name, u != nil, s.granted)
		}
		if c := f.credits(t, founder.ID); c != s.balance {
			t.Fatalf("%s: balance %d, want %d", s.name, c, s.balance)
		}
	}
	f.reconciled(t, founder.ID)
}

func TestGrantFreeTierRecordsMarker(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	founder := f.user(t, model.RoleFounder)

	u, err := f.svc.GrantMonthlyCredits(ctx, founder.ID, service.TierFree)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if u == nil || u.Credits != 0 {
		t.Fatalf("expected a zero grant, got %+v", u)
	}
	entries, _ := f.svc.ListLedger(ctx, founder.ID)
	if len(entries) != 1 || entries[0].PackageID != string(service.TierFree) {
		t.Fatalf("expected one free_user entry, got %+v", entries)
	}

	u, err = f.svc.GrantMonthlyCredits(ctx, founder.ID, service.TierFree)
	if err != nil || u != nil {
		t.Fatalf("expected repeat free grant skipped, got %+v, %v", u, err)
	}
}

func TestGrantSkipsAndRejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	founder := f.user(t, model.RoleFounder)
	advisor := f.user(t, model.RoleAdvisor)

	if u, err := f.svc.GrantMonthlyCredits(ctx, advisor.ID, service.TierPremium); err != nil || u != nil {
		t.Errorf("advisor grant: expected nil, got %+v, %v", u, err)
	}
	if u, err := f.svc.GrantMonthlyCredits(ctx, founder.ID, ""); err != nil || u != nil {
		t.Errorf("no tier: expected nil, got %+v, %v", u, err)
	}
	_, err := f.svc.GrantMonthlyCredits(ctx, founder.ID, "gold")
	wantKind(t, err, apperr.Validation)

	if c := f.credits(t, advisor.ID); c != 0 {
		t.Errorf("advisor received credits: %d", c)
	}
}

func TestOnLoginSwallowsResolutionFailure(t *testing.T) {
	resolver := func(context.Context, string) (service.Tier, error) {
		return "", errors.New("billing unavailable")
	}
	f := setup(t, service.WithTierResolver(resolver))
	founder := f.user(t, model.RoleFounder)

	if got := f.svc.OnLogin(context.Background(), founder); got != nil {
		t.Fatalf("expected no grant, got %+v", got)
	}
	entries, err := f.svc.ListLedger(context.Background(), founder.ID)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty ledger, got %d entries", len(entries))
	}
}

func TestOnLoginGrantsResolvedTier(t *testing.T) {
	f := setup(t, service.WithTierResolver(service.StaticTier(service.TierPremium)))
	founder := f.user(t, model.RoleFounder)
	advisor := f.user(t, model.RoleAdvisor)

	got := f.svc.OnLogin(context.Background(), founder)
	if got == nil || got.Credits != 24 {
		t.Fatalf("expected 24 credits on login, got %+v", got)
	}
	if again := f.svc.OnLogin(context.Background(), founder); again != nil {
		t.Errorf("expected second login to skip, got %+v", again)
	}
	if got := f.svc.OnLogin(context.Background(), advisor); got != nil {
		t.Errorf("expected advisors to be skipped, got %+v", got)
	}
}
