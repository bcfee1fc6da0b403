// Package service is the marketplace engine: availability, bookings, the
// appointment lifecycle, payouts and monthly credit grants. Every operation
// that touches more than one row runs inside a single store transaction.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"advisor-marketplace-api/internal/apperr"
	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/store"
)

const tracerName = "advisor-marketplace-api/internal/service"

type Service struct {
	store       store.Store
	log         *slog.Logger
	now         func() time.Time
	resolveTier TierResolver
	tracer      trace.Tracer
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock replaces the server clock. Completion and grant checks read time
// only from here.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTierResolver(r TierResolver) Option {
	return func(s *Service) { s.resolveTier = r }
}

func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:       st,
		log:         slog.Default(),
		now:         time.Now,
		resolveTier: StaticTier(TierFree),
		tracer:      otel.Tracer(tracerName),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

func (s *Service) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "service."+name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, string(apperr.KindOf(err)))
	}
	span.End()
}

// classify turns store sentinels into engine errors. Errors that are already
// classified pass through unchanged.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.KindNotFound, what+" not found")
	}
	return apperr.Wrap(apperr.KindInternal, what, err)
}

// requireRole loads a user inside tx and checks its role.
func requireRole(ctx context.Context, tx store.Tx, userID string, role model.Role) (*model.User, error) {
	u, err := tx.LockUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.KindAuthorization, "unknown caller")
	}
	if err != nil {
		return nil, classify(err, "user")
	}
	if u.Role != role {
		return nil, apperr.Newf(apperr.KindAuthorization, "only a %s can do this", role)
	}
	return u, nil
}

// Authorize checks that userID holds role, outside of any transaction.
func (s *Service) Authorize(ctx context.Context, userID string, role model.Role) (*model.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.KindAuthorization, "unknown caller")
	}
	if err != nil {
		return nil, classify(err, "user")
	}
	if u.Role != role {
		return nil, apperr.Newf(apperr.KindAuthorization, "only a %s can do this", role)
	}
	return u, nil
}
