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

// CancelAppointment cancels a SCHEDULED appointment on behalf of either
// party. The founder is refunded in full and the advisor gives the same
// credits back, regardless of how close to the start time it happens.
//
// If the advisor has already been paid out and holds fewer than the refunded
// credits, the cancel fails with KindInsufficientBalance and the appointment
// stays SCHEDULED; no balance is allowed to go negative.
func (s *Service) CancelAppointment(ctx context.Context, callerID, appointmentID string) (appt *model.Appointment, err error) {
	ctx, span := s.start(ctx, "CancelAppointment",
		attribute.String("caller.id", callerID), attribute.String("appointment.id", appointmentID))
	defer func() { finish(span, err) }()

	now := s.clock()
	err = s.store.WithAtomic(ctx, func(tx store.Tx) error {
		a, err := tx.LockAppointment(ctx, appointmentID)
		if err != nil {
			return classify(err, "appointment")
		}
		if callerID != a.FounderID && callerID != a.AdvisorID {
			return apperr.New(apperr.KindAuthorization, "not a party to this appointment")
		}
		if a.Status.Terminal() {
			return apperr.Newf(apperr.KindState, "appointment is already %s", a.Status)
		}

		a.Status = model.AppointmentCancelled
		a.UpdatedAt = now
		if err := tx.UpdateAppointment(ctx, a); err != nil {
			return classify(err, "update appointment")
		}

		if _, _, err := ledger.Post(ctx, tx, a.FounderID, ledger.AppointmentCost, model.EntryAppointmentDeduction, "", now); err != nil {
			return classify(err, "refund founder")
		}
		_, _, err = ledger.Post(ctx, tx, a.AdvisorID, -ledger.AppointmentCost, model.EntryAppointmentDeduction, "", now)
		if errors.Is(err, store.ErrNegativeBalance) {
			return apperr.New(apperr.KindInsufficientBalance, "advisor balance cannot cover the refund")
		}
		if err != nil {
			return classify(err, "debit advisor")
		}
		appt = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "appointment cancelled",
		"appointment_id", appt.ID, "cancelled_by", callerID)
	return appt, nil
}

// CompleteAppointment marks a SCHEDULED appointment COMPLETED once its end
// time has passed on the server clock. Credits do not move.
func (s *Service) CompleteAppointment(ctx context.Context, advisorID, appointmentID string) (appt *model.Appointment, err error) {
	ctx, span := s.start(ctx, "CompleteAppointment",
		attribute.String("advisor.id", advisorID), attribute.String("appointment.id", appointmentID))
	defer func() { finish(span, err) }()

	now := s.clock()
	err = s.store.WithAtomic(ctx, func(tx store.Tx) error {
		a, err := tx.LockAppointment(ctx, appointmentID)
		if err != nil {
			return classify(err, "appointment")
		}
		if a.AdvisorID != advisorID {
			return apperr.New(apperr.KindAuthorization, "only the appointment's advisor can complete it")
		}
		if a.Status != model.AppointmentScheduled {
			return apperr.Newf(apperr.KindState, "appointment is %s", a.Status)
		}
		if now.Before(a.EndTime) {
			return apperr.New(apperr.KindState, "appointment has not ended yet")
		}

		a.Status = model.AppointmentCompleted
		a.CompletedAt = &now
		a.UpdatedAt = now
		if err := tx.UpdateAppointment(ctx, a); err != nil {
			return classify(err, "update appointment")
		}
		appt = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "appointment completed", "appointment_id", appt.ID)
	return appt, nil
}

// AddNotes replaces the advisor's notes. Allowed in any state.
func (s *Service) AddNotes(ctx context.Context, advisorID, appointmentID, notes string) (appt *model.Appointment, err error) {
	ctx, span := s.start(ctx, "AddNotes", attribute.String("appointment.id", appointmentID))
	defer func() { finish(span, err) }()

	err = s.store.WithAtomic(ctx, func(tx store.Tx) error {
		a, err := tx.LockAppointment(ctx, appointmentID)
		if err != nil {
			return classify(err, "appointment")
		}
		if a.AdvisorID != advisorID {
			return apperr.New(apperr.KindAuthorization, "only the appointment's advisor can add notes")
		}
		a.Notes = notes
		a.UpdatedAt = s.clock()
		if err := tx.UpdateAppointment(ctx, a); err != nil {
			return classify(err, "update appointment")
		}
		appt = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// ListAdvisorAppointments returns the advisor's upcoming (SCHEDULED)
// appointments by start time.
func (s *Service) ListAdvisorAppointments(ctx context.Context, advisorID string) ([]model.Appointment, error) {
	out, err := s.store.ListAdvisorAppointments(ctx, advisorID, model.AppointmentScheduled)
	if err != nil {
		return nil, classify(err, "list appointments")
	}
	return out, nil
}

func (s *Service) ListFounderAppointments(ctx context.Context, founderID string) ([]model.Appointment, error) {
	out, err := s.store.ListFounderAppointments(ctx, founderID)
	if err != nil {
		return nil, classify(err, "list appointments")
	}
	return out, nil
}

func (s *Service) GetAppointment(ctx context.Context, callerID, appointmentID string) (*model.Appointment, error) {
	a, err := s.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, classify(err, "appointment")
	}
	if callerID != a.FounderID && callerID != a.AdvisorID {
		return nil, apperr.New(apperr.KindNotFound, "appointment not found")
	}
	return a, nil
}
