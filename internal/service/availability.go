package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"advisor-marketplace-api/internal/apperr"
	"advisor-marketplace-api/internal/ledger"
	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/store"
)

// PublishAvailability replaces the advisor's open slots with a single new
// one. Slots that already carry an appointment are kept.
func (s *Service) PublishAvailability(ctx context.Context, advisorID string, start, end time.Time) (slot *model.Availability, err error) {
	ctx, span := s.start(ctx, "PublishAvailability", attribute.String("advisor.id", advisorID))
	defer func() { finish(span, err) }()

	if start.IsZero() || end.IsZero() {
		return nil, apperr.New(apperr.KindValidation, "start and end time required")
	}
	if !start.Before(end) {
		return nil, apperr.New(apperr.KindValidation, "start time must be before end time")
	}

	// Role is checked before the transaction so the advisor row is never
	// locked ahead of slot rows; BookSlot takes them in the opposite order.
	if _, err := s.Authorize(ctx, advisorID, model.RoleAdvisor); err != nil {
		return nil, err
	}

	slot = &model.Availability{
		ID:        newID(),
		AdvisorID: advisorID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		Status:    model.SlotAvailable,
		CreatedAt: s.clock(),
	}
	var replaced int64
	err = s.store.WithAtomic(ctx, func(tx store.Tx) error {
		n, err := tx.DeleteOpenSlots(ctx, advisorID)
		if err != nil {
			return classify(err, "delete slots")
		}
		replaced = n
		return classify(tx.InsertSlot(ctx, slot), "insert slot")
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "availability published",
		"advisor_id", advisorID, "slot_id", slot.ID, "replaced", replaced)
	return slot, nil
}

func (s *Service) ListAvailability(ctx context.Context, advisorID string) ([]model.Availability, error) {
	slots, err := s.store.ListAvailability(ctx, advisorID)
	if err != nil {
		return nil, classify(err, "list availability")
	}
	return slots, nil
}

// BookSlot claims an open slot for a founder. The founder pays
// ledger.AppointmentCost credits to the slot's advisor, the appointment is
// created SCHEDULED and the slot is marked BOOKED, all in one transaction.
func (s *Service) BookSlot(ctx context.Context, founderID, slotID string) (appt *model.Appointment, err error) {
	ctx, span := s.start(ctx, "BookSlot",
		attribute.String("founder.id", founderID), attribute.String("slot.id", slotID))
	defer func() { finish(span, err) }()

	if slotID == "" {
		return nil, apperr.New(apperr.KindValidation, "slot id required")
	}

	now := s.clock()
	err = s.store.WithAtomic(ctx, func(tx store.Tx) error {
		slot, err := tx.LockSlot(ctx, slotID)
		if err != nil {
			return classify(err, "slot")
		}
		if slot.Status != model.SlotAvailable {
			return apperr.New(apperr.KindSlotUnavailable, "slot is no longer available")
		}

		founder, err := requireRole(ctx, tx, founderID, model.RoleFounder)
		if err != nil {
			return err
		}
		if founder.Credits < ledger.AppointmentCost {
			return apperr.Newf(apperr.KindInsufficientCredits,
				"booking needs %d credits, you have %d", ledger.AppointmentCost, founder.Credits)
		}

		appt = &model.Appointment{
			ID:        newID(),
			FounderID: founderID,
			AdvisorID: slot.AdvisorID,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Status:    model.AppointmentScheduled,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.InsertAppointment(ctx, appt); err != nil {
			return classify(err, "insert appointment")
		}
		if err := tx.AttachAppointment(ctx, slot.ID, appt.ID); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return apperr.New(apperr.KindSlotUnavailable, "slot is no longer available")
			}
			return classify(err, "attach appointment")
		}

		_, _, err = ledger.Post(ctx, tx, founderID, -ledger.AppointmentCost, model.EntryAppointmentDeduction, "", now)
		if errors.Is(err, store.ErrNegativeBalance) {
			return apperr.New(apperr.KindInsufficientCredits, "insufficient credits")
		}
		if err != nil {
			return classify(err, "debit founder")
		}
		_, _, err = ledger.Post(ctx, tx, slot.AdvisorID, ledger.AppointmentCost, model.EntryAppointmentDeduction, "", now)
		return classify(err, "credit advisor")
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "slot booked",
		"appointment_id", appt.ID, "founder_id", founderID, "advisor_id", appt.AdvisorID)
	return appt, nil
}
