package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"advisor-marketplace-api/internal/api"
	"advisor-marketplace-api/internal/apperr"
)

func (h *Handler) PublishAvailability(ctx context.Context, req *api.PublishAvailabilityRequest) (*api.SlotResponse, error) {
	slot, err := h.svc.PublishAvailability(ctx, uid(ctx), req.StartTime, req.EndTime)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &api.SlotResponse{Slot: toSlot(slot)}, nil
}

func (h *Handler) ListAvailability(ctx context.Context, req *api.ListAvailabilityRequest) (*api.ListAvailabilityResponse, error) {
	advisorID := req.AdvisorID
	if advisorID == "" {
		advisorID = uid(ctx)
	}
	if advisorID == "" {
		return nil, status.Error(codes.InvalidArgument, "advisor id required")
	}

	slots, err := h.svc.ListAvailability(ctx, advisorID)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	out := make([]*api.Slot, len(slots))
	for i := range slots {
		out[i] = toSlot(&slots[i])
	}
	return &api.ListAvailabilityResponse{Slots: out}, nil
}

func (h *Handler) BookSlot(ctx context.Context, req *api.BookSlotRequest) (*api.AppointmentResponse, error) {
	appt, err := h.svc.BookSlot(ctx, uid(ctx), req.SlotID)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &api.AppointmentResponse{Appointment: toAppointment(appt)}, nil
}
