package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"advisor-marketplace-api/internal/api"
	"advisor-marketplace-api/internal/apperr"
	"advisor-marketplace-api/internal/middleware"
	"advisor-marketplace-api/internal/model"
)

func (h *Handler) CancelAppointment(ctx context.Context, req *api.AppointmentRequest) (*api.AppointmentResponse, error) {
	if req.AppointmentID == "" {
		return nil, status.Error(codes.InvalidArgument, "appointment id required")
	}
	appt, err := h.svc.CancelAppointment(ctx, uid(ctx), req.AppointmentID)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &api.AppointmentResponse{Appointment: toAppointment(appt)}, nil
}

func (h *Handler) CompleteAppointment(ctx context.Context, req *api.AppointmentRequest) (*api.AppointmentResponse, error) {
	if req.AppointmentID == "" {
		return nil, status.Error(codes.InvalidArgument, "appointment id required")
	}
	appt, err := h.svc.CompleteAppointment(ctx, uid(ctx), req.AppointmentID)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &api.AppointmentResponse{Appointment: toAppointment(appt)}, nil
}

func (h *Handler) AddNotes(ctx context.Context, req *api.AddNotesRequest) (*api.AppointmentResponse, error) {
	if req.AppointmentID == "" {
		return nil, status.Error(codes.InvalidArgument, "appointment id required")
	}
	appt, err := h.svc.AddNotes(ctx, uid(ctx), req.AppointmentID, req.Notes)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &api.AppointmentResponse{Appointment: toAppointment(appt)}, nil
}

// ListAppointments returns the advisor's upcoming sessions or the founder's
// full history, depending on the caller's role.
func (h *Handler) ListAppointments(ctx context.Context, _ *api.Empty) (*api.ListAppointmentsResponse, error) {
	var (
		appts []model.Appointment
		err   error
	)
	switch middleware.Role(ctx) {
	case model.RoleAdvisor:
		appts, err = h.svc.ListAdvisorAppointments(ctx, uid(ctx))
	case model.RoleFounder:
		appts, err = h.svc.ListFounderAppointments(ctx, uid(ctx))
	default:
		return nil, status.Error(codes.PermissionDenied, "founders and advisors only")
	}
	if err != nil {
		return nil, apperr.ToStatus(err)
	}

	out := make([]*api.Appointment, len(appts))
	for i := range appts {
		out[i] = toAppointment(&appts[i])
	}
	return &api.ListAppointmentsResponse{Appointments: out}, nil
}
