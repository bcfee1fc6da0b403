// Package apperr defines the failure taxonomy returned by the marketplace engine
// and its translation into gRPC statuses.
package apperr

import (
	"errors"
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Domain is the ErrorInfo domain attached to gRPC statuses.
const Domain = "advisor-marketplace-api"

// Kind is a machine-readable failure class.
type Kind string

const (
	KindValidation          Kind = "VALIDATION"
	KindAuthorization       Kind = "AUTHORIZATION"
	KindNotFound            Kind = "NOT_FOUND"
	KindState               Kind = "STATE"
	KindConflict            Kind = "CONFLICT"
	KindInsufficientCredits Kind = "INSUFFICIENT_CREDITS"
	KindInsufficientBalance Kind = "INSUFFICIENT_BALANCE"
	KindSlotUnavailable     Kind = "SLOT_UNAVAILABLE"
	KindInternal            Kind = "INTERNAL"
)

// GRPCCode maps a kind onto the closest gRPC status code.
func (k Kind) GRPCCode() codes.Code {
	switch k {
	case KindValidation:
		return codes.InvalidArgument
	case KindAuthorization:
		return codes.PermissionDenied
	case KindNotFound:
		return codes.NotFound
	case KindState, KindInsufficientCredits, KindInsufficientBalance:
		return codes.FailedPrecondition
	case KindConflict:
		return codes.AlreadyExists
	case KindSlotUnavailable:
		return codes.Aborted
	default:
		return codes.Internal
	}
}

// Error is a classified engine failure.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so errors.Is(err, apperr.State) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Kind-only targets for errors.Is.
var (
	Validation          = &Error{Kind: KindValidation}
	Authorization       = &Error{Kind: KindAuthorization}
	NotFound            = &Error{Kind: KindNotFound}
	State               = &Error{Kind: KindState}
	Conflict            = &Error{Kind: KindConflict}
	InsufficientCredits = &Error{Kind: KindInsufficientCredits}
	InsufficientBalance = &Error{Kind: KindInsufficientBalance}
	SlotUnavailable     = &Error{Kind: KindSlotUnavailable}
)

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// KindOf returns the kind of err, or KindInternal when err is unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ToStatus converts err into a gRPC status error. Unclassified errors become
// a bare Internal status so storage details never reach the caller.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return status.Error(codes.Internal, "internal error")
	}
	st := status.New(e.Kind.GRPCCode(), e.Message)
	detailed, derr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: string(e.Kind),
		Domain: Domain,
	})
	if derr != nil {
		return st.Err()
	}
	return detailed.Err()
}
