package middleware

import (
	"context"
	"strings"

	"advisor-marketplace-api/internal/api"
	"advisor-marketplace-api/internal/auth"
	"advisor-marketplace-api/internal/model"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	UserIDKey ctxKey = "uid"
	RoleKey   ctxKey = "role"
)

// skip auth for these
var open = map[string]bool{
	api.FullMethod("Register"):         true,
	api.FullMethod("Login"):            true,
	api.FullMethod("ListAvailability"): true,
}

// WithIdentity returns ctx carrying an authenticated caller.
func WithIdentity(ctx context.Context, uid string, role model.Role) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, uid)
	return context.WithValue(ctx, RoleKey, role)
}

// UserID returns the authenticated caller, or "" on open methods.
func UserID(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}

func Role(ctx context.Context) model.Role {
	r, _ := ctx.Value(RoleKey).(model.Role)
	return r
}

// Identify parses a bearer token into an authenticated context.
func Identify(ctx context.Context, header, secret string) (context.Context, error) {
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == "" {
		return nil, status.Error(codes.Unauthenticated, "no token")
	}
	claims, err := auth.ParseToken(raw, secret)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "bad token")
	}
	return WithIdentity(ctx, claims.UserID, claims.Role), nil
}

func Auth(secret string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		// token from Authorization: Bearer <jwt>
		header := ""
		if vals := md.Get("authorization"); len(vals) > 0 {
			header = vals[0]
		}

		ctx, err := Identify(ctx, header, secret)
		if err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}
