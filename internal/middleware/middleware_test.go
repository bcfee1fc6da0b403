package middleware_test

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"advisor-marketplace-api/internal/api"
	"advisor-marketplace-api/internal/auth"
	"advisor-marketplace-api/internal/middleware"
	"advisor-marketplace-api/internal/model"
)

const secret = "middleware-test-secret"

// echo reports the identity the interceptor attached.
func echo(ctx context.Context, _ any) (any, error) {
	return [2]string{middleware.UserID(ctx), string(middleware.Role(ctx))}, nil
}

func withAuthHeader(v string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", v))
}

func TestAuth(t *testing.T) {
	tok, err := auth.MakeToken("user-1", model.RoleAdvisor, secret)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}
	other, _ := auth.MakeToken("user-1", model.RoleAdvisor, "another-secret")

	intercept := middleware.Auth(secret)
	tests := []struct {
		name   string
		ctx    context.Context
		method string
		code   codes.Code
	}{
		{"valid token", withAuthHeader("Bearer " + tok), "BookSlot", codes.OK},
		{"open method without metadata", context.Background(), "Login", codes.OK},
		{"no metadata", context.Background(), "BookSlot", codes.Unauthenticated},
		{"empty header", withAuthHeader(""), "GetBalance", codes.Unauthenticated},
		{"wrong secret", withAuthHeader("Bearer " + other), "GetBalance", codes.Unauthenticated},
		{"garbage", withAuthHeader("Bearer not-a-jwt"), "GetBalance", codes.Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod(tt.method)}
			out, err := intercept(tt.ctx, nil, info, echo)
			if status.Code(err) != tt.code {
				t.Fatalf("expected %v, got %v", tt.code, err)
			}
			if tt.code != codes.OK || tt.method == "Login" {
				return
			}
			got := out.([2]string)
			if got[0] != "user-1" || got[1] != string(model.RoleAdvisor) {
				t.Errorf("unexpected identity %v", got)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 2)
	t.Cleanup(rl.Close)
	intercept := middleware.RateLimit(rl)

	payout := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("RequestPayout")}
	ctx := middleware.WithIdentity(context.Background(), "advisor-1", model.RoleAdvisor)
	for i := 0; i < 2; i++ {
		if _, err := intercept(ctx, nil, payout, echo); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	_, err := intercept(ctx, nil, payout, echo)
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}

	// buckets are per caller
	other := middleware.WithIdentity(context.Background(), "advisor-2", model.RoleAdvisor)
	if _, err := intercept(other, nil, payout, echo); err != nil {
		t.Errorf("second caller throttled: %v", err)
	}

	// unlimited methods pass through
	book := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("BookSlot")}
	for i := 0; i < 5; i++ {
		if _, err := intercept(ctx, nil, book, echo); err != nil {
			t.Fatalf("BookSlot throttled: %v", err)
		}
	}
}

func TestRateLimitForwardedFor(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 1)
	t.Cleanup(rl.Close)
	intercept := middleware.RateLimit(rl)
	login := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("Login")}

	from := func(addr string) context.Context {
		return metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-forwarded-for", addr))
	}

	if _, err := intercept(from("203.0.113.7"), nil, login, echo); err != nil {
		t.Fatalf("first login: %v", err)
	}
	_, err := intercept(from("203.0.113.7"), nil, login, echo)
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected ResourceExhausted for repeat address, got %v", err)
	}

	// a second browser behind the same bridge keeps its own bucket
	if _, err := intercept(from("198.51.100.20"), nil, login, echo); err != nil {
		t.Errorf("second address throttled: %v", err)
	}
}
