package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"advisor-marketplace-api/internal/api"
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
	stop    chan struct{}
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		stop:    make(chan struct{}),
	}
	// cleanup stale entries every minute
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-rl.stop:
				return
			case <-t.C:
				rl.sweep(3 * time.Minute)
			}
		}
	}()
	return rl
}

func (rl *RateLimiter) Close() { close(rl.stop) }

func (rl *RateLimiter) sweep(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, c := range rl.clients {
		if time.Since(c.seen) > idle {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if c, ok := rl.clients[key]; ok {
		c.seen = time.Now()
		return c.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[key] = &client{lim: l, seen: time.Now()}
	return l
}

// Allow reports whether key may make another call now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.get(key).Allow()
}

// methods that should be rate limited
var limited = map[string]bool{
	api.FullMethod("Register"):      true,
	api.FullMethod("Login"):         true,
	api.FullMethod("RequestPayout"): true,
}

// RateLimit throttles limited methods per caller: the authenticated user when
// known, then the x-forwarded-for address set by the grpc-web bridge, then the
// peer address. It must run after Auth in the chain.
func RateLimit(rl *RateLimiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if !limited[info.FullMethod] {
			return next(ctx, req)
		}
		key := UserID(ctx)
		if key == "" {
			key = clientKey(ctx)
		}
		if !rl.Allow(key) {
			return nil, status.Error(codes.ResourceExhausted, "too many requests")
		}
		return next(ctx, req)
	}
}

func clientKey(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get("x-forwarded-for"); len(v) > 0 && v[0] != "" {
			return "xff:" + v[0]
		}
	}
	if p, ok := peer.FromContext(ctx); ok {
		return p.Addr.String()
	}
	return "unknown"
}
