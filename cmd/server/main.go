package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"advisor-marketplace-api/internal/api"
	"advisor-marketplace-api/internal/config"
	gweb "advisor-marketplace-api/internal/grpcweb"
	"advisor-marketplace-api/internal/handler"
	"advisor-marketplace-api/internal/middleware"
	"advisor-marketplace-api/internal/service"
	"advisor-marketplace-api/internal/store"
	"advisor-marketplace-api/internal/store/postgres"
	"advisor-marketplace-api/internal/store/sqlite"
	"advisor-marketplace-api/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint, cfg.OTelServiceName)
	if err != nil {
		log.Printf("tracing disabled: %v", err)
	}
	defer shutdownTracing(context.Background())

	// database
	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer st.Close()

	tier := service.Tier(cfg.DefaultTier)
	if !tier.Valid() {
		log.Fatalf("unknown DEFAULT_PLAN_TIER %q", cfg.DefaultTier)
	}
	svc := service.New(st,
		service.WithLogger(logger),
		service.WithTierResolver(service.StaticTier(tier)),
	)
	if cfg.AdminEmail != "" {
		if err := svc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("seed operator: %v", err)
		}
	}
	h := handler.New(svc, cfg.JWTSecret, logger)

	// grpc server
	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rl.Close()
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			middleware.Logging(logger),
			middleware.Auth(cfg.JWTSecret),
			middleware.RateLimit(rl),
		),
	)
	api.RegisterMarketplaceServiceServer(srv, h)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)

	// start grpc on TCP
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	go func() {
		log.Printf("grpc on :%s", cfg.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			log.Printf("grpc: %v", err)
		}
	}()

	// grpc-web bridge -> forwards browser requests to grpc on localhost
	bridge, err := gweb.New("localhost:"+cfg.GRPCPort, logger)
	if err != nil {
		log.Fatalf("bridge: %v", err)
	}
	defer bridge.Close()

	httpSrv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           bridge.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("grpc-web on :%s", cfg.WebPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Println("shutting down")
	hs.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	srv.GracefulStop()
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Printf("using sqlite at %s", cfg.SQLitePath)
		return st, nil
	default:
		st, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Println("connected to postgres")
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		log.Println("migration applied")
		return st, nil
	}
}
