package middleware

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Logging writes one structured line per unary call. Server faults log at
// error level, rejected requests at info.
func Logging(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)

		code := status.Code(err)
		attrs := []any{
			"method", info.FullMethod,
			"code", code.String(),
			"duration", time.Since(start),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			attrs = append(attrs, "trace_id", sc.TraceID().String())
		}

		switch code {
		case codes.OK:
			log.InfoContext(ctx, "rpc", attrs...)
		case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
			log.ErrorContext(ctx, "rpc failed", append(attrs, "error", err)...)
		default:
			log.InfoContext(ctx, "rpc rejected", append(attrs, "error", status.Convert(err).Message())...)
		}
		return resp, err
	}
}
