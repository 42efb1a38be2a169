package introspection

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Logger is the structured logging interface the interceptors report
// through.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// loggingInterceptor logs the start, duration and outcome of every RPC.
func loggingInterceptor(logger Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)
		if err != nil {
			st, _ := status.FromError(err)
			logger.Error("introspection_rpc_failed", "method", info.FullMethod, "duration_ms", duration.Milliseconds(), "code", st.Code().String())
			return resp, err
		}
		logger.Debug("introspection_rpc_completed", "method", info.FullMethod, "duration_ms", duration.Milliseconds())
		return resp, nil
	}
}

// recoveryInterceptor turns a panicking handler into an Internal error
// rather than taking down the whole process over one bad RPC.
func recoveryInterceptor(logger Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("introspection_rpc_panic", "method", info.FullMethod, "panic", fmt.Sprintf("%v", p), "stack", string(debug.Stack()))
				err = status.Errorf(codes.Internal, "panic recovered: %v", p)
			}
		}()
		return handler(ctx, req)
	}
}

// NewServer builds a gRPC server exposing GetPipelineStats, instrumented
// with the otelgrpc stats handler so RPCs participate in the same trace
// pipeline as the MQTT exchanges they report on.
func NewServer(logger Logger, collector *Collector) *grpc.Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(recoveryInterceptor(logger), loggingInterceptor(logger)),
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	Register(server, collector)
	return server
}

// Serve listens on address and runs server until ctx is canceled, then
// stops it gracefully.
func Serve(ctx context.Context, logger Logger, address string, server *grpc.Server) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("introspection: listen on %s: %w", address, err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("introspection_server_started", "address", address)
		errCh <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		server.GracefulStop()
		logger.Info("introspection_server_stopped")
		return nil
	case err := <-errCh:
		return err
	}
}
