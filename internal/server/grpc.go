package server

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// GRPCServer bundles the grpc server with its health service.
type GRPCServer struct {
	*grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewGRPCServer registers svc, the standard health service and reflection.
func NewGRPCServer(svc ScanServiceServer, logger *slog.Logger, opts ...grpc.ServerOption) *GRPCServer {
	if logger == nil {
		logger = slog.Default()
	}
	opts = append(opts, grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
	s := grpc.NewServer(opts...)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ScanServiceName, healthpb.HealthCheckResponse_SERVING)

	reflection.Register(s)
	RegisterScanServiceServer(s, svc)

	return &GRPCServer{Server: s, health: hs, logger: logger}
}

// ListenAndServe listens on addr and blocks until the server stops.
func (g *GRPCServer) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	g.logger.Info("grpc listening", "addr", addr)
	return g.Serve(lis)
}

// Stop marks the services as not serving and drains in-flight calls.
func (g *GRPCServer) Stop() {
	g.health.Shutdown()
	g.GracefulStop()
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Warn("grpc call failed",
				"method", info.FullMethod,
				"code", status.Code(err).String(),
				"duration", time.Since(start),
				"error", err,
			)
			return resp, err
		}
		logger.Debug("grpc call", "method", info.FullMethod, "duration", time.Since(start))
		return resp, nil
	}
}
