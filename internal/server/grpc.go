package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// NewGRPCServer builds a server with ScanService, health and reflection registered.
func NewGRPCServer(scan ScanServiceServer, logger *slog.Logger) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
	RegisterScanServiceServer(grpcServer, scan)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ScanServiceName, healthpb.HealthCheckResponse_SERVING)

	// Reflection for grpcurl
	reflection.Register(grpcServer)
	return grpcServer, healthServer
}

// OCRChecker verifies that the OCR engine can run.
type OCRChecker interface {
	HealthCheck(ctx context.Context) error
}

// ReportOCRHealth runs checker and publishes the result as the ScanService
// health status. The overall server status is left alone, since GetScan,
// Compare and ExportScans do not need the engine.
func ReportOCRHealth(ctx context.Context, hs *health.Server, checker OCRChecker, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := checker.HealthCheck(ctx); err != nil {
		logger.Error("ocr engine unavailable; ScanService not serving", "error", err)
		hs.SetServingStatus(ScanServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
		return err
	}
	hs.SetServingStatus(ScanServiceName, healthpb.HealthCheckResponse_SERVING)
	return nil
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("grpc.call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}
