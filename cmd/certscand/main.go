package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/certscan/internal/common"
	"github.com/joseph-ayodele/certscan/internal/core"
	"github.com/joseph-ayodele/certscan/internal/core/async"
	"github.com/joseph-ayodele/certscan/internal/core/compare"
	"github.com/joseph-ayodele/certscan/internal/core/pipeline"
	"github.com/joseph-ayodele/certscan/internal/export"
	"github.com/joseph-ayodele/certscan/internal/fraud"
	"github.com/joseph-ayodele/certscan/internal/ingest"
	repo "github.com/joseph-ayodele/certscan/internal/repository"
	svc "github.com/joseph-ayodele/certscan/internal/server"
)

const ocrHealthInterval = 5 * time.Minute

func main() {
	_ = godotenv.Load()
	cfg := common.LoadConfig()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repo.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err, "driver", cfg.Database.Driver)
		os.Exit(1)
	}
	defer db.Close()

	// Ping DB to ensure connectivity
	if err := db.HealthCheck(ctx, 5*time.Second); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	scanner, err := pipeline.NewScannerFromConfig(cfg, logger)
	if err != nil {
		logger.Error("failed to build scanner", "error", err)
		os.Exit(1)
	}

	jobsRepo := repo.NewScanJobRepository(db, logger)
	comparer := compare.New(cfg.Review.MatchThreshold)

	var assessor core.FraudAssessor
	if cfg.Fraud.URL != "" {
		assessor = fraud.NewClient(cfg.Fraud.URL, cfg.Fraud.Timeout, logger)
		logger.Info("fraud scoring enabled", "url", cfg.Fraud.URL)
	}

	processor := core.NewProcessor(logger, scanner, jobsRepo, assessor, comparer, cfg.OCR.MinConfidence)
	scanServer := svc.NewScanServer(processor, jobsRepo, comparer, export.NewService(jobsRepo, logger), logger)
	grpcServer, healthServer := svc.NewGRPCServer(scanServer, logger)

	// A missing engine degrades ScanService but keeps the server up.
	_ = svc.ReportOCRHealth(ctx, healthServer, scanner, logger)
	go func() {
		t := time.NewTicker(ocrHealthInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_ = svc.ReportOCRHealth(ctx, healthServer, scanner, logger)
			}
		}
	}()

	var queue *async.ProcessorQueue
	if cfg.Inbox.Dir != "" {
		queue = async.NewProcessorQueue(processor, logger,
			async.WithWorkers(cfg.Inbox.Workers),
			async.WithQueueSize(256),
			async.WithProcessTimeout(3*time.Minute),
		)
		paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{cfg.Inbox.Dir},
			InitialScan: true,
			Debounce:    cfg.Inbox.Debounce,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("failed to start inbox watcher", "dir", cfg.Inbox.Dir, "error", err)
			os.Exit(1)
		}
		go queue.Feed(ctx, paths)
		go func() {
			for err := range errs {
				logger.Warn("inbox watcher error", "error", err)
			}
		}()
		logger.Info("watching inbox", "dir", cfg.Inbox.Dir, "workers", cfg.Inbox.Workers)
	}

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}

	logger.Info("certscand listening", "addr", cfg.Server.GRPCAddr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	healthServer.Shutdown()
	if queue != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		queue.Shutdown(shutdownCtx)
		cancel()
	}
	grpcServer.GracefulStop()
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
