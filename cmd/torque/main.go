package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/torque-erp/torque-erp/internal/app"
	"github.com/torque-erp/torque-erp/internal/audit"
	"github.com/torque-erp/torque-erp/internal/auth"
	"github.com/torque-erp/torque-erp/internal/inventory"
	"github.com/torque-erp/torque-erp/internal/joborders"
	"github.com/torque-erp/torque-erp/internal/observability"
	"github.com/torque-erp/torque-erp/internal/platform/cache"
	"github.com/torque-erp/torque-erp/internal/platform/db"
	"github.com/torque-erp/torque-erp/internal/reports"
	"github.com/torque-erp/torque-erp/internal/shared"
	"github.com/torque-erp/torque-erp/jobs"
	"github.com/torque-erp/torque-erp/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)
	auditService := audit.NewService(audit.NewRepository(pool))
	auditHandler := audit.NewHandler(auditService)

	tokenStore := auth.NewTokenStore(redisClient, cfg.AuthTokenTTL)
	authService := auth.NewService(tokenStore, cfg.AdminPasswordHash, cfg.MechanicPasswordHash)
	authHandler := auth.NewHandler(logger, authService)
	authMiddleware := auth.NewMiddleware(authService)

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)

	inventoryRepo := inventory.NewRepository(pool)
	inventoryService := inventory.NewService(inventoryRepo, auditLogger)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	orderRepo := joborders.NewRepository(pool)
	orderService := joborders.NewService(orderRepo, auditLogger, reportCache)
	orderHandler := joborders.NewHandler(logger, orderService)

	reportRepo := reports.NewRepository(pool)
	reportService := reports.NewService(reportRepo, reportCache)
	reportHandler := reports.NewHandler(reportService)

	pdfClient := report.NewClient(cfg.GotenbergURL)
	pdfHandler := report.NewHandler(pdfClient, orderService, cfg.ShopName, logger)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuditHandler:     auditHandler,
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		InventoryHandler: inventoryHandler,
		JobOrderHandler:  orderHandler,
		ReportHandler:    reportHandler,
		PDFHandler:       pdfHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
