package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/config"
	"github.com/mamadbah2/dairyflow/internal/repository"
	"github.com/mamadbah2/dairyflow/internal/repository/memory"
	"github.com/mamadbah2/dairyflow/internal/repository/mongodb"
	"github.com/mamadbah2/dairyflow/internal/repository/sheets"
	"github.com/mamadbah2/dairyflow/internal/scheduler"
	"github.com/mamadbah2/dairyflow/internal/server/handlers"
	"github.com/mamadbah2/dairyflow/internal/server/router"
	"github.com/mamadbah2/dairyflow/internal/service/alerting"
	authsvc "github.com/mamadbah2/dairyflow/internal/service/auth"
	commandsvc "github.com/mamadbah2/dairyflow/internal/service/commands"
	exportsvc "github.com/mamadbah2/dairyflow/internal/service/export"
	"github.com/mamadbah2/dairyflow/internal/service/ingestion"
	"github.com/mamadbah2/dairyflow/internal/service/notify"
	"github.com/mamadbah2/dairyflow/internal/service/records"
	reportingsvc "github.com/mamadbah2/dairyflow/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/dairyflow/internal/service/whatsapp"
	"github.com/mamadbah2/dairyflow/pkg/clients/identity"
	whatsappclient "github.com/mamadbah2/dairyflow/pkg/clients/whatsapp"
	"github.com/mamadbah2/dairyflow/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	gin.SetMode(gin.ReleaseMode)

	loc, err := cfg.Alerts.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	store, err := openStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init document store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close document store", zap.Error(err))
		}
	}()

	recordSvc := records.NewService(store, ingestion.New(), logger.Named(baseLogger, "svc.records"))
	if cfg.Store.SeedSample {
		seeded, err := recordSvc.Seed(context.Background())
		if err != nil {
			baseLogger.Fatal("failed to seed sample farm", zap.Error(err))
		}
		if seeded {
			baseLogger.Info("sample farm loaded")
		}
	}
	reportingSvc := reportingsvc.NewService(recordSvc, logger.Named(baseLogger, "svc.reporting"))

	var notifier notify.Notifier = notify.NewNop(logger.Named(baseLogger, "notify"))
	if cfg.WhatsApp.Enabled() {
		notifier = notify.NewWhatsApp(whatsappclient.NewClient(cfg.WhatsApp), cfg.WhatsApp.Recipient, logger.Named(baseLogger, "notify.whatsapp"))
	} else {
		baseLogger.Warn("whatsapp not configured, notifications are only logged")
	}

	sweeper := alerting.NewSweeper(recordSvc, notifier, cfg.Alerts.LookaheadDays, logger.Named(baseLogger, "svc.alerting"))
	sched, err := scheduler.NewScheduler(
		scheduler.Schedules{Sweep: cfg.Alerts.SweepSchedule, Digest: cfg.Alerts.DigestSchedule},
		loc, sweeper, reportingSvc, notifier, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	var sheetRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetRepo = repo
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := router.Dependencies{
		Records:        handlers.NewRecordsHandler(recordSvc, logger.Named(baseLogger, "handlers.records")),
		Alerts:         handlers.NewAlertsHandler(recordSvc, sched, logger.Named(baseLogger, "handlers.alerts")),
		Reports:        handlers.NewReportsHandler(reportingSvc, loc, logger.Named(baseLogger, "handlers.reports")),
		Export:         handlers.NewExportHandler(exportsvc.NewService(recordSvc, sheetRepo, logger.Named(baseLogger, "svc.export")), logger.Named(baseLogger, "handlers.export")),
		Registry:       registry,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	if cfg.Identity.Enabled() {
		authService := authsvc.NewService(identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.APIKey), 0, logger.Named(baseLogger, "svc.auth"))
		deps.Auth = handlers.NewAuthHandler(authService, logger.Named(baseLogger, "handlers.auth"))
		deps.Verifier = authService
	}

	if cfg.WhatsApp.WebhookEnabled() {
		dispatcher := commandsvc.NewDispatcher(recordSvc, reportingSvc, loc, logger.Named(baseLogger, "svc.commands"))
		messagingSvc := whatsappsvc.NewService(cfg.WhatsApp.VerifyToken, cfg.WhatsApp.AllowedSenders, dispatcher, notifier, logger.Named(baseLogger, "svc.whatsapp"))
		deps.Webhook = handlers.NewWebhookHandler(messagingSvc, logger.Named(baseLogger, "handlers.whatsapp"))
		deps.WebhookSecret = cfg.WhatsApp.AppSecret
	}

	engine := router.New(deps, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, base *zap.Logger) (repository.DocumentStore, error) {
	if cfg.Store.Driver != config.DriverMongo {
		base.Info("using in-memory document store")
		return memory.NewStore(), nil
	}

	repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(base, "repo.mongodb"))
	if err != nil {
		return nil, err
	}
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = repo.Close(ctx)
		return nil, err
	}
	return repo, nil
}
