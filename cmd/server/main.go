package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/paladisupraja/dairy-portal/internal/config"
	"github.com/paladisupraja/dairy-portal/internal/repository/mongodb"
	"github.com/paladisupraja/dairy-portal/internal/repository/sheets"
	"github.com/paladisupraja/dairy-portal/internal/scheduler"
	"github.com/paladisupraja/dairy-portal/internal/server/handlers"
	"github.com/paladisupraja/dairy-portal/internal/server/router"
	milkingsvc "github.com/paladisupraja/dairy-portal/internal/service/milking"
	reportingsvc "github.com/paladisupraja/dairy-portal/internal/service/reporting"
	"github.com/paladisupraja/dairy-portal/pkg/clients/farmapi"
	"github.com/paladisupraja/dairy-portal/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	backendClient := farmapi.NewClient(cfg.Backend)

	recorder := milkingsvc.NewRecorder(mongoRepo, baseLogger.Named("svc.milking"))
	reportingSvc := reportingsvc.NewService(backendClient, mongoRepo, baseLogger.Named("svc.reporting"))

	milkHandler := handlers.NewMilkHandler(recorder, reportingSvc, baseLogger.Named("handlers.milk"))
	engine := router.New(milkHandler, baseLogger.Named("router"))

	// The nightly summary publication only runs when a spreadsheet is configured.
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}

		sched := scheduler.NewScheduler(*cfg, reportingSvc, sheetsRepo, baseLogger.Named("scheduler"))
		sched.Start()
		defer sched.Stop()
	} else {
		baseLogger.Warn("sheets credentials missing, daily summary publication disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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
