package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/loomworks/loomdesk/internal/config"
	"github.com/loomworks/loomdesk/internal/repository/mongodb"
	"github.com/loomworks/loomdesk/internal/repository/sheets"
	"github.com/loomworks/loomdesk/internal/scheduler"
	"github.com/loomworks/loomdesk/internal/server/handlers"
	"github.com/loomworks/loomdesk/internal/server/router"
	catalogsvc "github.com/loomworks/loomdesk/internal/service/catalog"
	productionsvc "github.com/loomworks/loomdesk/internal/service/production"
	salarysvc "github.com/loomworks/loomdesk/internal/service/salary"
	"github.com/loomworks/loomdesk/internal/session"
	"github.com/loomworks/loomdesk/pkg/clients/loomapi"
	"github.com/loomworks/loomdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	sessions := session.NewStore(cfg.Session.Dir, baseLogger.Named("session"))
	apiClient := loomapi.NewClient(cfg.API.BaseURL, sessions)

	// Resolve any cached session before the first request arrives.
	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	sessions.Init(initCtx, apiClient)
	cancelInit()

	var archive salarysvc.Archiver
	if cfg.Archive.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.Archive.URI, cfg.Archive.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb archive", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
		baseLogger.Info("salary slip archive enabled")
	}

	var exporter salarysvc.Exporter
	if cfg.Export.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Export, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets export", zap.Error(err))
		}
		exporter = sheetsRepo
		baseLogger.Info("salary slip export enabled")
	}

	catalogSvc := catalogsvc.NewService(apiClient, baseLogger.Named("svc.catalog"))
	productionSvc := productionsvc.NewService(apiClient, baseLogger.Named("svc.production"))
	salarySvc := salarysvc.NewService(apiClient, archive, exporter, baseLogger.Named("svc.salary"))

	pageHandlers := router.Handlers{
		Auth:       handlers.NewAuthHandler(sessions, apiClient, baseLogger.Named("handlers.auth")),
		Dashboard:  handlers.NewDashboardHandler(catalogSvc, sessions, baseLogger.Named("handlers.dashboard")),
		Workers:    handlers.NewWorkersHandler(catalogSvc, sessions, baseLogger.Named("handlers.workers")),
		Production: handlers.NewProductionHandler(catalogSvc, productionSvc, sessions, baseLogger.Named("handlers.production")),
		Salary:     handlers.NewSalaryHandler(catalogSvc, salarySvc, sessions, baseLogger.Named("handlers.salary")),
	}
	engine := router.New(pageHandlers, sessions, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Analytics, productionSvc, sessions, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

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
