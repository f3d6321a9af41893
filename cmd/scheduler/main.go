package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/config"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/lock"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/logger"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/repository"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/scheduler"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(appLogger)

	db, err := sqlx.Connect(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = repository.Migrate(migrateCtx, db)
	cancel()
	if err != nil {
		appLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	// The reminder job only reads, so an in-process locker is enough here
	creditService := service.NewCreditService(
		repository.NewLoanRepository(db),
		repository.NewScheduleRepository(db),
		lock.NewLocalLocker(),
		cfg,
		appLogger,
	)

	reminder := scheduler.New(cfg, creditService, scheduler.NewLogNotifier(appLogger), appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := reminder.Start(ctx); err != nil {
		appLogger.Fatal("failed to start scheduler", zap.Error(err))
	}

	appLogger.Info("shutting down scheduler")
	reminder.Stop()
}
