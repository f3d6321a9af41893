package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/config"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/handler"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/lock"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/logger"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/repository"
	"github.com/sixxset5-star/crm-desktop-sub000/internal/service"
)

func main() {
	// Load configuration
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

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		appLogger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Redis is optional; without it loans are locked in process
	redisClient, locker, err := initLocker(cfg)
	if err != nil {
		appLogger.Fatal("failed to initialize redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	loanRepo := repository.NewLoanRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	creditService := service.NewCreditService(loanRepo, scheduleRepo, locker, cfg, appLogger)
	creditHandler := handler.NewCreditHandler(creditService)
	calculatorHandler := handler.NewCalculatorHandler()
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	router := handler.NewRouter(creditHandler, calculatorHandler, healthHandler, appLogger)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	go func() {
		appLogger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("driver", cfg.Database.Driver),
			zap.Bool("redis_locks", redisClient != nil),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	appLogger.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if cfg.Database.Driver == config.DriverSQLite {
		// one writer at a time keeps sqlite from returning SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func initLocker(cfg *config.Config) (*redis.Client, lock.Locker, error) {
	if !cfg.UsesRedis() {
		return nil, lock.NewLocalLocker(), nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)

	return client, lock.NewRedisLocker(client, cfg.GetLockTTL()), nil
}
