package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tonforge/tonforge_service/internal/adapters/tonapi"
	"github.com/tonforge/tonforge_service/internal/adapters/trongrid"
	"github.com/tonforge/tonforge_service/internal/api/handlers"
	"github.com/tonforge/tonforge_service/internal/api/routes"
	"github.com/tonforge/tonforge_service/internal/domain/entities"
	"github.com/tonforge/tonforge_service/internal/domain/services/account"
	"github.com/tonforge/tonforge_service/internal/domain/services/accrual"
	"github.com/tonforge/tonforge_service/internal/domain/services/deposit"
	"github.com/tonforge/tonforge_service/internal/domain/services/reconciliation"
	"github.com/tonforge/tonforge_service/internal/domain/services/referral"
	"github.com/tonforge/tonforge_service/internal/domain/services/withdrawal"
	"github.com/tonforge/tonforge_service/internal/emitters"
	"github.com/tonforge/tonforge_service/internal/infrastructure/cache"
	"github.com/tonforge/tonforge_service/internal/infrastructure/config"
	"github.com/tonforge/tonforge_service/internal/infrastructure/database"
	"github.com/tonforge/tonforge_service/internal/infrastructure/repositories"
	"github.com/tonforge/tonforge_service/internal/workers/chain_scanner"
	"github.com/tonforge/tonforge_service/internal/workers/yield_accrual"
	"github.com/tonforge/tonforge_service/pkg/graceful"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}

	emitter := emitters.NewKafkaEmitter(cfg.Kafka.Broker, cfg.Kafka.Topic, logger)

	// Repositories
	accountRepo := repositories.NewAccountRepository(db)
	intentRepo := repositories.NewIntentRepository(db)
	txRepo := repositories.NewTransactionRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	referralRepo := repositories.NewReferralRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)

	// Domain services
	wallets := map[entities.Currency]string{
		entities.CurrencyTON:  cfg.TON.Wallet,
		entities.CurrencyUSDT: cfg.Tron.Wallet,
	}
	accountSvc := account.NewService(accountRepo, intentRepo, referralRepo, logger)
	depositSvc := deposit.NewService(intentRepo, accountRepo, settingsRepo, wallets, logger)
	referralSvc := referral.NewService(accountRepo, referralRepo, logger)
	reconciliationSvc := reconciliation.NewService(
		accountRepo, intentRepo, txRepo, referralSvc, emitter, settingsRepo, logger)
	withdrawalSvc := withdrawal.NewService(accountRepo, withdrawalRepo, settingsRepo, emitter, logger)

	runLock := cache.NewRunLock(redisClient, logger)
	accrualSvc := accrual.NewService(
		intentRepo, accountRepo, settingsRepo, runLock,
		cfg.Accrual.BatchSize, cfg.Accrual.LockTTL, logger)

	// Background workers
	sources := []chain_scanner.TransactionSource{
		tonapi.NewClient(cfg.TON, logger),
		trongrid.NewClient(cfg.Tron, logger),
	}
	scanner := chain_scanner.NewWorker(
		sources, reconciliationSvc, cfg.Scanner.Interval, cfg.Scanner.Window(), logger)
	scanner.Start()

	accrualWorker := yield_accrual.NewWorker(accrualSvc, cfg.Accrual.Schedule, logger)
	if err := accrualWorker.Start(); err != nil {
		logger.Fatal("Failed to start accrual worker", zap.Error(err))
	}

	// HTTP server
	router := routes.SetupRoutes(routes.Handlers{
		Core:        handlers.NewCoreHandlers(db, redisClient, logger),
		Accounts:    handlers.NewAccountHandlers(accountSvc, logger),
		Deposits:    handlers.NewDepositHandlers(depositSvc, logger),
		Withdrawals: handlers.NewWithdrawalHandlers(withdrawalSvc, logger),
	}, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sm := graceful.NewShutdownManager(server, logger)
	sm.RegisterStopper(scanner)
	sm.RegisterStopper(accrualWorker)
	sm.RegisterCloser(emitter)
	sm.RegisterCloser(redisClient)
	sm.RegisterCloser(db)
	sm.WaitForShutdown()
}

func newLogger(cfg *config.Config) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}
	return logger
}
