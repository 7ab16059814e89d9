package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	subscriptionUsecases "github.com/manyinyire/fleetbackend-sub002/internal/application/subscription/usecases"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/cache"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/config"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/database"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/email"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/invoice"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/repository"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/scheduler"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/biztime"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/db"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

// Standalone billing worker. Runs the renewal/trial-expiry scheduler without
// the HTTP surface, for deployments that separate serving from billing.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLogger()
	log.Infow("starting billing worker", "environment", env)

	if err := biztime.Init(cfg.Billing.Timezone); err != nil {
		log.Errorw("failed to initialize business timezone", "error", err)
		os.Exit(1)
	}

	if err := database.Init(&cfg.Database); err != nil {
		log.Errorw("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	tenantRepo := repository.NewTenantRepository(database.Get(), log)
	historyRepo := repository.NewHistoryRepository(database.Get(), log)
	planConfigRepo := repository.NewPlanConfigRepository(database.Get(), log)

	var configSource billing.ConfigSource = planConfigRepo
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Errorw("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

		configSource = cache.NewPlanConfigCache(redisClient, planConfigRepo, log)
	}
	catalog := billing.NewCatalog(configSource)

	var emailSender invoice.EmailSender
	if cfg.Email.Enabled {
		emailSender = email.NewSMTPEmailService(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPassword,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
		})
	}

	clk := clock.System()
	invoiceGenerator := invoice.NewGenerator(database.Get(), emailSender, cfg.Billing.InvoiceDueDays, clk, log)
	txManager := db.NewTransactionManager(database.Get())

	renewUC := subscriptionUsecases.NewRenewSubscriptionUseCase(tenantRepo, historyRepo, catalog, invoiceGenerator, txManager, clk, log)
	endTrialUC := subscriptionUsecases.NewEndTrialUseCase(tenantRepo, historyRepo, txManager, clk, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	billingScheduler := scheduler.NewBillingScheduler(
		tenantRepo,
		renewUC,
		endTrialUC,
		time.Duration(cfg.Billing.WorkerIntervalHours)*time.Hour,
		clk,
		log,
	)
	billingScheduler.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	log.Infow("received signal, shutting down", "signal", sig)
	billingScheduler.Stop()
	log.Infow("billing worker stopped")
}
