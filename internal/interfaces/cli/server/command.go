package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/config"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/database"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/migration"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/scheduler"
	httpRouter "github.com/manyinyire/fleetbackend-sub002/internal/interfaces/http"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/biztime"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

var (
	env            string
	autoMigrate    bool
	disableBilling bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the fleet billing HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")
	cmd.Flags().BoolVar(&disableBilling, "disable-billing-scheduler", false, "Do not run the in-process renewal/trial scheduler")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Infow("starting server", "environment", env, "auto_migrate", autoMigrate)

	if err := biztime.Init(cfg.Billing.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		log.Errorw("failed to initialize database", "error", err)
		return err
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
		}
		manager := migration.NewManager(env)
		if err := manager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Errorw("failed to connect to redis", "error", err)
			return err
		}
		log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
	}

	clk := clock.System()

	router := httpRouter.NewRouter(database.Get(), redisClient, cfg, clk, log)
	router.SetupRoutes(cfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !disableBilling {
		billingScheduler := scheduler.NewBillingScheduler(
			router.TenantRepo,
			router.RenewUC,
			router.EndTrialUC,
			time.Duration(cfg.Billing.WorkerIntervalHours)*time.Hour,
			clk,
			log,
		)
		billingScheduler.Start(ctx)
		defer billingScheduler.Stop()
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("failed to start server", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Infow("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}
