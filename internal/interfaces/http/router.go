package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	financeUsecases "github.com/manyinyire/fleetbackend-sub002/internal/application/finance/usecases"
	subscriptionUsecases "github.com/manyinyire/fleetbackend-sub002/internal/application/subscription/usecases"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/cache"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/config"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/email"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/invoice"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/repository"
	"github.com/manyinyire/fleetbackend-sub002/internal/interfaces/http/handlers"
	"github.com/manyinyire/fleetbackend-sub002/internal/interfaces/http/middleware"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/db"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/utils"
)

// Router wires repositories, use cases and handlers onto a Gin engine.
type Router struct {
	engine              *gin.Engine
	subscriptionHandler *handlers.SubscriptionHandler
	planHandler         *handlers.PlanHandler
	financeHandler      *handlers.FinanceHandler

	// Shared with the background scheduler so both surfaces bill identically.
	TenantRepo tenant.Repository
	RenewUC    *subscriptionUsecases.RenewSubscriptionUseCase
	EndTrialUC *subscriptionUsecases.EndTrialUseCase
}

// NewRouter creates a router with all billing and finance dependencies wired.
// redisClient may be nil when caching is disabled.
func NewRouter(gormDB *gorm.DB, redisClient *redis.Client, cfg *config.Config, clk clock.Clock, log logger.Interface) *Router {
	engine := gin.New()

	tenantRepo := repository.NewTenantRepository(gormDB, log)
	historyRepo := repository.NewHistoryRepository(gormDB, log)
	incomeRepo := repository.NewIncomeRepository(gormDB, log)
	expenseRepo := repository.NewExpenseRepository(gormDB, log)
	planConfigRepo := repository.NewPlanConfigRepository(gormDB, log)
	resourceCounter := repository.NewResourceCounter(gormDB, log)

	var configSource billing.ConfigSource = planConfigRepo
	var planCache *cache.PlanConfigCache
	if redisClient != nil {
		planCache = cache.NewPlanConfigCache(redisClient, planConfigRepo, log)
		configSource = planCache
	}
	catalog := billing.NewCatalog(configSource)
	prorator := billing.NewProrationCalculator(catalog, clk)

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
	invoiceGenerator := invoice.NewGenerator(gormDB, emailSender, cfg.Billing.InvoiceDueDays, clk, log)

	txManager := db.NewTransactionManager(gormDB)

	startTrialUC := subscriptionUsecases.NewStartTrialUseCase(tenantRepo, historyRepo, txManager, clk, log)
	endTrialUC := subscriptionUsecases.NewEndTrialUseCase(tenantRepo, historyRepo, txManager, clk, log)
	changePlanUC := subscriptionUsecases.NewChangePlanUseCase(tenantRepo, historyRepo, catalog, prorator, invoiceGenerator, txManager, clk, log)
	cancelUC := subscriptionUsecases.NewCancelSubscriptionUseCase(tenantRepo, historyRepo, txManager, clk, log)
	reactivateUC := subscriptionUsecases.NewReactivateSubscriptionUseCase(tenantRepo, historyRepo, catalog, txManager, clk, log)
	renewUC := subscriptionUsecases.NewRenewSubscriptionUseCase(tenantRepo, historyRepo, catalog, invoiceGenerator, txManager, clk, log)
	validateLimitsUC := subscriptionUsecases.NewValidatePlanLimitsUseCase(tenantRepo, catalog, resourceCounter, log)

	recordIncomeUC := financeUsecases.NewRecordIncomeUseCase(incomeRepo, clk, log)
	recordExpenseUC := financeUsecases.NewRecordExpenseUseCase(expenseRepo, clk, log)
	approveExpenseUC := financeUsecases.NewApproveExpenseUseCase(expenseRepo, clk, log)
	rejectExpenseUC := financeUsecases.NewRejectExpenseUseCase(expenseRepo, clk, log)
	profitLossUC := financeUsecases.NewProfitLossReportUseCase(incomeRepo, expenseRepo, log)
	cashFlowUC := financeUsecases.NewCashFlowReportUseCase(incomeRepo, expenseRepo, log)
	vehicleProfitUC := financeUsecases.NewVehicleProfitabilityUseCase(incomeRepo, expenseRepo, log)
	summaryUC := financeUsecases.NewFinancialSummaryUseCase(incomeRepo, expenseRepo, log)

	subscriptionHandler := handlers.NewSubscriptionHandler(
		tenantRepo, historyRepo,
		startTrialUC, endTrialUC, changePlanUC, cancelUC, reactivateUC, renewUC, validateLimitsUC,
		clk, log,
	)

	var cacheInvalidator handlers.PlanCacheInvalidator
	if planCache != nil {
		cacheInvalidator = planCache
	}
	planHandler := handlers.NewPlanHandler(catalog, planConfigRepo, cacheInvalidator, log)

	financeHandler := handlers.NewFinanceHandler(
		recordIncomeUC, recordExpenseUC, approveExpenseUC, rejectExpenseUC,
		profitLossUC, cashFlowUC, vehicleProfitUC, summaryUC,
		log,
	)

	return &Router{
		engine:              engine,
		subscriptionHandler: subscriptionHandler,
		planHandler:         planHandler,
		financeHandler:      financeHandler,
		TenantRepo:          tenantRepo,
		RenewUC:             renewUC,
		EndTrialUC:          endTrialUC,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(cfg *config.Config, log logger.Interface) {
	r.engine.Use(middleware.Logger(log))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "", gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api")
	{
		tenants := api.Group("/tenants")
		{
			tenants.POST("", r.subscriptionHandler.CreateTenant)
			tenants.GET("/:id/subscription", r.subscriptionHandler.GetSubscription)
			tenants.GET("/:id/subscription/history", r.subscriptionHandler.GetHistory)
			tenants.GET("/:id/subscription/limits", r.subscriptionHandler.ValidateLimits)
			tenants.POST("/:id/subscription/trial", r.subscriptionHandler.StartTrial)
			tenants.POST("/:id/subscription/trial/end", r.subscriptionHandler.EndTrial)
			tenants.PUT("/:id/subscription/plan", r.subscriptionHandler.ChangePlan)
			tenants.POST("/:id/subscription/cancel", r.subscriptionHandler.Cancel)
			tenants.POST("/:id/subscription/reactivate", r.subscriptionHandler.Reactivate)
			tenants.POST("/:id/subscription/renew", r.subscriptionHandler.Renew)

			tenants.POST("/:id/incomes", r.financeHandler.RecordIncome)
			tenants.POST("/:id/expenses", r.financeHandler.RecordExpense)
			tenants.GET("/:id/reports/profit-loss", r.financeHandler.ProfitLossReport)
			tenants.GET("/:id/reports/cash-flow", r.financeHandler.CashFlowReport)
			tenants.GET("/:id/reports/vehicles/:vehicleId", r.financeHandler.VehicleProfitability)
			tenants.GET("/:id/reports/summary", r.financeHandler.FinancialSummary)
		}

		expenses := api.Group("/expenses")
		{
			expenses.POST("/:expenseId/approve", r.financeHandler.ApproveExpense)
			expenses.POST("/:expenseId/reject", r.financeHandler.RejectExpense)
		}

		plans := api.Group("/plans")
		{
			plans.GET("", r.planHandler.ListPlans)
			plans.GET("/:tier", r.planHandler.GetPlan)
			plans.PUT("/:tier", r.planHandler.UpdatePlan)
		}
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
