package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/utils"
)

// PlanConfigStore persists admin plan overrides.
type PlanConfigStore interface {
	Save(ctx context.Context, config *billing.PlanConfig) error
}

// PlanCacheInvalidator drops a cached plan override after an update.
type PlanCacheInvalidator interface {
	Invalidate(ctx context.Context, tier billing.PlanTier) error
}

// PlanHandler serves the plan catalog and the admin override surface.
type PlanHandler struct {
	catalog *billing.Catalog
	store   PlanConfigStore
	cache   PlanCacheInvalidator
	logger  logger.Interface
}

// NewPlanHandler creates a PlanHandler. cache may be nil when caching is
// disabled.
func NewPlanHandler(catalog *billing.Catalog, store PlanConfigStore, cache PlanCacheInvalidator, logger logger.Interface) *PlanHandler {
	return &PlanHandler{
		catalog: catalog,
		store:   store,
		cache:   cache,
		logger:  logger,
	}
}

// ListPlans returns the configuration for every plan tier.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	configs := h.catalog.ListPlanConfigs(c.Request.Context())
	utils.SuccessResponse(c, http.StatusOK, "", configs)
}

// GetPlan returns the configuration for one tier.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	tier, err := billing.ParsePlanTier(c.Param("tier"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	config := h.catalog.GetPlanConfig(c.Request.Context(), tier)
	utils.SuccessResponse(c, http.StatusOK, "", config)
}

// UpdatePlanRequest represents the request to override a plan's configuration
type UpdatePlanRequest struct {
	DisplayName  string   `json:"display_name" binding:"required,min=1,max=100"`
	Description  string   `json:"description" binding:"max=500"`
	MonthlyPrice string   `json:"monthly_price" binding:"required"`
	YearlyPrice  string   `json:"yearly_price" binding:"required"`
	Features     []string `json:"features"`
	MaxVehicles  int      `json:"max_vehicles" binding:"min=-1"`
	MaxUsers     int      `json:"max_users" binding:"min=-1"`
	MaxDrivers   int      `json:"max_drivers" binding:"min=-1"`
}

// UpdatePlan stores an admin override for a tier and invalidates its cache
// entry so the new pricing takes effect immediately.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	tier, err := billing.ParsePlanTier(c.Param("tier"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update plan", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	monthlyPrice, ok := parsePrice(req.MonthlyPrice)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "monthly_price must be a non-negative decimal")
		return
	}
	yearlyPrice, ok := parsePrice(req.YearlyPrice)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "yearly_price must be a non-negative decimal")
		return
	}

	config := &billing.PlanConfig{
		Tier:         tier,
		DisplayName:  req.DisplayName,
		Description:  req.Description,
		MonthlyPrice: monthlyPrice,
		YearlyPrice:  yearlyPrice,
		Features:     req.Features,
		Limits: billing.PlanLimits{
			MaxVehicles: req.MaxVehicles,
			MaxUsers:    req.MaxUsers,
			MaxDrivers:  req.MaxDrivers,
		},
	}

	if err := h.store.Save(c.Request.Context(), config); err != nil {
		h.logger.Errorw("failed to save plan config", "error", err, "tier", tier)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(c.Request.Context(), tier); err != nil {
			// Stale cache entries expire on their own TTL.
			h.logger.Warnw("failed to invalidate plan config cache", "error", err, "tier", tier)
		}
	}

	h.logger.Infow("plan config updated", "tier", tier)
	utils.SuccessResponse(c, http.StatusOK, "Plan updated successfully", config)
}

func parsePrice(raw string) (decimal.Decimal, bool) {
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return decimal.Decimal{}, false
	}
	return price, true
}
