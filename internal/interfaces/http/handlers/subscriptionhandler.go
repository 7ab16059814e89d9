package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manyinyire/fleetbackend-sub002/internal/application/subscription/usecases"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/utils"
)

// SubscriptionHandler exposes the subscription lifecycle over HTTP.
type SubscriptionHandler struct {
	tenants        tenant.Repository
	history        tenant.HistoryRepository
	startTrialUC   *usecases.StartTrialUseCase
	endTrialUC     *usecases.EndTrialUseCase
	changePlanUC   *usecases.ChangePlanUseCase
	cancelUC       *usecases.CancelSubscriptionUseCase
	reactivateUC   *usecases.ReactivateSubscriptionUseCase
	renewUC        *usecases.RenewSubscriptionUseCase
	validateLimits *usecases.ValidatePlanLimitsUseCase
	clock          clock.Clock
	logger         logger.Interface
}

func NewSubscriptionHandler(
	tenants tenant.Repository,
	history tenant.HistoryRepository,
	startTrialUC *usecases.StartTrialUseCase,
	endTrialUC *usecases.EndTrialUseCase,
	changePlanUC *usecases.ChangePlanUseCase,
	cancelUC *usecases.CancelSubscriptionUseCase,
	reactivateUC *usecases.ReactivateSubscriptionUseCase,
	renewUC *usecases.RenewSubscriptionUseCase,
	validateLimits *usecases.ValidatePlanLimitsUseCase,
	clk clock.Clock,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		tenants:        tenants,
		history:        history,
		startTrialUC:   startTrialUC,
		endTrialUC:     endTrialUC,
		changePlanUC:   changePlanUC,
		cancelUC:       cancelUC,
		reactivateUC:   reactivateUC,
		renewUC:        renewUC,
		validateLimits: validateLimits,
		clock:          clk,
		logger:         logger,
	}
}

// CreateTenantRequest represents the request to register a tenant
type CreateTenantRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// StartTrialRequest represents the request to start a free trial
type StartTrialRequest struct {
	DurationDays int `json:"duration_days" binding:"omitempty,min=1,max=365"`
}

// EndTrialRequest represents the request to end a trial early
type EndTrialRequest struct {
	ConversionPlan string `json:"conversion_plan" binding:"omitempty,oneof=free basic premium"`
}

// ChangePlanRequest represents the request to change plan and/or cycle
type ChangePlanRequest struct {
	Plan         string  `json:"plan" binding:"required,oneof=free basic premium"`
	BillingCycle *string `json:"billing_cycle" binding:"omitempty,oneof=monthly yearly"`
	Prorate      bool    `json:"prorate"`
	ActorID      string  `json:"actor_id"`
}

// CancelRequest represents the request to cancel a subscription
type CancelRequest struct {
	Reason    string `json:"reason"`
	Immediate bool   `json:"immediate"`
	ActorID   string `json:"actor_id"`
}

// ReactivateRequest represents the request to reactivate a canceled subscription
type ReactivateRequest struct {
	Plan    string `json:"plan" binding:"required,oneof=free basic premium"`
	ActorID string `json:"actor_id"`
}

// SubscriptionResponse is the read model for a tenant's subscription state.
type SubscriptionResponse struct {
	TenantID          uint       `json:"tenant_id"`
	SID               string     `json:"sid"`
	Name              string     `json:"name"`
	Plan              string     `json:"plan"`
	BillingCycle      string     `json:"billing_cycle"`
	Status            string     `json:"status"`
	SubscriptionStart time.Time  `json:"subscription_start"`
	SubscriptionEnd   time.Time  `json:"subscription_end"`
	IsInTrial         bool       `json:"is_in_trial"`
	TrialEndsAt       *time.Time `json:"trial_ends_at,omitempty"`
	AutoRenew         bool       `json:"auto_renew"`
	MonthlyRevenue    string     `json:"monthly_revenue"`
	CanceledAt        *time.Time `json:"canceled_at,omitempty"`
	CancelReason      *string    `json:"cancel_reason,omitempty"`
}

// HistoryEntryResponse is the read model for one audit trail entry.
type HistoryEntryResponse struct {
	ID         uint                   `json:"id"`
	ChangeType string                 `json:"change_type"`
	FromPlan   string                 `json:"from_plan"`
	ToPlan     string                 `json:"to_plan"`
	ChangedBy  string                 `json:"changed_by"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

func toSubscriptionResponse(t *tenant.Tenant) SubscriptionResponse {
	return SubscriptionResponse{
		TenantID:          t.ID(),
		SID:               t.SID(),
		Name:              t.Name(),
		Plan:              t.Plan().String(),
		BillingCycle:      t.BillingCycle().String(),
		Status:            t.Status().String(),
		SubscriptionStart: t.SubscriptionStart(),
		SubscriptionEnd:   t.SubscriptionEnd(),
		IsInTrial:         t.IsInTrial(),
		TrialEndsAt:       t.TrialEndsAt(),
		AutoRenew:         t.AutoRenew(),
		MonthlyRevenue:    t.MonthlyRevenue().StringFixed(2),
		CanceledAt:        t.CanceledAt(),
		CancelReason:      t.CancelReason(),
	}
}

func parseTenantID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid tenant ID")
		return 0, false
	}
	return uint(id), true
}

// CreateTenant registers a new tenant on the free plan.
func (h *SubscriptionHandler) CreateTenant(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create tenant", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := tenant.NewTenant(req.Name, h.clock.Now())
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.tenants.Create(c.Request.Context(), t); err != nil {
		h.logger.Errorw("failed to create tenant", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toSubscriptionResponse(t), "Tenant created successfully")
}

// GetSubscription returns the tenant's current subscription state.
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	t, err := h.tenants.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		h.logger.Errorw("failed to get tenant", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}
	if t == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Tenant not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toSubscriptionResponse(t))
}

// GetHistory returns the tenant's subscription audit trail, newest first.
func (h *SubscriptionHandler) GetHistory(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	entries, err := h.history.ListByTenantID(c.Request.Context(), tenantID)
	if err != nil {
		h.logger.Errorw("failed to list subscription history", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	response := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, HistoryEntryResponse{
			ID:         entry.ID(),
			ChangeType: string(entry.ChangeType()),
			FromPlan:   entry.FromPlan().String(),
			ToPlan:     entry.ToPlan().String(),
			ChangedBy:  entry.ChangedBy(),
			Metadata:   entry.Metadata(),
			CreatedAt:  entry.CreatedAt(),
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "", response)
}

// StartTrial starts a free trial for the tenant.
func (h *SubscriptionHandler) StartTrial(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	var req StartTrialRequest
	// Empty body means the default trial length.
	_ = c.ShouldBindJSON(&req)

	result, err := h.startTrialUC.Execute(c.Request.Context(), usecases.StartTrialCommand{
		TenantID:     tenantID,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		h.logger.Errorw("failed to start trial", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trial started successfully", result)
}

// EndTrial ends a trial, converting to the requested plan.
func (h *SubscriptionHandler) EndTrial(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	var req EndTrialRequest
	_ = c.ShouldBindJSON(&req)

	err := h.endTrialUC.Execute(c.Request.Context(), usecases.EndTrialCommand{
		TenantID:       tenantID,
		ConversionPlan: billing.PlanTier(req.ConversionPlan),
	})
	if err != nil {
		h.logger.Errorw("failed to end trial", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trial ended successfully", nil)
}

// ChangePlan switches the tenant's plan and/or billing cycle.
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for change plan", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := usecases.ChangePlanCommand{
		TenantID:   tenantID,
		TargetPlan: billing.PlanTier(req.Plan),
		Prorate:    req.Prorate,
		ActorID:    req.ActorID,
	}
	if req.BillingCycle != nil {
		cycle := billing.BillingCycle(*req.BillingCycle)
		cmd.BillingCycle = &cycle
	}

	result, err := h.changePlanUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to change plan", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan changed successfully", result)
}

// Cancel cancels the tenant's subscription.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	err := h.cancelUC.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		TenantID:  tenantID,
		Immediate: req.Immediate,
		Reason:    req.Reason,
		ActorID:   req.ActorID,
	})
	if err != nil {
		h.logger.Errorw("failed to cancel subscription", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription canceled successfully", nil)
}

// Reactivate restores a canceled subscription.
func (h *SubscriptionHandler) Reactivate(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	var req ReactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for reactivate", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.reactivateUC.Execute(c.Request.Context(), usecases.ReactivateSubscriptionCommand{
		TenantID: tenantID,
		NewPlan:  billing.PlanTier(req.Plan),
		ActorID:  req.ActorID,
	})
	if err != nil {
		h.logger.Errorw("failed to reactivate subscription", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription reactivated successfully", nil)
}

// Renew manually renews the subscription for another billing period.
func (h *SubscriptionHandler) Renew(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	result, err := h.renewUC.Execute(c.Request.Context(), usecases.RenewSubscriptionCommand{
		TenantID: tenantID,
	})
	if err != nil {
		h.logger.Errorw("failed to renew subscription", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription renewed successfully", result)
}

// ValidateLimits checks the tenant's resource usage against plan limits. An
// optional plan query parameter validates against a prospective plan.
func (h *SubscriptionHandler) ValidateLimits(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	result, err := h.validateLimits.Execute(c.Request.Context(), usecases.ValidatePlanLimitsCommand{
		TenantID:   tenantID,
		TargetPlan: billing.PlanTier(c.Query("plan")),
	})
	if err != nil {
		h.logger.Errorw("failed to validate plan limits", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
