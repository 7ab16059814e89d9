package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/manyinyire/fleetbackend-sub002/internal/application/finance/usecases"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/finance"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/biztime"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/utils"
)

// FinanceHandler exposes income/expense recording and financial reports.
type FinanceHandler struct {
	recordIncomeUC   *usecases.RecordIncomeUseCase
	recordExpenseUC  *usecases.RecordExpenseUseCase
	approveExpenseUC *usecases.ApproveExpenseUseCase
	rejectExpenseUC  *usecases.RejectExpenseUseCase
	profitLossUC     *usecases.ProfitLossReportUseCase
	cashFlowUC       *usecases.CashFlowReportUseCase
	vehicleProfitUC  *usecases.VehicleProfitabilityUseCase
	summaryUC        *usecases.FinancialSummaryUseCase
	logger           logger.Interface
}

func NewFinanceHandler(
	recordIncomeUC *usecases.RecordIncomeUseCase,
	recordExpenseUC *usecases.RecordExpenseUseCase,
	approveExpenseUC *usecases.ApproveExpenseUseCase,
	rejectExpenseUC *usecases.RejectExpenseUseCase,
	profitLossUC *usecases.ProfitLossReportUseCase,
	cashFlowUC *usecases.CashFlowReportUseCase,
	vehicleProfitUC *usecases.VehicleProfitabilityUseCase,
	summaryUC *usecases.FinancialSummaryUseCase,
	logger logger.Interface,
) *FinanceHandler {
	return &FinanceHandler{
		recordIncomeUC:   recordIncomeUC,
		recordExpenseUC:  recordExpenseUC,
		approveExpenseUC: approveExpenseUC,
		rejectExpenseUC:  rejectExpenseUC,
		profitLossUC:     profitLossUC,
		cashFlowUC:       cashFlowUC,
		vehicleProfitUC:  vehicleProfitUC,
		summaryUC:        summaryUC,
		logger:           logger,
	}
}

// RecordIncomeRequest represents the request to record an income entry
type RecordIncomeRequest struct {
	Amount    string `json:"amount" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Source    string `json:"source" binding:"required,min=1,max=100"`
	VehicleID *uint  `json:"vehicle_id"`
}

// RecordExpenseRequest represents the request to record an expense entry
type RecordExpenseRequest struct {
	Amount    string `json:"amount" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Category  string `json:"category" binding:"required,min=1,max=100"`
	VehicleID *uint  `json:"vehicle_id"`
}

// ExpenseDecisionRequest carries the actor for an approve/reject decision
type ExpenseDecisionRequest struct {
	ActorID string `json:"actor_id"`
}

// IncomeResponse is the read model for a recorded income entry.
type IncomeResponse struct {
	ID        uint      `json:"id"`
	TenantID  uint      `json:"tenant_id"`
	Amount    string    `json:"amount"`
	Date      time.Time `json:"date"`
	Source    string    `json:"source"`
	VehicleID *uint     `json:"vehicle_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpenseResponse is the read model for a recorded expense entry.
type ExpenseResponse struct {
	ID        uint      `json:"id"`
	TenantID  uint      `json:"tenant_id"`
	Amount    string    `json:"amount"`
	Date      time.Time `json:"date"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	VehicleID *uint     `json:"vehicle_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toIncomeResponse(income *finance.Income) IncomeResponse {
	return IncomeResponse{
		ID:        income.ID(),
		TenantID:  income.TenantID(),
		Amount:    income.Amount().StringFixed(2),
		Date:      income.Date(),
		Source:    income.Source(),
		VehicleID: income.VehicleID(),
		CreatedAt: income.CreatedAt(),
	}
}

func toExpenseResponse(expense *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        expense.ID(),
		TenantID:  expense.TenantID(),
		Amount:    expense.Amount().StringFixed(2),
		Date:      expense.Date(),
		Category:  expense.Category(),
		Status:    string(expense.Status()),
		VehicleID: expense.VehicleID(),
		CreatedAt: expense.CreatedAt(),
	}
}

func parseAmount(c *gin.Context, raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "amount must be a decimal number")
		return decimal.Decimal{}, false
	}
	return amount, true
}

// parseDateParam parses a YYYY-MM-DD value interpreted in the business
// timezone. Required dates reject the empty string; optional ones return the
// zero time.
func parseDateParam(c *gin.Context, value, name string, required bool) (time.Time, bool) {
	if value == "" {
		if required {
			utils.ErrorResponse(c, http.StatusBadRequest, name+" is required (YYYY-MM-DD)")
			return time.Time{}, false
		}
		return time.Time{}, true
	}

	parsed, err := biztime.ParseDateInBizTimezone(value)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, name+" must be a valid date (YYYY-MM-DD)")
		return time.Time{}, false
	}
	return parsed, true
}

func parseExpenseID(c *gin.Context) (uint, bool) {
	idStr := c.Param("expenseId")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid expense ID")
		return 0, false
	}
	return uint(id), true
}

// RecordIncome records an income entry for the tenant.
func (h *FinanceHandler) RecordIncome(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	var req RecordIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for record income", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}
	date, ok := parseDateParam(c, req.Date, "date", true)
	if !ok {
		return
	}

	income, err := h.recordIncomeUC.Execute(c.Request.Context(), usecases.RecordIncomeCommand{
		TenantID:  tenantID,
		Amount:    amount,
		Date:      date,
		Source:    req.Source,
		VehicleID: req.VehicleID,
	})
	if err != nil {
		h.logger.Errorw("failed to record income", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toIncomeResponse(income), "Income recorded successfully")
}

// RecordExpense records a pending expense entry for the tenant.
func (h *FinanceHandler) RecordExpense(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	var req RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for record expense", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}
	date, ok := parseDateParam(c, req.Date, "date", true)
	if !ok {
		return
	}

	expense, err := h.recordExpenseUC.Execute(c.Request.Context(), usecases.RecordExpenseCommand{
		TenantID:  tenantID,
		Amount:    amount,
		Date:      date,
		Category:  req.Category,
		VehicleID: req.VehicleID,
	})
	if err != nil {
		h.logger.Errorw("failed to record expense", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toExpenseResponse(expense), "Expense recorded successfully")
}

// ApproveExpense approves a pending expense so it counts in reports.
func (h *FinanceHandler) ApproveExpense(c *gin.Context) {
	expenseID, ok := parseExpenseID(c)
	if !ok {
		return
	}

	var req ExpenseDecisionRequest
	_ = c.ShouldBindJSON(&req)

	err := h.approveExpenseUC.Execute(c.Request.Context(), usecases.ApproveExpenseCommand{
		ExpenseID: expenseID,
		ActorID:   req.ActorID,
	})
	if err != nil {
		h.logger.Errorw("failed to approve expense", "error", err, "expense_id", expenseID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expense approved successfully", nil)
}

// RejectExpense rejects a pending expense.
func (h *FinanceHandler) RejectExpense(c *gin.Context) {
	expenseID, ok := parseExpenseID(c)
	if !ok {
		return
	}

	var req ExpenseDecisionRequest
	_ = c.ShouldBindJSON(&req)

	err := h.rejectExpenseUC.Execute(c.Request.Context(), usecases.RejectExpenseCommand{
		ExpenseID: expenseID,
		ActorID:   req.ActorID,
	})
	if err != nil {
		h.logger.Errorw("failed to reject expense", "error", err, "expense_id", expenseID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expense rejected successfully", nil)
}

// ProfitLossReport returns the profit and loss report for a date range.
func (h *FinanceHandler) ProfitLossReport(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	start, ok := parseDateParam(c, c.Query("start"), "start", true)
	if !ok {
		return
	}
	end, ok := parseDateParam(c, c.Query("end"), "end", true)
	if !ok {
		return
	}

	report, err := h.profitLossUC.Execute(c.Request.Context(), usecases.ProfitLossReportQuery{
		TenantID: tenantID,
		Start:    start,
		End:      end,
	})
	if err != nil {
		h.logger.Errorw("failed to build profit/loss report", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", report)
}

// CashFlowReport returns the monthly cash flow report for a date range. An
// optional opening_balance query parameter seeds the running balance.
func (h *FinanceHandler) CashFlowReport(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	start, ok := parseDateParam(c, c.Query("start"), "start", true)
	if !ok {
		return
	}
	end, ok := parseDateParam(c, c.Query("end"), "end", true)
	if !ok {
		return
	}

	openingBalance := decimal.Zero
	if raw := c.Query("opening_balance"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "opening_balance must be a decimal number")
			return
		}
		openingBalance = parsed
	}

	report, err := h.cashFlowUC.Execute(c.Request.Context(), usecases.CashFlowReportQuery{
		TenantID:       tenantID,
		Start:          start,
		End:            end,
		OpeningBalance: openingBalance,
	})
	if err != nil {
		h.logger.Errorw("failed to build cash flow report", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", report)
}

// VehicleProfitability returns per-vehicle profitability for a date range.
func (h *FinanceHandler) VehicleProfitability(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	vehicleIDStr := c.Param("vehicleId")
	vehicleID, err := strconv.ParseUint(vehicleIDStr, 10, 64)
	if err != nil || vehicleID == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid vehicle ID")
		return
	}

	start, ok := parseDateParam(c, c.Query("start"), "start", true)
	if !ok {
		return
	}
	end, ok := parseDateParam(c, c.Query("end"), "end", true)
	if !ok {
		return
	}

	report, execErr := h.vehicleProfitUC.Execute(c.Request.Context(), usecases.VehicleProfitabilityQuery{
		TenantID:  tenantID,
		VehicleID: uint(vehicleID),
		Start:     start,
		End:       end,
	})
	if execErr != nil {
		h.logger.Errorw("failed to build vehicle profitability report", "error", execErr, "tenant_id", tenantID, "vehicle_id", vehicleID)
		utils.ErrorResponseWithError(c, execErr)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", report)
}

// FinancialSummary returns the aggregate financial summary for a date range.
func (h *FinanceHandler) FinancialSummary(c *gin.Context) {
	tenantID, ok := parseTenantID(c)
	if !ok {
		return
	}

	start, ok := parseDateParam(c, c.Query("start"), "start", true)
	if !ok {
		return
	}
	end, ok := parseDateParam(c, c.Query("end"), "end", true)
	if !ok {
		return
	}

	summary, err := h.summaryUC.Execute(c.Request.Context(), usecases.FinancialSummaryQuery{
		TenantID: tenantID,
		Start:    start,
		End:      end,
	})
	if err != nil {
		h.logger.Errorw("failed to build financial summary", "error", err, "tenant_id", tenantID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", summary)
}
