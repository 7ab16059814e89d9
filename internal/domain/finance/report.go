package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/manyinyire/fleetbackend-sub002/internal/shared/biztime"
)

// ProfitLossReport is a transient aggregate over a date range. Income counts
// unconditionally; expenses count only once approved.
type ProfitLossReport struct {
	PeriodStart        time.Time                  `json:"period_start"`
	PeriodEnd          time.Time                  `json:"period_end"`
	TotalIncome        decimal.Decimal            `json:"total_income"`
	TotalExpenses      decimal.Decimal            `json:"total_expenses"`
	NetProfit          decimal.Decimal            `json:"net_profit"`
	ProfitMargin       decimal.Decimal            `json:"profit_margin"`
	IncomeBySource     map[string]decimal.Decimal `json:"income_by_source"`
	ExpensesByCategory map[string]decimal.Decimal `json:"expenses_by_category"`
}

// BuildProfitLossReport sums income and approved expenses over the range.
func BuildProfitLossReport(start, end time.Time, incomes []*Income, expenses []*Expense) *ProfitLossReport {
	report := &ProfitLossReport{
		PeriodStart:        start,
		PeriodEnd:          end,
		TotalIncome:        decimal.Zero,
		TotalExpenses:      decimal.Zero,
		IncomeBySource:     make(map[string]decimal.Decimal),
		ExpensesByCategory: make(map[string]decimal.Decimal),
	}

	for _, inc := range incomes {
		report.TotalIncome = report.TotalIncome.Add(inc.Amount())
		report.IncomeBySource[inc.Source()] = report.IncomeBySource[inc.Source()].Add(inc.Amount())
	}

	for _, exp := range expenses {
		if !exp.IsApproved() {
			continue
		}
		report.TotalExpenses = report.TotalExpenses.Add(exp.Amount())
		report.ExpensesByCategory[exp.Category()] = report.ExpensesByCategory[exp.Category()].Add(exp.Amount())
	}

	report.NetProfit = report.TotalIncome.Sub(report.TotalExpenses)
	report.ProfitMargin = profitMargin(report.NetProfit, report.TotalIncome)

	return report
}

// profitMargin is net/income as a percentage, defined as 0 when income is 0.
func profitMargin(net, income decimal.Decimal) decimal.Decimal {
	if income.IsZero() {
		return decimal.Zero
	}
	return net.Div(income).Mul(decimal.NewFromInt(100)).Round(2)
}

// CashFlowDay is one calendar day's movement in a cash flow report.
type CashFlowDay struct {
	Date     time.Time       `json:"date"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// CashFlowReport is a transient per-day cash movement aggregate. It works on
// raw records; the approval workflow does not gate cash flow.
type CashFlowReport struct {
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Days           []CashFlowDay   `json:"days"`
}

// BuildCashFlowReport buckets raw income and expense records by UTC calendar
// day and runs a balance across the range.
func BuildCashFlowReport(start, end time.Time, openingBalance decimal.Decimal, incomes []*Income, expenses []*Expense) *CashFlowReport {
	type bucket struct {
		income   decimal.Decimal
		expenses decimal.Decimal
	}
	buckets := make(map[time.Time]*bucket)

	dayBucket := func(t time.Time) *bucket {
		day := biztime.TruncateToDayUTC(t)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{income: decimal.Zero, expenses: decimal.Zero}
			buckets[day] = b
		}
		return b
	}

	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero

	for _, inc := range incomes {
		b := dayBucket(inc.Date())
		b.income = b.income.Add(inc.Amount())
		totalIncome = totalIncome.Add(inc.Amount())
	}
	for _, exp := range expenses {
		b := dayBucket(exp.Date())
		b.expenses = b.expenses.Add(exp.Amount())
		totalExpenses = totalExpenses.Add(exp.Amount())
	}

	days := make([]time.Time, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	report := &CashFlowReport{
		PeriodStart:    start,
		PeriodEnd:      end,
		OpeningBalance: openingBalance,
		TotalIncome:    totalIncome,
		TotalExpenses:  totalExpenses,
		ClosingBalance: openingBalance.Add(totalIncome).Sub(totalExpenses),
		Days:           make([]CashFlowDay, 0, len(days)),
	}

	for _, day := range days {
		b := buckets[day]
		report.Days = append(report.Days, CashFlowDay{
			Date:     day,
			Income:   b.income,
			Expenses: b.expenses,
			Net:      b.income.Sub(b.expenses),
		})
	}

	return report
}

// VehicleProfitabilityReport scopes the income-minus-approved-expense
// computation to one vehicle.
type VehicleProfitabilityReport struct {
	VehicleID     uint            `json:"vehicle_id"`
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
}

// BuildVehicleProfitabilityReport sums a single vehicle's income and approved
// expenses over the range.
func BuildVehicleProfitabilityReport(vehicleID uint, start, end time.Time, incomes []*Income, expenses []*Expense) *VehicleProfitabilityReport {
	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero

	for _, inc := range incomes {
		totalIncome = totalIncome.Add(inc.Amount())
	}
	for _, exp := range expenses {
		if !exp.IsApproved() {
			continue
		}
		totalExpenses = totalExpenses.Add(exp.Amount())
	}

	net := totalIncome.Sub(totalExpenses)

	return &VehicleProfitabilityReport{
		VehicleID:     vehicleID,
		PeriodStart:   start,
		PeriodEnd:     end,
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		NetProfit:     net,
		ProfitMargin:  profitMargin(net, totalIncome),
	}
}

// FinancialSummary composes the profit/loss report with what is still
// awaiting approval.
type FinancialSummary struct {
	ProfitLoss          *ProfitLossReport `json:"profit_loss"`
	PendingExpenseCount int               `json:"pending_expense_count"`
	PendingExpenseTotal decimal.Decimal   `json:"pending_expense_total"`
}

// BuildFinancialSummary builds a P&L report plus the pending expense tally.
func BuildFinancialSummary(start, end time.Time, incomes []*Income, expenses []*Expense) *FinancialSummary {
	summary := &FinancialSummary{
		ProfitLoss:          BuildProfitLossReport(start, end, incomes, expenses),
		PendingExpenseTotal: decimal.Zero,
	}

	for _, exp := range expenses {
		if exp.Status() == ExpensePending {
			summary.PendingExpenseCount++
			summary.PendingExpenseTotal = summary.PendingExpenseTotal.Add(exp.Amount())
		}
	}

	return summary
}
