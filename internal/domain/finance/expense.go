package finance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus is the approval state of an expense record.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
)

var ValidExpenseStatuses = map[ExpenseStatus]bool{
	ExpensePending:  true,
	ExpenseApproved: true,
	ExpenseRejected: true,
}

// ParseExpenseStatus parses and validates an expense status string.
func ParseExpenseStatus(value string) (ExpenseStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	status := ExpenseStatus(normalized)

	if !ValidExpenseStatuses[status] {
		return "", fmt.Errorf("invalid expense status: %s", value)
	}
	return status, nil
}

var (
	ErrExpenseNotPending = errors.New("expense is not pending approval")
)

// Expense is a tenant cost record. Only approved expenses count toward
// profit/loss; pending records surface in the financial summary.
type Expense struct {
	id        uint
	tenantID  uint
	amount    decimal.Decimal
	date      time.Time
	category  string
	status    ExpenseStatus
	vehicleID *uint
	createdAt time.Time
	updatedAt time.Time
}

// NewExpense creates a pending expense record.
func NewExpense(tenantID uint, amount decimal.Decimal, date time.Time, category string, vehicleID *uint, now time.Time) (*Expense, error) {
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if category == "" {
		return nil, fmt.Errorf("expense category is required")
	}

	return &Expense{
		tenantID:  tenantID,
		amount:    amount,
		date:      date,
		category:  category,
		status:    ExpensePending,
		vehicleID: vehicleID,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructExpense rebuilds an expense record from persistence.
func ReconstructExpense(id, tenantID uint, amount decimal.Decimal, date time.Time, category string, status ExpenseStatus, vehicleID *uint, createdAt, updatedAt time.Time) (*Expense, error) {
	if id == 0 {
		return nil, fmt.Errorf("expense ID cannot be zero")
	}
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}
	if !ValidExpenseStatuses[status] {
		return nil, fmt.Errorf("invalid expense status: %s", status)
	}

	return &Expense{
		id:        id,
		tenantID:  tenantID,
		amount:    amount,
		date:      date,
		category:  category,
		status:    status,
		vehicleID: vehicleID,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (e *Expense) ID() uint                { return e.id }
func (e *Expense) TenantID() uint          { return e.tenantID }
func (e *Expense) Amount() decimal.Decimal { return e.amount }
func (e *Expense) Date() time.Time         { return e.date }
func (e *Expense) Category() string        { return e.category }
func (e *Expense) Status() ExpenseStatus   { return e.status }
func (e *Expense) VehicleID() *uint        { return e.vehicleID }
func (e *Expense) CreatedAt() time.Time    { return e.createdAt }
func (e *Expense) UpdatedAt() time.Time    { return e.updatedAt }

// SetID sets the expense ID (only for persistence layer use).
func (e *Expense) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("expense ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("expense ID cannot be zero")
	}
	e.id = id
	return nil
}

// Approve moves a pending expense into the approved state.
func (e *Expense) Approve(now time.Time) error {
	if e.status != ExpensePending {
		return ErrExpenseNotPending
	}
	e.status = ExpenseApproved
	e.updatedAt = now
	return nil
}

// Reject moves a pending expense into the rejected state.
func (e *Expense) Reject(now time.Time) error {
	if e.status != ExpensePending {
		return ErrExpenseNotPending
	}
	e.status = ExpenseRejected
	e.updatedAt = now
	return nil
}

// IsApproved reports whether the expense counts toward profit/loss.
func (e *Expense) IsApproved() bool {
	return e.status == ExpenseApproved
}
