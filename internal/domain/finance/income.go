package finance

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNonPositiveAmount is returned for zero or negative monetary amounts.
	ErrNonPositiveAmount = errors.New("amount must be positive")
)

// Income is a tenant revenue record. Amounts must be strictly positive.
type Income struct {
	id        uint
	tenantID  uint
	amount    decimal.Decimal
	date      time.Time
	source    string
	vehicleID *uint
	createdAt time.Time
}

// NewIncome creates an income record.
func NewIncome(tenantID uint, amount decimal.Decimal, date time.Time, source string, vehicleID *uint, now time.Time) (*Income, error) {
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if source == "" {
		return nil, fmt.Errorf("income source is required")
	}

	return &Income{
		tenantID:  tenantID,
		amount:    amount,
		date:      date,
		source:    source,
		vehicleID: vehicleID,
		createdAt: now,
	}, nil
}

// ReconstructIncome rebuilds an income record from persistence.
func ReconstructIncome(id, tenantID uint, amount decimal.Decimal, date time.Time, source string, vehicleID *uint, createdAt time.Time) (*Income, error) {
	if id == 0 {
		return nil, fmt.Errorf("income ID cannot be zero")
	}
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}

	return &Income{
		id:        id,
		tenantID:  tenantID,
		amount:    amount,
		date:      date,
		source:    source,
		vehicleID: vehicleID,
		createdAt: createdAt,
	}, nil
}

func (i *Income) ID() uint                { return i.id }
func (i *Income) TenantID() uint          { return i.tenantID }
func (i *Income) Amount() decimal.Decimal { return i.amount }
func (i *Income) Date() time.Time         { return i.date }
func (i *Income) Source() string          { return i.source }
func (i *Income) VehicleID() *uint        { return i.vehicleID }
func (i *Income) CreatedAt() time.Time    { return i.createdAt }

// SetID sets the income ID (only for persistence layer use).
func (i *Income) SetID(id uint) error {
	if i.id != 0 {
		return fmt.Errorf("income ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("income ID cannot be zero")
	}
	i.id = id
	return nil
}
