package tenant

import "errors"

var (
	ErrTenantNotFound    = errors.New("tenant not found")
	ErrAlreadyInTrial    = errors.New("tenant is already in trial")
	ErrNotInTrial        = errors.New("tenant is not in trial")
	ErrNotCanceled       = errors.New("subscription is not canceled")
	ErrAutoRenewDisabled = errors.New("auto-renewal is disabled")
	ErrSamePlanAndCycle  = errors.New("already on target plan and billing cycle")
	ErrInvalidStatus     = errors.New("invalid subscription status")
	ErrCancelNotAllowed  = errors.New("subscription cannot be canceled in its current status")
)
