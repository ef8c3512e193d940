package domain

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	ErrNotEnoughBalance  = errors.New("not enough balance")
	ErrNegativeBalance   = errors.New("balance must not be negative")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrInvalidPhone      = errors.New("phone must be 9 digits")
	ErrNoActivePlan      = errors.New("no active plan")
	ErrAlreadyCollected  = errors.New("daily income already collected today")
	ErrAlreadyProcessed  = errors.New("transaction already processed")
	ErrAlreadyOwned      = errors.New("plan already owned")
	ErrDowngradeDenied   = errors.New("downgrade to a cheaper plan is not allowed")
	ErrWithdrawOutBounds = errors.New("amount is out of plan withdraw limits")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrMissingProof      = errors.New("payment proof is required")
	ErrMissingSender     = errors.New("sender phone is required")
)
