package service

import "errors"

// Business-rule violations callers are expected to handle. Anything else
// coming out of the service is a storage or encoding failure and should reach
// the top-level handler.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrBelowMinimum       = errors.New("amount below minimum withdrawal")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("transaction already processed")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
