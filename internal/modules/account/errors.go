package account

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrNotConfirmed       = errors.New("email address is not confirmed")
	ErrNotFound           = errors.New("account not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrSelfDelete         = errors.New("an account cannot delete itself")
	ErrAdminImmutable     = errors.New("the principal admin cannot be removed")
	ErrTokenInvalid       = errors.New("token is invalid or already used")
)
