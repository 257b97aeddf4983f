package donation

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("donation not found")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrGatewayDisabled = errors.New("payment gateway is not configured")
	ErrBadWebhook      = errors.New("webhook verification failed")
)
