package visit

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("visit not found")
	ErrInvalidStatus = errors.New("invalid status value")
	ErrReasonMissing = errors.New("cancellation reason required")
)
