package visitor

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("visitor entry not found")
)
