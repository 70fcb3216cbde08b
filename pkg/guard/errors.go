package guard

import "errors"

var (
	ErrFailedToBindQuery = errors.New("failed to bind query parameters")
	ErrFailedToBindForm  = errors.New("failed to bind form data")
	ErrInvalidTarget     = errors.New("bind target must be a non-nil pointer to struct")
	ErrInvalidValue      = errors.New("invalid parameter value")
	ErrUnsupportedType   = errors.New("unsupported field type")
)
