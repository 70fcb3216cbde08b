package secheaders

import "errors"

var (
	ErrLoadPolicy     = errors.New("secheaders: failed to load policy")
	ErrInvalidPolicy  = errors.New("secheaders: invalid policy")
	ErrEmptyDirective = errors.New("secheaders: csp directive without a name")
)
