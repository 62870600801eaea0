package instancepool

import "errors"

// Pool errors
var (
	ErrInvalidConfiguration = errors.New("instancepool: invalid configuration")
	ErrInvalidArgument      = errors.New("instancepool: invalid argument")
	ErrAllocationFailed     = errors.New("instancepool: allocation failed")
)
