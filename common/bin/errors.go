package bin

import "errors"

// errors
var (
	ErrInvalidLength = errors.New("invalid length")
	ErrTooLarge      = errors.New("too large")
)
